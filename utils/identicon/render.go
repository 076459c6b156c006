package identicon

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
)

// MaxSize PNGで表現可能な最大の一辺の長さ
const MaxSize = math.MaxInt32

// ErrInvalidSize 画像サイズが正の整数でないか、表現可能な範囲を超えています
var ErrInvalidSize = errors.New("invalid identicon size")

// NRGBAバッファ(4byte/pixel)をintで確保できる最大の一辺の長さ
var maxBufferSide = int(math.Sqrt(float64(math.MaxInt/4))) - 1

// ValidateSize sizeが生成可能な画像サイズかどうかを検証します
func ValidateSize(size int) error {
	if size <= 0 || size > MaxSize || size > maxBufferSide {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return nil
}

// Layout キャンバス上のセル配置
type Layout struct {
	// Cell セルの一辺の長さ. ceil(size/5)
	Cell int
	// Padding セルの内側の余白. floor(Cell*0.1)
	Padding int
}

// NewLayout sizeに対するセル配置を計算します
func NewLayout(size int) Layout {
	cell := (size + GridSize - 1) / GridSize
	return Layout{Cell: cell, Padding: cell / 10}
}

// Rect (x, y)のセルの塗りつぶし範囲. キャンバス外にはみ出すことがあります
func (l Layout) Rect(x, y int) image.Rectangle {
	side := l.Cell - 2*l.Padding
	p := image.Pt(x*l.Cell+l.Padding, y*l.Cell+l.Padding)
	return image.Rectangle{Min: p, Max: p.Add(image.Pt(side, side))}
}

// Rasterize グリッドをsize x sizeの画像に描画します
//
// 塗りつぶし以外のピクセルは完全な透明です。sizeは検証済みである必要があります。
func Rasterize(c Color, g *Grid, size int) *image.NRGBA {
	img := imaging.New(size, size, color.NRGBA{})
	fg := image.NewUniform(c.NRGBA())
	l := NewLayout(size)
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			if g.Filled(x, y) {
				// はみ出した部分はdraw.Drawがクリップする
				draw.Draw(img, l.Rect(x, y), fg, image.Point{}, draw.Src)
			}
		}
	}
	return img
}

// Render グリッドを描画してPNGにエンコードします
func Render(c Color, g *Grid, size int) ([]byte, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, Rasterize(c, g, size), imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

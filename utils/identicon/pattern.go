package identicon

import (
	"image/color"
	"math"
)

// GridSize グリッドの一辺のセル数
const GridSize = 5

// Grid 左右対称なセルの塗りつぶし状態. Grid[y][x]
type Grid [GridSize][GridSize]bool

// Filled (x, y)のセルが塗りつぶされているかどうか
func (g *Grid) Filled(x, y int) bool {
	return g[y][x]
}

// Color 前景色(HSL)
type Color struct {
	// Hue 色相 [0, 360)
	Hue int
	// Saturation 彩度(%) [60, 80)
	Saturation int
	// Lightness 輝度(%) [40, 60)
	Lightness int
}

// NRGBA HSLをガンマ補正なしでRGBに変換します
func (c Color) NRGBA() color.NRGBA {
	s := float64(c.Saturation) / 100
	l := float64(c.Lightness) / 100
	a := s * math.Min(l, 1-l)
	f := func(n float64) uint8 {
		k := math.Mod(n+float64(c.Hue)/30, 12)
		v := l - a*math.Max(-1, math.Min(math.Min(k-3, 9-k), 1))
		return uint8(math.Round(v * 255))
	}
	return color.NRGBA{R: f(0), G: f(8), B: f(4), A: 0xff}
}

// RGBA implements color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Build 乱数列から前景色とグリッドを生成します
//
// 乱数の消費順は 色相, 彩度, 輝度, 左半分のセル(x外側, y内側) で固定です。
// 中央列も1セルにつき1回消費します。
func Build(rng *Mulberry32) (Color, Grid) {
	c := Color{
		Hue:        int(math.Floor(rng.Float64() * 360)),
		Saturation: 60 + int(math.Floor(rng.Float64()*20)),
		Lightness:  40 + int(math.Floor(rng.Float64()*20)),
	}

	var g Grid
	for x := 0; x < (GridSize+1)/2; x++ {
		for y := 0; y < GridSize; y++ {
			filled := rng.Float64() > 0.5
			g[y][x] = filled
			g[y][GridSize-1-x] = filled
		}
	}
	return c, g
}

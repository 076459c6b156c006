// Package identicon シード文字列から決定的なidenticon画像を生成します
//
// 同じシードとサイズからは常にバイト単位で同じPNGが生成されます。
// パッケージは状態を持たず、ネットワークアクセスやキャッシュも行いません。
package identicon

// Icon シードから導出された前景色とグリッド
type Icon struct {
	Seed  string
	Hash  uint32
	Color Color
	Grid  Grid
}

// New シードからアイコンのパターンを導出します
func New(seed string) *Icon {
	h := Hash(seed)
	c, g := Build(NewMulberry32(h))
	return &Icon{Seed: seed, Hash: h, Color: c, Grid: g}
}

// Render size x sizeのPNGにエンコードします
func (i *Icon) Render(size int) ([]byte, error) {
	return Render(i.Color, &i.Grid, size)
}

// Generate シードからsize x sizeのidenticon PNGを生成します
//
// sizeが不正な場合はErrInvalidSizeを返します。
func Generate(seed string, size int) ([]byte, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	return New(seed).Render(size)
}

package identicon

import (
	"fmt"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func gridString(g *Grid) string {
	var sb strings.Builder
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			if g.Filled(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seed  string
		color Color
		grid  string
	}{
		{
			seed:  "example.com",
			color: Color{Hue: 108, Saturation: 72, Lightness: 54},
			grid:  ".###.\n.#.#.\n.###.\n..#..\n#.#.#\n",
		},
		{
			seed:  "",
			color: Color{Hue: 220, Saturation: 69, Lightness: 55},
			grid:  ".#.#.\n##.##\n..#..\n#.#.#\n..#..\n",
		},
		{
			seed:  "a",
			color: Color{Hue: 223, Saturation: 66, Lightness: 47},
			grid:  "#####\n#####\n#.#.#\n.....\n#####\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.seed, func(t *testing.T) {
			t.Parallel()

			c, g := Build(NewMulberry32(Hash(tt.seed)))
			assert.Equal(t, tt.color, c)
			assert.Equal(t, tt.grid, gridString(&g))
		})
	}
}

func TestBuild_Invariants(t *testing.T) {
	t.Parallel()

	for i := 0; i < 500; i++ {
		seed := fmt.Sprintf("host-%d.example.com", i)
		c, g := Build(NewMulberry32(Hash(seed)))

		assert.GreaterOrEqual(t, c.Hue, 0, seed)
		assert.Less(t, c.Hue, 360, seed)
		assert.GreaterOrEqual(t, c.Saturation, 60, seed)
		assert.Less(t, c.Saturation, 80, seed)
		assert.GreaterOrEqual(t, c.Lightness, 40, seed)
		assert.Less(t, c.Lightness, 60, seed)

		for y := 0; y < GridSize; y++ {
			for x := 0; x < GridSize; x++ {
				assert.Equal(t, g.Filled(x, y), g.Filled(GridSize-1-x, y), seed)
			}
		}
	}
}

func TestBuild_ConsumesFixedDraws(t *testing.T) {
	t.Parallel()

	// 色3回 + 左半分15セル
	rng := NewMulberry32(Hash("example.com"))
	Build(rng)

	ref := NewMulberry32(Hash("example.com"))
	for i := 0; i < 3+3*GridSize; i++ {
		ref.Float64()
	}
	assert.Equal(t, ref.Float64(), rng.Float64())
}

func TestColor_NRGBA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		c    Color
		want color.NRGBA
	}{
		{Color{Hue: 108, Saturation: 72, Lightness: 54}, color.NRGBA{R: 87, G: 222, B: 53, A: 255}},
		{Color{Hue: 220, Saturation: 69, Lightness: 55}, color.NRGBA{R: 61, G: 114, B: 219, A: 255}},
		{Color{Hue: 0, Saturation: 60, Lightness: 40}, color.NRGBA{R: 163, G: 41, B: 41, A: 255}},
		{Color{Hue: 359, Saturation: 79, Lightness: 59}, color.NRGBA{R: 233, G: 68, B: 71, A: 255}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%d-%d", tt.c.Hue, tt.c.Saturation, tt.c.Lightness), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.c.NRGBA())
		})
	}
}

package identicon

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return img
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		for _, size := range []int{1, 5, 16, 64, 100} {
			a, err := Generate("example.com", size)
			require.NoError(t, err)
			b, err := Generate("example.com", size)
			require.NoError(t, err)
			assert.Equal(t, a, b)
		}
	})

	t.Run("different seeds", func(t *testing.T) {
		t.Parallel()

		a, err := Generate("a", 64)
		require.NoError(t, err)
		b, err := Generate("b", 64)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("example.com 64", func(t *testing.T) {
		t.Parallel()

		b, err := Generate("example.com", 64)
		require.NoError(t, err)
		img := decode(t, b)

		assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
		// (32, 32)は中央セル(2, 2)の内側. 中央行は".###."
		assert.Equal(t, color.NRGBA{R: 87, G: 222, B: 53, A: 255}, color.NRGBAModel.Convert(img.At(32, 32)))
		// セル(0, 2)は空
		assert.Equal(t, color.NRGBA{}, color.NRGBAModel.Convert(img.At(6, 32)))
		// 余白は透明. cell=13, padding=1
		assert.Equal(t, color.NRGBA{}, color.NRGBAModel.Convert(img.At(26, 32)))
		assert.Equal(t, color.NRGBA{R: 87, G: 222, B: 53, A: 255}, color.NRGBAModel.Convert(img.At(27, 32)))
	})

	t.Run("empty seed 1px", func(t *testing.T) {
		t.Parallel()

		b, err := Generate("", 1)
		require.NoError(t, err)
		img := decode(t, b)

		assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())
		// セル(0, 0)は空
		assert.Equal(t, color.NRGBA{}, color.NRGBAModel.Convert(img.At(0, 0)))
	})

	t.Run("invalid size", func(t *testing.T) {
		t.Parallel()

		for _, size := range []int{0, -1, -64} {
			b, err := Generate("example.com", size)
			assert.ErrorIs(t, err, ErrInvalidSize)
			assert.Nil(t, b)
		}
	})
}

func TestGenerate_TransparencyInvariant(t *testing.T) {
	t.Parallel()

	for _, seed := range []string{"", "example.com", "traq.trap.jp", "日本.jp"} {
		for _, size := range []int{1, 7, 32, 64, 99} {
			t.Run(fmt.Sprintf("%s/%d", seed, size), func(t *testing.T) {
				t.Parallel()

				icon := New(seed)
				fg := icon.Color.NRGBA()
				b, err := icon.Render(size)
				require.NoError(t, err)
				img := decode(t, b)
				require.Equal(t, image.Rect(0, 0, size, size), img.Bounds())

				l := NewLayout(size)
				for y := 0; y < size; y++ {
					for x := 0; x < size; x++ {
						got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
						cx, cy := x/l.Cell, y/l.Cell
						inside := image.Pt(x, y).In(l.Rect(cx, cy))
						if inside && icon.Grid.Filled(cx, cy) {
							assert.Equal(t, fg, got)
						} else {
							assert.Equal(t, color.NRGBA{}, got)
						}
					}
				}
			})
		}
	}
}

func TestValidateSize(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateSize(1))
	assert.NoError(t, ValidateSize(4096))
	assert.ErrorIs(t, ValidateSize(0), ErrInvalidSize)
	assert.ErrorIs(t, ValidateSize(-1), ErrInvalidSize)
	assert.ErrorIs(t, ValidateSize(maxBufferSide+1), ErrInvalidSize)
}

func TestNewLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size int
		want Layout
	}{
		{1, Layout{Cell: 1, Padding: 0}},
		{5, Layout{Cell: 1, Padding: 0}},
		{6, Layout{Cell: 2, Padding: 0}},
		{64, Layout{Cell: 13, Padding: 1}},
		{256, Layout{Cell: 52, Padding: 5}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewLayout(tt.size), tt.size)
	}
}

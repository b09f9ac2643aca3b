package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestGaussianKernel(t *testing.T) {
	for _, size := range []int{1, 3, 5, 7, 11, 15} {
		k := GaussianKernel(size, 0)
		require.Len(t, k, size)

		var sum float64
		for i, v := range k {
			sum += v
			assert.InDelta(t, v, k[size-1-i], 1e-12, "kernel %d not symmetric", size)
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "kernel %d not normalized", size)
		assert.GreaterOrEqual(t, k[size/2], k[0])
	}

	assert.Equal(t, []float64{0.0625, 0.25, 0.375, 0.25, 0.0625}, GaussianKernel(5, 0))
}

func TestBorders(t *testing.T) {
	assert.Equal(t, 1, reflect101(-1, 5))
	assert.Equal(t, 2, reflect101(-2, 5))
	assert.Equal(t, 3, reflect101(5, 5))
	assert.Equal(t, 0, reflect101(-3, 1))
	assert.Equal(t, 0, replicate(-4, 5))
	assert.Equal(t, 4, replicate(9, 5))
	assert.Equal(t, 2, replicate(2, 5))
}

func TestGrayscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 12, 11))
	src.Set(10, 10, color.RGBA{R: 255, A: 255})
	src.Set(11, 10, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	gray := Grayscale(src)
	assert.Equal(t, image.Rect(0, 0, 2, 1), gray.Bounds())
	assert.Equal(t, uint8(76), gray.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), gray.GrayAt(1, 0).Y)
}

func TestGaussianBlur_UniformStaysUniform(t *testing.T) {
	out := GaussianBlur(uniformGray(9, 7, 200), 5)
	for _, p := range out.Pix {
		assert.Equal(t, uint8(200), p)
	}
}

func TestAdaptiveThreshold(t *testing.T) {
	t.Run("uniform page turns white", func(t *testing.T) {
		out := AdaptiveThreshold(uniformGray(15, 15, 120), 11, 2)
		for _, p := range out.Pix {
			assert.Equal(t, uint8(255), p)
		}
	})

	t.Run("dark ink on paper", func(t *testing.T) {
		src := uniformGray(15, 15, 230)
		src.SetGray(7, 7, color.Gray{Y: 20})

		out := AdaptiveThreshold(src, 11, 2)
		assert.Equal(t, uint8(0), out.GrayAt(7, 7).Y)
		assert.Equal(t, uint8(255), out.GrayAt(0, 0).Y)
		assert.Equal(t, uint8(255), out.GrayAt(14, 14).Y)
	})
}

func TestClose(t *testing.T) {
	src := uniformGray(5, 5, 255)
	src.SetGray(2, 2, color.Gray{Y: 0})

	assert.Equal(t, src.Pix, Close(src, 1).Pix, "1x1 close is the identity")

	closed := Close(src, 3)
	assert.Equal(t, uint8(255), closed.GrayAt(2, 2).Y, "close fills a one pixel hole")
}

func TestPreprocess(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 20; x++ {
			src.Set(x, y, color.RGBA{R: 240, G: 240, B: 235, A: 255})
		}
	}
	for x := 4; x < 16; x++ {
		src.Set(x, 6, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	}

	out := NewPreprocessor().Preprocess(src)
	gray, ok := out.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, src.Bounds(), gray.Bounds())

	for _, p := range gray.Pix {
		assert.True(t, p == 0 || p == 255, "output must be binary, got %d", p)
	}
	assert.Equal(t, uint8(0), gray.GrayAt(10, 6).Y)
	assert.Equal(t, uint8(255), gray.GrayAt(0, 0).Y)
}

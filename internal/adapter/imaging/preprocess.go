// Package imaging prepares scanned recipe pages for OCR: grayscale, Gaussian
// blur, adaptive Gaussian threshold and morphological close.
package imaging

import (
	"image"
	"image/draw"
	"math"
)

type Preprocessor struct {
	BlurKernel     int     // odd, Gaussian blur aperture
	ThresholdBlock int     // odd, adaptive threshold neighbourhood
	ThresholdC     float64 // subtracted from the weighted neighbourhood mean
	CloseKernel    int     // square structuring element for the close
}

func NewPreprocessor() *Preprocessor {
	return &Preprocessor{
		BlurKernel:     5,
		ThresholdBlock: 11,
		ThresholdC:     2,
		CloseKernel:    1,
	}
}

func (p *Preprocessor) Preprocess(img image.Image) image.Image {
	gray := Grayscale(img)
	blurred := GaussianBlur(gray, p.BlurKernel)
	binary := AdaptiveThreshold(blurred, p.ThresholdBlock, p.ThresholdC)
	return Close(binary, p.CloseKernel)
}

// Grayscale uses the ITU-R 601 luma weights of color.GrayModel.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

func GaussianBlur(src *image.Gray, ksize int) *image.Gray {
	if ksize <= 1 {
		return clone(src)
	}
	k := GaussianKernel(ksize, 0)
	return convolveSeparable(src, k, reflect101)
}

// AdaptiveThreshold sets a pixel to 255 when it is brighter than the
// Gaussian-weighted mean of its block minus c, and to 0 otherwise.
func AdaptiveThreshold(src *image.Gray, block int, c float64) *image.Gray {
	if block < 3 {
		block = 3
	}
	if block%2 == 0 {
		block++
	}
	k := GaussianKernel(block, 0)
	mean := convolveSeparableFloat(src, k, replicate)

	b := src.Bounds()
	dst := image.NewGray(b)
	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < w; x++ {
			v := float64(src.Pix[y*src.Stride+x])
			// OpenCV rounds the mean to 8 bits before comparing.
			if v > math.Round(mean[y*w+x])-c {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}

// Close is a dilation followed by an erosion with a ksize x ksize square.
func Close(src *image.Gray, ksize int) *image.Gray {
	if ksize <= 1 {
		return clone(src)
	}
	return morph(morph(src, ksize, maxU8), ksize, minU8)
}

// GaussianKernel returns a normalized 1-D kernel. sigma <= 0 derives sigma from
// the size (0.3*((ksize-1)*0.5-1)+0.8) and uses the fixed binomial kernels for
// sizes up to 7, matching OpenCV's getGaussianKernel.
func GaussianKernel(ksize int, sigma float64) []float64 {
	if sigma <= 0 {
		switch ksize {
		case 1:
			return []float64{1}
		case 3:
			return []float64{0.25, 0.5, 0.25}
		case 5:
			return []float64{0.0625, 0.25, 0.375, 0.25, 0.0625}
		case 7:
			return []float64{0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125}
		}
		sigma = 0.3*(float64(ksize-1)*0.5-1) + 0.8
	}

	k := make([]float64, ksize)
	half := float64(ksize-1) / 2
	var sum float64
	for i := range k {
		d := float64(i) - half
		k[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

type borderFunc func(i, n int) int

// reflect101 mirrors without repeating the edge pixel: gfedcb|abcdefgh|gfedcba.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

func replicate(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func convolveSeparable(src *image.Gray, k []float64, border borderFunc) *image.Gray {
	out := convolveSeparableFloat(src, k, border)
	b := src.Bounds()
	dst := image.NewGray(b)
	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < w; x++ {
			dst.Pix[y*dst.Stride+x] = clampU8(out[y*w+x])
		}
	}
	return dst
}

func convolveSeparableFloat(src *image.Gray, k []float64, border borderFunc) []float64 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	r := len(k) / 2

	horiz := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x := 0; x < w; x++ {
			var acc float64
			for i, kv := range k {
				acc += kv * float64(row[border(x+i-r, w)])
			}
			horiz[y*w+x] = acc
		}
	}

	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for i, kv := range k {
				acc += kv * horiz[border(y+i-r, h)*w+x]
			}
			out[y*w+x] = acc
		}
	}
	return out
}

func morph(src *image.Gray, ksize int, pick func(a, b uint8) uint8) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(b)
	anchor := ksize / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var v uint8
			first := true
			for dy := 0; dy < ksize; dy++ {
				yy := y + dy - anchor
				if yy < 0 || yy >= h {
					continue
				}
				for dx := 0; dx < ksize; dx++ {
					xx := x + dx - anchor
					if xx < 0 || xx >= w {
						continue
					}
					p := src.Pix[yy*src.Stride+xx]
					if first {
						v, first = p, false
						continue
					}
					v = pick(v, p)
				}
			}
			dst.Pix[y*dst.Stride+x] = v
		}
	}
	return dst
}

func maxU8(a, b uint8) uint8 { return max(a, b) }

func minU8(a, b uint8) uint8 { return min(a, b) }

func clampU8(v float64) uint8 {
	v = math.Round(v)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

func clone(src *image.Gray) *image.Gray {
	dst := image.NewGray(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

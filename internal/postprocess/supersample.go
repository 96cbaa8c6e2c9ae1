package postprocess

import (
	"image"

	"golang.org/x/image/draw"

	"mesh-tga-renderer/internal/tga"
)

// Downsample resizes img to w×h with premultiplied-alpha-aware CatmullRom
// filtering. This prevents dark halo artifacts at transparent edges.
// The result keeps img's pixel format.
func Downsample(img *tga.Image, w, h int) *tga.Image {
	if img.Width() == w && img.Height() == h {
		return img.Clone()
	}
	return tga.FromImage(resample(img.ToNRGBA(), w, h), img.Format())
}

// Nearest resizes img to w×h by pixel selection, without filtering.
func Nearest(img *tga.Image, w, h int) *tga.Image {
	out := img.Clone()
	out.Scale(w, h)
	return out
}

func resample(src *image.NRGBA, w, h int) *image.NRGBA {
	b := src.Bounds()

	// Premultiply alpha
	premul := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := src.PixOffset(x, y)
			di := premul.PixOffset(x, y)
			a := float64(src.Pix[si+3]) / 255.0
			premul.Pix[di] = uint8(float64(src.Pix[si])*a + 0.5)
			premul.Pix[di+1] = uint8(float64(src.Pix[si+1])*a + 0.5)
			premul.Pix[di+2] = uint8(float64(src.Pix[si+2])*a + 0.5)
			premul.Pix[di+3] = src.Pix[si+3]
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	// Unpremultiply alpha
	result := image.NewNRGBA(dst.Bounds())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := dst.PixOffset(x, y)
			di := result.PixOffset(x, y)
			a := float64(dst.Pix[si+3])
			if a > 1 {
				inv := 255.0 / a
				result.Pix[di] = clamp8(float64(dst.Pix[si]) * inv)
				result.Pix[di+1] = clamp8(float64(dst.Pix[si+1]) * inv)
				result.Pix[di+2] = clamp8(float64(dst.Pix[si+2]) * inv)
			}
			result.Pix[di+3] = dst.Pix[si+3]
		}
	}
	return result
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

package tga

import (
	"image"
	"image/color"
)

// ToNRGBA converts img to a standard library image with the same row order.
// Grayscale pixels expand to opaque gray; RGB pixels become opaque.
func (img *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.width, img.height))
	bpp := img.format.BytesPerPixel()
	for i, o := 0, 0; o < len(img.data); i, o = i+4, o+bpp {
		d := img.data[o : o+bpp]
		switch img.format {
		case Grayscale:
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = d[0], d[0], d[0], 255
		case RGB:
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = d[2], d[1], d[0], 255
		case RGBA:
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = d[2], d[1], d[0], d[3]
		}
	}
	return out
}

// FromImage copies any image.Image into a new Image of the given format.
// Grayscale conversion uses the standard luma model.
func FromImage(src image.Image, format Format) *Image {
	b := src.Bounds()
	img := New(b.Dx(), b.Dy(), format)
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			c := src.At(b.Min.X+x, b.Min.Y+y)
			if format == Grayscale {
				img.data[img.offset(x, y)] = color.GrayModel.Convert(c).(color.Gray).Y
				continue
			}
			n := color.NRGBAModel.Convert(c).(color.NRGBA)
			img.Set(x, y, Color{R: n.R, G: n.G, B: n.B, A: n.A})
		}
	}
	return img
}

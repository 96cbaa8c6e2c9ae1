package postprocess

import (
	"image"

	"mesh-tga-renderer/internal/tga"
)

// ContentBounds returns the smallest rectangle holding every covered pixel:
// alpha > 0 for RGBA images, any non-zero channel otherwise. The rectangle
// is empty when nothing is covered.
func ContentBounds(img *tga.Image) image.Rectangle {
	w, h := img.Width(), img.Height()
	bpp := img.BytesPerPixel()
	data := img.Data()

	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !covered(data[(x+y*w)*bpp:(x+y*w+1)*bpp], img.Format()) {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

func covered(px []byte, f tga.Format) bool {
	if f == tga.RGBA {
		return px[3] > 0
	}
	for _, b := range px {
		if b != 0 {
			return true
		}
	}
	return false
}

// Crop returns the part of img inside r, which must lie within img.
func Crop(img *tga.Image, r image.Rectangle) *tga.Image {
	out := tga.New(r.Dx(), r.Dy(), img.Format())
	bpp := img.BytesPerPixel()
	src, dst := img.Data(), out.Data()
	rowLen := r.Dx() * bpp
	for y := 0; y < r.Dy(); y++ {
		srcOff := ((r.Min.Y+y)*img.Width() + r.Min.X) * bpp
		copy(dst[y*rowLen:(y+1)*rowLen], src[srcOff:srcOff+rowLen])
	}
	return out
}

// Fit crops img to its content, scales it so the longer side fills
// fillRatio of the canvas, and centres it on a blank canvas of img's size.
// An image with no content is returned unchanged.
func Fit(img *tga.Image, fillRatio float64) *tga.Image {
	r := ContentBounds(img)
	if r.Empty() {
		return img.Clone()
	}
	cropped := Crop(img, r)

	canvasW, canvasH := img.Width(), img.Height()
	scaleF := min(float64(canvasW)*fillRatio/float64(r.Dx()), float64(canvasH)*fillRatio/float64(r.Dy()))
	newW := max(int(float64(r.Dx())*scaleF+0.5), 1)
	newH := max(int(float64(r.Dy())*scaleF+0.5), 1)
	scaled := Downsample(cropped, newW, newH)

	canvas := tga.New(canvasW, canvasH, img.Format())
	offX := (canvasW - newW) / 2
	offY := (canvasH - newH) / 2
	for y := 0; y < newH; y++ {
		for x := 0; x < newW; x++ {
			canvas.Set(offX+x, offY+y, scaled.Get(x, y))
		}
	}
	return canvas
}

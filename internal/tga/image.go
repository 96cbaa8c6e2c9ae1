package tga

import "fmt"

// Format is the pixel layout of an Image. Its value is the byte width of one pixel.
type Format int

const (
	Grayscale Format = 1
	RGB       Format = 3
	RGBA      Format = 4
)

// BytesPerPixel returns the number of bytes one pixel occupies.
func (f Format) BytesPerPixel() int { return int(f) }

// Valid reports whether f is one of the supported layouts.
func (f Format) Valid() bool {
	return f == Grayscale || f == RGB || f == RGBA
}

func (f Format) String() string {
	switch f {
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromBits maps a header bits-per-pixel value to a Format.
func FormatFromBits(bits uint8) (Format, bool) {
	f := Format(bits >> 3)
	return f, f.Valid()
}

// Image is a width×height pixel buffer stored row-major in on-disk channel
// order (B, G, R[, A]). len(data) == width*height*bpp holds at all times.
type Image struct {
	width  int
	height int
	format Format
	data   []byte
}

// New allocates a zeroed image.
func New(width, height int, format Format) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{
		width:  width,
		height: height,
		format: format,
		data:   make([]byte, width*height*format.BytesPerPixel()),
	}
}

func (img *Image) Width() int         { return img.width }
func (img *Image) Height() int        { return img.height }
func (img *Image) Format() Format     { return img.format }
func (img *Image) BytesPerPixel() int { return img.format.BytesPerPixel() }

// Data exposes the backing slice. Callers may modify bytes but must not
// change its length.
func (img *Image) Data() []byte { return img.data }

func (img *Image) offset(x, y int) int {
	return (x + y*img.width) * img.format.BytesPerPixel()
}

func (img *Image) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < img.width && y < img.height
}

// Get returns the pixel at (x, y), or Clear when out of range.
// Grayscale pixels come back in the B channel with R, G and A zero.
func (img *Image) Get(x, y int) Color {
	if !img.inBounds(x, y) {
		return Clear
	}
	o := img.offset(x, y)
	d := img.data
	switch img.format {
	case Grayscale:
		return Color{B: d[o]}
	case RGB:
		return Color{R: d[o+2], G: d[o+1], B: d[o], A: 255}
	default:
		return Color{R: d[o+2], G: d[o+1], B: d[o], A: d[o+3]}
	}
}

// Gray returns the first stored byte of the pixel: the intensity for
// grayscale images and the blue channel otherwise.
func (img *Image) Gray(x, y int) uint8 {
	if !img.inBounds(x, y) {
		return 0
	}
	return img.data[img.offset(x, y)]
}

// Set writes c at (x, y). Writes outside the image are dropped and report false.
func (img *Image) Set(x, y int, c Color) bool {
	if !img.inBounds(x, y) {
		return false
	}
	bpp := img.format.BytesPerPixel()
	o := img.offset(x, y)
	raw := c.Raw()
	copy(img.data[o:o+bpp], raw[:bpp])
	return true
}

// Clear zeroes every byte.
func (img *Image) Clear() {
	clear(img.data)
}

// Fill sets every pixel to c.
func (img *Image) Fill(c Color) {
	bpp := img.format.BytesPerPixel()
	raw := c.Raw()
	for o := 0; o < len(img.data); o += bpp {
		copy(img.data[o:o+bpp], raw[:bpp])
	}
}

// Clone returns a deep copy.
func (img *Image) Clone() *Image {
	out := &Image{width: img.width, height: img.height, format: img.format}
	out.data = append([]byte(nil), img.data...)
	return out
}

func (img *Image) swap(x1, y1, x2, y2 int) {
	bpp := img.format.BytesPerPixel()
	o1, o2 := img.offset(x1, y1), img.offset(x2, y2)
	for i := 0; i < bpp; i++ {
		img.data[o1+i], img.data[o2+i] = img.data[o2+i], img.data[o1+i]
	}
}

// FlipHorizontally mirrors the image around its vertical axis in place.
func (img *Image) FlipHorizontally() {
	half := img.width >> 1
	for y := 0; y < img.height; y++ {
		for x := 0; x < half; x++ {
			img.swap(x, y, img.width-1-x, y)
		}
	}
}

// FlipVertically mirrors the image around its horizontal axis in place.
func (img *Image) FlipVertically() {
	line := img.width * img.format.BytesPerPixel()
	tmp := make([]byte, line)
	half := img.height >> 1
	for y := 0; y < half; y++ {
		top := img.data[y*line : (y+1)*line]
		bot := img.data[(img.height-1-y)*line : (img.height-y)*line]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
}

// Scale resamples to w×h with nearest-neighbour selection driven by integer
// error accumulators on both axes. Non-positive targets leave img untouched.
func (img *Image) Scale(w, h int) {
	if w <= 0 || h <= 0 || img.width == 0 || img.height == 0 {
		return
	}
	bpp := img.format.BytesPerPixel()
	out := make([]byte, w*h*bpp)
	nline := w * bpp
	oline := img.width * bpp

	nscan, oscan := 0, 0
	erry := 0
	for j := 0; j < img.height; j++ {
		errx := img.width - w
		nx, ox := -bpp, -bpp
		for i := 0; i < img.width; i++ {
			ox += bpp
			errx += w
			for errx >= img.width {
				errx -= img.width
				nx += bpp
				copy(out[nscan+nx:nscan+nx+bpp], img.data[oscan+ox:oscan+ox+bpp])
			}
		}
		erry += h
		oscan += oline
		for erry >= img.height {
			// upscaling: duplicate the row just produced
			if erry >= img.height<<1 {
				copy(out[nscan+nline:nscan+2*nline], out[nscan:nscan+nline])
			}
			erry -= img.height
			nscan += nline
		}
	}
	img.data = out
	img.width = w
	img.height = h
}

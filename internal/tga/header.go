package tga

import (
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderSize is the length of the fixed TGA file header.
const HeaderSize = 18

// Data type codes.
const (
	TypeTrueColor    uint8 = 2
	TypeGrayscale    uint8 = 3
	TypeRLETrueColor uint8 = 10
	TypeRLEGrayscale uint8 = 11
)

// Image descriptor bits.
const (
	descRightOrigin uint8 = 0x10
	descTopOrigin   uint8 = 0x20
)

// footerSignature closes every file written by Encode.
var footerSignature = [18]byte{'T', 'R', 'U', 'E', 'V', 'I', 'S', 'I', 'O', 'N', '-', 'X', 'F', 'I', 'L', 'E', '.', 0}

// Header mirrors the 18-byte on-disk header; multi-byte fields are little-endian.
type Header struct {
	IDLength        uint8
	ColorMapType    uint8
	DataTypeCode    uint8
	ColorMapOrigin  uint16
	ColorMapLength  uint16
	ColorMapDepth   uint8
	XOrigin         uint16
	YOrigin         uint16
	Width           uint16
	Height          uint16
	BitsPerPixel    uint8
	ImageDescriptor uint8
}

// ReadHeader consumes exactly HeaderSize bytes from r.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Header{}, fmt.Errorf("tga: read header: %w", err)
	}
	return h, nil
}

// MarshalBinary encodes the header in file order.
func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, HeaderSize)
	return binary.Append(buf, binary.LittleEndian, h)
}

// Compressed reports whether the pixel payload is run-length encoded.
func (h Header) Compressed() bool {
	return h.DataTypeCode == TypeRLETrueColor || h.DataTypeCode == TypeRLEGrayscale
}

// TopOrigin reports whether row 0 in the file is the top of the picture.
func (h Header) TopOrigin() bool { return h.ImageDescriptor&descTopOrigin != 0 }

// RightOrigin reports whether column 0 in the file is the right edge.
func (h Header) RightOrigin() bool { return h.ImageDescriptor&descRightOrigin != 0 }

// Validate checks the fields Decode depends on and returns the pixel format.
func (h Header) Validate() (Format, error) {
	format, ok := FormatFromBits(h.BitsPerPixel)
	if !ok {
		return 0, fmt.Errorf("%w: unsupported bits per pixel %d", ErrFormat, h.BitsPerPixel)
	}
	if h.Width == 0 || h.Height == 0 {
		return 0, fmt.Errorf("%w: bad dimensions %dx%d", ErrFormat, h.Width, h.Height)
	}
	if h.ColorMapType != 0 {
		return 0, fmt.Errorf("%w: color-mapped images are not supported", ErrFormat)
	}
	switch h.DataTypeCode {
	case TypeTrueColor, TypeGrayscale, TypeRLETrueColor, TypeRLEGrayscale:
	default:
		return 0, fmt.Errorf("%w: unknown data type code %d", ErrFormat, h.DataTypeCode)
	}
	return format, nil
}

// headerFor builds the header Encode writes for img.
func headerFor(img *Image, rle bool) Header {
	h := Header{
		Width:           uint16(img.width),
		Height:          uint16(img.height),
		BitsPerPixel:    uint8(img.format.BytesPerPixel() << 3),
		ImageDescriptor: descTopOrigin,
	}
	switch {
	case img.format == Grayscale && rle:
		h.DataTypeCode = TypeRLEGrayscale
	case img.format == Grayscale:
		h.DataTypeCode = TypeGrayscale
	case rle:
		h.DataTypeCode = TypeRLETrueColor
	default:
		h.DataTypeCode = TypeTrueColor
	}
	if img.format == RGBA {
		h.ImageDescriptor |= 8 // alpha bits
	}
	return h
}

package tga

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Decode reads a complete TGA image from r. After decoding, row 0 of the
// returned image is the top of the picture regardless of the file's origin.
func Decode(r io.Reader) (*Image, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	format, err := h.Validate()
	if err != nil {
		return nil, err
	}

	if h.IDLength > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(h.IDLength)); err != nil {
			return nil, fmt.Errorf("tga: skip image id: %w", err)
		}
	}

	// The buffer grows with the payload actually read, so a header that
	// claims a huge image cannot force a huge allocation.
	w, ht := int(h.Width), int(h.Height)
	var data []byte
	if h.Compressed() {
		data, err = decodeRLE(r, w*ht, format.BytesPerPixel())
	} else {
		data, err = readRaw(r, int64(w*ht*format.BytesPerPixel()))
	}
	if err != nil {
		return nil, err
	}
	img := &Image{width: w, height: ht, format: format, data: data}

	if !h.TopOrigin() {
		img.FlipVertically()
	}
	if h.RightOrigin() {
		img.FlipHorizontally()
	}
	return img, nil
}

// ReadFile opens and decodes the TGA file at path.
func ReadFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tga: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return img, nil
}

// DecodeHeader reads only the header and validates it.
func DecodeHeader(r io.Reader) (Header, Format, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return Header{}, 0, err
	}
	format, err := h.Validate()
	return h, format, err
}

// readRaw reads exactly size bytes of uncompressed pixels.
func readRaw(r io.Reader, size int64) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, size); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("tga: read pixels: %w", err)
	}
	return buf.Bytes(), nil
}

// maxPrealloc caps the RLE output capacity reserved up front.
const maxPrealloc = 1 << 20

// decodeRLE expands raw and run packets into total pixels of bpp bytes.
func decodeRLE(r io.Reader, total, bpp int) ([]byte, error) {
	data := make([]byte, 0, min(total*bpp, maxPrealloc))
	pixel := make([]byte, bpp)
	var ctrl [1]byte

	cur := 0
	for cur < total {
		if _, err := io.ReadFull(r, ctrl[:]); err != nil {
			return nil, fmt.Errorf("tga: read rle packet at pixel %d: %w", cur, err)
		}
		if ctrl[0] < 128 {
			n := int(ctrl[0]) + 1
			if cur+n > total {
				return nil, fmt.Errorf("%w: raw packet of %d at pixel %d/%d", ErrExcessPixels, n, cur, total)
			}
			for i := 0; i < n; i++ {
				if _, err := io.ReadFull(r, pixel); err != nil {
					return nil, fmt.Errorf("tga: read raw packet at pixel %d: %w", cur+i, err)
				}
				data = append(data, pixel...)
			}
			cur += n
			continue
		}

		n := int(ctrl[0]) - 127
		if cur+n > total {
			return nil, fmt.Errorf("%w: run packet of %d at pixel %d/%d", ErrExcessPixels, n, cur, total)
		}
		if _, err := io.ReadFull(r, pixel); err != nil {
			return nil, fmt.Errorf("tga: read run packet at pixel %d: %w", cur, err)
		}
		for i := 0; i < n; i++ {
			data = append(data, pixel...)
		}
		cur += n
	}
	return data, nil
}

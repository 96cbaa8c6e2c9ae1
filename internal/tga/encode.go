package tga

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// maxPacket is the largest pixel count one RLE packet can describe.
const maxPacket = 128

// Encode writes img as a TGA file: header, pixel payload (raw or RLE),
// zeroed developer/extension area offsets and the TRUEVISION-XFILE footer.
func Encode(w io.Writer, img *Image, rle bool) error {
	if img.width <= 0 || img.height <= 0 || img.width > 0xffff || img.height > 0xffff {
		return fmt.Errorf("%w: cannot encode %dx%d image", ErrFormat, img.width, img.height)
	}
	if !img.format.Valid() {
		return fmt.Errorf("%w: cannot encode %v", ErrFormat, img.format)
	}

	bw := bufio.NewWriter(w)
	hdr, err := headerFor(img, rle).MarshalBinary()
	if err != nil {
		return fmt.Errorf("tga: marshal header: %w", err)
	}
	if _, err := bw.Write(hdr); err != nil {
		return fmt.Errorf("tga: write header: %w", err)
	}

	if rle {
		err = encodeRLE(bw, img)
	} else {
		_, err = bw.Write(img.data)
	}
	if err != nil {
		return fmt.Errorf("tga: write pixels: %w", err)
	}

	var areas [8]byte // developer area + extension area offsets
	if _, err := bw.Write(areas[:]); err != nil {
		return fmt.Errorf("tga: write footer: %w", err)
	}
	if _, err := bw.Write(footerSignature[:]); err != nil {
		return fmt.Errorf("tga: write footer: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("tga: flush: %w", err)
	}
	return nil
}

// WriteFile encodes img into a new file at path, creating parent directories.
func WriteFile(path string, img *Image, rle bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("tga: mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tga: create %s: %w", path, err)
	}
	if err := Encode(f, img, rle); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("tga: close %s: %w", path, err)
	}
	return nil
}

// encodeRLE greedily splits the pixel array into run and raw packets.
// A raw packet ends as soon as the next pair of pixels is equal; that pair
// starts the following packet.
func encodeRLE(w io.Writer, img *Image) error {
	bpp := img.format.BytesPerPixel()
	data := img.data
	total := img.width * img.height

	equal := func(p int) bool {
		a := data[p*bpp : (p+1)*bpp]
		b := data[(p+1)*bpp : (p+2)*bpp]
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	var ctrl [1]byte
	cur := 0
	for cur < total {
		length := 1
		raw := true
		for cur+length < total && length < maxPacket {
			same := equal(cur + length - 1)
			if length == 1 {
				raw = !same
			}
			if raw && same {
				length--
				break
			}
			if !raw && !same {
				break
			}
			length++
		}

		start := cur * bpp
		if raw {
			ctrl[0] = byte(length - 1)
			if _, err := w.Write(ctrl[:]); err != nil {
				return err
			}
			if _, err := w.Write(data[start : start+length*bpp]); err != nil {
				return err
			}
		} else {
			ctrl[0] = byte(length + 127)
			if _, err := w.Write(ctrl[:]); err != nil {
				return err
			}
			if _, err := w.Write(data[start : start+bpp]); err != nil {
				return err
			}
		}
		cur += length
	}
	return nil
}

package texture

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	ftga "github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	"mesh-tga-renderer/internal/tga"
)

// ErrUnsupported is returned for file extensions no decoder handles.
var ErrUnsupported = errors.New("texture: unsupported file type")

// decoders maps lowercase extensions to standard image decoders.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".tga":  ftga.Decode,
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".bmp":  bmp.Decode,
}

// Load reads a texture into a tga.Image with row 0 at the top.
//
// TGA files go through the package's own codec first. Variants it rejects
// as ErrFormat (colour-mapped or 16-bit images) are retried with the
// ftrvxmtrx decoder. Other formats are decoded by extension.
func Load(path string) (*tga.Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".tga" {
		img, err := tga.ReadFile(path)
		if err == nil {
			return img, nil
		}
		if !errors.Is(err, tga.ErrFormat) {
			return nil, fmt.Errorf("texture: load %s: %w", path, err)
		}
	}

	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	defer f.Close()

	src, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return tga.FromImage(src, formatOf(src)), nil
}

// formatOf picks the narrowest pixel format that keeps src's information.
func formatOf(src image.Image) tga.Format {
	switch src.(type) {
	case *image.Gray, *image.Gray16:
		return tga.Grayscale
	}
	if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
		return tga.RGB
	}
	return tga.RGBA
}

package export

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"

	"mesh-tga-renderer/internal/tga"
)

// ErrUnsupported is returned for output extensions Save cannot write.
var ErrUnsupported = errors.New("export: unsupported file type")

// Extensions lists the output formats Save understands.
var Extensions = []string{".tga", ".png", ".webp"}

// Options controls encoding.
type Options struct {
	// RLE compresses .tga output.
	RLE bool
}

// Save writes img to path, choosing the encoder by extension, and creates
// missing parent directories. WebP output is lossless.
func Save(path string, img *tga.Image, opts Options) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".tga" {
		return tga.WriteFile(path, img, opts.RLE)
	}
	if ext != ".png" && ext != ".webp" {
		return fmt.Errorf("%w: %s", ErrUnsupported, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	src := img.ToNRGBA()
	switch ext {
	case ".png":
		err = png.Encode(w, src)
	case ".webp":
		err = nativewebp.Encode(w, src, nil)
	}
	if err != nil {
		return fmt.Errorf("export: encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return f.Close()
}

// Supported reports whether Save can write path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

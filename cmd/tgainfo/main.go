package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"

	"mesh-tga-renderer/internal/export"
	"mesh-tga-renderer/internal/texture"
	"mesh-tga-renderer/internal/tga"
)

func main() {
	output := flag.String("o", "", "Re-encode the image to this path (.tga, .png, .webp)")
	rle := flag.Bool("rle", false, "RLE-compress a .tga re-encode")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tgainfo [-o out] [-rle] file.tga...")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if *output != "" && flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: -o needs exactly one input file")
		os.Exit(1)
	}

	failed := 0
	for _, path := range flag.Args() {
		img, err := inspect(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			failed++
			continue
		}
		if *output != "" {
			if err := export.Save(*output, img, export.Options{RLE: *rle}); err != nil {
				fmt.Fprintf(os.Stderr, "ERR %v\n", err)
				failed++
				continue
			}
			fmt.Printf("Wrote %s\n", *output)
		}
	}
	if failed > 0 {
		fmt.Printf("\nDone with %d error(s).\n", failed)
		os.Exit(1)
	}
}

func inspect(path string) (*tga.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	h, _, hdrErr := tga.DecodeHeader(bufio.NewReader(f))
	f.Close()
	if hdrErr != nil && !errors.Is(hdrErr, tga.ErrFormat) {
		return nil, fmt.Errorf("%s: %w", path, hdrErr)
	}

	fmt.Printf("=== %s ===\n", path)
	fmt.Printf("  Type: %d  ColorMap: %d (origin %d, length %d, depth %d)  ID: %d bytes\n",
		h.DataTypeCode, h.ColorMapType, h.ColorMapOrigin, h.ColorMapLength, h.ColorMapDepth, h.IDLength)
	fmt.Printf("  Size: %dx%d  Bits: %d  Offset: (%d,%d)\n", h.Width, h.Height, h.BitsPerPixel, h.XOrigin, h.YOrigin)
	origin := "bottom"
	if h.TopOrigin() {
		origin = "top"
	}
	if h.RightOrigin() {
		origin += "-right"
	} else {
		origin += "-left"
	}
	fmt.Printf("  Origin: %s  RLE: %v\n", origin, h.Compressed())
	if hdrErr != nil {
		fmt.Printf("  Native decoder: %v (using fallback)\n", hdrErr)
	}

	// texture.Load falls back to the generic decoder for colour-mapped files
	img, err := texture.Load(path)
	if err != nil {
		return nil, err
	}
	printStats(img)
	return img, nil
}

func printStats(img *tga.Image) {
	var (
		sum                [4]int
		transparent, black int
	)
	n := img.Width() * img.Height()
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			c := img.Get(x, y)
			sum[0] += int(c.R)
			sum[1] += int(c.G)
			sum[2] += int(c.B)
			sum[3] += int(c.A)
			if c.A == 0 {
				transparent++
			}
			if c.R == 0 && c.G == 0 && c.B == 0 {
				black++
			}
		}
	}
	fmt.Printf("  Format: %v  Pixels: %d\n", img.Format(), n)
	fmt.Printf("  Mean: R=%d G=%d B=%d A=%d\n", sum[0]/n, sum[1]/n, sum[2]/n, sum[3]/n)
	fmt.Printf("  Black: %d (%.1f%%)  Transparent: %d (%.1f%%)\n",
		black, 100*float64(black)/float64(n), transparent, 100*float64(transparent)/float64(n))
}

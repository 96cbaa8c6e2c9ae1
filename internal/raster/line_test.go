package raster

import (
	"image"
	"testing"

	"mesh-tga-renderer/internal/tga"
)

// lit returns the set pixels of a grayscale image.
func lit(img *tga.Image) map[image.Point]uint8 {
	out := map[image.Point]uint8{}
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			if g := img.Gray(x, y); g != 0 {
				out[image.Pt(x, y)] = g
			}
		}
	}
	return out
}

func TestHorizontalLine(t *testing.T) {
	for _, aa := range []bool{false, true} {
		img := tga.New(8, 8, tga.Grayscale)
		DrawLine(image.Pt(0, 0), image.Pt(4, 0), img, tga.White, aa)

		got := lit(img)
		if len(got) != 5 {
			t.Errorf("aa=%v: want 5 pixels, got %d: %v", aa, len(got), got)
		}
		for x := 0; x <= 4; x++ {
			if got[image.Pt(x, 0)] != 255 {
				t.Errorf("aa=%v: pixel (%d,0) = %d, want 255", aa, x, got[image.Pt(x, 0)])
			}
		}
	}
}

func TestLineEndpointOrderDoesNotMatter(t *testing.T) {
	a := tga.New(16, 16, tga.Grayscale)
	b := tga.New(16, 16, tga.Grayscale)
	DrawLine(image.Pt(2, 3), image.Pt(13, 9), a, tga.White, false)
	DrawLine(image.Pt(13, 9), image.Pt(2, 3), b, tga.White, false)

	ga, gb := lit(a), lit(b)
	if len(ga) != len(gb) {
		t.Fatalf("pixel counts differ: %d vs %d", len(ga), len(gb))
	}
	for p := range ga {
		if _, ok := gb[p]; !ok {
			t.Errorf("pixel %v only in one direction", p)
		}
	}
}

func TestSteepLineHasNoGaps(t *testing.T) {
	img := tga.New(16, 16, tga.Grayscale)
	DrawLine(image.Pt(0, 0), image.Pt(3, 12), img, tga.White, false)

	for y := 0; y <= 12; y++ {
		n := 0
		for x := 0; x < 16; x++ {
			if img.Gray(x, y) != 0 {
				n++
			}
		}
		if n != 1 {
			t.Errorf("row %d: want exactly one pixel, got %d", y, n)
		}
	}
}

func TestVerticalLine(t *testing.T) {
	img := tga.New(8, 8, tga.Grayscale)
	DrawLine(image.Pt(2, 6), image.Pt(2, 1), img, tga.White, true)

	got := lit(img)
	if len(got) != 6 {
		t.Errorf("want 6 pixels, got %v", got)
	}
	for y := 1; y <= 6; y++ {
		if got[image.Pt(2, y)] != 255 {
			t.Errorf("pixel (2,%d) = %d", y, got[image.Pt(2, y)])
		}
	}
}

func TestSinglePointLine(t *testing.T) {
	img := tga.New(8, 8, tga.Grayscale)
	DrawLine(image.Pt(3, 3), image.Pt(3, 3), img, tga.White, false)

	if got := lit(img); len(got) != 1 || got[image.Pt(3, 3)] != 255 {
		t.Errorf("want only (3,3), got %v", got)
	}
}

func TestAntialiasedCoverage(t *testing.T) {
	img := tga.New(8, 8, tga.Grayscale)
	DrawLine(image.Pt(0, 0), image.Pt(4, 2), img, tga.White, true)

	got := lit(img)
	// x=1 lands on y=0.5: both neighbours get half coverage
	if got[image.Pt(1, 0)] != 127 || got[image.Pt(1, 1)] != 127 {
		t.Errorf("x=1: want 127/127, got %d/%d", got[image.Pt(1, 0)], got[image.Pt(1, 1)])
	}
	// x=2 lands exactly on y=1
	if got[image.Pt(2, 1)] != 255 {
		t.Errorf("x=2: want 255, got %d", got[image.Pt(2, 1)])
	}
	if got[image.Pt(4, 2)] != 255 {
		t.Errorf("end point: want 255, got %d", got[image.Pt(4, 2)])
	}
}

func TestLineOutOfBoundsIsClipped(t *testing.T) {
	img := tga.New(8, 8, tga.Grayscale)
	DrawLine(image.Pt(-5, 2), image.Pt(20, 2), img, tga.White, false)

	got := lit(img)
	if len(got) != 8 {
		t.Errorf("want the 8 in-bounds pixels of row 2, got %d", len(got))
	}
}

func TestWireTriangle(t *testing.T) {
	img := tga.New(16, 16, tga.Grayscale)
	DrawWireTriangle(vtx(1, 1, 0).Pos.XY(), vtx(12, 1, 0).Pos.XY(), vtx(1, 12, 0).Pos.XY(), img, tga.White, false)

	for _, p := range []image.Point{{1, 1}, {12, 1}, {1, 12}, {6, 1}, {1, 6}} {
		if img.Gray(p.X, p.Y) == 0 {
			t.Errorf("edge pixel %v not drawn", p)
		}
	}
	if img.Gray(4, 4) != 0 {
		t.Error("interior pixel drawn")
	}
}

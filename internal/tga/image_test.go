package tga

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestGetSet(t *testing.T) {
	tests := []struct {
		format Format
		in     Color
		want   Color
	}{
		{RGBA, Color{10, 20, 30, 40}, Color{10, 20, 30, 40}},
		{RGB, Color{10, 20, 30, 40}, Color{10, 20, 30, 255}},
		{Grayscale, Color{10, 20, 30, 40}, Color{B: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			img := New(4, 3, tt.format)
			if !img.Set(2, 1, tt.in) {
				t.Fatal("Set in range returned false")
			}
			if got := img.Get(2, 1); got != tt.want {
				t.Errorf("Get: want %v, got %v", tt.want, got)
			}
			if len(img.Data()) != 4*3*tt.format.BytesPerPixel() {
				t.Errorf("data length %d", len(img.Data()))
			}
		})
	}
}

func TestSetOutOfBounds(t *testing.T) {
	img := New(3, 3, RGB)
	for _, p := range [][2]int{{3, 0}, {0, 3}, {-1, 0}, {0, -1}, {100, 100}} {
		if img.Set(p[0], p[1], White) {
			t.Errorf("Set(%d,%d) should be dropped", p[0], p[1])
		}
		if got := img.Get(p[0], p[1]); got != Clear {
			t.Errorf("Get(%d,%d): want Clear, got %v", p[0], p[1], got)
		}
	}
	if !bytes.Equal(img.Data(), make([]byte, 27)) {
		t.Error("out-of-bounds writes touched the buffer")
	}
}

func TestOnDiskChannelOrder(t *testing.T) {
	img := New(1, 1, RGBA)
	img.Set(0, 0, Color{R: 1, G: 2, B: 3, A: 4})
	if want := []byte{3, 2, 1, 4}; !bytes.Equal(img.Data(), want) {
		t.Errorf("want %v, got %v", want, img.Data())
	}
}

func TestFlipTwiceIsIdentity(t *testing.T) {
	for name, img := range testImages() {
		t.Run(name, func(t *testing.T) {
			orig := img.Clone()

			img.FlipHorizontally()
			img.FlipHorizontally()
			assertSame(t, orig, img)

			img.FlipVertically()
			img.FlipVertically()
			assertSame(t, orig, img)
		})
	}
}

func TestFlipMovesPixels(t *testing.T) {
	img := New(3, 2, RGB)
	img.Set(0, 0, Red)

	img.FlipHorizontally()
	if img.Get(2, 0) != Red || img.Get(0, 0) == Red {
		t.Error("horizontal flip did not mirror (0,0) to (2,0)")
	}
	img.FlipVertically()
	if img.Get(2, 1) != Red {
		t.Error("vertical flip did not mirror (2,0) to (2,1)")
	}
}

func TestScaleKeepsLengthInvariant(t *testing.T) {
	img := testImages()["distinct_rgba"]
	w, h := img.Width(), img.Height()

	for _, size := range [][2]int{{5, 4}, {29, 23}, {1, 1}, {w, h}} {
		img.Scale(size[0], size[1])
		if img.Width() != size[0] || img.Height() != size[1] {
			t.Fatalf("scale to %v: got %dx%d", size, img.Width(), img.Height())
		}
		if want := size[0] * size[1] * 4; len(img.Data()) != want {
			t.Fatalf("scale to %v: data length %d, want %d", size, len(img.Data()), want)
		}
	}
}

func TestScaleHalvesByPixelSelection(t *testing.T) {
	img := New(4, 4, Grayscale)
	for i := range img.Data() {
		img.Data()[i] = byte(i)
	}

	img.Scale(2, 2)

	// error accumulation picks source columns 0 and 2 on rows 1 and 3
	want := []byte{4, 6, 12, 14}
	if !bytes.Equal(img.Data(), want) {
		t.Errorf("want %v, got %v", want, img.Data())
	}
}

func TestScaleDoublesRows(t *testing.T) {
	img := New(2, 2, Grayscale)
	copy(img.Data(), []byte{1, 2, 3, 4})

	img.Scale(2, 4)

	want := []byte{1, 2, 1, 2, 3, 4, 3, 4}
	if !bytes.Equal(img.Data(), want) {
		t.Errorf("want %v, got %v", want, img.Data())
	}
}

func TestFillAndClear(t *testing.T) {
	img := New(3, 3, RGBA)
	img.Fill(Purple)
	if img.Get(2, 2) != Purple {
		t.Errorf("Fill: got %v", img.Get(2, 2))
	}
	img.Clear()
	if img.Get(2, 2) != Clear {
		t.Errorf("Clear: got %v", img.Get(2, 2))
	}
}

func TestNRGBAConversion(t *testing.T) {
	img := New(2, 1, RGBA)
	img.Set(0, 0, Color{10, 20, 30, 40})
	img.Set(1, 0, Color{50, 60, 70, 80})

	n := img.ToNRGBA()
	if got := n.NRGBAAt(1, 0); got != (color.NRGBA{50, 60, 70, 80}) {
		t.Errorf("ToNRGBA: got %v", got)
	}

	back := FromImage(n, RGBA)
	assertSame(t, img, back)
}

func TestFromImageGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(1, 1, color.Gray{Y: 99})

	img := FromImage(src, Grayscale)
	if img.Gray(1, 1) != 99 {
		t.Errorf("want 99, got %d", img.Gray(1, 1))
	}
	if got := img.ToNRGBA().NRGBAAt(1, 1); got != (color.NRGBA{99, 99, 99, 255}) {
		t.Errorf("ToNRGBA gray: got %v", got)
	}
}

func TestColorScale(t *testing.T) {
	c := Color{200, 100, 51, 255}
	if got, want := c.Scale(0.5), (Color{100, 50, 25, 255}); got != want {
		t.Errorf("Scale: want %v, got %v", want, got)
	}
	if got, want := c.ScaleAll(0.5), (Color{100, 50, 25, 127}); got != want {
		t.Errorf("ScaleAll: want %v, got %v", want, got)
	}
	if got := c.Scale(1); got != c {
		t.Errorf("Scale(1): got %v", got)
	}
	if got := c.Scale(0); got != (Color{0, 0, 0, 255}) {
		t.Errorf("Scale(0): got %v", got)
	}
}

func TestNamed(t *testing.T) {
	if c, ok := Named("ReD"); !ok || c != Red {
		t.Errorf("Named(ReD): got %v %v", c, ok)
	}
	if _, ok := Named("chartreuse"); ok {
		t.Error("unknown name resolved")
	}
}

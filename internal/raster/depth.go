package raster

import (
	"math"

	"mesh-tga-renderer/internal/tga"
)

// DepthBuffer records the largest depth written to each pixel during one
// render pass. Larger values are closer to the viewer.
type DepthBuffer struct {
	width  int
	height int
	depth  []float32 // len = width*height, initialized to -MaxFloat32
}

// NewDepthBuffer allocates a buffer where every pixel accepts the first write.
func NewDepthBuffer(w, h int) *DepthBuffer {
	db := &DepthBuffer{
		width:  w,
		height: h,
		depth:  make([]float32, w*h),
	}
	db.Reset()
	return db
}

func (db *DepthBuffer) Width() int  { return db.width }
func (db *DepthBuffer) Height() int { return db.height }
func (db *DepthBuffer) Len() int    { return len(db.depth) }

// Reset returns every pixel to the minimum representable depth.
func (db *DepthBuffer) Reset() {
	for i := range db.depth {
		db.depth[i] = -math.MaxFloat32
	}
}

// Index returns the slot of pixel (x, y) in row-major order.
func (db *DepthBuffer) Index(x, y int) int { return x + y*db.width }

// At returns the stored depth, or -MaxFloat32 outside the buffer.
func (db *DepthBuffer) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= db.width || y >= db.height {
		return -math.MaxFloat32
	}
	return db.depth[db.Index(x, y)]
}

// Visualize maps written depths linearly onto 1..255 in a grayscale image;
// pixels never written stay 0.
func (db *DepthBuffer) Visualize() *tga.Image {
	img := tga.New(db.width, db.height, tga.Grayscale)
	lo, hi := float32(math.MaxFloat32), float32(-math.MaxFloat32)
	for _, z := range db.depth {
		if z == -math.MaxFloat32 {
			continue
		}
		lo = min(lo, z)
		hi = max(hi, z)
	}
	if lo > hi {
		return img
	}
	span := hi - lo
	data := img.Data()
	for i, z := range db.depth {
		if z == -math.MaxFloat32 {
			continue
		}
		g := float32(255)
		if span > 0 {
			g = 1 + (z-lo)/span*254
		}
		data[i] = uint8(g)
	}
	return img
}

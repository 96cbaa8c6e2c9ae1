package raster

import (
	"errors"
	"fmt"
	"math"

	"mesh-tga-renderer/internal/mathutil"
	"mesh-tga-renderer/internal/tga"
)

// ErrDepthMismatch means a pixel inside the target image has no slot in the
// depth buffer: the two were sized for different images.
var ErrDepthMismatch = errors.New("raster: depth buffer smaller than target image")

// Vertex is one screen-space triangle corner. Pos holds pixel x, y and depth.
type Vertex struct {
	Pos    mathutil.Vec3
	UV     mathutil.Vec2
	Normal mathutil.Vec3
}

// Shading selects how a covered pixel gets its color.
type Shading struct {
	// Light is the direction light travels. Used when UseNormals is set.
	Light mathutil.Vec3
	// UseNormals interpolates vertex normals and lights every pixel.
	UseNormals bool
	// Intensity scales the color when UseNormals is off; zero means 1.
	Intensity float32

	Texture    *tga.Image
	UseTexture bool
	Base       tga.Color
}

// DrawTriangle scan-converts abc into dst, testing and updating zbuf.
//
// Every pixel in the bounding box is classified with barycentric weights:
// u belongs to c, v to b and w = 1-u-v to a. The same weights interpolate
// depth, normal and texture coordinates. A pixel is written only when it is
// inside, strictly nearer than the stored depth and lit. Degenerate
// triangles cover nothing. It returns the number of pixels written.
func DrawTriangle(a, b, c Vertex, dst *tga.Image, zbuf *DepthBuffer, sh Shading) (int, error) {
	pa, pb, pc := a.Pos.XY(), b.Pos.XY(), c.Pos.XY()
	ac := pc.Sub(pa)
	ab := pb.Sub(pa)
	cc := ac.Dot(ac)
	bc := ab.Dot(ac)
	bb := ab.Dot(ab)
	d := cc*bb - bc*bc
	if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, nil
	}

	w, h := dst.Width(), dst.Height()
	minX := max(int(math.Floor(min(pa[0], pb[0], pc[0]))), 0)
	minY := max(int(math.Floor(min(pa[1], pb[1], pc[1]))), 0)
	maxX := min(int(math.Ceil(max(pa[0], pb[0], pc[0]))), w-1)
	maxY := min(int(math.Ceil(max(pa[1], pb[1], pc[1]))), h-1)

	useTexture := sh.UseTexture && sh.Texture != nil
	flat := sh.Intensity
	if flat == 0 {
		flat = 1
	}

	written := 0
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			ap := mathutil.Vec2{float64(x), float64(y)}.Sub(pa)
			pcDot := ac.Dot(ap)
			pbDot := ab.Dot(ap)
			u := (bb*pcDot - bc*pbDot) / d
			v := (cc*pbDot - bc*pcDot) / d
			if !(u >= 0 && v >= 0 && u+v <= 1) {
				continue
			}
			wa := 1 - u - v

			idx := x + y*w
			if idx >= zbuf.Len() {
				return written, fmt.Errorf("%w: pixel (%d,%d) of %dx%d, depth len %d",
					ErrDepthMismatch, x, y, w, h, zbuf.Len())
			}
			z := float32(wa*a.Pos[2] + v*b.Pos[2] + u*c.Pos[2])
			if z <= zbuf.depth[idx] {
				continue
			}

			intensity := flat
			if sh.UseNormals {
				n := a.Normal.Scale(wa).Add(b.Normal.Scale(v)).Add(c.Normal.Scale(u))
				intensity = Intensity(n, sh.Light)
			}
			if intensity <= 0 {
				continue
			}

			col := sh.Base
			if useTexture {
				uv := a.UV.Scale(wa).Add(b.UV.Scale(v)).Add(c.UV.Scale(u))
				col = SampleTexture(sh.Texture, uv)
			}

			zbuf.depth[idx] = z
			dst.Set(x, y, col.Scale(intensity))
			written++
		}
	}
	return written, nil
}

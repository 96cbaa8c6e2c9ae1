package raster

import "mesh-tga-renderer/internal/mathutil"

// DefaultLight shines straight into the screen.
var DefaultLight = mathutil.Vec3{0, 0, -1}

// Intensity is the Lambert term of a surface normal lit by a light travelling
// along dir: normalize(n) · -normalize(dir). Non-positive means unlit.
func Intensity(n, dir mathutil.Vec3) float32 {
	return float32(n.Normalize().Dot(dir.Normalize().Scale(-1)))
}

// FaceNormal returns the unnormalized normal of a counter-clockwise triangle.
func FaceNormal(a, b, c mathutil.Vec3) mathutil.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

// FaceIntensity is the flat shading factor for a world-space triangle.
func FaceIntensity(a, b, c, dir mathutil.Vec3) float32 {
	return Intensity(FaceNormal(a, b, c), dir)
}

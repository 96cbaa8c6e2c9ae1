package raster

import (
	"mesh-tga-renderer/internal/mathutil"
	"mesh-tga-renderer/internal/tga"
)

// SampleTexture returns the nearest texel to uv, scaled by the texture's
// width and height. Coordinates outside [0,1] clamp to the edge.
func SampleTexture(tex *tga.Image, uv mathutil.Vec2) tga.Color {
	w, h := tex.Width(), tex.Height()
	if w == 0 || h == 0 {
		return tga.Clear
	}
	x := clampInt(int(uv[0]*float64(w)), 0, w-1)
	y := clampInt(int(uv[1]*float64(h)), 0, h-1)
	return tex.Get(x, y)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

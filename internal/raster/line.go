package raster

import (
	"image"
	"math"

	"mesh-tga-renderer/internal/mathutil"
	"mesh-tga-renderer/internal/tga"
)

// DrawLine rasterizes the segment p0–p1 inclusive of both endpoints.
//
// The axis with the larger extent is walked one pixel at a time, so the
// line has no gaps at any slope. With antialiased set, each step writes the
// floor and ceiling pixels of the exact minor coordinate, each scaled by its
// coverage. Clipping is left to dst.Set.
func DrawLine(p0, p1 image.Point, dst *tga.Image, c tga.Color, antialiased bool) {
	xs, ys, xe, ye := p0.X, p0.Y, p1.X, p1.Y
	steep := abs(xe-xs) < abs(ye-ys)
	if steep {
		xs, ys = ys, xs
		xe, ye = ye, xe
	}
	if xs > xe {
		xs, xe = xe, xs
		ys, ye = ye, ys
	}

	plot := func(x, y int, c tga.Color) {
		if steep {
			dst.Set(y, x, c)
		} else {
			dst.Set(x, y, c)
		}
	}

	if xs == xe {
		lo, hi := min(ys, ye), max(ys, ye)
		for y := lo; y <= hi; y++ {
			plot(xs, y, c)
		}
		return
	}

	if !antialiased {
		span := float64(xe + 1 - xs)
		for x := xs; x <= xe; x++ {
			t := float64(x-xs) / span
			y := int(float64(ys) + float64(ye-ys)*t)
			plot(x, y, c)
		}
		return
	}

	k := float64(ye-ys) / float64(xe-xs)
	b := float64(ys) - k*float64(xs)
	for x := xs; x <= xe; x++ {
		y := k*float64(x) + b
		up, down := math.Ceil(y), math.Floor(y)
		plot(x, int(up), c.ScaleAll(float32(1-(up-y))))
		plot(x, int(down), c.ScaleAll(float32(1-(y-down))))
	}
}

// DrawLineF truncates screen-space endpoints to pixels and draws the line.
func DrawLineF(a, b mathutil.Vec2, dst *tga.Image, c tga.Color, antialiased bool) {
	DrawLine(image.Pt(int(a[0]), int(a[1])), image.Pt(int(b[0]), int(b[1])), dst, c, antialiased)
}

// DrawWireTriangle outlines the triangle abc.
func DrawWireTriangle(a, b, c mathutil.Vec2, dst *tga.Image, col tga.Color, antialiased bool) {
	DrawLineF(a, b, dst, col, antialiased)
	DrawLineF(b, c, dst, col, antialiased)
	DrawLineF(c, a, dst, col, antialiased)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

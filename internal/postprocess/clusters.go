package postprocess

import "mesh-tga-renderer/internal/tga"

// Despeckle clears connected groups of covered pixels (8-connected) that
// hold less than minRatio of all covered pixels. Stray fragments from
// sliver triangles disappear while the body of the mesh stays. img is
// not modified.
func Despeckle(img *tga.Image, minRatio float64) *tga.Image {
	w, h := img.Width(), img.Height()
	bpp := img.BytesPerPixel()
	data := img.Data()

	mask := make([]bool, w*h)
	total := 0
	for i := range mask {
		if covered(data[i*bpp:(i+1)*bpp], img.Format()) {
			mask[i] = true
			total++
		}
	}
	out := img.Clone()
	if total == 0 {
		return out
	}

	labels, sizes := label(mask, w, h)
	if len(sizes) <= 1 {
		return out
	}

	minSize := int(float64(total) * minRatio)
	pix := out.Data()
	for i, l := range labels {
		if l >= 0 && sizes[l] < minSize {
			clear(pix[i*bpp : (i+1)*bpp])
		}
	}
	return out
}

// label assigns a component id to every set cell of mask by breadth-first
// flood fill; unset cells get -1. sizes[id] is the cell count of each id.
func label(mask []bool, w, h int) (labels, sizes []int) {
	labels = make([]int, len(mask))
	for i := range labels {
		labels[i] = -1
	}

	dx := [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	dy := [8]int{-1, -1, -1, 0, 0, 1, 1, 1}
	queue := make([]int, 0, 1024)

	for start, set := range mask {
		if !set || labels[start] >= 0 {
			continue
		}
		id := len(sizes)
		queue = append(queue[:0], start)
		labels[start] = id
		size := 0

		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			size++

			cx, cy := curr%w, curr/w
			for d := range dx {
				nx, ny := cx+dx[d], cy+dy[d]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if ni := ny*w + nx; mask[ni] && labels[ni] < 0 {
					labels[ni] = id
					queue = append(queue, ni)
				}
			}
		}
		sizes = append(sizes, size)
	}
	return labels, sizes
}

package tga

import "errors"

var (
	// ErrFormat marks a structurally invalid or unsupported header.
	ErrFormat = errors.New("tga: bad format")
	// ErrExcessPixels marks an RLE stream that decodes to more pixels than
	// the header declares.
	ErrExcessPixels = errors.New("tga: too many pixels in rle stream")
)

package bmpn

import (
	"fmt"
)

// align4 rounds n up to the next multiple of 4. BMP rows are stored with
// 4-byte stride alignment.
func align4(n int) int {
	return (n + 3) &^ 3
}

// Raster holds the raw pixel data of a BMP image: Height rows of Stride
// bytes each, in the row order of the source file (the sign of
// InfoHeader.Height decides whether that order is bottom-up or top-down;
// the raster itself never reorders rows). Pixels are stored in B, G, R
// and optionally A channel order.
type Raster struct {
	Width         int    // Width in pixels.
	Height        int    // Row count; always positive.
	BytesPerPixel int    // 3 for 24bpp, 4 for 32bpp.
	Stride        int    // Row size in bytes, a multiple of 4.
	Pix           []byte // len(Pix) == Stride * Height.
}

// NewRaster allocates a zeroed raster for the given dimensions.
// bytesPerPixel must be 3 or 4.
func NewRaster(width, height, bytesPerPixel int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: raster dimensions %dx%d", ErrBounds, width, height)
	}
	if bytesPerPixel != 3 && bytesPerPixel != 4 {
		return nil, fmt.Errorf("%w: %d bytes per pixel", ErrBounds, bytesPerPixel)
	}

	stride := align4(width * bytesPerPixel)

	return &Raster{
		Width:         width,
		Height:        height,
		BytesPerPixel: bytesPerPixel,
		Stride:        stride,
		Pix:           make([]byte, stride*height),
	}, nil
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
// All row and channel offset arithmetic goes through here so the stride
// math lives in exactly one place.
func (p *Raster) PixOffset(x, y int) int {
	return y*p.Stride + x*p.BytesPerPixel
}

// row returns the pixel bytes of row y, excluding the padding bytes at
// the end of the row.
func (p *Raster) row(y int) []byte {
	off := y * p.Stride

	return p.Pix[off : off+p.Width*p.BytesPerPixel]
}

// Clone returns a deep copy of p. Transforms mutate rasters in place, so
// pipelines producing several outputs from one decode work on clones.
func (p *Raster) Clone() *Raster {
	q := *p
	q.Pix = make([]byte, len(p.Pix))
	copy(q.Pix, p.Pix)

	return &q
}

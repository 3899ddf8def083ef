package bmpn

import (
	"fmt"
)

// Crop extracts the width×height region whose corner is at (x, y) in
// raster row order and returns it as a new image with recomputed
// headers. The source image is left untouched.
//
// The region must lie entirely inside the source raster and have
// positive dimensions; otherwise Crop fails with ErrBounds and produces
// nothing. Padding bytes of the new raster stay zero — they are never
// copied from the source.
func Crop(m *Image, x, y, width, height int) (*Image, error) {
	src := m.Raster
	if width <= 0 || height <= 0 || x < 0 || y < 0 ||
		x+width > src.Width || y+height > src.Height {
		return nil, fmt.Errorf("%w: crop region %dx%d at (%d, %d) of a %dx%d image",
			ErrBounds, width, height, x, y, src.Width, src.Height)
	}

	dst, err := NewRaster(width, height, src.BytesPerPixel)
	if err != nil {
		return nil, err
	}

	n := width * src.BytesPerPixel
	for j := 0; j < height; j++ {
		so := src.PixOffset(x, y+j)
		do := dst.PixOffset(0, j)
		copy(dst.Pix[do:do+n], src.Pix[so:so+n])
	}

	// New dimensions and sizes; every other field, including the pixel
	// data offset, resolution and the reserved words, carries over.
	ih := m.InfoHeader
	ih.Width = int32(width)
	ih.Height = int32(height)
	if m.InfoHeader.Height < 0 {
		// Keep the source's top-down row order.
		ih.Height = int32(-height)
	}
	ih.SizeImage = uint32(dst.Stride * height)

	fh := m.FileHeader
	fh.Size = fh.OffBits + ih.SizeImage

	return &Image{FileHeader: fh, InfoHeader: ih, Raster: dst}, nil
}

package bmpn

import (
	"fmt"
)

// Quantize reduces the color depth of p in place so every B, G and R
// channel uses at most bitsPerChannel bits of precision. The alpha
// channel of 32bpp rasters and the row padding bytes are left untouched.
//
// This is a uniform floor quantizer: with levels = 2^bitsPerChannel and
// step = 255/(levels-1) (integer division), every channel value v maps
// to (v/step)*step, the lower edge of its bin. Deterministic, no
// dithering, and idempotent at the same or a smaller bit depth.
// bitsPerChannel = 8 is the identity.
func Quantize(p *Raster, bitsPerChannel int) error {
	if bitsPerChannel < 1 || bitsPerChannel > 8 {
		return fmt.Errorf("%w: %d bits per channel, want 1 to 8", ErrBounds, bitsPerChannel)
	}

	levels := 1 << bitsPerChannel

	step := byte(255 / (levels - 1))
	if step == 1 {
		return nil
	}

	bpp := p.BytesPerPixel
	for y := 0; y < p.Height; y++ {
		row := p.row(y)
		for x := 0; x < p.Width; x++ {
			px := row[x*bpp : x*bpp+3]
			px[0] = px[0] / step * step
			px[1] = px[1] / step * step
			px[2] = px[2] / step * step
		}
	}

	return nil
}

package bmpn

// FlipHorizontal mirrors every row of p in place, swapping whole pixels
// (all channels, alpha included) between column c and column
// width-1-c. The middle column of an odd-width raster and the row
// padding bytes are untouched, so dimensions, stride and headers all
// stay valid as they are.
func FlipHorizontal(p *Raster) {
	bpp := p.BytesPerPixel
	for y := 0; y < p.Height; y++ {
		row := p.row(y)
		for x := 0; x < p.Width/2; x++ {
			l := x * bpp
			r := (p.Width - 1 - x) * bpp
			for c := 0; c < bpp; c++ {
				row[l+c], row[r+c] = row[r+c], row[l+c]
			}
		}
	}
}

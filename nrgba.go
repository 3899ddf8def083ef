package bmpn

import (
	"fmt"
	"image"
	"image/color"
	"io"
)

// Horizontal and vertical resolution written on images built from an
// [image.Image], in pixels per meter (roughly 72 DPI).
const defaultPelsPerMeter = 2835

// ToNRGBA converts the decoded image to an [image.NRGBA] in top-down
// visual order, flipping bottom-up sources (positive InfoHeader.Height)
// as it goes. 24bpp pixels become fully opaque; the alpha channel of
// 32bpp pixels is carried over as-is.
func (m *Image) ToNRGBA() *image.NRGBA {
	ra := m.Raster
	img := image.NewNRGBA(image.Rect(0, 0, ra.Width, ra.Height))

	bottomUp := m.InfoHeader.Height > 0
	bpp := ra.BytesPerPixel

	for y := 0; y < ra.Height; y++ {
		srcY := y
		if bottomUp {
			srcY = ra.Height - 1 - y
		}

		src := ra.row(srcY)
		do := img.PixOffset(0, y)

		for x := 0; x < ra.Width; x++ {
			s := src[x*bpp : x*bpp+bpp]
			d := img.Pix[do+x*4 : do+x*4+4]

			d[0], d[1], d[2] = s[2], s[1], s[0]
			if bpp == 4 {
				d[3] = s[3]
			} else {
				d[3] = 0xFF
			}
		}
	}

	return img
}

// FromNRGBA builds a self-consistent, bottom-up BMP image from img at
// the given bit depth (24 or 32). At 24 bits per pixel the alpha channel
// is dropped.
func FromNRGBA(img *image.NRGBA, bitsPerPixel int) (*Image, error) {
	if bitsPerPixel != 24 && bitsPerPixel != 32 {
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupported, bitsPerPixel)
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	ra, err := NewRaster(width, height, bitsPerPixel/8)
	if err != nil {
		return nil, err
	}

	bpp := ra.BytesPerPixel
	for y := 0; y < height; y++ {
		// Bottom-up storage: visual row y lands in raster row height-1-y.
		dst := ra.row(height - 1 - y)
		so := img.PixOffset(b.Min.X, b.Min.Y+y)

		for x := 0; x < width; x++ {
			s := img.Pix[so+x*4 : so+x*4+4]
			d := dst[x*bpp : x*bpp+bpp]

			d[0], d[1], d[2] = s[2], s[1], s[0]
			if bpp == 4 {
				d[3] = s[3]
			}
		}
	}

	sizeImage := uint32(ra.Stride * height)

	return &Image{
		FileHeader: FileHeader{
			Size:    fileHeaderLen + infoHeaderLen + sizeImage,
			OffBits: fileHeaderLen + infoHeaderLen,
		},
		InfoHeader: InfoHeader{
			HeaderSize:    infoHeaderLen,
			Width:         int32(width),
			Height:        int32(height),
			Planes:        1,
			BitCount:      uint16(bitsPerPixel),
			SizeImage:     sizeImage,
			XPelsPerMeter: defaultPelsPerMeter,
			YPelsPerMeter: defaultPelsPerMeter,
		},
		Raster: ra,
	}, nil
}

// EncodeImage writes img to w as an uncompressed BMP at the given bit
// depth (24 or 32). Images that are not [image.NRGBA] are converted
// first, which may be lossy.
func EncodeImage(w io.Writer, img image.Image, bitsPerPixel int) error {
	m, err := FromNRGBA(toNRGBA(img), bitsPerPixel)
	if err != nil {
		return err
	}

	return Encode(w, m)
}

// toNRGBA converts any image to *image.NRGBA.
func toNRGBA(m image.Image) *image.NRGBA {
	if p, ok := m.(*image.NRGBA); ok {
		return p
	}

	img := image.NewNRGBA(m.Bounds())
	for y := m.Bounds().Min.Y; y < m.Bounds().Max.Y; y++ {
		for x := m.Bounds().Min.X; x < m.Bounds().Max.X; x++ {
			img.Set(x, y, color.NRGBAModel.Convert(m.At(x, y)))
		}
	}

	return img
}

package bmpn

import (
	"fmt"
)

// Upper bound on the decoded pixel buffer. A corrupt header is rejected
// here instead of triggering a runaway allocation.
const maxImageBytes = 1 << 31

// Keeps stride arithmetic well inside the int range even on 32-bit
// builds; no real BMP comes anywhere near this.
const maxDimension = 1 << 24

// decoder holds the state of the BMP decoding process.
type decoder struct {
	fileHeader FileHeader
	infoHeader InfoHeader
	width      int // Width in pixels.
	height     int // Row count, abs(InfoHeader.Height).
	bpp        int // Bytes per pixel, 3 or 4.
}

// parseHeaders reads and validates both headers from the start of data.
// It needs only the first 54 bytes, so DecodeConfig shares it with the
// full decode path.
func (d *decoder) parseHeaders(data []byte) error {
	if len(data) < 2 || data[0] != 'B' || data[1] != 'M' {
		return ErrNotBMP
	}
	if len(data) < fileHeaderLen+infoHeaderLen {
		return fmt.Errorf("%w: incomplete headers", ErrTruncated)
	}

	d.fileHeader.unmarshal(data)
	d.infoHeader.unmarshal(data[fileHeaderLen:])

	ih := &d.infoHeader
	if ih.HeaderSize != infoHeaderLen {
		return fmt.Errorf("%w: %d-byte DIB header", ErrUnsupported, ih.HeaderSize)
	}
	if ih.Planes != 1 {
		return fmt.Errorf("%w: %d color planes", ErrUnsupported, ih.Planes)
	}

	// Bit depth and compression are deliberately separate checks; the
	// combined condition is a known precedence trap.
	if ih.BitCount != 24 && ih.BitCount != 32 {
		return fmt.Errorf("%w: %d bits per pixel", ErrUnsupported, ih.BitCount)
	}
	if ih.Compression != 0 {
		return fmt.Errorf("%w: compression mode %d", ErrUnsupported, ih.Compression)
	}

	width := int(ih.Width)
	rows := int(ih.Height)
	if rows < 0 {
		// Top-down image. The raster keeps the file's row order either
		// way; the sign survives in InfoHeader.Height.
		rows = -rows
	}
	if width <= 0 || rows == 0 {
		return fmt.Errorf("%w: %dx%d image", ErrUnsupported, ih.Width, ih.Height)
	}
	if width > maxDimension || rows > maxDimension {
		return fmt.Errorf("%w: %dx%d image", ErrUnsupported, ih.Width, ih.Height)
	}

	d.width = width
	d.height = rows
	d.bpp = int(ih.BitCount) / 8

	return nil
}

// decode parses a whole BMP byte stream into headers and a raster.
func (d *decoder) decode(data []byte) (*Image, error) {
	if err := d.parseHeaders(data); err != nil {
		return nil, err
	}

	stride := align4(d.width * d.bpp)
	need := int64(stride) * int64(d.height)
	if need > maxImageBytes {
		return nil, fmt.Errorf("%w: %d bytes of pixel data", ErrUnsupported, need)
	}

	offset := int64(d.fileHeader.OffBits)
	if offset < fileHeaderLen+infoHeaderLen {
		return nil, fmt.Errorf("%w: pixel data offset %d overlaps headers", ErrNotBMP, offset)
	}
	if offset+need > int64(len(data)) {
		return nil, fmt.Errorf("%w: need %d pixel bytes at offset %d, have %d bytes",
			ErrTruncated, need, offset, len(data))
	}

	ra, err := NewRaster(d.width, d.height, d.bpp)
	if err != nil {
		return nil, err
	}
	copy(ra.Pix, data[offset:offset+need])

	return &Image{
		FileHeader: d.fileHeader,
		InfoHeader: d.infoHeader,
		Raster:     ra,
	}, nil
}

package bmpn

import (
	"fmt"
	"io"
)

// Encode writes m to w as a BMP byte stream: both headers, any gap the
// file header declares before the pixel data (zero-filled), then the
// raster bytes. The signature is always written in its canonical "BM"
// form.
//
// Encode performs no consistency validation: the caller must hand it a
// self-consistent triple of headers and raster. Decode and the
// size-changing transforms always do.
func Encode(w io.Writer, m *Image) error {
	var b [fileHeaderLen + infoHeaderLen]byte
	m.FileHeader.marshal(b[:])
	m.InfoHeader.marshal(b[fileHeaderLen:])

	if _, err := w.Write(b[:]); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	// Pixel data starts where OffBits says it does. A file header
	// declaring a larger offset gets the space zero-filled.
	if gap := int(m.FileHeader.OffBits) - len(b); gap > 0 {
		if _, err := w.Write(make([]byte, gap)); err != nil {
			return fmt.Errorf("failed to write pixel data gap: %w", err)
		}
	}

	if _, err := w.Write(m.Raster.Pix); err != nil {
		return fmt.Errorf("failed to write pixel data: %w", err)
	}

	return nil
}

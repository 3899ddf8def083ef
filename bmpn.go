// Package bmpn implements a decoder and encoder for uncompressed 24-bit
// and 32-bit Windows Bitmap (BMP) images, together with a small set of
// pixel transforms: per-channel quantization, region cropping, and
// horizontal mirroring.
//
// Decode returns the two file headers alongside the raw pixel raster, so
// a decoded image can be transformed and re-encoded without losing
// pass-through header fields. For interoperability with the standard
// library, the package also registers itself with the image package and
// offers conversions to and from [image.NRGBA].
package bmpn

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// Standard error types for BMP decoding and transforms.
var (
	ErrNotBMP      = errors.New("not a BMP file")
	ErrUnsupported = errors.New("unsupported BMP format")
	ErrTruncated   = errors.New("truncated BMP data")
	ErrBounds      = errors.New("out of bounds")
)

// Image is a decoded BMP: both headers plus the pixel raster. The
// headers are returned exactly as read; size-changing transforms return
// a new Image with recomputed header fields.
type Image struct {
	FileHeader FileHeader
	InfoHeader InfoHeader
	Raster     *Raster
}

// Clone returns a deep copy of m. Pipelines that produce several outputs
// from one decode transform clones so the outputs never share a raster.
func (m *Image) Clone() *Image {
	return &Image{
		FileHeader: m.FileHeader,
		InfoHeader: m.InfoHeader,
		Raster:     m.Raster.Clone(),
	}
}

// Interface to check if a reader knows its remaining length.
type readerWithLen interface {
	Len() int
}

// readAllData reads data from r, pre-allocating if the size is known.
func readAllData(r io.Reader) ([]byte, error) {
	// Pre-allocate the buffer if the reader knows its remaining length.
	// This avoids the re-allocations of io.ReadAll for large images.
	if rl, ok := r.(readerWithLen); ok {
		size := rl.Len()
		if size > 0 {
			data := make([]byte, size)
			_, err := io.ReadFull(r, data)
			if err != nil {
				return nil, fmt.Errorf("failed to read image data: %w", err)
			}

			return data, nil
		}
	}

	// Fallback for readers that don't implement Len() (e.g. os.File) or were empty.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return data, nil
}

// Decode reads a BMP image from r. Only uncompressed images at 24 or 32
// bits per pixel with a 40-byte BITMAPINFOHEADER are supported; anything
// else fails with an error wrapping ErrUnsupported.
func Decode(r io.Reader) (*Image, error) {
	data, err := readAllData(r)
	if err != nil {
		return nil, err
	}

	var d decoder

	return d.decode(data)
}

// DecodeConfig returns the dimensions and color model of a BMP image
// without reading the pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var b [fileHeaderLen + infoHeaderLen]byte

	n, err := io.ReadFull(r, b[:])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return image.Config{}, err
	}

	var d decoder
	if err := d.parseHeaders(b[:n]); err != nil {
		return image.Config{}, err
	}

	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      d.width,
		Height:     d.height,
	}, nil
}

// init registers the BMP format with the standard library's image
// package, so image.Decode recognizes BMP streams and returns them as
// [image.NRGBA].
func init() {
	decodeWrapper := func(r io.Reader) (image.Image, error) {
		m, err := Decode(r)
		if err != nil {
			return nil, err
		}

		return m.ToNRGBA(), nil
	}

	image.RegisterFormat("bmp", "BM", decodeWrapper, DecodeConfig)
}

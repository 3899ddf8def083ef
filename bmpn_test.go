package bmpn

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"
)

// pix4x2 is the raster of the 4×2, 24bpp test image: two rows of four
// B,G,R pixels, stride 12, no padding. The file is bottom-up, so row 0
// here is the bottom row of the picture.
var pix4x2 = []byte{
	10, 20, 30, 200, 210, 220, 40, 50, 60, 70, 80, 90,
	1, 2, 3, 4, 5, 6, 7, 8, 9, 250, 251, 252,
}

// headers4x2 returns self-consistent headers for pix4x2.
func headers4x2() (FileHeader, InfoHeader) {
	fh := FileHeader{Size: 78, OffBits: 54}
	ih := InfoHeader{
		HeaderSize:    infoHeaderLen,
		Width:         4,
		Height:        2,
		Planes:        1,
		BitCount:      24,
		SizeImage:     24,
		XPelsPerMeter: 2835,
		YPelsPerMeter: 2835,
	}

	return fh, ih
}

// makeBMP assembles a BMP byte stream from headers and a raw raster,
// zero-filling any gap the file header declares before the pixel data.
func makeBMP(tb testing.TB, fh FileHeader, ih InfoHeader, pix []byte) []byte {
	tb.Helper()

	b := make([]byte, fileHeaderLen+infoHeaderLen)
	fh.marshal(b)
	ih.marshal(b[fileHeaderLen:])

	if gap := int(fh.OffBits) - len(b); gap > 0 {
		b = append(b, make([]byte, gap)...)
	}

	return append(b, pix...)
}

func TestDecode(t *testing.T) {
	fh, ih := headers4x2()
	valid := makeBMP(t, fh, ih, pix4x2)

	m, err := Decode(bytes.NewReader(valid))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if m.FileHeader != fh {
		t.Errorf("file header changed by decode: got %+v, want %+v", m.FileHeader, fh)
	}
	if m.InfoHeader != ih {
		t.Errorf("info header changed by decode: got %+v, want %+v", m.InfoHeader, ih)
	}

	ra := m.Raster
	if ra.Width != 4 || ra.Height != 2 || ra.BytesPerPixel != 3 || ra.Stride != 12 {
		t.Fatalf("unexpected raster geometry: %+v", ra)
	}
	if !bytes.Equal(ra.Pix, pix4x2) {
		t.Errorf("raster bytes do not match source:\ngot  %v\nwant %v", ra.Pix, pix4x2)
	}
}

func TestDecodeTopDown(t *testing.T) {
	fh, ih := headers4x2()
	ih.Height = -2

	m, err := Decode(bytes.NewReader(makeBMP(t, fh, ih, pix4x2)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	// The sign stays in the header; the raster keeps file row order.
	if m.InfoHeader.Height != -2 {
		t.Errorf("height sign not preserved: got %d", m.InfoHeader.Height)
	}
	if m.Raster.Height != 2 {
		t.Errorf("raster row count: got %d, want 2", m.Raster.Height)
	}
	if !bytes.Equal(m.Raster.Pix, pix4x2) {
		t.Errorf("raster bytes reordered for a top-down image")
	}
}

func TestDecodeErrors(t *testing.T) {
	fh, ih := headers4x2()
	valid := makeBMP(t, fh, ih, pix4x2)

	tests := []struct {
		name    string
		mutate  func(b []byte) []byte
		wantErr error
	}{
		{
			name:    "empty input",
			mutate:  func(b []byte) []byte { return nil },
			wantErr: ErrNotBMP,
		},
		{
			name:    "bad signature",
			mutate:  func(b []byte) []byte { b[0] = 'X'; return b },
			wantErr: ErrNotBMP,
		},
		{
			name:    "incomplete headers",
			mutate:  func(b []byte) []byte { return b[:20] },
			wantErr: ErrTruncated,
		},
		{
			name:    "v5 DIB header",
			mutate:  func(b []byte) []byte { b[14] = 124; return b },
			wantErr: ErrUnsupported,
		},
		{
			name:    "two color planes",
			mutate:  func(b []byte) []byte { b[26] = 2; return b },
			wantErr: ErrUnsupported,
		},
		{
			name:    "16 bits per pixel",
			mutate:  func(b []byte) []byte { b[28] = 16; return b },
			wantErr: ErrUnsupported,
		},
		{
			name:    "8 bits per pixel",
			mutate:  func(b []byte) []byte { b[28] = 8; return b },
			wantErr: ErrUnsupported,
		},
		{
			name:    "RLE compression",
			mutate:  func(b []byte) []byte { b[30] = 1; return b },
			wantErr: ErrUnsupported,
		},
		{
			name: "zero width",
			mutate: func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[18:], 0)
				return b
			},
			wantErr: ErrUnsupported,
		},
		{
			name: "negative width",
			mutate: func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[18:], uint32(0xFFFFFFFF))
				return b
			},
			wantErr: ErrUnsupported,
		},
		{
			name: "zero height",
			mutate: func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[22:], 0)
				return b
			},
			wantErr: ErrUnsupported,
		},
		{
			name:    "truncated pixel data",
			mutate:  func(b []byte) []byte { return b[:len(b)-1] },
			wantErr: ErrTruncated,
		},
		{
			name: "pixel offset past end of file",
			mutate: func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[10:], 4096)
				return b
			},
			wantErr: ErrTruncated,
		},
		{
			name: "pixel offset inside headers",
			mutate: func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[10:], 14)
				return b
			},
			wantErr: ErrNotBMP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.mutate(append([]byte(nil), valid...))

			_, err := Decode(bytes.NewReader(b))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	fh, ih := headers4x2()

	t.Run("no gap", func(t *testing.T) {
		src := makeBMP(t, fh, ih, pix4x2)

		m, err := Decode(bytes.NewReader(src))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}

		var buf bytes.Buffer
		if err := Encode(&buf, m); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if !bytes.Equal(buf.Bytes(), src) {
			t.Errorf("encode(decode(b)) != b:\ngot  %v\nwant %v", buf.Bytes(), src)
		}
	})

	t.Run("zeroed gap before pixel data", func(t *testing.T) {
		gfh := fh
		gfh.OffBits = 70
		gfh.Size = 70 + 24
		src := makeBMP(t, gfh, ih, pix4x2)

		m, err := Decode(bytes.NewReader(src))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}

		var buf bytes.Buffer
		if err := Encode(&buf, m); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if !bytes.Equal(buf.Bytes(), src) {
			t.Errorf("encode(decode(b)) != b for a file with a header gap")
		}
	})
}

func TestEncodeCanonicalSignature(t *testing.T) {
	fh, ih := headers4x2()
	m, err := Decode(bytes.NewReader(makeBMP(t, fh, ih, pix4x2)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if b := buf.Bytes(); b[0] != 'B' || b[1] != 'M' {
		t.Errorf("signature = %q, want \"BM\"", b[:2])
	}
}

func TestDecodeConfig(t *testing.T) {
	fh, ih := headers4x2()

	cfg, err := DecodeConfig(bytes.NewReader(makeBMP(t, fh, ih, pix4x2)))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}

	if cfg.Width != 4 || cfg.Height != 2 {
		t.Errorf("config dimensions = %dx%d, want 4x2", cfg.Width, cfg.Height)
	}
	if cfg.ColorModel != color.NRGBAModel {
		t.Errorf("unexpected color model")
	}

	if _, err := DecodeConfig(bytes.NewReader([]byte("BM"))); !errors.Is(err, ErrTruncated) {
		t.Errorf("short stream error = %v, want %v", err, ErrTruncated)
	}
}

// TestImageDecode exercises the image.RegisterFormat path.
func TestImageDecode(t *testing.T) {
	fh, ih := headers4x2()

	img, format, err := image.Decode(bytes.NewReader(makeBMP(t, fh, ih, pix4x2)))
	if err != nil {
		t.Fatalf("image.Decode: %v", err)
	}
	if format != "bmp" {
		t.Errorf("format = %q, want \"bmp\"", format)
	}

	// Bottom-up file: the visual top-left pixel is the first pixel of
	// the last raster row, B=1 G=2 R=3. The test imports x/image/bmp,
	// which registers a "bmp" format of its own, so go through the
	// color model instead of assuming whose decoder answered.
	want := color.NRGBA{R: 3, G: 2, B: 1, A: 255}
	if got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA); got != want {
		t.Errorf("top-left pixel = %+v, want %+v", got, want)
	}
}

// FuzzDecode checks that Decode never panics and that every successful
// decode survives re-encoding.
func FuzzDecode(f *testing.F) {
	fh, ih := headers4x2()
	f.Add(makeBMP(f, fh, ih, pix4x2))

	ih.Height = -2
	f.Add(makeBMP(f, fh, ih, pix4x2))

	f.Fuzz(func(t *testing.T, data []byte) {
		m, err := Decode(bytes.NewReader(data))
		if err != nil {
			return
		}

		var buf bytes.Buffer
		if err := Encode(&buf, m); err != nil {
			t.Fatalf("Encode after successful Decode: %v", err)
		}
	})
}

func FuzzDecodeConfig(f *testing.F) {
	fh, ih := headers4x2()
	f.Add(makeBMP(f, fh, ih, pix4x2))

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = DecodeConfig(bytes.NewReader(data))
	})
}

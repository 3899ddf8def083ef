package bmpn

import (
	"encoding/binary"
)

// On-disk sizes of the two fixed headers. A supported file is a
// BITMAPFILEHEADER immediately followed by a 40-byte BITMAPINFOHEADER.
const (
	fileHeaderLen = 14
	infoHeaderLen = 40
)

// FileHeader mirrors the BITMAPFILEHEADER structure. The two-byte "BM"
// signature is not stored: it is validated on decode and always written
// in its canonical form on encode.
type FileHeader struct {
	Size      uint32 // Total file size in bytes.
	Reserved1 uint16 // Reserved; carried through unmodified.
	Reserved2 uint16 // Reserved; carried through unmodified.
	OffBits   uint32 // Byte offset from the start of the file to the pixel data.
}

// InfoHeader mirrors the BITMAPINFOHEADER (40-byte DIB header) structure.
type InfoHeader struct {
	HeaderSize    uint32 // Size of this header in bytes; must be 40.
	Width         int32  // Image width in pixels.
	Height        int32  // Image height in pixels; negative means top-down row order.
	Planes        uint16 // Color plane count; must be 1.
	BitCount      uint16 // Bits per pixel; 24 or 32.
	Compression   uint32 // Compression mode; 0 (uncompressed) only.
	SizeImage     uint32 // Pixel data size in bytes.
	XPelsPerMeter int32  // Horizontal resolution; carried through unmodified.
	YPelsPerMeter int32  // Vertical resolution; carried through unmodified.
	ClrUsed       uint32 // Palette color count; carried through unmodified.
	ClrImportant  uint32 // Important color count; carried through unmodified.
}

// The wire format is packed little-endian with no alignment, so the
// headers are read and written field by field at fixed offsets rather
// than through any in-memory struct layout.

// unmarshal reads h from b, which must hold at least fileHeaderLen bytes
// starting at the file signature. The signature itself is checked by the
// caller.
func (h *FileHeader) unmarshal(b []byte) {
	h.Size = binary.LittleEndian.Uint32(b[2:6])
	h.Reserved1 = binary.LittleEndian.Uint16(b[6:8])
	h.Reserved2 = binary.LittleEndian.Uint16(b[8:10])
	h.OffBits = binary.LittleEndian.Uint32(b[10:14])
}

// marshal writes h to b, which must hold at least fileHeaderLen bytes.
func (h *FileHeader) marshal(b []byte) {
	b[0], b[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(b[2:6], h.Size)
	binary.LittleEndian.PutUint16(b[6:8], h.Reserved1)
	binary.LittleEndian.PutUint16(b[8:10], h.Reserved2)
	binary.LittleEndian.PutUint32(b[10:14], h.OffBits)
}

// unmarshal reads h from b, which must hold at least infoHeaderLen bytes
// starting at the DIB header.
func (h *InfoHeader) unmarshal(b []byte) {
	h.HeaderSize = binary.LittleEndian.Uint32(b[0:4])
	h.Width = int32(binary.LittleEndian.Uint32(b[4:8]))
	h.Height = int32(binary.LittleEndian.Uint32(b[8:12]))
	h.Planes = binary.LittleEndian.Uint16(b[12:14])
	h.BitCount = binary.LittleEndian.Uint16(b[14:16])
	h.Compression = binary.LittleEndian.Uint32(b[16:20])
	h.SizeImage = binary.LittleEndian.Uint32(b[20:24])
	h.XPelsPerMeter = int32(binary.LittleEndian.Uint32(b[24:28]))
	h.YPelsPerMeter = int32(binary.LittleEndian.Uint32(b[28:32]))
	h.ClrUsed = binary.LittleEndian.Uint32(b[32:36])
	h.ClrImportant = binary.LittleEndian.Uint32(b[36:40])
}

// marshal writes h to b, which must hold at least infoHeaderLen bytes.
func (h *InfoHeader) marshal(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], h.HeaderSize)
	binary.LittleEndian.PutUint32(b[4:8], uint32(h.Width))
	binary.LittleEndian.PutUint32(b[8:12], uint32(h.Height))
	binary.LittleEndian.PutUint16(b[12:14], h.Planes)
	binary.LittleEndian.PutUint16(b[14:16], h.BitCount)
	binary.LittleEndian.PutUint32(b[16:20], h.Compression)
	binary.LittleEndian.PutUint32(b[20:24], h.SizeImage)
	binary.LittleEndian.PutUint32(b[24:28], uint32(h.XPelsPerMeter))
	binary.LittleEndian.PutUint32(b[28:32], uint32(h.YPelsPerMeter))
	binary.LittleEndian.PutUint32(b[32:36], h.ClrUsed)
	binary.LittleEndian.PutUint32(b[36:40], h.ClrImportant)
}

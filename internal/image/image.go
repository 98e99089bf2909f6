// Package image provides read-only access to the loaded binary image.
package image

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an address or its read window falls
// outside the binary image.
var ErrOutOfRange = errors.New("address out of range")

// Image is the binary image as an ordered, fixed-length byte sequence.
// The base is the virtual address corresponding to byte offset 0.
type Image struct {
	data []byte
	base uint32
}

// New creates a new image from the raw file data and the image base address.
func New(data []byte, base uint32) *Image {
	return &Image{
		data: data,
		base: base,
	}
}

// Base returns the virtual address of the first byte of the image.
func (img *Image) Base() uint32 {
	return img.base
}

// Len returns the size of the image in bytes.
func (img *Image) Len() int {
	return len(img.data)
}

// Window returns size bytes starting at the given virtual address.
// The window is validated against the image bounds before any read,
// a violation returns ErrOutOfRange.
func (img *Image) Window(addr uint32, size int) ([]byte, error) {
	if addr < img.base {
		return nil, fmt.Errorf("%w: address 0x%08X is below image base 0x%08X",
			ErrOutOfRange, addr, img.base)
	}
	offset := int64(addr) - int64(img.base)
	if offset+int64(size) > int64(len(img.data)) {
		return nil, fmt.Errorf("%w: address 0x%08X with window %d exceeds image size %d",
			ErrOutOfRange, addr, size, len(img.data))
	}
	return img.data[offset : offset+int64(size)], nil
}

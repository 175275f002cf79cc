package pngDecoder

import (
	"bytes"
	"encoding/binary"

	"pngread/oops"
)

const ihdrLength = 13

type ColorType byte

const (
	Grayscale      ColorType = 0
	RGB            ColorType = 2
	Palette        ColorType = 3
	GrayscaleAlpha ColorType = 4
	RGBA           ColorType = 6
)

func (c ColorType) String() string {
	switch c {
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	case Palette:
		return "palette"
	case GrayscaleAlpha:
		return "grayscale+alpha"
	case RGBA:
		return "rgba"
	}
	return "unknown"
}

// BytesPerPixel is the number of 8-bit samples per pixel, or 0 for a colour
// type that is not defined.
func (c ColorType) BytesPerPixel() int {
	switch c {
	case Grayscale, Palette:
		return 1
	case GrayscaleAlpha:
		return 2
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

// IHDR mirrors the 13-byte on-wire header; multi-byte fields are already in
// host order once parsed.
type IHDR struct {
	Width             uint32
	Height            uint32
	BitDepth          byte
	ColorType         ColorType
	CompressionMethod byte
	FilterMethod      byte
	InterlaceMethod   byte
}

func ParseIHDR(data []byte) (*IHDR, error) {
	if len(data) != ihdrLength {
		return nil, oops.New(ErrMalformedContainer, "IHDR is %d bytes, expected %d", len(data), ihdrLength)
	}

	var ihdr IHDR
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &ihdr); err != nil {
		return nil, oops.New(ErrMalformedContainer, "failed to read IHDR: %v", err)
	}
	return &ihdr, nil
}

// Validate rejects headers that are not valid PNG and headers outside the
// 8-bit, non-palette, non-interlaced subset this package decodes.
func (ihdr *IHDR) Validate() error {
	if ihdr.Width == 0 || ihdr.Height == 0 {
		return oops.New(ErrMalformedContainer, "invalid dimensions %dx%d", ihdr.Width, ihdr.Height)
	}
	if ihdr.ColorType.BytesPerPixel() == 0 {
		return oops.New(ErrMalformedContainer, "invalid color type %d", ihdr.ColorType)
	}
	if ihdr.BitDepth != 8 {
		return oops.New(ErrUnsupportedFormat, "bit depth %d", ihdr.BitDepth)
	}
	if ihdr.ColorType == Palette {
		return oops.New(ErrUnsupportedFormat, "palette color type")
	}
	if ihdr.CompressionMethod != 0 {
		return oops.New(ErrUnsupportedFormat, "compression method %d", ihdr.CompressionMethod)
	}
	if ihdr.FilterMethod != 0 {
		return oops.New(ErrUnsupportedFormat, "filter method %d", ihdr.FilterMethod)
	}
	if ihdr.InterlaceMethod != 0 {
		return oops.New(ErrUnsupportedFormat, "interlace method %d", ihdr.InterlaceMethod)
	}
	return nil
}

func (ihdr *IHDR) BytesPerPixel() int {
	return ihdr.ColorType.BytesPerPixel()
}

func (ihdr *IHDR) RowBytes() int {
	return int(ihdr.Width) * ihdr.BytesPerPixel()
}

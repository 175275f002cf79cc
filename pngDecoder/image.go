package pngDecoder

import (
	"fmt"
	"image"
)

// Image is a decoded, unfiltered PNG. The pixel buffer keeps the original
// scanline layout: each row is one filter-type byte followed by rowBytes of
// pixel data.
type Image struct {
	header   IHDR
	pix      []byte
	stride   int
	rowBytes int
}

func newImage(header IHDR, pix []byte) *Image {
	rowBytes := header.RowBytes()
	return &Image{
		header:   header,
		pix:      pix,
		stride:   rowBytes + 1,
		rowBytes: rowBytes,
	}
}

func (img *Image) Width() int         { return int(img.header.Width) }
func (img *Image) Height() int        { return int(img.header.Height) }
func (img *Image) BytesPerPixel() int { return img.header.BytesPerPixel() }
func (img *Image) RowBytes() int      { return img.rowBytes }
func (img *Image) ColorType() ColorType {
	return img.header.ColorType
}

// Row returns the rowBytes pixel bytes of row r. The slice aliases the
// decoder's buffer and must not be modified. r outside [0, Height()) panics.
func (img *Image) Row(r int) []byte {
	if r < 0 || r >= img.Height() {
		panic(fmt.Sprintf("pngDecoder: row %d out of range [0, %d)", r, img.Height()))
	}
	start := r*img.stride + 1
	end := start + img.rowBytes
	return img.pix[start:end:end]
}

// ToImage copies the pixels into a standard library image: *image.Gray for
// grayscale, *image.NRGBA for everything else.
func (img *Image) ToImage() image.Image {
	rect := image.Rect(0, 0, img.Width(), img.Height())

	if img.header.ColorType == Grayscale {
		gray := image.NewGray(rect)
		for y := 0; y < img.Height(); y++ {
			copy(gray.Pix[gray.PixOffset(0, y):], img.Row(y))
		}
		return gray
	}

	nrgba := image.NewNRGBA(rect)
	for y := 0; y < img.Height(); y++ {
		row := img.Row(y)
		dst := nrgba.Pix[nrgba.PixOffset(0, y):]
		switch img.header.ColorType {
		case RGBA:
			copy(dst, row)
		case RGB:
			for x := 0; x < img.Width(); x++ {
				dst[4*x+0] = row[3*x+0]
				dst[4*x+1] = row[3*x+1]
				dst[4*x+2] = row[3*x+2]
				dst[4*x+3] = 0xff
			}
		case GrayscaleAlpha:
			for x := 0; x < img.Width(); x++ {
				v := row[2*x]
				dst[4*x+0] = v
				dst[4*x+1] = v
				dst[4*x+2] = v
				dst[4*x+3] = row[2*x+1]
			}
		}
	}
	return nrgba
}

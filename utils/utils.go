package utils

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"

	"golang.org/x/image/bmp"
)

func BytesToLength(data []byte) uint32 {
	return binary.BigEndian.Uint32(data)
}

// Rows is anything that hands out fixed-width rows of raw pixel bytes.
type Rows interface {
	Height() int
	Row(r int) []byte
}

// WriteRaw writes every row back to back, with no header and no padding.
func WriteRaw(w io.Writer, rows Rows) error {
	for r := 0; r < rows.Height(); r++ {
		if _, err := w.Write(rows.Row(r)); err != nil {
			return err
		}
	}
	return nil
}

// WritePPM writes a binary (P6) PPM. Alpha is dropped, gray is expanded.
func WritePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	var px [3]byte
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			px[0], px[1], px[2] = c.R, c.G, c.B
			if _, err := bw.Write(px[:]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func WriteBMP(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

package pngDecoder

import (
	"pngread/oops"
)

type FilterMethod byte

const (
	NONE FilterMethod = iota
	LEFT
	UP
	AVG
	PAETH
)

func (f FilterMethod) String() string {
	switch f {
	case NONE:
		return "none"
	case LEFT:
		return "sub"
	case UP:
		return "up"
	case AVG:
		return "average"
	case PAETH:
		return "paeth"
	}
	return "invalid"
}

// Reconstruct reverses the per-scanline filters of pix in place. pix holds
// height rows of rowBytes+1 bytes, each starting with its filter type.
// Rows are processed top to bottom and bytes left to right, since every
// predictor reads neighbours that must already be reconstructed. Neighbours
// outside the image read as zero.
func Reconstruct(pix []byte, rowBytes, height, bytesPerPixel int) error {
	if bytesPerPixel < 1 || rowBytes < bytesPerPixel || height < 1 {
		return oops.New(nil, "invalid geometry: rowBytes=%d height=%d bytesPerPixel=%d", rowBytes, height, bytesPerPixel)
	}
	stride := rowBytes + 1
	if len(pix) != stride*height {
		return oops.New(nil, "pixel buffer is %d bytes, expected %d", len(pix), stride*height)
	}

	// Row 0 predicts from an all-zero row above it.
	previousLine := make([]byte, rowBytes)
	for y := 0; y < height; y++ {
		row := pix[y*stride : (y+1)*stride]
		scanline := row[1:]

		switch FilterMethod(row[0]) {
		case NONE:
			// No-op.
		case LEFT:
			processLeftFilter(scanline, bytesPerPixel)
		case UP:
			processUpFilter(previousLine, scanline)
		case AVG:
			processAvgFilter(previousLine, scanline, bytesPerPixel)
		case PAETH:
			processPaethFilter(previousLine, scanline, bytesPerPixel)
		default:
			return oops.New(ErrInvalidFilter, "row %d has filter type %d", y, row[0])
		}
		previousLine = scanline
	}
	return nil
}

func processLeftFilter(scanline []byte, bytesPerPixel int) {
	for i := range scanline {
		var left byte
		if i >= bytesPerPixel {
			left = scanline[i-bytesPerPixel]
		}
		scanline[i] += left
	}
}

func processUpFilter(previousLine []byte, scanline []byte) {
	for i, above := range previousLine {
		scanline[i] += above
	}
}

func processAvgFilter(previousLine []byte, scanline []byte, bytesPerPixel int) {
	for i := range scanline {
		var left int
		if i >= bytesPerPixel {
			left = int(scanline[i-bytesPerPixel])
		}
		above := int(previousLine[i])
		scanline[i] += uint8((left + above) / 2)
	}
}

func processPaethFilter(previousLine []byte, scanline []byte, bytesPerPixel int) {
	for i := range scanline {
		var left, upperLeft int
		if i >= bytesPerPixel {
			left = int(scanline[i-bytesPerPixel])
			upperLeft = int(previousLine[i-bytesPerPixel])
		}
		above := int(previousLine[i])
		scanline[i] += uint8(paethPredictor(left, above, upperLeft))
	}
}

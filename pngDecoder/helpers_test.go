package pngDecoder

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"math/rand"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

// 2x2 RGB: signature, IHDR, one IDAT holding the zlib stream of a 14-byte
// filtered buffer (row 0 Sub, row 1 Up), IEND.
var canonicalPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x02,
	0x08, 0x02, 0x00, 0x00, 0x00, 0xfd, 0xd4, 0x9a, 0x73, 0x00, 0x00, 0x00,
	0x16, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0xfc, 0xcf, 0xc0, 0xc0,
	0xf8, 0x9f, 0x81, 0x89, 0x91, 0xe1, 0xff, 0x7f, 0x86, 0xff, 0x00, 0x1e,
	0x1c, 0x05, 0x01, 0x39, 0x9a, 0x43, 0x30, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

var canonicalFiltered = []byte{
	1, 0xff, 0x00, 0x00, 0x01, 0xff, 0x00,
	2, 0x01, 0x00, 0xff, 0xff, 0x00, 0xff,
}

var canonicalRaw = []byte{
	0xff, 0x00, 0x00, 0x00, 0xff, 0x00,
	0x00, 0x00, 0xff, 0xff, 0xff, 0xff,
}

const (
	// Offsets into canonicalPNG where a chunk ends.
	canonicalAfterIHDR = 8 + 8 + 13 + 4
	canonicalAfterIDAT = canonicalAfterIHDR + 8 + 22 + 4
)

func makeChunk(chunkType string, data []byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(len(data)))
	buf.WriteString(chunkType)
	buf.Write(data)
	crc := crc32.NewIEEE()
	crc.Write([]byte(chunkType))
	crc.Write(data)
	binary.Write(&buf, binary.BigEndian, crc.Sum32())
	return buf.Bytes()
}

func makeIHDR(width, height uint32, depth byte, colorType ColorType, compression, filter, interlace byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, IHDR{
		Width:             width,
		Height:            height,
		BitDepth:          depth,
		ColorType:         colorType,
		CompressionMethod: compression,
		FilterMethod:      filter,
		InterlaceMethod:   interlace,
	})
	return makeChunk("IHDR", buf.Bytes())
}

func makePNG(chunks ...[]byte) []byte {
	out := append([]byte(nil), pngHeader...)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func iend() []byte {
	return makeChunk("IEND", nil)
}

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// filterImage applies the forward PNG filters to raw (height rows of rowBytes),
// cycling through filters row by row.
func filterImage(raw []byte, rowBytes, height, bytesPerPixel int, filters ...FilterMethod) []byte {
	out := make([]byte, 0, (rowBytes+1)*height)
	prev := make([]byte, rowBytes)
	for y := 0; y < height; y++ {
		cur := raw[y*rowBytes : (y+1)*rowBytes]
		f := filters[y%len(filters)]
		out = append(out, byte(f))
		for x := 0; x < rowBytes; x++ {
			var a, c int
			if x >= bytesPerPixel {
				a = int(cur[x-bytesPerPixel])
				c = int(prev[x-bytesPerPixel])
			}
			b := int(prev[x])

			var pred int
			switch f {
			case LEFT:
				pred = a
			case UP:
				pred = b
			case AVG:
				pred = (a + b) / 2
			case PAETH:
				pred = paethPredictor(a, b, c)
			}
			out = append(out, cur[x]-byte(pred))
		}
		prev = cur
	}
	return out
}

// encodeRaw builds a complete PNG for raw pixels using the given filters.
func encodeRaw(t *testing.T, raw []byte, width, height int, colorType ColorType, filters ...FilterMethod) []byte {
	t.Helper()
	bpp := colorType.BytesPerPixel()
	filtered := filterImage(raw, width*bpp, height, bpp, filters...)
	return makePNG(
		makeIHDR(uint32(width), uint32(height), 8, colorType, 0, 0, 0),
		makeChunk("IDAT", deflate(t, filtered)),
		iend(),
	)
}

func randomBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	rng.Read(b)
	return b
}

// pixOf returns the Pix slice of the standard image types the tests produce.
func pixOf(t *testing.T, img image.Image) []byte {
	t.Helper()
	switch m := img.(type) {
	case *image.Gray:
		return m.Pix
	case *image.RGBA:
		return m.Pix
	case *image.NRGBA:
		return m.Pix
	}
	t.Fatalf("unexpected image type %T", img)
	return nil
}

var allFilters = []FilterMethod{NONE, LEFT, UP, AVG, PAETH}

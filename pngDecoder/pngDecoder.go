package pngDecoder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"pngread/compression"
	"pngread/logging"
	"pngread/oops"
	"pngread/perf"
	"pngread/utils"
)

const (
	chunkHeaderLength = 8
	crcLength         = 4

	// Chunk lengths are limited to 2^31-1.
	maxChunkLength = 1<<31 - 1

	// Cap on the up-front reservation for compressed data; past this the
	// buffer grows with the IDAT bytes actually read.
	maxCompressedHint = 256 << 10
)

type PngDecoder struct {
	r              io.Reader
	ihdr           *IHDR
	compressedData bytes.Buffer
	idatChunks     int
	sawIEND        bool
	finished       bool
	used           bool
	perf           *perf.DecodePerf
}

// NewDecoder consumes and checks the PNG signature.
func NewDecoder(r io.Reader) (*PngDecoder, error) {
	sig := make([]byte, len(pngHeader))
	if n, err := io.ReadFull(r, sig); err != nil {
		return nil, oops.New(ErrMalformedContainer, "not a png: read %d of %d signature bytes", n, len(pngHeader))
	}
	if !isPNG(sig) {
		return nil, oops.New(ErrMalformedContainer, "not a png: signature %x", sig)
	}
	return &PngDecoder{r: r}, nil
}

func Decode(r io.Reader) (*Image, error) {
	return DecodeWithPerf(r, nil)
}

func DecodeBytes(data []byte) (*Image, error) {
	return Decode(bytes.NewReader(data))
}

// DecodeWithPerf decodes like Decode and records stage timings in dp, which
// may be nil.
func DecodeWithPerf(r io.Reader, dp *perf.DecodePerf) (*Image, error) {
	pd, err := NewDecoder(r)
	if err != nil {
		return nil, err
	}
	pd.perf = dp
	return pd.Decode()
}

// Decode reads the rest of the stream, inflates the image data and
// reverses the scanline filters. Either the whole image is returned or an
// error; never a partial image.
func (p *PngDecoder) Decode() (*Image, error) {
	if p.used {
		return nil, oops.New(nil, "decoder already used")
	}
	p.used = true

	p.perf.StartBlock("chunks", "walk chunk stream")
	for !p.finished {
		if err := p.nextChunk(); err != nil {
			p.perf.EndBlock()
			return nil, err
		}
	}
	p.perf.EndBlock()

	if p.ihdr != nil && !p.sawIEND {
		logging.Warn().Int("idatChunks", p.idatChunks).Msg("stream ended without an IEND chunk")
	}

	if p.ihdr == nil {
		return nil, oops.New(ErrMalformedContainer, "stream ended without an IHDR chunk")
	}

	size, err := pixelBufferSize(p.ihdr)
	if err != nil {
		return nil, err
	}

	p.perf.StartBlock("inflate", "inflate image data")
	pix, err := compression.InflateData(p.compressedData.Bytes(), size)
	p.perf.EndBlock()
	if err != nil {
		return nil, oops.New(fmt.Errorf("%w: %w", ErrDecompressionFailure, err),
			"failed to inflate %d bytes from %d IDAT chunks", p.compressedData.Len(), p.idatChunks)
	}
	p.compressedData = bytes.Buffer{}

	p.perf.StartBlock("unfilter", "reconstruct scanlines")
	err = Reconstruct(pix, p.ihdr.RowBytes(), int(p.ihdr.Height), p.ihdr.BytesPerPixel())
	p.perf.EndBlock()
	if err != nil {
		return nil, err
	}

	return newImage(*p.ihdr, pix), nil
}

// pixelBufferSize is (rowBytes+1)*height, rejected if it does not fit an int.
func pixelBufferSize(ihdr *IHDR) (int, error) {
	stride := uint64(ihdr.Width)*uint64(ihdr.BytesPerPixel()) + 1
	if uint64(ihdr.Height) > uint64(math.MaxInt)/stride {
		return 0, oops.New(ErrUnsupportedFormat, "image too large: %dx%d", ihdr.Width, ihdr.Height)
	}
	return int(stride * uint64(ihdr.Height)), nil
}

func (p *PngDecoder) nextChunk() error {
	header := make([]byte, chunkHeaderLength)
	n, err := io.ReadFull(p.r, header)
	if errors.Is(err, io.EOF) {
		// Clean end of stream on a chunk boundary.
		p.finished = true
		return nil
	} else if err != nil {
		return oops.New(ErrMalformedContainer, "truncated chunk header: read %d of %d bytes", n, chunkHeaderLength)
	}

	length := utils.BytesToLength(header[0:4])
	chunkType := string(header[4:8])
	critical := chunkType[0] >= 'A' && chunkType[0] <= 'Z'
	if length > maxChunkLength {
		return oops.New(ErrMalformedContainer, "%q chunk length %d exceeds %d", chunkType, length, maxChunkLength)
	}

	logging.Trace().
		Str("type", chunkType).
		Uint32("length", length).
		Bool("critical", critical).
		Msg("chunk")

	switch chunkType {
	case "IHDR":
		if err := p.readIHDR(length); err != nil {
			return err
		}
	case "IDAT":
		if p.ihdr == nil {
			return oops.New(ErrMalformedContainer, "IDAT chunk before IHDR")
		}
		copied, err := io.CopyN(&p.compressedData, p.r, int64(length))
		if err != nil {
			return oops.New(ErrMalformedContainer, "truncated IDAT chunk: read %d of %d bytes", copied, length)
		}
		p.idatChunks++
	default:
		// IEND included: nothing in it is needed.
		if err := p.skip(int64(length), chunkType); err != nil {
			return err
		}
	}

	// CRCs are not checked.
	if err := p.skip(crcLength, chunkType+" CRC"); err != nil {
		return err
	}

	if chunkType == "IEND" {
		p.sawIEND = true
		p.finished = true
	}
	return nil
}

func (p *PngDecoder) readIHDR(length uint32) error {
	if p.ihdr != nil {
		return oops.New(ErrMalformedContainer, "duplicate IHDR chunk")
	}
	if length != ihdrLength {
		return oops.New(ErrMalformedContainer, "IHDR is %d bytes, expected %d", length, ihdrLength)
	}

	data, err := p.tryAdvance(int(length))
	if err != nil {
		return err
	}
	ihdr, err := ParseIHDR(data)
	if err != nil {
		return err
	}

	logging.Debug().
		Uint32("width", ihdr.Width).
		Uint32("height", ihdr.Height).
		Uint8("bitDepth", ihdr.BitDepth).
		Stringer("colorType", ihdr.ColorType).
		Uint8("compression", ihdr.CompressionMethod).
		Uint8("filter", ihdr.FilterMethod).
		Uint8("interlace", ihdr.InterlaceMethod).
		Msg("IHDR")

	if err := ihdr.Validate(); err != nil {
		return err
	}
	p.ihdr = ihdr

	hint := uint64(ihdr.Width) * uint64(ihdr.Height)
	if hint > maxCompressedHint {
		hint = maxCompressedHint
	}
	p.compressedData.Grow(int(hint))
	return nil
}

func (p *PngDecoder) tryAdvance(length int) ([]byte, error) {
	data := make([]byte, length)
	if n, err := io.ReadFull(p.r, data); err != nil {
		return nil, oops.New(ErrMalformedContainer, "truncated stream: read %d of %d bytes", n, length)
	}
	return data, nil
}

func (p *PngDecoder) skip(length int64, what string) error {
	skipped, err := io.CopyN(io.Discard, p.r, length)
	if err != nil {
		return oops.New(ErrMalformedContainer, "truncated %s: skipped %d of %d bytes", what, skipped, length)
	}
	return nil
}

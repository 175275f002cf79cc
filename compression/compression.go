package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ErrSizeMismatch means the stream inflated to a different number of bytes
// than the caller asked for.
var ErrSizeMismatch = errors.New("inflated size mismatch")

// Deflate cannot expand input by more than 1032:1, plus a little for the
// zlib header and checksum.
const (
	maxExpansion = 1032
	maxOverhead  = 64

	// Cap on the up-front reservation for output; past this the buffer grows
	// with the bytes actually inflated.
	maxOutputHint = 16 << 20
)

// InflateData decompresses a zlib stream into a buffer of exactly size bytes.
// The stream must end, checksum included, right after the last byte. Memory
// grows with what the stream yields, never with size alone.
func InflateData(compressedData []byte, size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("negative target size %d", size)
	}
	if limit := uint64(len(compressedData))*maxExpansion + maxOverhead; uint64(size) > limit {
		return nil, fmt.Errorf("%w: %d compressed bytes cannot inflate to %d", ErrSizeMismatch, len(compressedData), size)
	}
	reader := bytes.NewReader(compressedData)

	zlibReader, err := zlib.NewReader(reader)
	if err != nil {
		return nil, err
	}
	defer zlibReader.Close()

	var decompressedData bytes.Buffer
	hint := size
	if hint > maxOutputHint {
		hint = maxOutputHint
	}
	decompressedData.Grow(hint)

	// One byte past size is enough to tell "too long" from "exact".
	if _, err := io.Copy(&decompressedData, io.LimitReader(zlibReader, int64(size)+1)); err != nil {
		return nil, err
	}
	switch n := decompressedData.Len(); {
	case n < size:
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, n, size)
	case n > size:
		return nil, fmt.Errorf("%w: stream holds more than %d bytes", ErrSizeMismatch, size)
	}

	// Read to the end so the trailing checksum is verified.
	var extra [1]byte
	if m, err := zlibReader.Read(extra[:]); m > 0 {
		return nil, fmt.Errorf("%w: stream holds more than %d bytes", ErrSizeMismatch, size)
	} else if !errors.Is(err, io.EOF) {
		if err == nil {
			err = io.ErrNoProgress
		}
		return nil, err
	}
	return decompressedData.Bytes(), nil
}

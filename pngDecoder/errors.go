package pngDecoder

import "errors"

// Every error returned while decoding wraps exactly one of these, so
// callers can tell bad input from input this decoder does not handle.
var (
	ErrMalformedContainer   = errors.New("png: malformed container")
	ErrUnsupportedFormat    = errors.New("png: unsupported format")
	ErrDecompressionFailure = errors.New("png: decompression failed")
	ErrInvalidFilter        = errors.New("png: invalid filter type")
)

type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindMalformedContainer
	KindUnsupportedFormat
	KindDecompressionFailure
	KindInvalidFilter
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindMalformedContainer:
		return "malformed container"
	case KindUnsupportedFormat:
		return "unsupported format"
	case KindDecompressionFailure:
		return "decompression failure"
	case KindInvalidFilter:
		return "invalid filter"
	}
	return "other"
}

// KindOf classifies err. A nil error is KindNone; anything not produced by
// this package is KindOther.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMalformedContainer):
		return KindMalformedContainer
	case errors.Is(err, ErrUnsupportedFormat):
		return KindUnsupportedFormat
	case errors.Is(err, ErrDecompressionFailure):
		return KindDecompressionFailure
	case errors.Is(err, ErrInvalidFilter):
		return KindInvalidFilter
	}
	return KindOther
}

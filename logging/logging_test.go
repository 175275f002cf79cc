package logging

import (
	"bytes"
	"errors"
	"testing"

	"pngread/oops"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogPanicValue(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	t.Run("plain error gets a trace", func(t *testing.T) {
		buf.Reset()
		LogPanicValue(&logger, errors.New("boom"), "recovered")
		assert.Contains(t, buf.String(), `"error":"boom"`)
		assert.Contains(t, buf.String(), `"stack":[`)
	})
	t.Run("oops error uses its own stack", func(t *testing.T) {
		buf.Reset()
		LogPanicValue(&logger, oops.New(nil, "bad chunk"), "recovered")
		assert.Contains(t, buf.String(), `"error":"bad chunk"`)
	})
	t.Run("non-error value", func(t *testing.T) {
		buf.Reset()
		LogPanicValue(&logger, 42, "recovered")
		assert.Contains(t, buf.String(), `"recovered":42`)
	})
}

func TestLogPanics(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	assert.NotPanics(t, func() {
		defer LogPanics(&logger)
		panic("row out of range")
	})
	assert.Contains(t, buf.String(), "row out of range")
}

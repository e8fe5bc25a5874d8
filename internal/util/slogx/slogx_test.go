package slogx

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscardLogger(t *testing.T) {
	log := DiscardLogger()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}

func TestNew(t *testing.T) {
	var b bytes.Buffer
	log := New(&b, true, slog.LevelInfo)
	log.Debug("hidden")
	log.Info("shown", Err(errors.New("boom")))
	assert.NotContains(t, b.String(), "hidden")
	assert.Contains(t, b.String(), `"err":"boom"`)
	assert.Equal(t, "<nil>", Err(nil).Value.String())
}

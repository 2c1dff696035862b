package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: DebugLevel, Output: &buf, Service: "erpconsole"})
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true}) })

	FromContext(context.Background()).Info().Msg("plain")
	assert.Contains(t, buf.String(), `"service":"erpconsole"`)

	buf.Reset()
	scoped := zerolog.New(&buf).With().Str("request_id", "r-1").Logger()
	ctx := IntoContext(context.Background(), scoped)
	FromContext(ctx).Info().Msg("scoped")
	assert.Contains(t, buf.String(), `"request_id":"r-1"`)
}

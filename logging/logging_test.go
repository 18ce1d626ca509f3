package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eamirgh/gopay/config"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	l.Info().Msg("hidden")
	l.Warn().Str("driver", "zibal").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"driver":"zibal"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestNewWithWriter_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(config.LogConfig{Level: "loud"}, &buf)

	l.Debug().Msg("debug")
	l.Info().Msg("info")
	assert.NotContains(t, buf.String(), `"message":"debug"`)
	assert.Contains(t, buf.String(), `"message":"info"`)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "***", Redact(""))
	assert.Equal(t, "***", Redact("12345678"))
	assert.Equal(t, "abcd...yz", Redact("abcdefghijklmnopqrstuvwxyz"))
}

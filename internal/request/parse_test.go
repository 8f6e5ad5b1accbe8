package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullRequest(t *testing.T) {
	raw := "POST /api/login HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"Content-Type: application/json\r\n" +
		"\r\n" +
		`{"user":"alice"}`

	parsed, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "POST", parsed.Method)
	assert.Equal(t, "/api/login", parsed.Path)
	assert.Equal(t, "HTTP/1.1", parsed.Proto)
	assert.Equal(t, "example.com", parsed.Headers["Host"])
	assert.Equal(t, "application/json", parsed.Headers["Content-Type"])
	assert.Equal(t, `{"user":"alice"}`, parsed.Body)
}

func TestParseNoBody(t *testing.T) {
	parsed, err := Parse("GET /ping HTTP/1.1\nHost: example.com\n")
	require.NoError(t, err)
	assert.Empty(t, parsed.Body)
	assert.Equal(t, "GET", parsed.Method)
}

func TestParseBodyKeepsVerbatimContent(t *testing.T) {
	raw := "POST / HTTP/1.1\nHost: x\n\nline1\n\nline2"
	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "line1\n\nline2", parsed.Body, "only the first blank line separates head and body")
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", "   \n  "},
		{"request line too short", "GET /path\nHost: x\n"},
		{"request line too long", "GET /path HTTP/1.1 extra\n"},
		{"header without colon", "GET / HTTP/1.1\nBadHeader\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

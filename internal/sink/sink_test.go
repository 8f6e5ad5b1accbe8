package sink

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqloop/sender"
)

func sampleResponse() *sender.Response {
	return &sender.Response{
		StatusCode: 200,
		Status:     "200 OK",
		URL:        "https://example.com/get",
		Headers:    http.Header{"Content-Type": {"text/plain"}},
		Body:       []byte("hello"),
	}
}

func TestSinkDisabled(t *testing.T) {
	s, err := New("", t.TempDir())
	require.NoError(t, err)
	assert.False(t, s.Enabled())
	assert.NoError(t, s.Write(sampleResponse()))
}

func TestSinkFileAppends(t *testing.T) {
	dir := t.TempDir()
	s, err := New("out.log", dir)
	require.NoError(t, err)
	require.True(t, s.Enabled())

	require.NoError(t, s.Write(sampleResponse()))
	require.NoError(t, s.Write(sampleResponse()))

	data, err := os.ReadFile(filepath.Join(dir, "out.log"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "200 OK https://example.com/get"))
}

func TestSinkAbsolutePathUsedAsIs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abs.log")
	s, err := New(path, "unused")
	require.NoError(t, err)

	require.NoError(t, s.Write(sampleResponse()))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFormatBlock(t *testing.T) {
	block := FormatBlock(sampleResponse())

	lines := strings.Split(block, "\n")
	rule := strings.Repeat("=", 70)
	assert.Equal(t, rule, lines[0])
	assert.Equal(t, "200 OK https://example.com/get", lines[1])
	assert.Contains(t, block, "Content-Type: text/plain")
	assert.Contains(t, block, "\n\nhello\n")
	assert.True(t, strings.HasSuffix(block, rule+"\n"))
}

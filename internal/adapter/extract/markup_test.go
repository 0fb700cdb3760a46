package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docseek/internal/domain"
)

const glClearPage = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>glClear</title><style>body { color: red }</style></head>
<body>
<h1>glClear</h1><p>clear buffers to <code>preset</code>&amp;values</p>
<script>var ignored = 1;</script>
<code>void</code><code>glClear</code>
</body>
</html>`

func TestExtractMarkup(t *testing.T) {
	text, err := ExtractMarkup(strings.NewReader(glClearPage))
	require.NoError(t, err)

	assert.Equal(t, "glClear glClear clear buffers to preset &values void glClear", text)
	assert.NotContains(t, text, "ignored")
	assert.NotContains(t, text, "color")
}

func TestExtractMarkup_AdjacentNodesStaySeparate(t *testing.T) {
	text, err := ExtractMarkup(strings.NewReader("<b>gl</b><i>Clear</i>"))
	require.NoError(t, err)
	assert.Equal(t, "gl Clear", text)
}

func TestExtractMarkup_ReadError(t *testing.T) {
	_, err := ExtractMarkup(iotest.ErrReader(errors.New("boom")))
	require.Error(t, err)
}

func TestByExtension(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "glClear.xhtml")
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(page, []byte("<p>glClear</p><p>void</p>"), 0644))
	require.NoError(t, os.WriteFile(notes, []byte("<p> stays raw"), 0644))

	ex := NewByExtension()

	text, err := ex.Extract(page)
	require.NoError(t, err)
	assert.Equal(t, "glClear void", text)

	text, err = ex.Extract(notes)
	require.NoError(t, err)
	assert.Equal(t, "<p> stays raw", text)
}

func TestByExtension_MissingFile(t *testing.T) {
	_, err := NewByExtension().Extract(filepath.Join(t.TempDir(), "missing.xhtml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIO))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

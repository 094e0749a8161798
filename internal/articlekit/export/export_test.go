package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/md7o/articlekit/internal/articlekit/dto"
	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
)

var exportFixture = dto.Article{
	Slug:       "go-notes",
	Title:      "Notes on Go",
	TitleAlign: "center",
	Content: edtypes.StructuredContent(&edtypes.Document{Blocks: []any{
		&edtypes.Heading{Level: 1, Spans: []edtypes.Span{{Text: "Concurrency"}}},
		&edtypes.Paragraph{Spans: []edtypes.Span{
			{Text: "Channels are "},
			{Text: "typed", Marks: edtypes.MarkSet{{Type: edtypes.MarkBold}}},
			{Text: " conduits."},
		}},
		&edtypes.CodeBlock{Language: "go", Code: "ch := make(chan int)\nclose(ch)"},
		&edtypes.BulletList{Items: []string{"goroutines", "channels", "select"}},
		&edtypes.OrderedList{Items: []string{"first", "second"}, Start: 4},
	}}),
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		raw     string
		want    Format
		wantErr bool
	}{
		{"html", FormatHTML, false},
		{".htm", FormatHTML, false},
		{"MD", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"pdf", FormatPDF, false},
		{"docx", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "format %q", tt.raw)
			continue
		}
		require.NoError(t, err, "format %q", tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestToHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ToHTML(exportFixture, &buf))

	out := buf.String()
	assert.Contains(t, out, "<title>Notes on Go</title>")
	assert.Contains(t, out, "text-center")
	assert.Contains(t, out, "Channels are")
	assert.Contains(t, out, "font-bold")
	assert.Contains(t, out, "<h1")
}

func TestToMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ToMarkdown(exportFixture, &buf))

	out := buf.String()
	assert.Contains(t, out, "# Notes on Go")
	assert.Contains(t, out, "## Concurrency")
	assert.Contains(t, out, "**typed**")
	assert.Contains(t, out, "```go")
	assert.Contains(t, out, "- goroutines")
	assert.Contains(t, out, "1. first")
}

func TestToMarkdownLegacy(t *testing.T) {
	var buf bytes.Buffer
	article := dto.Article{Title: "Old", Content: edtypes.LegacyContent("plain body")}
	require.NoError(t, ToMarkdown(article, &buf))
	assert.Contains(t, buf.String(), "plain body")
}

func TestToPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ToPDF(exportFixture, &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"), "output must be a PDF file")
	assert.Greater(t, buf.Len(), 1000)
}

func TestExportDispatch(t *testing.T) {
	for _, format := range []Format{FormatHTML, FormatMarkdown, FormatPDF} {
		var buf bytes.Buffer
		require.NoError(t, Export(exportFixture, format, &buf), "format %s", format)
		assert.NotZero(t, buf.Len())
	}

	var buf bytes.Buffer
	assert.Error(t, Export(exportFixture, Format("docx"), &buf))
}

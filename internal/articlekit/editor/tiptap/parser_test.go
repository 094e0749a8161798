package tiptap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
)

const sampleDoc = `{
  "type": "doc",
  "content": [
    {
      "type": "heading",
      "attrs": {"level": 3, "textAlign": "center"},
      "content": [{"type": "text", "text": "Title"}]
    },
    {
      "type": "paragraph",
      "content": [
        {"type": "text", "text": "plain "},
        {"type": "text", "text": "bold", "marks": [{"type": "bold"}]},
        {"type": "text", "text": "link", "marks": [{"type": "link", "attrs": {"href": "https://example.com"}}]}
      ]
    },
    {
      "type": "codeBlock",
      "attrs": {"language": "go"},
      "content": [{"type": "text", "text": "func main() {}"}]
    },
    {
      "type": "orderedList",
      "attrs": {"start": 3},
      "content": [
        {"type": "listItem", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "first"}]}]},
        {"type": "listItem", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "second"}]}]}
      ]
    },
    {"type": "image", "attrs": {"src": "/uploads/pic.png"}},
    {"type": "horizontalRule"}
  ]
}`

func TestParseJSON(t *testing.T) {
	doc, err := ParseJSON(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	// horizontalRule неизвестен и пропускается
	require.Len(t, doc.Blocks, 5)

	h, ok := doc.Blocks[0].(*edtypes.Heading)
	require.True(t, ok)
	assert.Equal(t, 3, h.Level, "raw level is preserved in the model")
	assert.Equal(t, edtypes.CenterAlign, h.Attrs.Align)
	require.Len(t, h.Spans, 1)
	assert.Equal(t, "Title", h.Spans[0].Text)

	p, ok := doc.Blocks[1].(*edtypes.Paragraph)
	require.True(t, ok)
	require.Len(t, p.Spans, 3)
	assert.Empty(t, p.Spans[0].Marks)
	assert.True(t, p.Spans[1].Marks.Has(edtypes.MarkBold))
	require.True(t, p.Spans[2].Marks.Has(edtypes.MarkLink))
	assert.Equal(t, "https://example.com", p.Spans[2].Marks[0].Href)

	code, ok := doc.Blocks[2].(*edtypes.CodeBlock)
	require.True(t, ok)
	assert.Equal(t, "go", code.Language)
	assert.Equal(t, "func main() {}", code.Code)

	list, ok := doc.Blocks[3].(*edtypes.OrderedList)
	require.True(t, ok)
	assert.Equal(t, []string{"first", "second"}, list.Items)
	assert.Equal(t, 3, list.Start)

	img, ok := doc.Blocks[4].(*edtypes.Image)
	require.True(t, ok)
	assert.Equal(t, "/uploads/pic.png", img.Src)
}

func TestParseJSONEmptyDoc(t *testing.T) {
	doc, err := ParseJSON(strings.NewReader(`{"type":"doc","content":[]}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Blocks)
}

func TestParseJSONInvalid(t *testing.T) {
	_, err := ParseJSON(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestParseImageWithoutSrcDropped(t *testing.T) {
	doc, err := ParseJSON(strings.NewReader(`{"type":"doc","content":[{"type":"image","attrs":{}}]}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Blocks)
}

func TestParseDuplicateMarksCollapse(t *testing.T) {
	doc, err := ParseJSON(strings.NewReader(`{"type":"doc","content":[
		{"type":"paragraph","content":[
			{"type":"text","text":"x","marks":[{"type":"bold"},{"type":"bold"}]}
		]}
	]}`))
	require.NoError(t, err)
	p := doc.Blocks[0].(*edtypes.Paragraph)
	assert.Len(t, p.Spans[0].Marks, 1)
}

func TestRoundtrip(t *testing.T) {
	source := &edtypes.Document{Blocks: []any{
		&edtypes.Heading{Level: 2, Spans: []edtypes.Span{{Text: "Title"}}},
		&edtypes.Paragraph{
			Spans: []edtypes.Span{
				{Text: "plain "},
				{Text: "bold", Marks: edtypes.MarkSet{{Type: edtypes.MarkBold}}},
				{Text: "docs", Marks: edtypes.MarkSet{{Type: edtypes.MarkLink, Href: "https://example.com"}}},
			},
			Attrs: edtypes.BlockAttrs{Align: edtypes.RightAlign},
		},
		&edtypes.CodeBlock{Language: "sql", Code: "SELECT 1"},
		&edtypes.BulletList{Items: []string{"a", "b"}},
		&edtypes.OrderedList{Items: []string{"c"}, Start: 4},
		&edtypes.Image{Src: "/pic.png"},
	}}

	raw, err := Serialize(source)
	require.NoError(t, err)

	parsed, err := ParseJSON(strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, source.Blocks, parsed.Blocks)
}

func TestContentUnionHydration(t *testing.T) {
	// Строка с сериализованным документом гидрируется как
	// структурированный контент
	var structured edtypes.Content
	raw := `"{\"type\":\"doc\",\"content\":[{\"type\":\"paragraph\",\"content\":[{\"type\":\"text\",\"text\":\"hi\"}]}]}"`
	require.NoError(t, structured.UnmarshalJSON([]byte(raw)))
	assert.False(t, structured.IsLegacy())
	require.Len(t, structured.Doc.Blocks, 1)

	// Обычная строка остается legacy-контентом
	var legacy edtypes.Content
	require.NoError(t, legacy.UnmarshalJSON([]byte(`"just a plain old article"`)))
	assert.True(t, legacy.IsLegacy())
	assert.Equal(t, "just a plain old article", legacy.Legacy)

	// Объект - всегда документ
	var object edtypes.Content
	require.NoError(t, object.UnmarshalJSON([]byte(`{"type":"doc","content":[]}`)))
	assert.False(t, object.IsLegacy())
}

func TestContentMarshalBothArms(t *testing.T) {
	legacy := edtypes.LegacyContent("old text")
	raw, err := legacy.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"old text"`, string(raw))

	structured := edtypes.StructuredContent(&edtypes.Document{Blocks: []any{
		&edtypes.Paragraph{Spans: []edtypes.Span{{Text: "hi"}}},
	}})
	raw, err = structured.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"doc"`)
	assert.Contains(t, string(raw), `"text":"hi"`)
}

package tiptap

import (
	"encoding/json"
	"log/slog"

	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
)

// Serialize сериализует edtypes.Document в TipTap JSON.
func Serialize(doc *edtypes.Document) ([]byte, error) {
	tipTapDoc := TipTapDocument{
		Type:    "doc",
		Content: make([]TipTapNode, 0, len(doc.Blocks)),
	}

	for _, block := range doc.Blocks {
		node := serializeBlock(block)
		if node != nil {
			tipTapDoc.Content = append(tipTapDoc.Content, *node)
		}
	}

	return json.Marshal(tipTapDoc)
}

func serializeBlock(block any) *TipTapNode {
	if block == nil {
		return nil
	}

	switch b := block.(type) {
	case *edtypes.Paragraph:
		return serializeParagraph(b)
	case *edtypes.Heading:
		return serializeHeading(b)
	case *edtypes.CodeBlock:
		return serializeCodeBlock(b)
	case *edtypes.BulletList:
		return serializeItems("bulletList", b.Items, 0, b.Attrs)
	case *edtypes.OrderedList:
		return serializeItems("orderedList", b.Items, b.Start, b.Attrs)
	case *edtypes.Image:
		return serializeImage(b)
	default:
		slog.Warn("Unknown block type for serialization", "type", b)
		return nil
	}
}

// serializeAttrs выдает map атрибутов блока, пропуская значения по умолчанию.
func serializeAttrs(attrs edtypes.BlockAttrs) map[string]interface{} {
	out := make(map[string]interface{})
	if attrs.Align != edtypes.LeftAlign {
		out["textAlign"] = attrs.Align.String()
	}
	if attrs.Color != "" {
		out["color"] = attrs.Color
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func serializeSpans(spans []edtypes.Span) []TipTapNode {
	nodes := make([]TipTapNode, 0, len(spans))
	for _, span := range spans {
		nodes = append(nodes, serializeSpan(span))
	}
	return nodes
}

func serializeSpan(span edtypes.Span) TipTapNode {
	node := TipTapNode{
		Type: "text",
		Text: span.Text,
	}

	marks := make([]TipTapMark, 0, len(span.Marks))
	for _, mark := range span.Marks {
		m := TipTapMark{Type: string(mark.Type)}
		if mark.Type == edtypes.MarkLink && mark.Href != "" {
			m.Attrs = map[string]interface{}{"href": mark.Href}
		}
		marks = append(marks, m)
	}
	if len(marks) > 0 {
		node.Marks = marks
	}

	return node
}

func serializeParagraph(p *edtypes.Paragraph) *TipTapNode {
	return &TipTapNode{
		Type:    "paragraph",
		Attrs:   serializeAttrs(p.Attrs),
		Content: serializeSpans(p.Spans),
	}
}

func serializeHeading(h *edtypes.Heading) *TipTapNode {
	attrs := serializeAttrs(h.Attrs)
	if attrs == nil {
		attrs = make(map[string]interface{})
	}
	attrs["level"] = h.Level

	return &TipTapNode{
		Type:    "heading",
		Attrs:   attrs,
		Content: serializeSpans(h.Spans),
	}
}

func serializeCodeBlock(c *edtypes.CodeBlock) *TipTapNode {
	attrs := serializeAttrs(c.Attrs)
	if c.Language != "" {
		if attrs == nil {
			attrs = make(map[string]interface{})
		}
		attrs["language"] = c.Language
	}

	node := &TipTapNode{
		Type:    "codeBlock",
		Attrs:   attrs,
		Content: make([]TipTapNode, 1),
	}

	// Код хранится как единственная текстовая нода внутри
	node.Content[0] = TipTapNode{
		Type: "text",
		Text: c.Code,
	}

	return node
}

func serializeItems(listType string, items []string, start int, attrs edtypes.BlockAttrs) *TipTapNode {
	nodeAttrs := serializeAttrs(attrs)
	if start > 0 {
		if nodeAttrs == nil {
			nodeAttrs = make(map[string]interface{})
		}
		nodeAttrs["start"] = start
	}

	node := &TipTapNode{
		Type:    listType,
		Attrs:   nodeAttrs,
		Content: make([]TipTapNode, 0, len(items)),
	}

	for _, item := range items {
		node.Content = append(node.Content, TipTapNode{
			Type: "text",
			Text: item,
		})
	}

	return node
}

func serializeImage(img *edtypes.Image) *TipTapNode {
	return &TipTapNode{
		Type: "image",
		Attrs: map[string]interface{}{
			"src": img.Src,
		},
	}
}

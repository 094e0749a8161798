package tiptap

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
)

func init() {
	edtypes.WireParser = ParseJSON
	edtypes.WireSerializer = Serialize
}

// ParseJSON парсит JSON контент редактора в edtypes.Document.
// Неизвестные типы нод пропускаются без ошибки.
func ParseJSON(r io.Reader) (*edtypes.Document, error) {
	var tipTapDoc TipTapDocument
	if err := json.NewDecoder(r).Decode(&tipTapDoc); err != nil {
		return nil, err
	}

	doc := &edtypes.Document{
		Blocks: make([]any, 0, len(tipTapDoc.Content)),
	}

	for _, node := range tipTapDoc.Content {
		block := parseNode(node)
		if block != nil {
			doc.Blocks = append(doc.Blocks, block)
		}
	}

	return doc, nil
}

// parseNode парсит отдельную ноду и возвращает соответствующий блок edtypes.
func parseNode(node TipTapNode) any {
	switch node.Type {
	case "paragraph":
		return parseParagraph(node)
	case "heading":
		return parseHeading(node)
	case "codeBlock":
		return parseCodeBlock(node)
	case "bulletList", "orderedList":
		return parseList(node)
	case "image":
		// Типизированный nil в интерфейсе не равен nil, поэтому
		// явная проверка до возврата
		if img := parseImage(node); img != nil {
			return img
		}
		return nil
	default:
		slog.Warn("Unknown node type", "type", node.Type)
		return nil
	}
}

func parseAttrs(node TipTapNode) edtypes.BlockAttrs {
	return edtypes.BlockAttrs{
		Align: edtypes.ParseTextAlign(getAttrString(node.Attrs, "textAlign")),
		Color: getAttrString(node.Attrs, "color"),
	}
}

// parseSpans собирает текстовые спаны из содержимого блока.
func parseSpans(node TipTapNode) []edtypes.Span {
	spans := make([]edtypes.Span, 0, len(node.Content))
	for _, child := range node.Content {
		if child.Type != "text" {
			slog.Warn("Unknown block child type", "type", child.Type)
			continue
		}
		spans = append(spans, edtypes.Span{
			Text:  child.Text,
			Marks: parseMarks(child.Marks),
		})
	}
	return spans
}

func parseParagraph(node TipTapNode) *edtypes.Paragraph {
	if node.Type != "paragraph" {
		return nil
	}

	return &edtypes.Paragraph{
		Spans: parseSpans(node),
		Attrs: parseAttrs(node),
	}
}

func parseHeading(node TipTapNode) *edtypes.Heading {
	if node.Type != "heading" {
		return nil
	}

	return &edtypes.Heading{
		// Исходный уровень сохраняется как есть, приведение делает рендер
		Level: getAttrInt(node.Attrs, "level"),
		Spans: parseSpans(node),
		Attrs: parseAttrs(node),
	}
}

func parseCodeBlock(node TipTapNode) *edtypes.CodeBlock {
	if node.Type != "codeBlock" {
		return nil
	}

	var text strings.Builder
	for _, child := range node.Content {
		if child.Type == "text" {
			text.WriteString(child.Text)
		}
	}

	return &edtypes.CodeBlock{
		Language: getAttrString(node.Attrs, "language"),
		Code:     text.String(),
		Attrs:    parseAttrs(node),
	}
}

// parseList собирает элементы списка. Каждый элемент - один плоский
// текстовый фрагмент; вложенные listItem/paragraph схлопываются в текст.
func parseList(node TipTapNode) any {
	items := make([]string, 0, len(node.Content))
	for _, child := range node.Content {
		items = append(items, flattenItemText(child))
	}

	switch node.Type {
	case "bulletList":
		return &edtypes.BulletList{Items: items, Attrs: parseAttrs(node)}
	case "orderedList":
		return &edtypes.OrderedList{
			Items: items,
			Start: getAttrInt(node.Attrs, "start"),
			Attrs: parseAttrs(node),
		}
	default:
		return nil
	}
}

func flattenItemText(node TipTapNode) string {
	if node.Type == "text" {
		return node.Text
	}

	var parts []string
	for _, child := range node.Content {
		if t := flattenItemText(child); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func parseImage(node TipTapNode) *edtypes.Image {
	if node.Type != "image" {
		return nil
	}

	src := getAttrString(node.Attrs, "src")
	if src == "" {
		return nil
	}

	return &edtypes.Image{Src: src}
}

// parseMarks преобразует метки форматирования в MarkSet.
// Дубликаты схлопываются семантикой множества.
func parseMarks(marks []TipTapMark) edtypes.MarkSet {
	if len(marks) == 0 {
		return nil
	}

	var set edtypes.MarkSet
	for _, mark := range marks {
		switch mark.Type {
		case "bold", "italic", "highlight", "code":
			set.Add(edtypes.Mark{Type: edtypes.MarkType(mark.Type)})
		case "link":
			set.Add(edtypes.Mark{
				Type: edtypes.MarkLink,
				Href: getAttrString(mark.Attrs, "href"),
			})
		default:
			slog.Debug("Unknown mark type", "type", mark.Type)
		}
	}
	return set
}

// Пакет edtypes определяет модель документа статьи: дерево блоков с текстовыми
// спанами и набором меток форматирования.
//
// Основные возможности:
//   - Типы блоков документа (параграф, заголовок, блок кода, списки).
//   - Текстовые спаны с набором меток (bold, italic, highlight, code, link).
//   - Контент статьи как тегированное объединение: legacy-строка или документ.
//   - Сериализация и десериализация через зарегистрированный кодек tiptap.
package edtypes

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

type TextAlign int

const (
	LeftAlign TextAlign = iota
	CenterAlign
	RightAlign
)

// ParseTextAlign конвертирует строковое значение выравнивания в TextAlign.
func ParseTextAlign(raw string) TextAlign {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "center":
		return CenterAlign
	case "right":
		return RightAlign
	default:
		return LeftAlign
	}
}

func (a TextAlign) String() string {
	switch a {
	case CenterAlign:
		return "center"
	case RightAlign:
		return "right"
	default:
		return "left"
	}
}

type MarkType string

const (
	MarkBold      MarkType = "bold"
	MarkItalic    MarkType = "italic"
	MarkHighlight MarkType = "highlight"
	MarkCode      MarkType = "code"
	MarkLink      MarkType = "link"
)

// Mark - метка форматирования спана. Href заполняется только для MarkLink.
type Mark struct {
	Type MarkType
	Href string
}

// MarkSet хранит метки спана с семантикой множества: повторное добавление
// метки того же типа схлопывается в одну.
type MarkSet []Mark

func (s MarkSet) Has(t MarkType) bool {
	for _, m := range s {
		if m.Type == t {
			return true
		}
	}
	return false
}

func (s *MarkSet) Add(m Mark) {
	for i, old := range *s {
		if old.Type == m.Type {
			(*s)[i] = m
			return
		}
	}
	*s = append(*s, m)
}

func (s *MarkSet) Remove(t MarkType) {
	out := (*s)[:0]
	for _, m := range *s {
		if m.Type != t {
			out = append(out, m)
		}
	}
	*s = out
}

func (s MarkSet) Clone() MarkSet {
	if s == nil {
		return nil
	}
	out := make(MarkSet, len(s))
	copy(out, s)
	return out
}

// Equal сравнивает наборы меток без учета порядка.
func (s MarkSet) Equal(other MarkSet) bool {
	if len(s) != len(other) {
		return false
	}
	for _, m := range s {
		found := false
		for _, o := range other {
			if o.Type == m.Type && o.Href == m.Href {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Span - непрерывный текстовый фрагмент с единым набором меток.
type Span struct {
	Text  string
	Marks MarkSet
}

func (s Span) Clone() Span {
	return Span{Text: s.Text, Marks: s.Marks.Clone()}
}

// BlockAttrs - общие опциональные атрибуты блока.
type BlockAttrs struct {
	Align TextAlign
	Color string
}

type Paragraph struct {
	Spans []Span
	Attrs BlockAttrs
}

type Heading struct {
	// Хранится исходный уровень; приведение к {1,2} выполняет рендер.
	Level int
	Spans []Span
	Attrs BlockAttrs
}

type CodeBlock struct {
	// Пустая строка означает автоопределение языка при рендере.
	Language string
	Code     string
	Attrs    BlockAttrs
}

type BulletList struct {
	Items []string
	Attrs BlockAttrs
}

type OrderedList struct {
	Items []string
	// Start сохраняется при разборе, но нумерация при рендере всегда с 1.
	Start int
	Attrs BlockAttrs
}

// Image - лист-расширение редактора, не входит в основную схему блоков.
type Image struct {
	Src string
}

// Document - корень дерева одной статьи.
type Document struct {
	Blocks []any
}

// WireParser и WireSerializer регистрируются пакетом tiptap, чтобы избежать
// циклического импорта (документ знает о своей схеме, кодек - о проводном формате).
var (
	WireParser     func(io.Reader) (*Document, error)
	WireSerializer func(*Document) ([]byte, error)
)

func (d *Document) UnmarshalJSON(data []byte) error {
	if WireParser == nil {
		return errors.New("wire parser not registered, import tiptap package to enable document parsing")
	}

	doc, err := WireParser(bytes.NewReader(data))
	if err != nil {
		return err
	}

	d.Blocks = doc.Blocks
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	if WireSerializer == nil {
		return nil, errors.New("wire serializer not registered, import tiptap package to enable document serialization")
	}

	return WireSerializer(&d)
}

func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Blocks: make([]any, 0, len(d.Blocks))}
	for _, b := range d.Blocks {
		out.Blocks = append(out.Blocks, cloneBlock(b))
	}
	return out
}

func cloneBlock(b any) any {
	switch v := b.(type) {
	case *Paragraph:
		p := &Paragraph{Attrs: v.Attrs, Spans: make([]Span, 0, len(v.Spans))}
		for _, s := range v.Spans {
			p.Spans = append(p.Spans, s.Clone())
		}
		return p
	case *Heading:
		h := &Heading{Level: v.Level, Attrs: v.Attrs, Spans: make([]Span, 0, len(v.Spans))}
		for _, s := range v.Spans {
			h.Spans = append(h.Spans, s.Clone())
		}
		return h
	case *CodeBlock:
		c := *v
		return &c
	case *BulletList:
		l := &BulletList{Attrs: v.Attrs, Items: append([]string(nil), v.Items...)}
		return l
	case *OrderedList:
		l := &OrderedList{Start: v.Start, Attrs: v.Attrs, Items: append([]string(nil), v.Items...)}
		return l
	case *Image:
		i := *v
		return &i
	default:
		return v
	}
}

// Content - тегированное объединение контента статьи: структурированный
// документ либо legacy-строка. Потребители обязаны учитывать обе ветки.
type Content struct {
	Doc    *Document
	Legacy string
}

func LegacyContent(s string) Content {
	return Content{Legacy: s}
}

func StructuredContent(d *Document) Content {
	return Content{Doc: d}
}

func (c Content) IsLegacy() bool {
	return c.Doc == nil
}

func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*c = Content{}
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		// Старый бэкенд отдавал сериализованный документ строкой:
		// распознаем его и гидрируем как структурированный контент.
		inner := strings.TrimSpace(s)
		if strings.HasPrefix(inner, "{") && WireParser != nil {
			if doc, err := WireParser(strings.NewReader(inner)); err == nil && len(doc.Blocks) > 0 {
				*c = Content{Doc: doc}
				return nil
			}
		}
		*c = Content{Legacy: s}
		return nil
	}

	var doc Document
	if err := doc.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	*c = Content{Doc: &doc}
	return nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsLegacy() {
		return json.Marshal(c.Legacy)
	}
	return c.Doc.MarshalJSON()
}

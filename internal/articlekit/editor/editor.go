// Пакет editor реализует редактирование документа статьи через командный
// интерфейс. Конкретный виджет редактирования заменяем: любая команда
// применяется к документу без знания о UI.
//
// Основные возможности:
//   - Переключение меток форматирования на выделенном диапазоне текста.
//   - Преобразование блоков (заголовки, блоки кода, списки).
//   - Выравнивание текста и язык блока кода.
//   - Снимок документа для публикации.
package editor

import (
	"strings"

	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
)

// Selection - выделение внутри одного блока. Start и End заданы в рунах
// относительно сцепленного текста блока.
type Selection struct {
	Block int
	Start int
	End   int
}

// Command применяет одно изменение к документу. Возвращает true, если
// документ изменился. Команды никогда не паникуют: недопустимые цели
// молча игнорируются.
type Command interface {
	Apply(doc *edtypes.Document, sel Selection) bool
}

// Editor хранит один документ и текущее выделение, выполняет команды и
// сообщает владельцу каждое изменение. Все методы безопасны на nil
// получателе: до создания редактора команды являются no-op.
type Editor struct {
	doc      *edtypes.Document
	sel      Selection
	onChange func(*edtypes.Document)
}

// New создает редактор с одним пустым параграфом.
func New() *Editor {
	return &Editor{
		doc: &edtypes.Document{Blocks: []any{&edtypes.Paragraph{}}},
	}
}

// FromContent гидрирует редактор из контента статьи. Legacy-строка
// превращается в один параграф с этим текстом.
func FromContent(c edtypes.Content) *Editor {
	if c.IsLegacy() {
		e := New()
		if c.Legacy != "" {
			e.doc.Blocks = []any{&edtypes.Paragraph{
				Spans: []edtypes.Span{{Text: c.Legacy}},
			}}
		}
		return e
	}

	doc := c.Doc.Clone()
	if len(doc.Blocks) == 0 {
		doc.Blocks = []any{&edtypes.Paragraph{}}
	}
	return &Editor{doc: doc}
}

// OnChange регистрирует получателя обновленного документа.
func (e *Editor) OnChange(fn func(*edtypes.Document)) {
	if e == nil {
		return
	}
	e.onChange = fn
}

// Select устанавливает текущее выделение. Значения за пределами
// документа приводятся к допустимым.
func (e *Editor) Select(block, start, end int) {
	if e == nil || e.doc == nil {
		return
	}
	if block < 0 {
		block = 0
	}
	if block >= len(e.doc.Blocks) {
		block = len(e.doc.Blocks) - 1
	}
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	e.sel = Selection{Block: block, Start: start, End: end}
}

// Content возвращает снимок текущего документа.
func (e *Editor) Content() edtypes.Content {
	if e == nil || e.doc == nil {
		return edtypes.StructuredContent(&edtypes.Document{Blocks: []any{&edtypes.Paragraph{}}})
	}
	return edtypes.StructuredContent(e.doc.Clone())
}

// Document возвращает снимок дерева документа.
func (e *Editor) Document() *edtypes.Document {
	if e == nil || e.doc == nil {
		return &edtypes.Document{Blocks: []any{&edtypes.Paragraph{}}}
	}
	return e.doc.Clone()
}

func (e *Editor) exec(cmd Command) {
	if e == nil || e.doc == nil {
		return
	}
	if cmd.Apply(e.doc, e.sel) && e.onChange != nil {
		e.onChange(e.doc.Clone())
	}
}

func (e *Editor) ToggleMark(t edtypes.MarkType) { e.exec(ToggleMarkCommand{Mark: edtypes.Mark{Type: t}}) }

// ToggleLink переключает метку ссылки с адресом href.
func (e *Editor) ToggleLink(href string) {
	e.exec(ToggleMarkCommand{Mark: edtypes.Mark{Type: edtypes.MarkLink, Href: href}})
}

func (e *Editor) SetHeadingLevel(level int) { e.exec(SetHeadingCommand{Level: level}) }

func (e *Editor) ToggleHeading(level int) { e.exec(SetHeadingCommand{Level: level, Toggle: true}) }

func (e *Editor) SetTextAlign(align edtypes.TextAlign) { e.exec(SetTextAlignCommand{Align: align}) }

func (e *Editor) SetCodeBlockLanguage(lang string) { e.exec(SetCodeLanguageCommand{Language: lang}) }

func (e *Editor) ToggleCodeBlock(lang string) { e.exec(ToggleCodeBlockCommand{Language: lang}) }

func (e *Editor) ToggleBulletList() { e.exec(ToggleListCommand{}) }

func (e *Editor) ToggleOrderedList() { e.exec(ToggleListCommand{Numbered: true}) }

func (e *Editor) InsertImage(src string) { e.exec(InsertImageCommand{Src: src}) }

// AppendParagraph добавляет параграф с текстом в конец документа и
// переводит выделение на него.
func (e *Editor) AppendParagraph(text string) {
	if e == nil || e.doc == nil {
		return
	}
	e.exec(AppendParagraphCommand{Text: text})
	e.sel = Selection{Block: len(e.doc.Blocks) - 1}
}

// blockSpans возвращает спаны текстового блока или nil для нетекстовых.
func blockSpans(block any) *[]edtypes.Span {
	switch b := block.(type) {
	case *edtypes.Paragraph:
		return &b.Spans
	case *edtypes.Heading:
		return &b.Spans
	default:
		return nil
	}
}

func blockAttrs(block any) *edtypes.BlockAttrs {
	switch b := block.(type) {
	case *edtypes.Paragraph:
		return &b.Attrs
	case *edtypes.Heading:
		return &b.Attrs
	case *edtypes.CodeBlock:
		return &b.Attrs
	case *edtypes.BulletList:
		return &b.Attrs
	case *edtypes.OrderedList:
		return &b.Attrs
	default:
		return nil
	}
}

func flattenSpans(spans []edtypes.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// ToggleMarkCommand переключает принадлежность метки на выделенном
// диапазоне. Спаны расщепляются по границам выделения, так что метку
// получает только выделенный текст. Если весь диапазон уже несет метку,
// она снимается; иначе добавляется всему диапазону.
type ToggleMarkCommand struct {
	Mark edtypes.Mark
}

func (c ToggleMarkCommand) Apply(doc *edtypes.Document, sel Selection) bool {
	if sel.Block < 0 || sel.Block >= len(doc.Blocks) {
		return false
	}
	spansPtr := blockSpans(doc.Blocks[sel.Block])
	if spansPtr == nil {
		// Вне текстового блока - no-op
		return false
	}
	if sel.End <= sel.Start {
		return false
	}

	spans, lo, hi := splitSpans(*spansPtr, sel.Start, sel.End)
	if lo >= hi {
		return false
	}

	active := true
	for i := lo; i < hi; i++ {
		if !spans[i].Marks.Has(c.Mark.Type) {
			active = false
			break
		}
	}

	for i := lo; i < hi; i++ {
		if active {
			spans[i].Marks.Remove(c.Mark.Type)
		} else {
			spans[i].Marks.Add(c.Mark)
		}
	}

	*spansPtr = mergeSpans(spans)
	return true
}

// splitSpans расщепляет спаны по руным границам start и end и возвращает
// индексы [lo, hi) спанов, полностью покрытых выделением.
func splitSpans(spans []edtypes.Span, start, end int) ([]edtypes.Span, int, int) {
	out := make([]edtypes.Span, 0, len(spans)+2)
	lo, hi := -1, -1
	offset := 0

	for _, span := range spans {
		runes := []rune(span.Text)
		spanStart, spanEnd := offset, offset+len(runes)
		offset = spanEnd

		if spanEnd <= start || spanStart >= end {
			out = append(out, span)
			continue
		}

		cutFrom := max(start, spanStart) - spanStart
		cutTo := min(end, spanEnd) - spanStart

		if cutFrom > 0 {
			out = append(out, edtypes.Span{Text: string(runes[:cutFrom]), Marks: span.Marks.Clone()})
		}

		if lo == -1 {
			lo = len(out)
		}
		out = append(out, edtypes.Span{Text: string(runes[cutFrom:cutTo]), Marks: span.Marks.Clone()})
		hi = len(out)

		if cutTo < len(runes) {
			out = append(out, edtypes.Span{Text: string(runes[cutTo:]), Marks: span.Marks.Clone()})
		}
	}

	if lo == -1 {
		return out, 0, 0
	}
	return out, lo, hi
}

// mergeSpans склеивает соседние спаны с одинаковыми наборами меток и
// выбрасывает пустые.
func mergeSpans(spans []edtypes.Span) []edtypes.Span {
	out := make([]edtypes.Span, 0, len(spans))
	for _, span := range spans {
		if span.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Marks.Equal(span.Marks) {
			out[n-1].Text += span.Text
			continue
		}
		out = append(out, span)
	}
	return out
}

// SetHeadingCommand преобразует текущий блок в заголовок уровня Level.
// В режиме Toggle заголовок того же уровня возвращается к параграфу.
// Уровень хранится как есть: приведение к {1,2} - забота рендера.
type SetHeadingCommand struct {
	Level  int
	Toggle bool
}

func (c SetHeadingCommand) Apply(doc *edtypes.Document, sel Selection) bool {
	if sel.Block < 0 || sel.Block >= len(doc.Blocks) {
		return false
	}

	switch b := doc.Blocks[sel.Block].(type) {
	case *edtypes.Paragraph:
		doc.Blocks[sel.Block] = &edtypes.Heading{Level: c.Level, Spans: b.Spans, Attrs: b.Attrs}
		return true
	case *edtypes.Heading:
		if c.Toggle && b.Level == c.Level {
			doc.Blocks[sel.Block] = &edtypes.Paragraph{Spans: b.Spans, Attrs: b.Attrs}
			return true
		}
		if b.Level == c.Level {
			return false
		}
		b.Level = c.Level
		return true
	default:
		return false
	}
}

// SetTextAlignCommand выставляет выравнивание только на текущем блоке.
type SetTextAlignCommand struct {
	Align edtypes.TextAlign
}

func (c SetTextAlignCommand) Apply(doc *edtypes.Document, sel Selection) bool {
	if sel.Block < 0 || sel.Block >= len(doc.Blocks) {
		return false
	}
	attrs := blockAttrs(doc.Blocks[sel.Block])
	if attrs == nil || attrs.Align == c.Align {
		return false
	}
	attrs.Align = c.Align
	return true
}

// SetCodeLanguageCommand выставляет язык блока кода. Действительна
// только когда текущий блок - CodeBlock.
type SetCodeLanguageCommand struct {
	Language string
}

func (c SetCodeLanguageCommand) Apply(doc *edtypes.Document, sel Selection) bool {
	if sel.Block < 0 || sel.Block >= len(doc.Blocks) {
		return false
	}
	code, ok := doc.Blocks[sel.Block].(*edtypes.CodeBlock)
	if !ok || code.Language == c.Language {
		return false
	}
	code.Language = c.Language
	return true
}

// ToggleCodeBlockCommand переключает параграф в блок кода и обратно.
type ToggleCodeBlockCommand struct {
	Language string
}

func (c ToggleCodeBlockCommand) Apply(doc *edtypes.Document, sel Selection) bool {
	if sel.Block < 0 || sel.Block >= len(doc.Blocks) {
		return false
	}

	switch b := doc.Blocks[sel.Block].(type) {
	case *edtypes.Paragraph:
		doc.Blocks[sel.Block] = &edtypes.CodeBlock{
			Language: c.Language,
			Code:     flattenSpans(b.Spans),
			Attrs:    b.Attrs,
		}
		return true
	case *edtypes.CodeBlock:
		doc.Blocks[sel.Block] = &edtypes.Paragraph{
			Spans: []edtypes.Span{{Text: b.Code}},
			Attrs: b.Attrs,
		}
		return true
	default:
		return false
	}
}

// ToggleListCommand преобразует текущий блок в список, сплющивая параграф
// в один элемент. Список того же вида разворачивается обратно в
// параграфы, по одному на элемент.
type ToggleListCommand struct {
	Numbered bool
}

func (c ToggleListCommand) Apply(doc *edtypes.Document, sel Selection) bool {
	if sel.Block < 0 || sel.Block >= len(doc.Blocks) {
		return false
	}

	toParagraphs := func(items []string, attrs edtypes.BlockAttrs) bool {
		blocks := make([]any, 0, len(items))
		for _, item := range items {
			blocks = append(blocks, &edtypes.Paragraph{
				Spans: []edtypes.Span{{Text: item}},
				Attrs: attrs,
			})
		}
		if len(blocks) == 0 {
			blocks = append(blocks, &edtypes.Paragraph{Attrs: attrs})
		}
		doc.Blocks = append(doc.Blocks[:sel.Block], append(blocks, doc.Blocks[sel.Block+1:]...)...)
		return true
	}

	switch b := doc.Blocks[sel.Block].(type) {
	case *edtypes.Paragraph:
		items := []string{flattenSpans(b.Spans)}
		if c.Numbered {
			doc.Blocks[sel.Block] = &edtypes.OrderedList{Items: items, Attrs: b.Attrs}
		} else {
			doc.Blocks[sel.Block] = &edtypes.BulletList{Items: items, Attrs: b.Attrs}
		}
		return true
	case *edtypes.BulletList:
		if c.Numbered {
			doc.Blocks[sel.Block] = &edtypes.OrderedList{Items: b.Items, Attrs: b.Attrs}
			return true
		}
		return toParagraphs(b.Items, b.Attrs)
	case *edtypes.OrderedList:
		if !c.Numbered {
			doc.Blocks[sel.Block] = &edtypes.BulletList{Items: b.Items, Attrs: b.Attrs}
			return true
		}
		return toParagraphs(b.Items, b.Attrs)
	default:
		return false
	}
}

// InsertImageCommand вставляет лист изображения после текущего блока.
type InsertImageCommand struct {
	Src string
}

func (c InsertImageCommand) Apply(doc *edtypes.Document, sel Selection) bool {
	if c.Src == "" || sel.Block < 0 || sel.Block >= len(doc.Blocks) {
		return false
	}
	img := &edtypes.Image{Src: c.Src}
	at := sel.Block + 1
	doc.Blocks = append(doc.Blocks[:at], append([]any{any(img)}, doc.Blocks[at:]...)...)
	return true
}

// AppendParagraphCommand добавляет параграф в конец документа.
type AppendParagraphCommand struct {
	Text string
}

func (c AppendParagraphCommand) Apply(doc *edtypes.Document, _ Selection) bool {
	p := &edtypes.Paragraph{}
	if c.Text != "" {
		p.Spans = []edtypes.Span{{Text: c.Text}}
	}
	doc.Blocks = append(doc.Blocks, p)
	return true
}

// Пакет render превращает дерево документа статьи в HTML для чтения.
// Рендер чистый: не меняет документ и никогда не возвращает ошибку -
// неизвестные блоки молча пропускаются.
//
// Основные возможности:
//   - HTML-рендер всех типов блоков с экранированием текста.
//   - Приведение уровня заголовка к диапазону {1, 2}.
//   - Подсветка и подпись языка блоков кода, автоопределение языка.
//   - Санитизация legacy-контента через bluemonday.
package render

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
)

var legacyPolicy = bluemonday.StrictPolicy()

// Renderer генерирует HTML из документа. Нулевое значение готово к работе.
type Renderer struct {
	// База для относительных src изображений
	ImageBaseURL string
}

// Render возвращает HTML всего контента статьи. Legacy-строка отдается
// санированной внутри pre-блока, сохраняющего переносы строк.
func (r *Renderer) Render(c edtypes.Content) string {
	if c.IsLegacy() {
		if c.Legacy == "" {
			return ""
		}
		return `<pre class="whitespace-pre-wrap">` + legacyPolicy.Sanitize(c.Legacy) + `</pre>`
	}
	return r.RenderDocument(c.Doc)
}

// RenderDocument возвращает HTML дерева документа.
func (r *Renderer) RenderDocument(doc *edtypes.Document) string {
	if doc == nil {
		return ""
	}
	var sb strings.Builder
	for _, block := range doc.Blocks {
		r.renderBlock(&sb, block)
	}
	return sb.String()
}

func (r *Renderer) renderBlock(sb *strings.Builder, block any) {
	switch b := block.(type) {
	case *edtypes.Paragraph:
		sb.WriteString(`<p class="` + blockClass("text-lg leading-relaxed", b.Attrs) + `">`)
		renderSpans(sb, b.Spans)
		sb.WriteString("</p>")
	case *edtypes.Heading:
		tag := headingTag(b.Level)
		sb.WriteString("<" + tag + ` class="` + blockClass(headingClass(b.Level), b.Attrs) + `">`)
		renderSpans(sb, b.Spans)
		sb.WriteString("</" + tag + ">")
	case *edtypes.CodeBlock:
		renderCodeBlock(sb, b)
	case *edtypes.BulletList:
		sb.WriteString(`<ul class="` + blockClass("list-disc pl-6", b.Attrs) + `">`)
		for _, item := range b.Items {
			sb.WriteString("<li>" + html.EscapeString(item) + "</li>")
		}
		sb.WriteString("</ul>")
	case *edtypes.OrderedList:
		// Start игнорируется: нумерация всегда с 1
		sb.WriteString(`<ol class="` + blockClass("list-decimal pl-6", b.Attrs) + `">`)
		for _, item := range b.Items {
			sb.WriteString("<li>" + html.EscapeString(item) + "</li>")
		}
		sb.WriteString("</ol>")
	case *edtypes.Image:
		if b == nil || b.Src == "" {
			return
		}
		src := b.Src
		if r.ImageBaseURL != "" && strings.HasPrefix(src, "/") {
			src = strings.TrimSuffix(r.ImageBaseURL, "/") + src
		}
		sb.WriteString(`<img src="` + html.EscapeString(src) + `" class="rounded-lg my-4" loading="lazy">`)
	default:
		slog.Debug("Skip unknown block type", "type", fmt.Sprintf("%T", block))
	}
}

// headingTag приводит уровень заголовка к {1, 2}: документный h1
// рендерится как h2, чтобы единственный h1 страницы оставался у
// заголовка статьи.
func headingTag(level int) string {
	if clampHeadingLevel(level) == 1 {
		return "h2"
	}
	return "h3"
}

func clampHeadingLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 2 {
		return 2
	}
	return level
}

func headingClass(level int) string {
	if clampHeadingLevel(level) == 1 {
		return "text-3xl font-bold mt-8 mb-4"
	}
	return "text-2xl font-semibold mt-6 mb-3"
}

func blockClass(base string, attrs edtypes.BlockAttrs) string {
	classes := []string{base}
	switch attrs.Align {
	case edtypes.CenterAlign:
		classes = append(classes, "text-center")
	case edtypes.RightAlign:
		classes = append(classes, "text-right")
	default:
		classes = append(classes, "text-left")
	}
	return strings.Join(classes, " ")
}

func renderSpans(sb *strings.Builder, spans []edtypes.Span) {
	for _, span := range spans {
		renderSpan(sb, span)
	}
}

// Классы меток совпадают с классами просмотра статьи на сайте.
var markClasses = map[edtypes.MarkType]string{
	edtypes.MarkBold:      "font-bold",
	edtypes.MarkItalic:    "italic",
	edtypes.MarkHighlight: "bg-yellow-200 text-black rounded-sm px-1 font-medium",
	edtypes.MarkCode:      "font-mono text-sm bg-zinc-800 rounded px-1",
}

func renderSpan(sb *strings.Builder, span edtypes.Span) {
	text := html.EscapeString(span.Text)
	if len(span.Marks) == 0 {
		sb.WriteString(text)
		return
	}

	var classes []string
	href := ""
	for _, m := range span.Marks {
		if m.Type == edtypes.MarkLink {
			href = m.Href
			continue
		}
		if cls, ok := markClasses[m.Type]; ok {
			classes = append(classes, cls)
		}
	}

	openTag, closeTag := "span", "</span>"
	attrs := ""
	if href != "" {
		openTag, closeTag = "a", "</a>"
		attrs = ` href="` + html.EscapeString(href) + `" target="_blank" rel="noopener noreferrer"`
		classes = append(classes, "underline text-blue-400")
	}

	if len(classes) == 0 && href == "" {
		sb.WriteString(text)
		return
	}

	sb.WriteString("<" + openTag + attrs)
	if len(classes) > 0 {
		sb.WriteString(` class="` + strings.Join(classes, " ") + `"`)
	}
	sb.WriteString(">" + text + closeTag)
}

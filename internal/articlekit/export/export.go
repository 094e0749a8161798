// Пакет для экспорта статей в автономные форматы.
// Предоставляет функциональность для сохранения статьи в HTML, Markdown
// и PDF из дерева документа.
//
// Основные возможности:
//   - Генерация автономной HTML-страницы со стилями подсветки.
//   - Генерация Markdown из дерева документа.
//   - Генерация PDF с поддержкой стилизации текста (жирный, курсив).
package export

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"

	"github.com/md7o/articlekit/internal/articlekit/apierrors"
	"github.com/md7o/articlekit/internal/articlekit/dto"
	"github.com/md7o/articlekit/internal/articlekit/render"
)

var minifier *minify.M = minify.New()

func init() {
	minifier.AddFunc("text/html", minhtml.Minify)
}

type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
	FormatPDF      Format = "pdf"
)

// ParseFormat распознает формат экспорта по имени или расширению.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(raw, ".")) {
	case "html", "htm":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", apierrors.ErrExportFormat.WithFormattedMessage(raw)
	}
}

// Export записывает статью в out в выбранном формате.
func Export(article dto.Article, format Format, out io.Writer) error {
	switch format {
	case FormatHTML:
		return ToHTML(article, out)
	case FormatMarkdown:
		return ToMarkdown(article, out)
	case FormatPDF:
		return ToPDF(article, out)
	default:
		return apierrors.ErrExportFormat.WithFormattedMessage(string(format))
	}
}

// ToHTML пишет автономную HTML-страницу статьи: разметка, заголовок и
// таблица стилей подсветки в одном файле. Результат минифицируется.
func ToHTML(article dto.Article, out io.Writer) error {
	r := &render.Renderer{}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\">")
	sb.WriteString("<title>" + html.EscapeString(article.Title) + "</title>")
	sb.WriteString("<style>" + render.HighlightCSS() + "</style>")
	sb.WriteString("</head><body><article>")
	sb.WriteString(fmt.Sprintf(`<h1 class="text-%s">%s</h1>`, titleAlign(article), html.EscapeString(article.Title)))
	sb.WriteString(r.Render(article.Content))
	sb.WriteString("</article></body></html>")

	return minifier.Minify("text/html", out, strings.NewReader(sb.String()))
}

func titleAlign(article dto.Article) string {
	switch article.TitleAlign {
	case "center", "right":
		return article.TitleAlign
	default:
		return "left"
	}
}

package export

import (
	"fmt"
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/md7o/articlekit/internal/articlekit/dto"
	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
	_ "github.com/md7o/articlekit/internal/articlekit/editor/tiptap" // Регистрация парсера и сериализатора документа
)

type pdfWriter struct {
	pdf     *fpdf.Fpdf
	article dto.Article
}

// ToPDF пишет статью в PDF. Текст набирается встроенными шрифтами PDF,
// поэтому файл не требует внешних ресурсов.
func ToPDF(article dto.Article, out io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "") // 210*297 mm

	w := pdfWriter{
		pdf:     pdf,
		article: article,
	}

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 22)
		pdf.MultiCell(0, 10, article.Title, "", titleAlignStr(article), false)
		pdf.Line(pdf.GetX(), pdf.GetY()+2, 200, pdf.GetY()+2)
		pdf.SetY(pdf.GetY() + 6)
	})

	pdf.AddPage()

	if article.Content.IsLegacy() {
		pdf.SetFont("Helvetica", "", 12)
		pdf.MultiCell(0, 6, article.Content.Legacy, "", "L", false)
		return pdf.Output(out)
	}

	w.writeDocument(article.Content.Doc)
	return pdf.Output(out)
}

func titleAlignStr(article dto.Article) string {
	switch article.TitleAlign {
	case "center":
		return "C"
	case "right":
		return "R"
	default:
		return "L"
	}
}

func (w *pdfWriter) writeDocument(doc *edtypes.Document) {
	for _, rawBlock := range doc.Blocks {
		switch b := rawBlock.(type) {
		case *edtypes.Paragraph:
			w.writeSpans(b.Spans, 12, "")
			w.pdf.Ln(3)
		case *edtypes.Heading:
			size := 17.0
			if b.Level <= 1 {
				size = 19
			}
			w.pdf.Ln(3)
			w.writeSpans(b.Spans, size, "B")
			w.pdf.Ln(3)
		case *edtypes.CodeBlock:
			w.writeCode(b)
		case *edtypes.BulletList:
			w.writeList(b.Items, false)
		case *edtypes.OrderedList:
			w.writeList(b.Items, true)
		case *edtypes.Image:
			// Внешние изображения в экспорт не встраиваются,
			// остается ссылка
			if b.Src != "" {
				w.pdf.SetFont("Helvetica", "U", 11)
				w.pdf.SetTextColor(40, 90, 200)
				w.pdf.WriteLinkString(6, b.Src, b.Src)
				w.pdf.Ln(8)
				w.pdf.SetTextColor(0, 0, 0)
			}
		}
	}
}

func (w *pdfWriter) writeSpans(spans []edtypes.Span, size float64, baseStyle string) {
	for _, span := range spans {
		styleStr := baseStyle
		if span.Marks.Has(edtypes.MarkBold) && !strings.Contains(styleStr, "B") {
			styleStr += "B"
		}
		if span.Marks.Has(edtypes.MarkItalic) {
			styleStr += "I"
		}

		font := "Helvetica"
		if span.Marks.Has(edtypes.MarkCode) {
			font = "Courier"
		}
		w.pdf.SetFont(font, styleStr, size)

		if span.Marks.Has(edtypes.MarkHighlight) {
			w.pdf.SetTextColor(120, 90, 0)
		} else {
			w.pdf.SetTextColor(0, 0, 0)
		}

		href := ""
		for _, m := range span.Marks {
			if m.Type == edtypes.MarkLink {
				href = m.Href
			}
		}
		if href != "" {
			w.pdf.SetTextColor(40, 90, 200)
			w.pdf.WriteLinkString(6, span.Text, href)
		} else {
			w.pdf.Write(6, span.Text)
		}
	}
	w.pdf.Ln(-1)
	w.pdf.SetTextColor(0, 0, 0)
}

func (w *pdfWriter) writeCode(b *edtypes.CodeBlock) {
	w.pdf.SetFont("Courier", "", 10)
	w.pdf.SetFillColor(240, 240, 240)
	w.pdf.Ln(2)
	for _, line := range strings.Split(b.Code, "\n") {
		w.pdf.CellFormat(0, 5, line, "", 1, "L", true, 0, "")
	}
	w.pdf.Ln(2)
	w.pdf.SetFillColor(255, 255, 255)
}

func (w *pdfWriter) writeList(items []string, numbered bool) {
	w.pdf.SetFont("Helvetica", "", 12)
	w.pdf.SetLeftMargin(13)
	for i, item := range items {
		if numbered {
			w.pdf.Write(6, fmt.Sprintf("%d. ", i+1))
		} else {
			w.pdf.Write(6, "- ")
		}
		w.pdf.Write(6, item)
		w.pdf.Ln(-1)
	}
	w.pdf.SetLeftMargin(10)
	w.pdf.Ln(2)
}

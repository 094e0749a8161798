package export

import (
	"io"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/md7o/articlekit/internal/articlekit/dto"
	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
)

// ToMarkdown пишет статью в Markdown. Legacy-контент отдается как есть
// одним абзацем.
func ToMarkdown(article dto.Article, out io.Writer) error {
	doc := md.NewMarkdown(out).H1(article.Title)

	if article.Content.IsLegacy() {
		if article.Content.Legacy != "" {
			doc.PlainText(article.Content.Legacy)
		}
		return doc.Build()
	}

	for _, block := range article.Content.Doc.Blocks {
		writeBlock(doc, block)
	}
	return doc.Build()
}

func writeBlock(doc *md.Markdown, block any) {
	switch b := block.(type) {
	case *edtypes.Paragraph:
		doc.PlainText(spansMarkdown(b.Spans))
	case *edtypes.Heading:
		// Заголовки документа на уровень ниже H1 статьи
		if b.Level <= 1 {
			doc.H2(spansMarkdown(b.Spans))
		} else {
			doc.H3(spansMarkdown(b.Spans))
		}
	case *edtypes.CodeBlock:
		doc.CodeBlocks(md.SyntaxHighlight(b.Language), b.Code)
	case *edtypes.BulletList:
		doc.BulletList(b.Items...)
	case *edtypes.OrderedList:
		doc.OrderedList(b.Items...)
	case *edtypes.Image:
		if b.Src != "" {
			doc.PlainText("![](" + b.Src + ")")
		}
	}
}

func spansMarkdown(spans []edtypes.Span) string {
	var sb strings.Builder
	for _, span := range spans {
		text := span.Text
		if span.Marks.Has(edtypes.MarkCode) {
			text = md.Code(text)
		}
		if span.Marks.Has(edtypes.MarkBold) {
			text = md.Bold(text)
		}
		if span.Marks.Has(edtypes.MarkItalic) {
			text = md.Italic(text)
		}
		for _, m := range span.Marks {
			if m.Type == edtypes.MarkLink && m.Href != "" {
				text = md.Link(text, m.Href)
			}
		}
		sb.WriteString(text)
	}
	return sb.String()
}

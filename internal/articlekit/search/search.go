// Package search содержит логику фильтрации списка статей.
// Позволяет использовать поиск из разных мест приложения (CLI, превью-сервер и др.)
//
// Основные возможности:
//   - Извлечение поискового текста из контента статьи обеих веток.
//   - Регистронезависимая фильтрация по подстроке с сохранением порядка.
//   - Дебаунс ввода: пересчет результата один раз после паузы набора.
package search

import (
	"log/slog"
	"strings"

	"github.com/md7o/articlekit/internal/articlekit/dto"
	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
)

// ExtractText возвращает текст статьи для поиска: заголовок плюс весь
// видимый текст контента. Никогда не паникует - поврежденный документ
// дает пустой текст и предупреждение в логе.
func ExtractText(a dto.Article) (text string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Extract search text", "slug", a.Slug, "panic", r)
			text = a.Title
		}
	}()

	var sb strings.Builder
	sb.WriteString(a.Title)

	if a.Content.IsLegacy() {
		sb.WriteString(" ")
		sb.WriteString(a.Content.Legacy)
		return sb.String()
	}

	for _, block := range a.Content.Doc.Blocks {
		sb.WriteString(" ")
		sb.WriteString(blockText(block))
	}
	return sb.String()
}

func blockText(block any) string {
	switch b := block.(type) {
	case *edtypes.Paragraph:
		return spansText(b.Spans)
	case *edtypes.Heading:
		return spansText(b.Spans)
	case *edtypes.CodeBlock:
		return b.Code
	case *edtypes.BulletList:
		return strings.Join(b.Items, " ")
	case *edtypes.OrderedList:
		return strings.Join(b.Items, " ")
	default:
		return ""
	}
}

func spansText(spans []edtypes.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Filter возвращает статьи, содержащие query как подстроку без учета
// регистра. Порядок исходного списка сохраняется. Пустой запрос
// возвращает список целиком.
func Filter(articles []dto.Article, query string) []dto.Article {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]dto.Article, len(articles))
		copy(out, articles)
		return out
	}

	out := make([]dto.Article, 0, len(articles))
	for _, a := range articles {
		if strings.Contains(strings.ToLower(ExtractText(a)), query) {
			out = append(out, a)
		}
	}
	return out
}

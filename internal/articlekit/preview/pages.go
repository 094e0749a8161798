package preview

import (
	"html/template"
	"path"
	"strings"

	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"

	"github.com/md7o/articlekit/internal/articlekit/dto"
	"github.com/md7o/articlekit/internal/articlekit/render"
	"github.com/md7o/articlekit/internal/articlekit/search"
)

var minifier *minify.M = minify.New()

func init() {
	minifier.AddFunc("text/html", minhtml.Minify)
}

var listTemplate = template.Must(template.New("list").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Articles</title>
<link rel="stylesheet" href="/highlight.css">
</head>
<body class="bg-zinc-900 text-white">
<main class="max-w-4xl mx-auto p-6">
<form method="get" action="/">
<input type="search" name="q" value="{{.Query}}" placeholder="Search articles..." class="w-full rounded-lg p-2 text-black">
</form>
{{if not .Articles}}<p class="text-zinc-400 mt-8">No articles found.</p>{{end}}
<section class="grid gap-4 mt-6">
{{range .Articles}}
<a href="/articles/{{.Slug}}" class="card rounded-lg bg-zinc-800 p-4">
{{if .CoverImage}}<img src="{{.CoverImage}}" class="rounded-lg mb-2" loading="lazy">{{end}}
<h2 class="text-xl font-semibold">{{.Title}}</h2>
<p class="text-sm text-zinc-400">{{.Preview}}</p>
</a>
{{end}}
</section>
</main>
</body>
</html>`))

var articleTemplate = template.Must(template.New("article").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="/highlight.css">
</head>
<body class="bg-zinc-900 text-white">
<main class="max-w-3xl mx-auto p-6">
<a href="/" class="text-sm text-zinc-400">&larr; Back</a>
{{if .CoverImage}}<img src="{{.CoverImage}}" class="rounded-xl w-full my-4">{{end}}
<h1 class="{{.TitleClass}}">{{.Title}}</h1>
{{if .Created}}<p class="text-sm text-zinc-400 mt-2">{{.Created}}</p>{{end}}
<article class="mt-6">{{.Body}}</article>
</main>
</body>
</html>`))

type cardData struct {
	Slug       string
	Title      string
	CoverImage string
	Preview    string
}

const previewRunes = 140

// coverURL строит адрес обложки: бэкенд хранит имя файла, абсолютные
// адреса пропускаются как есть.
func coverURL(imageBase, cover string) string {
	if cover == "" || strings.Contains(cover, "://") {
		return cover
	}
	return strings.TrimSuffix(imageBase, "/") + "/images/" + path.Base(cover)
}

func renderListPage(query string, articles []dto.Article, imageBase string) (string, error) {
	cards := make([]cardData, 0, len(articles))
	for _, a := range articles {
		text := strings.TrimSpace(strings.TrimPrefix(search.ExtractText(a), a.Title))
		runes := []rune(text)
		if len(runes) > previewRunes {
			text = string(runes[:previewRunes]) + "…"
		}
		cards = append(cards, cardData{
			Slug:       a.Slug,
			Title:      a.Title,
			CoverImage: coverURL(imageBase, a.CoverImage),
			Preview:    text,
		})
	}

	var sb strings.Builder
	if err := listTemplate.Execute(&sb, struct {
		Query    string
		Articles []cardData
	}{query, cards}); err != nil {
		return "", err
	}
	return minifyPage(sb.String())
}

func renderArticlePage(article dto.Article, r *render.Renderer, imageBase string) (string, error) {
	created := ""
	if !article.CreatedAt.IsZero() {
		created = article.CreatedAt.Format("January 2, 2006")
	}

	var sb strings.Builder
	err := articleTemplate.Execute(&sb, struct {
		Title      string
		TitleClass string
		CoverImage string
		Created    string
		Body       template.HTML
	}{
		Title:      article.Title,
		TitleClass: titleClass(article),
		CoverImage: coverURL(imageBase, article.CoverImage),
		Created:    created,
		Body:       template.HTML(r.Render(article.Content)),
	})
	if err != nil {
		return "", err
	}
	return minifyPage(sb.String())
}

// titleClass подбирает размер заголовка по его длине: длинные заголовки
// набираются мельче, чтобы не разваливать шапку страницы.
func titleClass(article dto.Article) string {
	size := "text-5xl"
	words := len(strings.Fields(article.Title))
	switch {
	case words > 12:
		size = "text-3xl"
	case words > 6:
		size = "text-4xl"
	}

	align := "text-left"
	switch article.TitleAlign {
	case "center":
		align = "text-center"
	case "right":
		align = "text-right"
	}
	return size + " font-bold " + align
}

func minifyPage(page string) (string, error) {
	out, err := minifier.String("text/html", page)
	if err != nil {
		return "", err
	}
	return out, nil
}

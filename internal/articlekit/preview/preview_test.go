package preview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/md7o/articlekit/internal/articlekit/config"
	"github.com/md7o/articlekit/internal/articlekit/dto"
	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
	_ "github.com/md7o/articlekit/internal/articlekit/editor/tiptap"
	"github.com/md7o/articlekit/internal/articlekit/store"
)

type fakeBackend struct {
	articles []dto.Article
	err      error
}

func (f *fakeBackend) ListArticles(ctx context.Context) ([]dto.Article, error) {
	return f.articles, f.err
}

func (f *fakeBackend) DeleteArticle(ctx context.Context, slug string) error { return nil }

func (f *fakeBackend) UpdateArticle(ctx context.Context, slug string, update dto.ArticleUpdate) (dto.Article, error) {
	return dto.Article{}, nil
}

func testServer(backend *fakeBackend) *Server {
	cfg := &config.Config{PreviewAddr: "localhost:0"}
	return NewServer(cfg, store.NewArticleStore(backend))
}

func doRequest(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

var previewFixture = []dto.Article{
	{
		Slug:  "go-basics",
		Title: "Go basics",
		Content: edtypes.StructuredContent(&edtypes.Document{Blocks: []any{
			&edtypes.Paragraph{Spans: []edtypes.Span{{Text: "Goroutines explained in depth"}}},
			&edtypes.CodeBlock{Language: "go", Code: "func main() {}"},
		}}),
	},
	{
		Slug:    "css-post",
		Title:   "All about CSS",
		Content: edtypes.LegacyContent("legacy css body"),
	},
}

func TestListPage(t *testing.T) {
	s := testServer(&fakeBackend{articles: previewFixture})

	rec := doRequest(s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Go basics")
	assert.Contains(t, body, "All about CSS")
	// Минификатор может снять кавычки с атрибутов
	assert.Contains(t, body, "/articles/go-basics")
}

func TestListPageSearch(t *testing.T) {
	s := testServer(&fakeBackend{articles: previewFixture})

	rec := doRequest(s, "/?q=goroutines")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Go basics")
	assert.NotContains(t, body, "All about CSS")
}

func TestArticlePage(t *testing.T) {
	s := testServer(&fakeBackend{articles: previewFixture})

	rec := doRequest(s, "/articles/go-basics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Goroutines explained")
	assert.Contains(t, body, "Go basics")
}

func TestArticlePageNotFound(t *testing.T) {
	s := testServer(&fakeBackend{articles: previewFixture})
	rec := doRequest(s, "/articles/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBackendErrorPropagates(t *testing.T) {
	s := testServer(&fakeBackend{err: errors.New("backend down")})
	rec := doRequest(s, "/")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHighlightCSSRoute(t *testing.T) {
	s := testServer(&fakeBackend{})
	rec := doRequest(s, "/highlight.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}

func TestServerHeader(t *testing.T) {
	s := testServer(&fakeBackend{articles: previewFixture})
	rec := doRequest(s, "/")
	assert.Equal(t, "ArticleKit", rec.Header().Get("Server"))
}

func TestTwoServersInOneProcess(t *testing.T) {
	backend := &fakeBackend{articles: previewFixture}
	_ = testServer(backend)

	// Второй сервер регистрирует метрики в собственном реестре
	s := testServer(backend)
	rec := doRequest(s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCoverURLFromFilename(t *testing.T) {
	assert.Equal(t, "https://backend.example/images/pic.png", coverURL("https://backend.example/", "pic.png"))
	assert.Equal(t, "https://backend.example/images/pic.png", coverURL("https://backend.example", "uploads/pic.png"))
	assert.Equal(t, "https://cdn/pic.png", coverURL("https://backend.example", "https://cdn/pic.png"))
	assert.Equal(t, "", coverURL("https://backend.example", ""))
}

func TestTitleClassByLength(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Short title", "text-5xl"},
		{"A somewhat longer title with quite a few words", "text-4xl"},
		{"An extremely verbose title that just keeps going on and on and on without any restraint", "text-3xl"},
	}
	for _, tt := range tests {
		assert.Contains(t, titleClass(dto.Article{Title: tt.title}), tt.want, "title %q", tt.title)
	}
}

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/md7o/articlekit/internal/articlekit/dto"
	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
)

type fakeBackend struct {
	articles  []dto.Article
	listErr   error
	deleteErr error
	updateErr error
	listCalls int
	deleted   []string
}

func (f *fakeBackend) ListArticles(ctx context.Context) ([]dto.Article, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]dto.Article(nil), f.articles...), nil
}

func (f *fakeBackend) DeleteArticle(ctx context.Context, slug string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, slug)
	return nil
}

// UpdateArticle отвечает только измененными полями, как настоящий PATCH.
func (f *fakeBackend) UpdateArticle(ctx context.Context, slug string, update dto.ArticleUpdate) (dto.Article, error) {
	if f.updateErr != nil {
		return dto.Article{}, f.updateErr
	}
	sparse := dto.Article{}
	if update.Title != nil {
		sparse.Title = *update.Title
	}
	if update.CoverImage != nil {
		sparse.CoverImage = *update.CoverImage
	}
	return sparse, nil
}

func TestFetchCachesResult(t *testing.T) {
	backend := &fakeBackend{articles: []dto.Article{
		{Slug: "a", Title: "A"},
		{Slug: "b", Title: "B"},
	}}
	s := NewArticleStore(backend)

	first, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 2)

	// Повторный Fetch обслуживается из кэша
	_, err = s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, backend.listCalls)
}

func TestFetchErrorNoRetry(t *testing.T) {
	backend := &fakeBackend{listErr: errors.New("backend down")}
	s := NewArticleStore(backend)

	_, err := s.Fetch(context.Background())
	require.Error(t, err)
	assert.Error(t, s.Err())
	assert.True(t, s.Loaded())

	// Ошибка запоминается: без явного Refresh запрос не повторяется
	_, err = s.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, backend.listCalls)
}

func TestRefreshFailureKeepsCache(t *testing.T) {
	backend := &fakeBackend{articles: []dto.Article{{Slug: "a", Title: "A"}}}
	s := NewArticleStore(backend)
	_, err := s.Fetch(context.Background())
	require.NoError(t, err)

	backend.listErr = errors.New("backend down")
	articles, err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.Len(t, articles, 1, "прежний кэш переживает неудачное обновление")
	assert.Error(t, s.Err())
}

func TestRefreshClearsError(t *testing.T) {
	backend := &fakeBackend{listErr: errors.New("backend down")}
	s := NewArticleStore(backend)

	_, _ = s.Fetch(context.Background())
	require.Error(t, s.Err())

	backend.listErr = nil
	backend.articles = []dto.Article{{Slug: "a", Title: "A"}}
	articles, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, articles, 1)
	assert.NoError(t, s.Err())
}

func TestDeleteRemovesFromCache(t *testing.T) {
	backend := &fakeBackend{articles: []dto.Article{
		{Slug: "keep", Title: "Keep"},
		{Slug: "drop", Title: "Drop"},
	}}
	s := NewArticleStore(backend)
	_, err := s.Fetch(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), "drop"))
	assert.Equal(t, []string{"drop"}, backend.deleted)

	articles := s.Articles()
	require.Len(t, articles, 1)
	assert.Equal(t, "keep", articles[0].Slug)

	_, found := s.Get("drop")
	assert.False(t, found)
}

func TestUpdateMergesPartialIntoCache(t *testing.T) {
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	backend := &fakeBackend{articles: []dto.Article{{
		Slug:      "post",
		Title:     "Old",
		Content:   edtypes.LegacyContent("body"),
		CreatedAt: created,
	}}}
	s := NewArticleStore(backend)
	_, err := s.Fetch(context.Background())
	require.NoError(t, err)

	title := "New"
	updated, err := s.Update(context.Background(), "post", dto.ArticleUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)

	// Меняется только переданное поле, остальное остается на месте
	cached, found := s.Get("post")
	require.True(t, found)
	assert.Equal(t, "New", cached.Title)
	assert.Equal(t, "body", cached.Content.Legacy)
	assert.Equal(t, created, cached.CreatedAt)
}

func TestFailedMutationsSetError(t *testing.T) {
	backend := &fakeBackend{
		articles:  []dto.Article{{Slug: "post", Title: "Old"}},
		deleteErr: errors.New("delete refused"),
	}
	s := NewArticleStore(backend)
	_, err := s.Fetch(context.Background())
	require.NoError(t, err)

	require.Error(t, s.Delete(context.Background(), "post"))
	assert.Error(t, s.Err())

	_, found := s.Get("post")
	assert.True(t, found, "кэш не меняется при неудачном удалении")

	backend.updateErr = errors.New("update refused")
	title := "New"
	_, err = s.Update(context.Background(), "post", dto.ArticleUpdate{Title: &title})
	require.Error(t, err)
	assert.Error(t, s.Err())

	cached, _ := s.Get("post")
	assert.Equal(t, "Old", cached.Title)
}

func TestSnapshotIsolation(t *testing.T) {
	backend := &fakeBackend{articles: []dto.Article{{Slug: "a", Title: "A"}}}
	s := NewArticleStore(backend)
	_, err := s.Fetch(context.Background())
	require.NoError(t, err)

	snap := s.Articles()
	snap[0].Title = "mutated"

	cached, _ := s.Get("a")
	assert.Equal(t, "A", cached.Title)
}

// Пакет store кэширует список статей в памяти между экранами приложения.
// Повторные заходы на список не дергают бэкенд: данные отдаются из кэша,
// пока не запрошено явное обновление.
//
// Основные возможности:
//   - Однократная загрузка списка с бэкенда и выдача из кэша.
//   - Локальное применение удаления и частичного обновления статьи.
//   - Флаг ошибки последней загрузки без автоматических повторов.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/md7o/articlekit/internal/articlekit/dto"
)

// Backend - операции бэкенда, нужные кэшу. Реализуется api.Client.
type Backend interface {
	ListArticles(ctx context.Context) ([]dto.Article, error)
	DeleteArticle(ctx context.Context, slug string) error
	UpdateArticle(ctx context.Context, slug string, update dto.ArticleUpdate) (dto.Article, error)
}

type ArticleStore struct {
	mu       sync.RWMutex
	backend  Backend
	articles []dto.Article
	loaded   bool
	lastErr  error
}

func NewArticleStore(backend Backend) *ArticleStore {
	return &ArticleStore{backend: backend}
}

// Fetch возвращает статьи, загружая их при первом обращении. Ошибка
// загрузки запоминается и не вызывает повторных запросов: следующий
// Fetch снова вернет ее, пока не позовут Refresh.
func (s *ArticleStore) Fetch(ctx context.Context) ([]dto.Article, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.snapshotLocked(), s.lastErr
	}
	s.mu.RUnlock()

	return s.Refresh(ctx)
}

// Refresh перечитывает список с бэкенда, заменяя кэш. При ошибке
// прежний кэш сохраняется, запоминается только сама ошибка.
func (s *ArticleStore) Refresh(ctx context.Context) ([]dto.Article, error) {
	articles, err := s.backend.ListArticles(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.lastErr = err
	if err != nil {
		slog.Error("Fetch articles", "err", err)
		return s.snapshotLocked(), err
	}
	s.articles = articles
	return s.snapshotLocked(), nil
}

// Articles возвращает текущее содержимое кэша без похода на бэкенд.
func (s *ArticleStore) Articles() []dto.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Err возвращает ошибку последней загрузки или nil.
func (s *ArticleStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Loaded возвращает true после первой попытки загрузки, удачной или нет.
func (s *ArticleStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Delete удаляет статью на бэкенде и убирает ее из кэша. Кэш меняется
// только после успешного ответа.
func (s *ArticleStore) Delete(ctx context.Context, slug string) error {
	if err := s.backend.DeleteArticle(ctx, slug); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.articles {
		if a.Slug == slug {
			s.articles = append(s.articles[:i], s.articles[i+1:]...)
			break
		}
	}
	return nil
}

// Update отправляет частичное обновление и при успехе вливает те же
// поля в кэшированную версию. Тело ответа не используется: PATCH
// возвращает только измененные поля, а не статью целиком. Последняя
// успешная запись побеждает.
func (s *ArticleStore) Update(ctx context.Context, slug string, update dto.ArticleUpdate) (dto.Article, error) {
	if _, err := s.backend.UpdateArticle(ctx, slug, update); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return dto.Article{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.articles {
		if s.articles[i].Slug == slug {
			applyUpdate(&s.articles[i], update)
			return s.articles[i], nil
		}
	}

	// Статьи нет в кэше: вернуть хотя бы примененные поля
	updated := dto.Article{Slug: slug}
	applyUpdate(&updated, update)
	return updated, nil
}

func applyUpdate(a *dto.Article, update dto.ArticleUpdate) {
	if update.Title != nil {
		a.Title = *update.Title
	}
	if update.TitleAlign != nil {
		a.TitleAlign = *update.TitleAlign
	}
	if update.Content != nil {
		a.Content = *update.Content
	}
	if update.CoverImage != nil {
		a.CoverImage = *update.CoverImage
	}
}

// Get возвращает статью из кэша по slug.
func (s *ArticleStore) Get(slug string) (dto.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.articles {
		if a.Slug == slug {
			return a, true
		}
	}
	return dto.Article{}, false
}

func (s *ArticleStore) snapshotLocked() []dto.Article {
	out := make([]dto.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

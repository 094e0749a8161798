package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-playground/validator"

	"github.com/md7o/articlekit/internal/articlekit/apierrors"
	"github.com/md7o/articlekit/internal/articlekit/dto"
)

// ListArticles возвращает все статьи блога.
func (c *Client) ListArticles(ctx context.Context) ([]dto.Article, error) {
	var articles []dto.Article
	if err := c.do(ctx, http.MethodGet, "/articles", nil, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// GetArticle возвращает одну статью по slug.
func (c *Client) GetArticle(ctx context.Context, slug string) (dto.Article, error) {
	var article dto.Article
	err := c.do(ctx, http.MethodGet, "/articles/"+url.PathEscape(slug), nil, &article)
	return article, err
}

// CreateArticle публикует новую статью. Статья валидируется до отправки.
func (c *Client) CreateArticle(ctx context.Context, article dto.Article) (dto.Article, error) {
	if err := c.validateArticle(article); err != nil {
		return dto.Article{}, err
	}

	var created dto.Article
	err := c.do(ctx, http.MethodPost, "/articles", article, &created)
	return created, err
}

// UpdateArticle частично обновляет статью: незаполненные поля не
// трогаются.
func (c *Client) UpdateArticle(ctx context.Context, slug string, update dto.ArticleUpdate) (dto.Article, error) {
	if update.Title != nil && *update.Title == "" {
		return dto.Article{}, apierrors.ErrArticleTitleRequired
	}

	var updated dto.Article
	err := c.do(ctx, http.MethodPatch, "/articles/"+url.PathEscape(slug), update, &updated)
	return updated, err
}

// DeleteArticle удаляет статью по slug.
func (c *Client) DeleteArticle(ctx context.Context, slug string) error {
	return c.do(ctx, http.MethodDelete, "/articles/"+url.PathEscape(slug), nil, nil)
}

func (c *Client) validateArticle(article dto.Article) error {
	if err := c.validate.Struct(article); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return apierrors.ErrValidation.WithFormattedMessage(err.Error())
		}
		return err
	}
	return nil
}

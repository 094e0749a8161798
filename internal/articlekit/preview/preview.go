// Пакет preview поднимает локальный HTTP-сервер для просмотра статей
// так, как их увидит читатель. Сервер работает поверх кэша статей и не
// заменяет продакшн-сайт.
//
// Основные возможности:
//   - Список статей карточками с поиском по подстроке.
//   - Страница статьи с подсветкой кода и адаптивным размером заголовка.
//   - Метрики Prometheus и сжатие ответов.
package preview

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/md7o/articlekit/internal/articlekit/apierrors"
	"github.com/md7o/articlekit/internal/articlekit/config"
	"github.com/md7o/articlekit/internal/articlekit/render"
	"github.com/md7o/articlekit/internal/articlekit/search"
	"github.com/md7o/articlekit/internal/articlekit/store"
)

type Server struct {
	echo     *echo.Echo
	store    *store.ArticleStore
	search   *search.Engine
	renderer *render.Renderer
	cfg      *config.Config
}

func ServerHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderServer, "ArticleKit")
		return next(c)
	}
}

func NewServer(cfg *config.Config, articleStore *store.ArticleStore) *Server {
	e := echo.New()
	e.HideBanner = true

	// Global middlewares
	e.Use(ServerHeader)
	e.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		Limit: "5M",
	}))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     9,
		MinLength: 2048,
	}))
	// Отдельный реестр на сервер: общий глобальный реестр не пережил
	// бы повторного создания сервера в одном процессе
	registry := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "articlekit",
		Registerer: registry,
	}))

	s := &Server{
		echo:   e,
		store:  articleStore,
		search: search.NewEngine(time.Duration(cfg.SearchDebounceMs) * time.Millisecond),
		renderer: &render.Renderer{
			ImageBaseURL: cfg.ImageBaseURL,
		},
		cfg: cfg,
	}

	e.GET("/", s.listPage)
	e.GET("/articles/:slug", s.articlePage)
	e.GET("/highlight.css", s.highlightCSS)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: registry,
	}))

	return s
}

// Start блокируется до остановки сервера.
func (s *Server) Start() error {
	slog.Info("Preview server started", "addr", s.cfg.PreviewAddr)
	return s.echo.Start(s.cfg.PreviewAddr)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) listPage(c echo.Context) error {
	articles, err := s.store.Fetch(c.Request().Context())
	if err != nil {
		return EError(c, apierrors.ErrArticleFetchFailed)
	}

	// Запрос приходит целиком, а не посимвольно: отложенный пересчет
	// применяется сразу
	query := c.QueryParam("q")
	s.search.SetArticles(articles)
	s.search.SetQuery(query)
	s.search.Flush()

	page, err := renderListPage(query, s.search.Results(), s.cfg.ImageBaseURL)
	if err != nil {
		return EError(c, err)
	}
	return c.HTML(http.StatusOK, page)
}

func (s *Server) articlePage(c echo.Context) error {
	slug := c.Param("slug")

	if _, err := s.store.Fetch(c.Request().Context()); err != nil {
		return EError(c, apierrors.ErrArticleFetchFailed)
	}
	article, found := s.store.Get(slug)
	if !found {
		return EErrorDefined(c, apierrors.ErrArticleNotFound)
	}

	page, err := renderArticlePage(article, s.renderer, s.cfg.ImageBaseURL)
	if err != nil {
		return EError(c, err)
	}
	return c.HTML(http.StatusOK, page)
}

func (s *Server) highlightCSS(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/css", []byte(render.HighlightCSS()))
}

// EError возвращает ошибку клиенту. Известные ошибки каталога отдаются
// как есть, прочие сворачиваются в общую с логированием.
func EError(c echo.Context, err error) error {
	if customErr, ok := err.(apierrors.DefinedError); ok {
		return EErrorDefined(c, customErr)
	}
	slog.Error("Preview error",
		"err", err,
		"method", c.Request().Method,
		"url", c.Request().URL,
	)
	return EErrorDefined(c, apierrors.ErrGeneric)
}

func EErrorDefined(c echo.Context, err apierrors.DefinedError) error {
	// If unknown code use 400 Bad Request
	if http.StatusText(err.StatusCode) == "" {
		err.StatusCode = http.StatusBadRequest
	}
	if wantsHTML(c) {
		return c.HTML(err.StatusCode, "<h1>"+err.Err+"</h1>")
	}
	return c.JSON(err.StatusCode, err)
}

func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

// Пакет api реализует HTTP-клиент бэкенда статей: CRUD статей, загрузка
// изображений и авторизация.
//
// Основные возможности:
//   - JSON-запросы с единым разбором ошибок бэкенда.
//   - Подстановка токена сессии в заголовок Authorization.
//   - Валидация статьи перед публикацией.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/md7o/articlekit/internal/articlekit/apierrors"
)

// TokenSource выдает токен текущей сессии. Пустой токен означает
// анонимный запрос.
type TokenSource interface {
	Token() (string, error)
}

type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	validate *validator.Validate
}

func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens:   tokens,
		validate: validator.New(),
	}
}

// do выполняет один запрос без повторов: ошибка сразу возвращается
// вызывающему.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("Backend request", "method", method, "path", path, "err", err)
		return err
	}
	defer resp.Body.Close()

	slog.Debug("Backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token()
	if err != nil || token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// decodeError превращает ответ бэкенда в DefinedError. Тело в формате
// каталога ошибок разбирается как есть, все прочее сворачивается в
// общую ошибку с этим статусом.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var defined apierrors.DefinedError
	if err := json.Unmarshal(raw, &defined); err == nil && defined.Code != 0 {
		defined.StatusCode = resp.StatusCode
		return defined
	}

	// Протухшая или отозванная сессия: вызывающий должен предложить
	// повторный вход.
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		invalid := apierrors.ErrSessionInvalid
		invalid.StatusCode = resp.StatusCode
		return invalid
	}

	generic := apierrors.ErrGeneric
	generic.StatusCode = resp.StatusCode
	if msg := extractMessage(raw); msg != "" {
		generic.Err = msg
	}
	return generic
}

func extractMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

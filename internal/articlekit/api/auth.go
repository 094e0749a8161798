package api

import (
	"context"
	"net/http"

	"github.com/sethvargo/go-password/password"

	"github.com/md7o/articlekit/internal/articlekit/apierrors"
	"github.com/md7o/articlekit/internal/articlekit/dto"
)

const minPasswordLength = 8

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login обменивает email и пароль на токен сессии.
func (c *Client) Login(ctx context.Context, email, pass string) (dto.AuthResponse, error) {
	if email == "" || pass == "" {
		return dto.AuthResponse{}, apierrors.ErrLoginCredentialsRequired
	}

	var auth dto.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", credentials{Email: email, Password: pass}, &auth)
	return auth, err
}

// Signup регистрирует нового пользователя. Пустой пароль означает
// генерацию случайного: он возвращается вызывающему для показа один раз.
func (c *Client) Signup(ctx context.Context, email, pass string) (dto.AuthResponse, string, error) {
	if email == "" {
		return dto.AuthResponse{}, "", apierrors.ErrLoginCredentialsRequired
	}

	generated := ""
	if pass == "" {
		var err error
		pass, err = password.Generate(16, 4, 2, false, false)
		if err != nil {
			return dto.AuthResponse{}, "", err
		}
		generated = pass
	}
	if len(pass) < minPasswordLength {
		return dto.AuthResponse{}, "", apierrors.ErrWeakPassword.WithFormattedMessage(minPasswordLength)
	}

	var auth dto.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/admin/signup", credentials{Email: email, Password: pass}, &auth)
	return auth, generated, err
}

// Logout завершает сессию на бэкенде. Ошибка сети не мешает локальному
// выходу: токен все равно будет забыт вызывающим.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// ValidateSession проверяет токен на бэкенде и возвращает профиль
// пользователя.
func (c *Client) ValidateSession(ctx context.Context) (dto.User, error) {
	var user dto.User
	err := c.do(ctx, http.MethodGet, "/auth/validateSession", nil, &user)
	return user, err
}

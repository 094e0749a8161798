// Содержит структуры данных (DTO) для обмена с бэкендом статей.
//
// Основные возможности:
//   - Представление статьи с тегированным контентом (Article).
//   - Частичное обновление статьи (ArticleUpdate).
//   - Представление пользователя и ответа авторизации (User, AuthResponse).
//   - Ответ загрузки изображения с плавающим именем ключа (UploadResponse).
package dto

import (
	"time"

	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
)

type Article struct {
	ID         string          `json:"id,omitempty"`
	Slug       string          `json:"slug,omitempty"`
	Title      string          `json:"title" validate:"required,min=1"`
	TitleAlign string          `json:"titleAlign,omitempty"`
	Content    edtypes.Content `json:"content"`
	CoverImage string          `json:"coverImage,omitempty"`
	CreatedAt  time.Time       `json:"createdAt,omitempty"`
	UpdatedAt  time.Time       `json:"updatedAt,omitempty"`
}

// ArticleUpdate - частичное обновление: nil-поля не отправляются и не
// меняют статью на сервере.
type ArticleUpdate struct {
	Title      *string          `json:"title,omitempty"`
	TitleAlign *string          `json:"titleAlign,omitempty"`
	Content    *edtypes.Content `json:"content,omitempty"`
	CoverImage *string          `json:"coverImage,omitempty"`
}

type User struct {
	ID       string `json:"id,omitempty"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

type AuthResponse struct {
	Token string `json:"token,omitempty"`
	User  User   `json:"user"`
}

// UploadResponse - бэкенды отдают адрес файла под разными ключами;
// клиент выбирает первый непустой в порядке объявления.
type UploadResponse struct {
	Filename  string `json:"filename,omitempty"`
	URL       string `json:"url,omitempty"`
	PublicURL string `json:"publicUrl,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Path      string `json:"path,omitempty"`
}

// FileURL возвращает адрес загруженного файла или пустую строку.
func (r UploadResponse) FileURL() string {
	for _, v := range []string{r.Filename, r.URL, r.PublicURL, r.ImageURL, r.Path} {
		if v != "" {
			return v
		}
	}
	return ""
}

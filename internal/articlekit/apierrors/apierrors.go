// Пакет содержит определения ошибок, используемых при работе с бэкендом статей, загрузкой файлов и авторизацией. Каждая ошибка имеет код, статус HTTP и описание, что позволяет удобно обрабатывать исключения и предоставлять информативные сообщения пользователю.
//
// Основные возможности:
//   - Определение типов ошибок, связанных с авторизацией, статьями, загрузкой файлов, валидацией и рендером.
//   - Предоставление кодов ошибок, соответствующих кодам HTTP статусов.
//   - Функция для форматирования сообщений об ошибках с использованием аргументов.
package apierrors

import (
	"fmt"
	"net/http"
	"strings"
)

type DefinedError struct {
	Code       int    `json:"code"`
	StatusCode int    `json:"-"`
	Err        string `json:"error"`
}

func (e DefinedError) Error() string {
	return e.Err
}

// Максимальный размер загружаемого изображения
const UploadMaxSizeMB = 5

var (
	// 1*** - auth errors
	ErrFailedLogin              = DefinedError{Code: 1001, StatusCode: http.StatusUnauthorized, Err: "invalid credentials"}
	ErrLoginCredentialsRequired = DefinedError{Code: 1002, StatusCode: http.StatusUnauthorized, Err: "both email and password are required"}
	ErrUserAlreadyExist         = DefinedError{Code: 1003, StatusCode: http.StatusConflict, Err: "user already exist"}
	ErrWeakPassword             = DefinedError{Code: 1004, StatusCode: http.StatusBadRequest, Err: "password must be at least %d characters"}

	// 11** - session errors
	ErrSessionNotFound = DefinedError{Code: 1101, StatusCode: http.StatusUnauthorized, Err: "no active session, login first"}
	ErrSessionExpired  = DefinedError{Code: 1102, StatusCode: http.StatusUnauthorized, Err: "session expired"}
	ErrSessionInvalid  = DefinedError{Code: 1103, StatusCode: http.StatusUnauthorized, Err: "invalid session"}

	// 2*** - article errors
	ErrArticleNotFound      = DefinedError{Code: 2001, StatusCode: http.StatusNotFound, Err: "article not found"}
	ErrArticleTitleRequired = DefinedError{Code: 2002, StatusCode: http.StatusBadRequest, Err: "article must have a title"}
	ErrArticleFetchFailed   = DefinedError{Code: 2003, StatusCode: http.StatusBadGateway, Err: "failed to fetch articles"}
	ErrArticleSaveFailed    = DefinedError{Code: 2004, StatusCode: http.StatusBadGateway, Err: "failed to save article"}
	ErrArticleDeleteFailed  = DefinedError{Code: 2005, StatusCode: http.StatusBadGateway, Err: "failed to delete article"}

	// 3*** - upload errors
	ErrUploadTooLarge      = DefinedError{Code: 3001, StatusCode: http.StatusRequestEntityTooLarge, Err: "file exceeds %d MB limit"}
	ErrUploadNotImage      = DefinedError{Code: 3002, StatusCode: http.StatusBadRequest, Err: "only image files are allowed"}
	ErrUploadFailed        = DefinedError{Code: 3003, StatusCode: http.StatusBadGateway, Err: "image upload failed"}
	ErrUploadNoURL         = DefinedError{Code: 3004, StatusCode: http.StatusBadGateway, Err: "upload response does not contain a file url"}
	ErrUploadEmptyFile     = DefinedError{Code: 3005, StatusCode: http.StatusBadRequest, Err: "empty file"}

	// 4*** - validation errors
	ErrValidation     = DefinedError{Code: 4001, StatusCode: http.StatusBadRequest, Err: "validation failed: %s"}
	ErrContentInvalid = DefinedError{Code: 4002, StatusCode: http.StatusBadRequest, Err: "article content is not a valid document"}

	// 5*** - render/export errors
	ErrRenderFailed = DefinedError{Code: 5001, StatusCode: http.StatusInternalServerError, Err: "failed to render article"}
	ErrExportFormat = DefinedError{Code: 5002, StatusCode: http.StatusBadRequest, Err: "unsupported export format %s"}

	ErrGeneric = DefinedError{Code: 9999, StatusCode: http.StatusInternalServerError, Err: "internal error"}
)

func (e DefinedError) WithFormattedMessage(args ...interface{}) DefinedError {
	if len(args) > 0 {
		e.Err = fmt.Sprintf(e.Err, args...)
	} else {
		e.Err = strings.Replace(e.Err, "%s", "", -1)
		e.Err = strings.Replace(e.Err, "%d", "", -1)
	}
	return e
}

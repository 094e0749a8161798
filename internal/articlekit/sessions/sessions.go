// Управление локальной сессией пользователя с использованием BoltDB.
// CLI между запусками хранит токен авторизации и профиль пользователя
// в локальной базе.
//
// Основные возможности:
//   - Сохранение и загрузка токена сессии и профиля пользователя.
//   - Проверка срока действия JWT без валидации подписи (подпись проверяет бэкенд).
//   - Очистка сессии при выходе.
package sessions

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/golang-jwt/jwt/v5"

	"github.com/md7o/articlekit/internal/articlekit/apierrors"
	"github.com/md7o/articlekit/internal/articlekit/dto"
)

type SessionsManager struct {
	db *bolt.DB
}

const (
	sessionBucketName = "session"

	tokenKey = "token"
	userKey  = "user"
)

func NewSessionsManager(dbPath string) (*SessionsManager, error) {
	if dbPath == "" {
		dbPath = "sessions.db"
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &SessionsManager{db}, nil
}

// Save сохраняет токен и профиль пользователя текущей сессии.
func (sm *SessionsManager) Save(token string, user dto.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return sm.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucketName))
		if err := b.Put([]byte(tokenKey), []byte(token)); err != nil {
			return err
		}
		return b.Put([]byte(userKey), raw)
	})
}

// Token возвращает сохраненный токен. Просроченный JWT считается
// отсутствующей сессией.
func (sm *SessionsManager) Token() (string, error) {
	var token string
	err := sm.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(sessionBucketName)).Get([]byte(tokenKey))
		if raw != nil {
			token = string(raw)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", apierrors.ErrSessionNotFound
	}
	if expired(token) {
		return "", apierrors.ErrSessionExpired
	}
	return token, nil
}

// User возвращает профиль пользователя сохраненной сессии.
func (sm *SessionsManager) User() (dto.User, error) {
	var user dto.User
	err := sm.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(sessionBucketName)).Get([]byte(userKey))
		if raw == nil {
			return apierrors.ErrSessionNotFound
		}
		return json.Unmarshal(raw, &user)
	})
	return user, err
}

// Clear удаляет сохраненную сессию.
func (sm *SessionsManager) Clear() error {
	return sm.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucketName))
		if err := b.Delete([]byte(tokenKey)); err != nil {
			return err
		}
		return b.Delete([]byte(userKey))
	})
}

func (sm *SessionsManager) Close() {
	sm.db.Close()
}

// expired разбирает JWT без проверки подписи и смотрит только на exp.
// Непарсящийся токен не считается просроченным: не-JWT токены бэкенда
// проверяются самим бэкендом.
func expired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().After(exp.Time)
}

// IsNoSession возвращает true для ошибок отсутствующей или просроченной
// сессии.
func IsNoSession(err error) bool {
	return errors.Is(err, apierrors.ErrSessionNotFound) || errors.Is(err, apierrors.ErrSessionExpired)
}

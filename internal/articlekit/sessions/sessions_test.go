package sessions

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/md7o/articlekit/internal/articlekit/apierrors"
	"github.com/md7o/articlekit/internal/articlekit/dto"
)

func testManager(t *testing.T) *SessionsManager {
	t.Helper()
	sm, err := NewSessionsManager(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(sm.Close)
	return sm
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestSaveAndLoadSession(t *testing.T) {
	sm := testManager(t)

	user := dto.User{ID: "u1", Email: "me@example.com", Role: "admin"}
	token := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, sm.Save(token, user))

	got, err := sm.Token()
	require.NoError(t, err)
	assert.Equal(t, token, got)

	loaded, err := sm.User()
	require.NoError(t, err)
	assert.Equal(t, user, loaded)
}

func TestNoSession(t *testing.T) {
	sm := testManager(t)

	_, err := sm.Token()
	assert.ErrorIs(t, err, apierrors.ErrSessionNotFound)
	assert.True(t, IsNoSession(err))

	_, err = sm.User()
	assert.ErrorIs(t, err, apierrors.ErrSessionNotFound)
}

func TestExpiredTokenTreatedAsNoSession(t *testing.T) {
	sm := testManager(t)
	require.NoError(t, sm.Save(signedToken(t, time.Now().Add(-time.Hour)), dto.User{Email: "me@example.com"}))

	_, err := sm.Token()
	assert.ErrorIs(t, err, apierrors.ErrSessionExpired)
	assert.True(t, IsNoSession(err))
}

func TestOpaqueTokenAccepted(t *testing.T) {
	sm := testManager(t)
	require.NoError(t, sm.Save("opaque-session-id", dto.User{Email: "me@example.com"}))

	got, err := sm.Token()
	require.NoError(t, err)
	assert.Equal(t, "opaque-session-id", got)
}

func TestClear(t *testing.T) {
	sm := testManager(t)
	require.NoError(t, sm.Save(signedToken(t, time.Now().Add(time.Hour)), dto.User{Email: "me@example.com"}))

	require.NoError(t, sm.Clear())
	_, err := sm.Token()
	assert.ErrorIs(t, err, apierrors.ErrSessionNotFound)
}

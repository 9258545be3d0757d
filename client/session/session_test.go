package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/ordering/user/pkg/response"
)

func TestSessionLifecycle(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)
	assert.False(t, s.Active())

	user := response.User{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, s.Start("token-1", user))
	assert.True(t, s.Active())
	assert.Equal(t, "token-1", s.Token())
	actual, ok := s.User()
	assert.True(t, ok)
	assert.Equal(t, user, actual)

	require.NoError(t, s.End())
	assert.False(t, s.Active())
	_, ok = s.User()
	assert.False(t, ok)
}

func TestNilSession(t *testing.T) {
	var s *Session

	assert.Empty(t, s.Token())
	assert.False(t, s.Active())
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	s, err := New(nil)
	require.NoError(t, err)
	c := WithSession(context.Background(), s)

	assert.Same(t, s, FromContext(c))
}

func TestFileStorePersistsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), SESSION_DIR, SESSION_FILE)
	store := FileStore{Path: path}
	user := response.User{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"}

	first, err := New(store)
	require.NoError(t, err)
	assert.False(t, first.Active())
	require.NoError(t, first.Start("token-1", user))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := New(store)
	require.NoError(t, err)
	assert.Equal(t, "token-1", second.Token())
	actual, _ := second.User()
	assert.Equal(t, user, actual)

	require.NoError(t, second.End())
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	third, err := New(store)
	require.NoError(t, err)
	assert.False(t, third.Active())
}

func TestFileStoreCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), SESSION_FILE)
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := New(FileStore{Path: path})

	assert.Error(t, err)
}

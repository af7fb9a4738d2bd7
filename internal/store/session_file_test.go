package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketarchive/internal/entity"
)

func TestSessionFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSessionFile(dir)
	require.NoError(t, err)

	t.Run("starts empty", func(t *testing.T) {
		u, err := s.Current()
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("save and read back", func(t *testing.T) {
		user := entity.User{ID: "u1", Name: "Reader", Email: "r@pocketarchive.local", Role: entity.RoleReader}
		require.NoError(t, s.Save(&user))

		got, err := s.Current()
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user, *got)
	})

	t.Run("survives reopen", func(t *testing.T) {
		reopened, err := NewSessionFile(dir)
		require.NoError(t, err)
		got, err := reopened.Current()
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "u1", got.ID)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		require.NoError(t, s.Save(nil))
		require.NoError(t, s.Save(nil))
		u, err := s.Current()
		require.NoError(t, err)
		assert.Nil(t, u)
	})
}

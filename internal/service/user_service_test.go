package service

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekarabulut/vblog/internal/model"
	"github.com/ekarabulut/vblog/internal/store"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	users, err := store.Open[model.User](filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, err)
	return NewUserService(users, 4) // minimal bcrypt cost keeps tests fast
}

func TestUserService_Register(t *testing.T) {
	svc := newUserService(t)

	t.Run("register then authenticate", func(t *testing.T) {
		u, err := svc.Register("alice", "alice@example.com", "secret123", model.RoleUser)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, u.ID)
		assert.Equal(t, model.RoleUser, u.Role)
		assert.NotEqual(t, "secret123", u.PasswordHash)
		assert.False(t, u.RegisteredAt.IsZero())

		got, err := svc.Authenticate("alice", "secret123")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("wrong password fails", func(t *testing.T) {
		_, err := svc.Authenticate("alice", "not-the-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user fails", func(t *testing.T) {
		_, err := svc.Authenticate("nobody", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("username conflict is case-insensitive", func(t *testing.T) {
		_, err := svc.Register("ALICE", "other@example.com", "secret123", model.RoleUser)
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("email conflict is case-insensitive", func(t *testing.T) {
		_, err := svc.Register("bob", "Alice@Example.COM", "secret123", model.RoleUser)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestUserService_Lookups(t *testing.T) {
	svc := newUserService(t)
	u, err := svc.Register("carol", "carol@example.com", "secret123", model.RoleAuthor)
	require.NoError(t, err)

	t.Run("by id", func(t *testing.T) {
		got, err := svc.ByID(u.ID)
		require.NoError(t, err)
		assert.Equal(t, "carol", got.Username)
	})

	t.Run("by username ignores case", func(t *testing.T) {
		got, err := svc.ByUsername("CaRoL")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("by email ignores case", func(t *testing.T) {
		got, err := svc.ByEmail("CAROL@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := svc.ByID(uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("all", func(t *testing.T) {
		users, err := svc.All()
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}

func TestUserService_Update(t *testing.T) {
	svc := newUserService(t)
	u, err := svc.Register("dave", "dave@example.com", "secret123", model.RoleUser)
	require.NoError(t, err)
	originalHash := u.PasswordHash

	t.Run("overwrites profile fields", func(t *testing.T) {
		u.Username = "david"
		u.Email = "david@example.com"
		u.Role = model.RoleAuthor
		u.PasswordHash = "" // no password change
		require.NoError(t, svc.Update(u))

		got, err := svc.ByID(u.ID)
		require.NoError(t, err)
		assert.Equal(t, "david", got.Username)
		assert.Equal(t, model.RoleAuthor, got.Role)
		assert.Equal(t, originalHash, got.PasswordHash)
	})

	t.Run("short placeholder never replaces the hash", func(t *testing.T) {
		u.PasswordHash = "placeholder"
		require.NoError(t, svc.Update(u))

		got, err := svc.ByID(u.ID)
		require.NoError(t, err)
		assert.Equal(t, originalHash, got.PasswordHash)
	})

	t.Run("real hash replaces the stored one", func(t *testing.T) {
		fresh, err := svc.Register("temp", "temp@example.com", "othersecret", model.RoleUser)
		require.NoError(t, err)

		u.PasswordHash = fresh.PasswordHash
		require.NoError(t, svc.Update(u))

		got, err := svc.ByID(u.ID)
		require.NoError(t, err)
		assert.Equal(t, fresh.PasswordHash, got.PasswordHash)
	})

	t.Run("updating a missing user is a no-op", func(t *testing.T) {
		ghost := model.User{ID: uuid.New(), Username: "ghost"}
		assert.NoError(t, svc.Update(ghost))
		_, err := svc.ByUsername("ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserService_Delete(t *testing.T) {
	svc := newUserService(t)
	u, err := svc.Register("erin", "erin@example.com", "secret123", model.RoleUser)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(u.ID))
	_, err = svc.ByID(u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again stays a silent no-op.
	assert.NoError(t, svc.Delete(u.ID))
}

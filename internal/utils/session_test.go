package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekarabulut/vblog/internal/model"
)

const testSecret = "test-secret"

func testUser() model.User {
	return model.User{
		ID:       uuid.New(),
		Username: "alice",
		Role:     model.RoleAuthor,
	}
}

func TestSessionToken_RoundTrip(t *testing.T) {
	u := testUser()
	token, exp, err := NewSessionToken(testSecret, u, 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	sess, err := ParseSessionToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.UserID)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, model.RoleAuthor, sess.Role)
	assert.WithinDuration(t, exp, sess.Expires, time.Second)
}

func TestSessionToken_Rejections(t *testing.T) {
	u := testUser()

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := NewSessionToken(testSecret, u, time.Minute)
		require.NoError(t, err)

		_, err = ParseSessionToken("other-secret", token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("expired token", func(t *testing.T) {
		token, _, err := NewSessionToken(testSecret, u, -time.Minute)
		require.NoError(t, err)

		_, err = ParseSessionToken(testSecret, token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ParseSessionToken(testSecret, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, VerifyPassword(hash, "secret123"))
	assert.False(t, VerifyPassword(hash, "secret124"))
}

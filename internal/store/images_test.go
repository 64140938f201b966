package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(name, content string) *Upload {
	return &Upload{
		Filename: name,
		Size:     int64(len(content)),
		Content:  strings.NewReader(content),
	}
}

func TestImageStore_Save(t *testing.T) {
	root := t.TempDir()
	s := NewImageStore(root)

	t.Run("nil upload yields no path", func(t *testing.T) {
		path, err := s.Save(nil, "posts")
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("stores under subfolder with generated name", func(t *testing.T) {
		path, err := s.Save(upload("cat.PNG", "pngbytes"), "posts")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(path, "/images/posts/"))
		assert.True(t, strings.HasSuffix(path, ".png"))

		raw, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
		require.NoError(t, err)
		assert.Equal(t, "pngbytes", string(raw))
	})

	t.Run("two uploads never collide", func(t *testing.T) {
		a, err := s.Save(upload("x.jpg", "a"), "comments")
		require.NoError(t, err)
		b, err := s.Save(upload("x.jpg", "b"), "comments")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("oversized upload is rejected", func(t *testing.T) {
		up := upload("big.jpg", "")
		up.Size = MaxImageSize + 1
		_, err := s.Save(up, "posts")
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("unsupported extension is rejected", func(t *testing.T) {
		_, err := s.Save(upload("payload.exe", "boom"), "posts")
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})
}

func TestImageStore_Delete(t *testing.T) {
	root := t.TempDir()
	s := NewImageStore(root)

	t.Run("removes a stored image", func(t *testing.T) {
		path, err := s.Save(upload("cat.jpg", "x"), "posts")
		require.NoError(t, err)

		require.NoError(t, s.Delete(path))
		_, err = os.Stat(filepath.Join(root, filepath.FromSlash(path)))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("empty path is a no-op", func(t *testing.T) {
		assert.NoError(t, s.Delete(""))
	})

	t.Run("already-gone file is a no-op", func(t *testing.T) {
		assert.NoError(t, s.Delete("/images/posts/never-existed.jpg"))
	})

	t.Run("traversal outside the static root is rejected", func(t *testing.T) {
		secret := filepath.Join(root, "secret.txt")
		require.NoError(t, os.WriteFile(secret, []byte("keep"), 0o644))

		assert.Error(t, s.Delete("/images/../secret.txt"))
		assert.Error(t, s.Delete("../secret.txt"))

		_, err := os.Stat(secret)
		assert.NoError(t, err)
	})
}

package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize caps uploaded images at 5 MiB.
const MaxImageSize = 5 << 20

// ErrFileTooLarge is returned when an upload exceeds MaxImageSize.
var ErrFileTooLarge = fmt.Errorf("store: image larger than %d MB", MaxImageSize>>20)

// ErrUnsupportedType is returned when an upload's extension is not an
// accepted image format.
var ErrUnsupportedType = errors.New("store: only .jpg, .jpeg, .png and .gif files are accepted")

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Upload carries one uploaded file from the handler layer into the
// services. A nil *Upload means the request contained no file.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// ImageStore writes uploaded images under <root>/images/<subfolder>/ and
// deletes them again by their public path. Paths handed out and accepted
// back are of the form /images/<subfolder>/<name> relative to the static
// assets root.
type ImageStore struct {
	root string
}

// NewImageStore returns an image store rooted at the static assets
// directory.
func NewImageStore(root string) *ImageStore {
	return &ImageStore{root: root}
}

// Save validates and persists an upload into the given subfolder,
// returning its public path. A nil upload yields an empty path and no
// error. The stored name is a fresh UUID plus the original extension, so
// concurrent uploads cannot collide.
func (s *ImageStore) Save(up *Upload, subfolder string) (string, error) {
	if up == nil || up.Size == 0 {
		return "", nil
	}
	if up.Size > MaxImageSize {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if !allowedImageExts[ext] {
		return "", ErrUnsupportedType
	}

	dir := filepath.Join(s.root, "images", subfolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("store: create image dir: %w", err)
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("store: create image: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(up.Content, MaxImageSize)); err != nil {
		return "", fmt.Errorf("store: write image: %w", err)
	}
	return path.Join("/images", subfolder, name), nil
}

// Delete removes the image at the given public path. Empty paths and
// already-missing files are silent no-ops. Paths that resolve outside
// the static root are rejected so a crafted record cannot delete
// arbitrary files.
func (s *ImageStore) Delete(publicPath string) error {
	if publicPath == "" {
		return nil
	}
	abs, err := s.resolve(publicPath)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: delete image: %w", err)
	}
	return nil
}

// resolve maps a public /images/... path onto the filesystem and
// verifies it stays inside the images directory.
func (s *ImageStore) resolve(publicPath string) (string, error) {
	clean := filepath.Clean("/" + strings.TrimPrefix(publicPath, "/"))
	if !strings.HasPrefix(clean, "/images/") {
		return "", fmt.Errorf("store: invalid image path %q", publicPath)
	}
	abs := filepath.Join(s.root, clean)
	imagesRoot := filepath.Join(s.root, "images")
	if abs != imagesRoot && !strings.HasPrefix(abs, imagesRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("store: invalid image path %q", publicPath)
	}
	return abs, nil
}

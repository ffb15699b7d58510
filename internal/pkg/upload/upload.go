package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize upper bound for uploaded images (5MB)
const MaxImageSize = 5 << 20

var allowedExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store saves uploaded images under a local directory and hands back
// relative paths suitable for persisting in the database.
type Store struct {
	dir     string
	maxSize int64
}

// NewStore creates a Store rooted at dir, creating it when missing.
func NewStore(dir string, maxSize int64) (*Store, error) {
	if maxSize <= 0 {
		maxSize = MaxImageSize
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, maxSize: maxSize}, nil
}

// ValidateImage checks extension and declared size before any bytes move.
func (s *Store) ValidateImage(fh *multipart.FileHeader) error {
	if fh == nil {
		return fmt.Errorf("image is required")
	}
	if fh.Size > s.maxSize {
		return fmt.Errorf("image exceeds %dMB limit", s.maxSize>>20)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExts[ext] {
		return fmt.Errorf("unsupported image format %q", ext)
	}
	return nil
}

// SaveImage validates and stores the upload, returning the relative path.
func (s *Store) SaveImage(fh *multipart.FileHeader) (string, error) {
	if err := s.ValidateImage(fh); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := uuid.NewString() + ext
	dstPath := filepath.Join(s.dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1)); err != nil {
		os.Remove(dstPath)
		return "", err
	}

	return name, nil
}

// Delete removes a stored image; a missing file is not an error.
func (s *Store) Delete(name string) error {
	if name == "" {
		return nil
	}
	// name came from the DB, but never follow it out of the store dir
	clean := filepath.Base(name)
	err := os.Remove(filepath.Join(s.dir, clean))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path resolves a stored name to its absolute path.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

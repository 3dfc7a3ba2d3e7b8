// Package media stores uploaded post images under a content directory.
// Posts keep only the relative path ("posts/<uuid>.<ext>"); the HTTP
// layer serves the directory under /media/.
package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"yatube/internal/util"
)

var ErrBadImage = errors.New("unsupported image type")

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type Storage struct {
	baseDir string
}

func New(baseDir string) (*Storage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Storage{baseDir: baseDir}, nil
}

func (s *Storage) Dir() string { return s.baseDir }

// SavePostImage writes the upload to posts/<uuid><ext> and returns that
// relative path. Names never collide, so an edit never overwrites the
// previous image file.
func (s *Storage) SavePostImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExts[ext] {
		return "", ErrBadImage
	}

	rel := path.Join("posts", uuid.NewString()+ext)
	full := filepath.Join(s.baseDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}

	util.Logger.Info("image stored", zap.String("path", rel))
	return rel, nil
}

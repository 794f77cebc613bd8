package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// PhotoStorage abstracts where bootcamp photos land. Implementations:
// FileStorage (local disk) and R2Storage (S3-compatible bucket).
type PhotoStorage interface {
	SaveFile(ctx context.Context, subDir, originalFilename string, reader io.Reader) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

// FileStorage saves and deletes files on local disk.
type FileStorage struct {
	BaseDir string // e.g. "./uploads"
}

func NewFileStorage(baseDir string) *FileStorage {
	return &FileStorage{BaseDir: baseDir}
}

// SaveFile writes reader to <BaseDir>/<subDir>/<uuid><ext> and returns the
// key (path relative to BaseDir) to store on the bootcamp document.
func (fs *FileStorage) SaveFile(_ context.Context, subDir, originalFilename string, reader io.Reader) (string, error) {
	dir := filepath.Join(fs.BaseDir, subDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	ext := filepath.Ext(originalFilename)
	uniqueName := uuid.NewString() + ext
	fullPath := filepath.Join(dir, uniqueName)

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}

	return filepath.ToSlash(filepath.Join(subDir, uniqueName)), nil
}

// DeleteFile removes <BaseDir>/<key>. Safe to call if the file is gone.
func (fs *FileStorage) DeleteFile(_ context.Context, key string) error {
	fullPath := filepath.Join(fs.BaseDir, filepath.FromSlash(key))
	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}
	return nil
}

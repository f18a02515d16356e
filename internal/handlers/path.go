// volvera/internal/handlers/path.go
package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/SulimanHakimi/volvera-sub000/config"
)

// uploadsBaseDir - корень хранилища загруженных документов.
func uploadsBaseDir() string {
	if config.Cfg != nil && config.Cfg.UploadDir != "" {
		return config.Cfg.UploadDir
	}
	return "./storage/uploads"
}

// ensureDir гарантирует существование директории.
// Если путь существует и это файл - вернёт ошибку.
func ensureDir(path string) error {
	if path == "" {
		return errors.New("empty dir path")
	}
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return errors.New("path exists and is not a directory")
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(path, 0o755)
}

// fileExists проверяет, что существует обычный файл (не директория).
func fileExists(p string) bool {
	if p == "" {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// insideDir - лежит ли p внутри base (защита от ../ в сохранённых путях).
func insideDir(base, p string) bool {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absBase, absPath)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

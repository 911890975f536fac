package storage // import "github.com/bookverse/bookverse/storage"

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/bookverse/bookverse/config"
	"github.com/bookverse/bookverse/log"
	"github.com/bookverse/bookverse/util"
)

// LocalStorage keeps covers on the local filesystem under the uploads
// directory, served by the static file route.
type LocalStorage struct {
	// Path to the uploads directory
	Path string
}

func NewLocalStorage() *LocalStorage {
	return &LocalStorage{Path: config.UploadsDir()}
}

func (s *LocalStorage) SaveCover(reader io.Reader, fileName string) (string, error) {
	ext := filepath.Ext(fileName)
	if !config.CheckCoverType(ext) {
		return "", fmt.Errorf("Unsupported cover type: %s", ext)
	}

	if err := os.MkdirAll(s.Path, os.ModePerm); err != nil {
		return "", fmt.Errorf("Failed to create uploads directory: %v", err)
	}

	// Stored name is random so uploads never collide or overwrite.
	name := "cover-" + util.GenUUID() + strings.ToLower(ext)
	filePath := filepath.Join(s.Path, name)

	outFile, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("Failed to create file: %v", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, reader); err != nil {
		return "", fmt.Errorf("Failed to write file: %v", err)
	}

	log.Debug("Stored cover", zap.String("path", filePath))

	return "/uploads/" + name, nil
}

// RemoveCover deletes a stored cover by its public path. The shared
// placeholder and anything outside /uploads/ is left alone.
func (s *LocalStorage) RemoveCover(publicPath string) error {
	if publicPath == "" || publicPath == PlaceholderCover {
		return nil
	}
	name := strings.TrimPrefix(publicPath, "/uploads/")
	if name == publicPath || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return fmt.Errorf("refusing to remove cover outside uploads dir: %s", publicPath)
	}

	err := os.Remove(filepath.Join(s.Path, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

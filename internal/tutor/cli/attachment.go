package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/verlato/mathtutor/internal/tutor/models"
)

// loadAttachment reads a file from disk into a chat attachment. The media
// type is guessed from the extension.
func loadAttachment(path string) (*models.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	return &models.Attachment{
		Name:      filepath.Base(path),
		MediaType: mediaType,
		Data:      data,
	}, nil
}

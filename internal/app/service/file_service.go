package service

import (
	"context"
	"judge_web/internal/common"
	"judge_web/internal/platform/backend"
	"mime"
	"strings"

	"github.com/gosimple/slug"
)

type FileBackend interface {
	DownloadFile(ctx context.Context, auth backend.Auth, fileID string) (*backend.Download, error)
}

type FileService struct {
	api FileBackend
}

func NewFileService(api FileBackend) *FileService {
	return &FileService{api: api}
}

// Download opens the stored file. The caller must close Body.
func (s *FileService) Download(ctx context.Context, auth backend.Auth, fileID string) (*backend.Download, error) {
	if strings.TrimSpace(fileID) == "" {
		return nil, common.Errorf("file id is required: %w", common.ErrBadRequest)
	}
	return s.api.DownloadFile(ctx, auth, fileID)
}

// DownloadName builds the attachment filename for a stored file, e.g.
// "two-sum-solution-template.zip".
func DownloadName(title, kind, contentType string) string {
	base := slug.Make(strings.TrimSpace(title + " " + kind))
	if base == "" {
		base = "file"
	}
	return base + extensionFor(contentType)
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".zip"
	}
	switch mediaType {
	case "application/zip", "application/x-zip-compressed", "application/octet-stream":
		return ".zip"
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".zip"
}

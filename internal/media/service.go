package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kantinhub/kantin-backend/pkg/config"
	"github.com/kantinhub/kantin-backend/pkg/enums"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
)

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadInput models one multipart photo upload.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult carries the public URL of a stored photo.
type UploadResult struct {
	URL string `json:"url"`
}

// Service exposes photo upload semantics.
type Service interface {
	UploadPhoto(ctx context.Context, actorRole enums.UserRole, input UploadInput) (*UploadResult, error)
}

type service struct {
	store    Store
	maxBytes int64
}

// NewService constructs a media service backed by the provided store.
func NewService(store Store, cfg config.UploadsConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("media store required")
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		store:    store,
		maxBytes: int64(cfg.MaxUploadMB) * 1024 * 1024,
	}, nil
}

func (s *service) UploadPhoto(ctx context.Context, actorRole enums.UserRole, input UploadInput) (*UploadResult, error) {
	switch actorRole {
	case enums.UserRoleMitra, enums.UserRolePengurus:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot upload media")
	}

	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	if input.Size <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if input.Size > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file too large").
			WithDetails(map[string]any{"max_bytes": s.maxBytes, "size": input.Size})
	}

	contentType, err := sniffMimeType(input.ContentType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid content type")
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only image uploads are allowed").
			WithDetails(map[string]any{"content_type": contentType})
	}

	// Uploaded filenames never reach disk; a uuid name sidesteps collisions
	// and traversal.
	name := uuid.NewString() + pickExtension(input.Filename, ext)
	url, err := s.store.Save(name, io.LimitReader(input.Body, s.maxBytes))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store upload")
	}
	return &UploadResult{URL: url}, nil
}

func sniffMimeType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("mime type required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("mime type invalid: %w", err)
	}
	if mediaType == "" {
		return "", fmt.Errorf("mime type missing")
	}
	return strings.ToLower(mediaType), nil
}

// pickExtension keeps the client extension when it agrees with the sniffed
// type, falling back to the canonical one.
func pickExtension(filename, canonical string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return ext
	}
	return canonical
}

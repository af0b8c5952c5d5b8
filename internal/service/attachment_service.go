package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/storage"
)

type attachmentStorage interface {
	SaveStream(name string, r io.Reader, maxBytes int64) (int64, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
}

type attachmentSigner interface {
	Sign(id, relPath string) (string, time.Time, error)
	Verify(token string) (storage.SignedObject, error)
}

// AttachmentUpload carries an uploaded file stream and the client supplied metadata.
type AttachmentUpload struct {
	Filename string
	MimeType string
	Content  io.Reader
}

// UploadedAttachment is the attachment reference a message can carry plus its link expiry.
type UploadedAttachment struct {
	models.Attachment
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AttachmentDownload bundles an opened file for streaming.
type AttachmentDownload struct {
	File     *os.File
	Filename string
	MimeType string
}

// AttachmentConfig holds validation parameters and the public URL prefix.
type AttachmentConfig struct {
	APIPrefix    string
	MaxFileSize  int64
	AllowedMIMEs []string
}

// AttachmentService stores message attachments on disk and issues signed download links.
type AttachmentService struct {
	storage attachmentStorage
	signer  attachmentSigner
	cfg     AttachmentConfig
	allowed map[string]struct{}
	logger  *zap.Logger
}

// NewAttachmentService constructs the service. An empty allow list accepts every MIME type.
func NewAttachmentService(store attachmentStorage, signer attachmentSigner, cfg AttachmentConfig, logger *zap.Logger) *AttachmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, m := range cfg.AllowedMIMEs {
		allowed[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}
	return &AttachmentService{storage: store, signer: signer, cfg: cfg, allowed: allowed, logger: logger}
}

// Upload persists the stream and returns a signed reference to it.
func (s *AttachmentService) Upload(ctx context.Context, uploaderID string, upload AttachmentUpload) (*UploadedAttachment, error) {
	if upload.Content == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	name := cleanAttachmentName(upload.Filename)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "filename is required")
	}

	header := make([]byte, 512)
	n, err := io.ReadFull(upload.Content, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, appErrors.Internal(err, "failed to inspect file")
	}
	if n == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "empty file")
	}
	mimeType := normalizeMime(upload.MimeType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = normalizeMime(http.DetectContentType(header[:n]))
	}
	if !s.mimeAllowed(mimeType) {
		return nil, appErrors.Validation("unsupported file type", []appErrors.FieldError{{Field: "file", Message: fmt.Sprintf("file type %s is not allowed", mimeType)}})
	}

	id := uuid.NewString()
	relPath := path.Join(uploaderID, id, name)
	size, err := s.storage.SaveStream(relPath, io.MultiReader(bytes.NewReader(header[:n]), upload.Content), s.cfg.MaxFileSize)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, appErrors.Validation("file too large", []appErrors.FieldError{{Field: "file", Message: fmt.Sprintf("file must not exceed %d bytes", s.cfg.MaxFileSize)}})
		}
		if errors.Is(err, storage.ErrInvalidPath) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid filename")
		}
		return nil, appErrors.Internal(err, "failed to store file")
	}

	token, expiresAt, err := s.signer.Sign(id, relPath)
	if err != nil {
		_ = s.storage.Delete(relPath)
		return nil, appErrors.Internal(err, "failed to sign download link")
	}
	s.logger.Info("attachment stored",
		zap.String("uploader_id", uploaderID),
		zap.String("attachment_id", id),
		zap.String("mime_type", mimeType),
		zap.Int64("size", size),
	)

	return &UploadedAttachment{
		Attachment: models.Attachment{
			Name:     name,
			URL:      fmt.Sprintf("%s/attachments/download?token=%s", strings.TrimRight(s.cfg.APIPrefix, "/"), url.QueryEscape(token)),
			MimeType: mimeType,
			Size:     size,
		},
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Open validates a download token and opens the referenced file.
func (s *AttachmentService) Open(ctx context.Context, token string) (*AttachmentDownload, error) {
	obj, err := s.signer.Verify(strings.TrimSpace(token))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidToken, "invalid or expired download link")
	}
	file, err := s.storage.Open(obj.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attachment not found")
		}
		return nil, appErrors.Internal(err, "failed to open attachment")
	}
	name := path.Base(obj.Path)
	mimeType := mimeByExtension(name)
	return &AttachmentDownload{File: file, Filename: name, MimeType: mimeType}, nil
}

func (s *AttachmentService) mimeAllowed(mimeType string) bool {
	if len(s.allowed) == 0 {
		return true
	}
	_, ok := s.allowed[mimeType]
	return ok
}

func normalizeMime(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(raw, ";"); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	return raw
}

func cleanAttachmentName(raw string) string {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

func mimeByExtension(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".mp3":
		return "audio/mpeg"
	case ".webm":
		return "audio/webm"
	case ".ogg":
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}

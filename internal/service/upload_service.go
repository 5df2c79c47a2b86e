package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"alcyxob/donation-share/internal/domain"
	"alcyxob/donation-share/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidUploadRequest = errors.New("invalid upload request")
	ErrUploadURLError       = errors.New("failed to generate upload URL")
	ErrUploadKeyForbidden   = errors.New("object key does not belong to the caller")
	ErrUploadDeleteFailed   = errors.New("failed to delete uploaded object")
)

// UploadService issues presigned upload descriptors and deletes uploaded objects.
type UploadService interface {
	RequestUpload(ctx context.Context, userID string, req domain.UploadRequest) (*domain.UploadDescriptor, error)
	DeleteUpload(ctx context.Context, userID, key string) error
}

// UploadPolicy bounds what the issuer will sign.
type UploadPolicy struct {
	MaxBytes  int64
	Expiry    time.Duration
	KeyPrefix string
}

type uploadService struct {
	fileStorage storage.FileStorage
	policy      UploadPolicy
	newID       func() string
}

// NewUploadService creates a new instance of uploadService.
func NewUploadService(fileStorage storage.FileStorage, policy UploadPolicy) UploadService {
	if policy.Expiry <= 0 {
		policy.Expiry = storage.DefaultPresignedURLExpiry
	}
	if policy.KeyPrefix == "" {
		policy.KeyPrefix = "donations"
	}
	return &uploadService{
		fileStorage: fileStorage,
		policy:      policy,
		newID:       shortID,
	}
}

// RequestUpload validates the file description and presigns a PUT for a fresh key.
// Each call yields a new key; keys are never reused.
func (s *uploadService) RequestUpload(ctx context.Context, userID string, req domain.UploadRequest) (*domain.UploadDescriptor, error) {
	if !domain.IsAcceptedImageType(req.ContentType) {
		return nil, fmt.Errorf("%w: content type %q is not accepted", ErrInvalidUploadRequest, req.ContentType)
	}
	if req.Size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive", ErrInvalidUploadRequest)
	}
	if s.policy.MaxBytes > 0 && req.Size > s.policy.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrInvalidUploadRequest, req.Size, s.policy.MaxBytes)
	}
	name := sanitizeFilename(req.Filename)
	if name == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidUploadRequest)
	}

	key := path.Join(s.userFolder(userID), fmt.Sprintf("%s-%s", s.newID(), name))

	presignedURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, key, req.ContentType, req.Size, s.policy.Expiry)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("presign failed")
		return nil, ErrUploadURLError
	}

	logrus.WithFields(logrus.Fields{"key": key, "size": req.Size, "userId": userID}).Debug("issued upload URL")
	return &domain.UploadDescriptor{
		PresignedURL: presignedURL,
		Key:          key,
		PublicURL:    s.fileStorage.PublicURL(key),
	}, nil
}

// DeleteUpload removes an object the caller uploaded.
func (s *uploadService) DeleteUpload(ctx context.Context, userID, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidUploadRequest)
	}
	if path.Clean(key) != key || !strings.HasPrefix(key, s.userFolder(userID)+"/") {
		return ErrUploadKeyForbidden
	}

	if err := s.fileStorage.DeleteObject(ctx, key); err != nil {
		return fmt.Errorf("%w: %v", ErrUploadDeleteFailed, err)
	}
	return nil
}

func (s *uploadService) userFolder(userID string) string {
	return path.Join(s.policy.KeyPrefix, userID)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeFilename keeps the base name and replaces anything outside [A-Za-z0-9._-].
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return strings.Trim(name, "_")
}

// shortID is a 12-character random id for object keys.
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

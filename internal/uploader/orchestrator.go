package uploader

import (
	"context"
	"io"

	"alcyxob/donation-share/internal/domain"
)

// Backend is the remote side of an upload: the descriptor issuer, the
// storage PUT, and object deletion.
type Backend interface {
	RequestUpload(ctx context.Context, req domain.UploadRequest) (*domain.UploadDescriptor, error)
	PutObject(ctx context.Context, presignedURL, contentType string, body io.Reader, size int64) error
	DeleteUpload(ctx context.Context, key string) error
}

// Result locates a stored object.
type Result struct {
	PublicURL string
	Key       string
}

// Orchestrator runs the issue-then-transfer pipeline for one file.
type Orchestrator struct {
	backend Backend
}

func NewOrchestrator(backend Backend) *Orchestrator {
	return &Orchestrator{backend: backend}
}

// CompleteUpload requests a fresh descriptor, PUTs the file's bytes to it and
// returns where the object landed. Nothing is cleaned up on failure; an
// unused descriptor simply expires.
func (o *Orchestrator) CompleteUpload(ctx context.Context, f File) (Result, error) {
	desc, err := o.backend.RequestUpload(ctx, domain.UploadRequest{
		Filename:    f.Name(),
		ContentType: f.ContentType(),
		Size:        f.Size(),
	})
	if err != nil {
		return Result{}, &IssuerError{Err: err}
	}

	body, err := f.Open()
	if err != nil {
		return Result{}, &TransferError{Err: err}
	}
	defer body.Close()

	if err := o.backend.PutObject(ctx, desc.PresignedURL, f.ContentType(), body, f.Size()); err != nil {
		return Result{}, &TransferError{StatusCode: statusOf(err), Err: err}
	}

	return Result{PublicURL: desc.PublicURL, Key: desc.Key}, nil
}

// Delete removes a previously uploaded object.
func (o *Orchestrator) Delete(ctx context.Context, key string) error {
	if err := o.backend.DeleteUpload(ctx, key); err != nil {
		return &DeletionError{Key: key, Err: err}
	}
	return nil
}

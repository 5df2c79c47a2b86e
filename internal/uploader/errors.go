package uploader

import (
	"errors"
	"fmt"
)

// Rejection reasons reported by Tracker.Add.
var (
	ErrMaxFilesExceeded = errors.New("maximum number of files reached")
	ErrTooLarge         = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedType  = errors.New("only JPEG and PNG images are accepted")
	ErrEmptyFile        = errors.New("file is empty")
	ErrSessionClosed    = errors.New("upload session is closed")
)

var (
	ErrTaskNotFound     = errors.New("upload task not found")
	ErrTaskNotRetryable = errors.New("only failed uploads can be retried")
	ErrTaskBusy         = errors.New("upload task is in progress")
	ErrTaskUploaded     = errors.New("uploaded file must be removed before it can be replaced")
	ErrTaskRemoved      = errors.New("upload task was removed while uploading")
)

// IssuerError means the presigned upload descriptor could not be obtained.
type IssuerError struct {
	Err error
}

func (e *IssuerError) Error() string { return fmt.Sprintf("request upload url: %v", e.Err) }
func (e *IssuerError) Unwrap() error { return e.Err }

// TransferError means the bytes did not reach storage.
type TransferError struct {
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransferError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upload to storage failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upload to storage failed: %v", e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// DeletionError means an uploaded object could not be removed. The task it
// belongs to is left untouched.
type DeletionError struct {
	Key string
	Err error
}

func (e *DeletionError) Error() string { return fmt.Sprintf("delete %q: %v", e.Key, e.Err) }
func (e *DeletionError) Unwrap() error { return e.Err }

// statusCoder is implemented by transport errors that carry an HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

func statusOf(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus()
	}
	return 0
}

package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"alcyxob/donation-share/internal/domain"
)

type httpStatusErr int

func (e httpStatusErr) Error() string   { return fmt.Sprintf("status %d", int(e)) }
func (e httpStatusErr) HTTPStatus() int { return int(e) }

type putCall struct {
	url         string
	contentType string
	body        string
}

type fakeBackend struct {
	mu        sync.Mutex
	issueErr  map[string]error
	putErr    map[string]error
	deleteErr error
	gates     map[string]chan struct{}
	seq       int
	requests  []domain.UploadRequest
	puts      []putCall
	deletes   []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		issueErr: map[string]error{},
		putErr:   map[string]error{},
		gates:    map[string]chan struct{}{},
	}
}

func (b *fakeBackend) RequestUpload(_ context.Context, req domain.UploadRequest) (*domain.UploadDescriptor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)
	if err := b.issueErr[req.Filename]; err != nil {
		return nil, err
	}
	b.seq++
	return &domain.UploadDescriptor{
		PresignedURL: fmt.Sprintf("https://storage.test/%s?sig=%d", req.Filename, b.seq),
		Key:          "donations/u-1/" + req.Filename,
		PublicURL:    "https://cdn.test/" + req.Filename,
	}, nil
}

func (b *fakeBackend) PutObject(_ context.Context, presignedURL, contentType string, body io.Reader, _ int64) error {
	u, err := url.Parse(presignedURL)
	if err != nil {
		return err
	}
	name := strings.TrimPrefix(u.Path, "/")

	b.mu.Lock()
	gate := b.gates[name]
	b.mu.Unlock()
	if gate != nil {
		<-gate
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.puts = append(b.puts, putCall{url: presignedURL, contentType: contentType, body: string(data)})
	return b.putErr[name]
}

func (b *fakeBackend) DeleteUpload(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes = append(b.deletes, key)
	return b.deleteErr
}

func (b *fakeBackend) deleteCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.deletes)
}

var errBoom = errors.New("boom")

func jpeg(name string, size int) File {
	return NewMemoryFile(name, domain.ContentTypeJPEG, []byte(strings.Repeat("x", size)))
}

// countingCloser records how often a preview resource was closed.
type countingCloser struct {
	mu     sync.Mutex
	closes int
}

func (c *countingCloser) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

func (c *countingCloser) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

package uploader

import (
	"io"
	"sync"
)

// Preview is a locally held, reference-counted rendering resource for a
// selected file. The tracker owns one reference; anything that renders the
// preview takes its own with Retain and drops it with Release. The
// underlying resource is closed when the last reference goes away.
type Preview struct {
	source string

	mu       sync.Mutex
	refs     int
	resource io.Closer
	closeErr error
}

// NewPreview returns a preview holding one reference. resource may be nil.
func NewPreview(source string, resource io.Closer) *Preview {
	return &Preview{source: source, refs: 1, resource: resource}
}

// Source names the file the preview was made from.
func (p *Preview) Source() string { return p.source }

// Retain takes another reference. It reports false if the preview has
// already been released for good.
func (p *Preview) Retain() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.refs == 0 {
		return false
	}
	p.refs++
	return true
}

// Release drops one reference, closing the resource on the last one.
// Extra calls are no-ops.
func (p *Preview) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.refs == 0 {
		return nil
	}
	p.refs--
	if p.refs > 0 {
		return nil
	}
	if p.resource != nil {
		p.closeErr = p.resource.Close()
		p.resource = nil
	}
	return p.closeErr
}

// Released reports whether the resource has been closed.
func (p *Preview) Released() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refs == 0
}

// PreviewFunc builds the preview for a newly added file.
type PreviewFunc func(File) (*Preview, error)

func defaultPreview(f File) (*Preview, error) {
	return NewPreview(f.Name(), nil), nil
}

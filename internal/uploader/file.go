package uploader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// File is one image selected for upload.
type File interface {
	Name() string
	ContentType() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type localFile struct {
	path        string
	contentType string
	size        int64
}

// OpenLocalFile describes a file on disk. The content type is sniffed from
// the file's leading bytes, not taken from its extension.
func OpenLocalFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect content type of %s: %w", path, err)
	}
	return &localFile{path: path, contentType: mtype.String(), size: info.Size()}, nil
}

func (f *localFile) Name() string                 { return filepath.Base(f.path) }
func (f *localFile) ContentType() string          { return f.contentType }
func (f *localFile) Size() int64                  { return f.size }
func (f *localFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }

type memFile struct {
	name        string
	contentType string
	data        []byte
}

// NewMemoryFile wraps in-memory bytes. An empty contentType is detected from data.
func NewMemoryFile(name, contentType string, data []byte) File {
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	return &memFile{name: name, contentType: contentType, data: data}
}

func (f *memFile) Name() string        { return f.name }
func (f *memFile) ContentType() string { return f.contentType }
func (f *memFile) Size() int64         { return int64(len(f.data)) }
func (f *memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

package domain

// UploadRequest is what a client sends to obtain a presigned upload descriptor.
type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// UploadDescriptor is a short-lived permission to PUT one object directly to storage.
// The object lands at Key and, once written, is readable at PublicURL.
type UploadDescriptor struct {
	PresignedURL string `json:"presignedUrl"`
	Key          string `json:"key"`
	PublicURL    string `json:"publicUrl"`
}

// Accepted image content types for donation photos.
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

// IsAcceptedImageType reports whether contentType may be uploaded as a donation photo.
func IsAcceptedImageType(contentType string) bool {
	switch contentType {
	case ContentTypeJPEG, ContentTypePNG:
		return true
	}
	return false
}

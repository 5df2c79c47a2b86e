package uploader

// Status names a task's state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// State is one of Pending, Uploading, Succeeded or Failed.
type State interface {
	Status() Status
	isState()
}

type Pending struct{}

type Uploading struct{}

// Succeeded carries the stored object's location.
type Succeeded struct {
	Result
}

// Failed carries the error of the last attempt.
type Failed struct {
	Err error
}

func (Pending) Status() Status   { return StatusPending }
func (Uploading) Status() Status { return StatusUploading }
func (Succeeded) Status() Status { return StatusSuccess }
func (Failed) Status() Status    { return StatusError }

func (Pending) isState()   {}
func (Uploading) isState() {}
func (Succeeded) isState() {}
func (Failed) isState()    {}

// Task is one file's upload lifecycle. Tasks are values; the tracker
// replaces a task's record instead of mutating it.
type Task struct {
	ID      string
	File    File
	Preview *Preview
	State   State
}

func (t Task) Status() Status { return t.State.Status() }

// URL returns the public URL of a successful upload.
func (t Task) URL() (string, bool) {
	s, ok := t.State.(Succeeded)
	if !ok {
		return "", false
	}
	return s.PublicURL, true
}

// Err returns the error of a failed upload.
func (t Task) Err() error {
	if f, ok := t.State.(Failed); ok {
		return f.Err
	}
	return nil
}

package uploader

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"alcyxob/donation-share/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"go.uber.org/multierr"
)

const (
	DefaultMaxFiles       = 3
	DefaultMaxBytes int64 = 500 * 1024
)

// Options configures a Tracker. Zero values fall back to the defaults.
type Options struct {
	MaxFiles      int
	MaxBytes      int64
	AcceptedTypes []string
	NewPreview    PreviewFunc
	// OnChange receives a snapshot after every state change. It is called
	// without the tracker's lock held, possibly from several goroutines.
	OnChange func([]Task)
	Logger   *logrus.Entry
}

// Rejection is a file Add refused to track.
type Rejection struct {
	File File
	Err  error
}

type AddResult struct {
	Added    []Task
	Rejected []Rejection
}

// Summary counts the tasks that settled in one UploadAll.
// Tasks removed while uploading count only as Removed.
type Summary struct {
	Succeeded int
	Failed    int
	Removed   int
}

// Tracker owns the upload tasks of one donation form session.
// Task records are never modified in place: every change installs a new
// task list, so snapshots handed out stay valid.
type Tracker struct {
	orch  *Orchestrator
	opts  Options
	log   *logrus.Entry
	newID func() string

	mu       sync.Mutex
	tasks    []Task
	urls     []string
	deleting map[string]bool
	closed   bool
}

func NewTracker(orch *Orchestrator, opts Options) *Tracker {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if len(opts.AcceptedTypes) == 0 {
		opts.AcceptedTypes = []string{domain.ContentTypeJPEG, domain.ContentTypePNG}
	}
	if opts.NewPreview == nil {
		opts.NewPreview = defaultPreview
	}
	log := opts.Logger
	if log == nil {
		log = logrus.WithField("component", "uploader")
	}
	return &Tracker{
		orch:     orch,
		opts:     opts,
		log:      log,
		newID:    uuid.NewString,
		deleting: make(map[string]bool),
	}
}

// Add queues files as pending tasks. Files failing the type or size checks,
// or arriving after the tracker is full, are returned in Rejected.
func (t *Tracker) Add(files ...File) AddResult {
	var res AddResult

	t.mu.Lock()
	tasks := slices.Clone(t.tasks)
	for _, f := range files {
		if err := t.check(f); err != nil {
			res.Rejected = append(res.Rejected, Rejection{File: f, Err: err})
			continue
		}
		if len(tasks) >= t.opts.MaxFiles {
			res.Rejected = append(res.Rejected, Rejection{File: f, Err: ErrMaxFilesExceeded})
			continue
		}
		preview, err := t.opts.NewPreview(f)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{File: f, Err: err})
			continue
		}
		task := Task{ID: t.newID(), File: f, Preview: preview, State: Pending{}}
		tasks = append(tasks, task)
		res.Added = append(res.Added, task)
	}
	t.tasks = tasks
	snap := t.snapshotLocked()
	t.mu.Unlock()

	if len(res.Added) > 0 {
		t.notify(snap)
	}
	for _, r := range res.Rejected {
		t.log.WithError(r.Err).WithField("file", r.File.Name()).Info("file rejected")
	}
	return res
}

func (t *Tracker) check(f File) error {
	if t.closed {
		return ErrSessionClosed
	}
	if f.Size() <= 0 {
		return ErrEmptyFile
	}
	if f.Size() > t.opts.MaxBytes {
		return ErrTooLarge
	}
	if !slices.Contains(t.opts.AcceptedTypes, f.ContentType()) {
		return ErrUnsupportedType
	}
	return nil
}

// UploadAll uploads every pending task concurrently and waits for all of
// them to settle. A failure only affects its own task.
func (t *Tracker) UploadAll(ctx context.Context) Summary {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return Summary{}
	}
	var batch []Task
	tasks := slices.Clone(t.tasks)
	for i, task := range tasks {
		if task.Status() != StatusPending {
			continue
		}
		task.State = Uploading{}
		tasks[i] = task
		batch = append(batch, task)
	}
	t.tasks = tasks
	snap := t.snapshotLocked()
	t.mu.Unlock()

	if len(batch) == 0 {
		return Summary{}
	}
	t.notify(snap)

	var succeeded, failed, removed atomic.Int32
	var wg conc.WaitGroup
	for _, task := range batch {
		wg.Go(func() {
			switch err := t.run(ctx, task); {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, ErrTaskRemoved):
				removed.Add(1)
			default:
				failed.Add(1)
			}
		})
	}
	wg.Wait()

	summary := Summary{
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
		Removed:   int(removed.Load()),
	}
	t.log.WithFields(logrus.Fields{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"removed":   summary.Removed,
	}).Info("uploads settled")
	return summary
}

// Retry re-uploads one failed task with a fresh descriptor.
func (t *Tracker) Retry(ctx context.Context, id string) (Task, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return Task{}, ErrSessionClosed
	}
	i := t.indexLocked(id)
	if i < 0 {
		t.mu.Unlock()
		return Task{}, ErrTaskNotFound
	}
	task := t.tasks[i]
	if task.Status() != StatusError {
		t.mu.Unlock()
		return task, ErrTaskNotRetryable
	}
	task.State = Uploading{}
	t.tasks = replaceAt(t.tasks, i, task)
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)

	err := t.run(ctx, task)
	if errors.Is(err, ErrTaskRemoved) {
		return Task{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	j := t.indexLocked(id)
	if j < 0 {
		return Task{}, ErrTaskRemoved
	}
	return t.tasks[j], err
}

// run performs one upload attempt and records its outcome.
// It returns ErrTaskRemoved when the task was dropped before the attempt settled.
func (t *Tracker) run(ctx context.Context, task Task) error {
	res, err := t.orch.CompleteUpload(ctx, task.File)

	var state State = Succeeded{Result: res}
	if err != nil {
		state = Failed{Err: err}
		t.log.WithError(err).WithField("file", task.File.Name()).Warn("upload failed")
	}

	t.mu.Lock()
	i := t.indexLocked(task.ID)
	if i < 0 {
		t.mu.Unlock()
		// Removed while in flight.
		if err == nil {
			t.discardOrphan(ctx, res.Key)
		}
		return ErrTaskRemoved
	}
	task = t.tasks[i]
	task.State = state
	t.tasks = replaceAt(t.tasks, i, task)
	if err == nil && !slices.Contains(t.urls, res.PublicURL) {
		t.urls = append(slices.Clone(t.urls), res.PublicURL)
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snap)
	return err
}

func (t *Tracker) discardOrphan(ctx context.Context, key string) {
	if err := t.orch.Delete(context.WithoutCancel(ctx), key); err != nil {
		t.log.WithError(err).WithField("key", key).Warn("failed to delete upload of removed task")
		return
	}
	t.log.WithField("key", key).Debug("deleted upload of removed task")
}

// Remove drops a task. A successfully uploaded task is removed only after
// its object is deleted; on a *DeletionError nothing changes.
func (t *Tracker) Remove(ctx context.Context, id string) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrSessionClosed
	}
	i := t.indexLocked(id)
	if i < 0 {
		t.mu.Unlock()
		return ErrTaskNotFound
	}
	if t.deleting[id] {
		t.mu.Unlock()
		return ErrTaskBusy
	}
	task := t.tasks[i]
	succeeded, uploaded := task.State.(Succeeded)
	if !uploaded {
		t.dropLocked(i, "")
		snap := t.snapshotLocked()
		t.mu.Unlock()
		t.release(task)
		t.notify(snap)
		return nil
	}
	t.deleting[id] = true
	t.mu.Unlock()

	err := t.orch.Delete(ctx, succeeded.Key)

	t.mu.Lock()
	delete(t.deleting, id)
	if err != nil {
		t.mu.Unlock()
		t.log.WithError(err).WithField("key", succeeded.Key).Warn("remove failed")
		return err
	}
	var snap []Task
	if j := t.indexLocked(id); j >= 0 {
		t.dropLocked(j, succeeded.PublicURL)
		snap = t.snapshotLocked()
	}
	// Close has already released every preview.
	closed := t.closed
	t.mu.Unlock()

	if !closed {
		t.release(task)
	}
	if snap != nil {
		t.notify(snap)
	}
	return nil
}

// Replace swaps the file of a task that has not been uploaded. The task
// keeps its id and goes back to pending.
func (t *Tracker) Replace(id string, f File) (Task, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return Task{}, ErrSessionClosed
	}
	i := t.indexLocked(id)
	if i < 0 {
		t.mu.Unlock()
		return Task{}, ErrTaskNotFound
	}
	old := t.tasks[i]
	switch old.Status() {
	case StatusUploading:
		t.mu.Unlock()
		return old, ErrTaskBusy
	case StatusSuccess:
		t.mu.Unlock()
		return old, ErrTaskUploaded
	}
	if err := t.check(f); err != nil {
		t.mu.Unlock()
		return old, err
	}
	preview, err := t.opts.NewPreview(f)
	if err != nil {
		t.mu.Unlock()
		return old, err
	}
	task := Task{ID: id, File: f, Preview: preview, State: Pending{}}
	t.tasks = replaceAt(t.tasks, i, task)
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.release(old)
	t.notify(snap)
	return task, nil
}

// Tasks returns a snapshot of all tasks in insertion order.
func (t *Tracker) Tasks() []Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Task returns one task by id.
func (t *Tracker) Task(id string) (Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexLocked(id); i >= 0 {
		return t.tasks[i], true
	}
	return Task{}, false
}

// ImageURLs returns the public URLs of uploaded images in completion order.
func (t *Tracker) ImageURLs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.urls)
}

// Close ends the session and releases the tracker's preview references.
// Uploaded objects are kept: they may already be referenced by a donation.
func (t *Tracker) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	tasks := t.tasks
	t.mu.Unlock()

	var err error
	for _, task := range tasks {
		err = multierr.Append(err, t.release(task))
	}
	return err
}

func (t *Tracker) release(task Task) error {
	if task.Preview == nil {
		return nil
	}
	err := task.Preview.Release()
	if err != nil {
		t.log.WithError(err).WithField("file", task.Preview.Source()).Warn("failed to release preview")
	}
	return err
}

func (t *Tracker) indexLocked(id string) int {
	return slices.IndexFunc(t.tasks, func(task Task) bool { return task.ID == id })
}

// dropLocked removes task i and, if url is set, its image URL.
func (t *Tracker) dropLocked(i int, url string) {
	t.tasks = slices.Delete(slices.Clone(t.tasks), i, i+1)
	if url != "" {
		t.urls = slices.DeleteFunc(slices.Clone(t.urls), func(u string) bool { return u == url })
	}
}

func (t *Tracker) snapshotLocked() []Task {
	return slices.Clone(t.tasks)
}

func (t *Tracker) notify(snap []Task) {
	if t.opts.OnChange != nil {
		t.opts.OnChange(snap)
	}
}

func replaceAt(tasks []Task, i int, task Task) []Task {
	out := slices.Clone(tasks)
	out[i] = task
	return out
}

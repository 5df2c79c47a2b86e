package cli

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/donation-share/internal/client"
	"alcyxob/donation-share/internal/domain"
	"alcyxob/donation-share/internal/form"
	"alcyxob/donation-share/internal/uploader"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type giveOptions struct {
	title       string
	description string
	category    string
	location    string
	name        string
	email       string
	phone       string
	images      []string
	retries     int
}

func (a *app) giveCmd() *cobra.Command {
	var opts giveOptions
	cmd := &cobra.Command{
		Use:   "give",
		Short: "Post a donation with up to a few photos",
		Example: `  donate give --title "Blue sofa" --category furniture --location Riga \
    --description "Three-seater, pet free home" --image sofa.jpg --image side.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			return a.give(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.title, "title", "", "what you are giving away")
	f.StringVar(&opts.description, "description", "", "condition, size, pickup notes (10-1000 characters)")
	f.StringVar(&opts.category, "category", "", "category, e.g. furniture, clothing, books")
	f.StringVar(&opts.location, "location", "", "pickup location")
	f.StringVar(&opts.name, "name", "", "donor name (defaults to your account)")
	f.StringVar(&opts.email, "email", "", "donor email (defaults to your account)")
	f.StringVar(&opts.phone, "phone", "", "donor phone")
	f.StringArrayVar(&opts.images, "image", nil, "JPEG or PNG photo; repeat for more")
	f.IntVar(&opts.retries, "retries", 1, "extra attempts for failed uploads and for the final submit")
	return cmd
}

func (a *app) give(ctx context.Context, opts giveOptions) error {
	me, err := a.api.Me(ctx)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}

	donation := form.New(me)
	donation.Title = opts.title
	donation.Description = opts.description
	donation.Category = opts.category
	donation.Location = opts.location
	if opts.name != "" {
		donation.DonorName = opts.name
	}
	if opts.email != "" {
		donation.DonorEmail = opts.email
	}
	if opts.phone != "" {
		donation.DonorPhone = opts.phone
	}

	// Check everything but the photos before uploading anything.
	if err := donation.Validate(); err != nil {
		var verr *form.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		delete(verr.Fields, "imageUrls")
		if len(verr.Fields) > 0 {
			return verr
		}
	}

	tracker := uploader.NewTracker(uploader.NewOrchestrator(a.api), uploader.Options{
		MaxFiles: a.cfg.MaxFiles,
		MaxBytes: a.cfg.MaxBytes,
		Logger:   a.log.WithField("component", "uploader"),
		OnChange: func(tasks []uploader.Task) {
			for _, t := range tasks {
				a.log.WithFields(logrus.Fields{"file": t.File.Name(), "status": t.Status()}).Debug("upload state")
			}
		},
	})
	defer func() {
		if err := tracker.Close(); err != nil {
			a.log.WithError(err).Warn("failed to release previews")
		}
	}()

	a.addImages(tracker, opts.images)

	summary := tracker.UploadAll(ctx)
	fmt.Fprintf(a.out, "Uploaded %d photo(s)", summary.Succeeded)
	if summary.Failed > 0 {
		fmt.Fprintf(a.out, ", %d failed", summary.Failed)
	}
	fmt.Fprintln(a.out)

	for attempt := 0; attempt < opts.retries; attempt++ {
		if !a.retryFailed(ctx, tracker) {
			break
		}
	}
	a.dropFailed(ctx, tracker)

	donation.SetImageURLs(tracker.ImageURLs())
	created, err := a.submit(ctx, donation, opts.retries)
	if err != nil {
		// Without a response the donation may have been stored, so its photos stay.
		var (
			statusErr *client.StatusError
			submitErr *form.SubmitError
		)
		switch {
		case errors.As(err, &statusErr):
			a.discardUploads(ctx, tracker)
		case errors.As(err, &submitErr):
			fmt.Fprintln(a.out, "kept uploaded photos: the server did not confirm the outcome")
		}
		return err
	}

	fmt.Fprintln(a.out)
	renderDetail(a.out, created)
	return nil
}

func (a *app) addImages(tracker *uploader.Tracker, paths []string) {
	var files []uploader.File
	for _, p := range paths {
		f, err := uploader.OpenLocalFile(p)
		if err != nil {
			fmt.Fprintf(a.out, "skipped %s: %v\n", p, err)
			continue
		}
		files = append(files, f)
	}
	res := tracker.Add(files...)
	for _, r := range res.Rejected {
		fmt.Fprintf(a.out, "skipped %s: %v\n", r.File.Name(), r.Err)
	}
}

// retryFailed retries every failed task once and reports whether any were tried.
func (a *app) retryFailed(ctx context.Context, tracker *uploader.Tracker) bool {
	tried := false
	for _, t := range tracker.Tasks() {
		if t.Status() != uploader.StatusError {
			continue
		}
		tried = true
		task, err := tracker.Retry(ctx, t.ID)
		if err != nil {
			fmt.Fprintf(a.out, "retry %s failed: %v\n", t.File.Name(), err)
			continue
		}
		fmt.Fprintf(a.out, "retry %s: %s\n", task.File.Name(), task.Status())
	}
	return tried
}

func (a *app) dropFailed(ctx context.Context, tracker *uploader.Tracker) {
	for _, t := range tracker.Tasks() {
		if t.Status() != uploader.StatusError {
			continue
		}
		fmt.Fprintf(a.out, "giving up on %s: %v\n", t.File.Name(), t.Err())
		if err := tracker.Remove(ctx, t.ID); err != nil {
			a.log.WithError(err).WithField("file", t.File.Name()).Warn("failed to remove task")
		}
	}
}

// discardUploads deletes objects that no donation will reference.
func (a *app) discardUploads(ctx context.Context, tracker *uploader.Tracker) {
	for _, t := range tracker.Tasks() {
		if t.Status() != uploader.StatusSuccess {
			continue
		}
		if err := tracker.Remove(ctx, t.ID); err != nil {
			a.log.WithError(err).WithField("file", t.File.Name()).Warn("uploaded photo was not deleted")
		}
	}
}

func (a *app) submit(ctx context.Context, donation *form.Donation, retries int) (*domain.Donation, error) {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		var created *domain.Donation
		created, err = donation.Submit(ctx, a.api)
		if err == nil {
			return created, nil
		}
		var submitErr *form.SubmitError
		if !errors.As(err, &submitErr) {
			return nil, err
		}
		fmt.Fprintf(a.out, "submit failed: %v\n", submitErr.Err)
	}
	return nil, err
}

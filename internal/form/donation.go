// Package form holds the donation form: client-side validation and submission.
package form

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"alcyxob/donation-share/internal/domain"
)

// DonationCreator posts a new donation.
type DonationCreator interface {
	CreateDonation(ctx context.Context, draft domain.DonationDraft) (*domain.Donation, error)
}

// SubmitError wraps a failed submission. The form is left as it was so the
// same submission can be tried again.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string { return fmt.Sprintf("submit donation: %v", e.Err) }
func (e *SubmitError) Unwrap() error { return e.Err }

// Donation is the state of one donation form.
type Donation struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required,min=10,max=1000"`
	Category    string   `json:"category" validate:"required,max=100"`
	Location    string   `json:"location" validate:"required,max=255"`
	DonorName   string   `json:"donorName" validate:"required,max=255"`
	DonorEmail  string   `json:"donorEmail" validate:"required,email,max=255"`
	DonorPhone  string   `json:"donorPhone" validate:"omitempty,max=20"`
	DonorID     string   `json:"donorId" validate:"-"`
	ImageURLs   []string `json:"imageUrls" validate:"required,min=1,dive,url"`
}

// New returns a form with the donor fields taken from the signed-in user.
func New(user domain.CurrentUser) *Donation {
	return &Donation{
		DonorID:    user.ID,
		DonorName:  user.Name,
		DonorEmail: user.Email,
		DonorPhone: user.Phone,
	}
}

// SetImageURLs replaces the image list, typically with the uploader's ImageURLs.
func (d *Donation) SetImageURLs(urls []string) {
	d.ImageURLs = slices.Clone(urls)
}

// Validate checks every field and returns a *ValidationError listing all failures.
func (d *Donation) Validate() error {
	n := d.normalized()
	return validateStruct(&n)
}

// Draft is the request body the form would submit.
func (d *Donation) Draft() domain.DonationDraft {
	n := d.normalized()
	return domain.DonationDraft{
		Title:       n.Title,
		Description: n.Description,
		Category:    n.Category,
		Location:    n.Location,
		DonorName:   n.DonorName,
		DonorEmail:  n.DonorEmail,
		DonorPhone:  n.DonorPhone,
		DonorID:     n.DonorID,
		ImageURLs:   slices.Clone(n.ImageURLs),
	}
}

// Submit validates and posts the form. Nothing is sent when validation fails.
func (d *Donation) Submit(ctx context.Context, creator DonationCreator) (*domain.Donation, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	created, err := creator.CreateDonation(ctx, d.Draft())
	if err != nil {
		return nil, &SubmitError{Err: err}
	}
	return created, nil
}

func (d *Donation) normalized() Donation {
	n := *d
	n.Title = strings.TrimSpace(n.Title)
	n.Description = strings.TrimSpace(n.Description)
	n.Category = strings.TrimSpace(n.Category)
	n.Location = strings.TrimSpace(n.Location)
	n.DonorName = strings.TrimSpace(n.DonorName)
	n.DonorEmail = strings.TrimSpace(n.DonorEmail)
	n.DonorPhone = strings.TrimSpace(n.DonorPhone)
	return n
}

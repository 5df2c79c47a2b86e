package form

import (
	"context"
	"errors"
	"strings"
	"testing"

	"alcyxob/donation-share/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCreator struct {
	calls []domain.DonationDraft
	err   error
}

func (c *recordingCreator) CreateDonation(_ context.Context, draft domain.DonationDraft) (*domain.Donation, error) {
	c.calls = append(c.calls, draft)
	if c.err != nil {
		return nil, c.err
	}
	return &domain.Donation{ID: "d-1", Title: draft.Title, ImageURLs: draft.ImageURLs, Status: domain.StatusAvailable}, nil
}

func filledForm() *Donation {
	d := New(domain.CurrentUser{ID: "u-1", Name: "Ada Lovelace", Email: "ada@example.com"})
	d.Title = "Blue sofa"
	d.Description = "Three-seater, good condition."
	d.Category = "furniture"
	d.Location = "Riga"
	return d
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestNew_PrefillsDonor(t *testing.T) {
	d := New(domain.CurrentUser{ID: "u-1", Name: "Ada", Email: "ada@example.com", Phone: "+3712000000"})
	assert.Equal(t, "u-1", d.DonorID)
	assert.Equal(t, "Ada", d.DonorName)
	assert.Equal(t, "ada@example.com", d.DonorEmail)
	assert.Equal(t, "+3712000000", d.DonorPhone)
}

func TestSubmit_ZeroImagesBlocked(t *testing.T) {
	creator := &recordingCreator{}
	d := filledForm()

	_, err := d.Submit(context.Background(), creator)
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "imageUrls")
	assert.Len(t, fields, 1)
	assert.Empty(t, creator.calls)

	d.SetImageURLs([]string{})
	_, err = d.Submit(context.Background(), creator)
	assert.Contains(t, fieldErrors(t, err), "imageUrls")

	d.SetImageURLs([]string{"https://cdn.test/a.jpg"})
	created, err := d.Submit(context.Background(), creator)
	require.NoError(t, err)
	assert.Equal(t, "d-1", created.ID)
	require.Len(t, creator.calls, 1)
	assert.Equal(t, "u-1", creator.calls[0].DonorID)
}

func TestSubmit_BadEmailRejectedBeforeNetwork(t *testing.T) {
	creator := &recordingCreator{}
	d := filledForm()
	d.SetImageURLs([]string{"https://cdn.test/a.jpg"})
	d.DonorEmail = "not-an-email"

	_, err := d.Submit(context.Background(), creator)

	assert.Equal(t, "must be a valid email address", fieldErrors(t, err)["donorEmail"])
	assert.Empty(t, creator.calls)
}

func TestValidate_FieldLimits(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Donation)
		field  string
	}{
		"blank title":          {func(d *Donation) { d.Title = "   " }, "title"},
		"long title":           {func(d *Donation) { d.Title = strings.Repeat("a", 256) }, "title"},
		"short description":    {func(d *Donation) { d.Description = "too short" }, "description"},
		"long description":     {func(d *Donation) { d.Description = strings.Repeat("a", 1001) }, "description"},
		"missing category":     {func(d *Donation) { d.Category = "" }, "category"},
		"missing location":     {func(d *Donation) { d.Location = "" }, "location"},
		"long location":        {func(d *Donation) { d.Location = strings.Repeat("a", 256) }, "location"},
		"missing donor name":   {func(d *Donation) { d.DonorName = "" }, "donorName"},
		"long phone":           {func(d *Donation) { d.DonorPhone = strings.Repeat("1", 21) }, "donorPhone"},
		"image is not a url":   {func(d *Donation) { d.ImageURLs = []string{"a.jpg"} }, "imageUrls"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			d := filledForm()
			d.SetImageURLs([]string{"https://cdn.test/a.jpg"})
			tc.mutate(d)
			assert.Contains(t, fieldErrors(t, d.Validate()), tc.field)
		})
	}

	t.Run("boundaries accepted", func(t *testing.T) {
		d := filledForm()
		d.SetImageURLs([]string{"https://cdn.test/a.jpg"})
		d.Title = strings.Repeat("ā", 255)
		d.Description = strings.Repeat("a", 10)
		d.DonorPhone = strings.Repeat("1", 20)
		assert.NoError(t, d.Validate())
	})
}

func TestSubmit_FailureKeepsForm(t *testing.T) {
	creator := &recordingCreator{err: errors.New("500 Internal Server Error")}
	d := filledForm()
	d.SetImageURLs([]string{"https://cdn.test/a.jpg"})
	before := *d

	_, err := d.Submit(context.Background(), creator)
	var submitErr *SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Equal(t, before, *d)

	creator.err = nil
	_, err = d.Submit(context.Background(), creator)
	require.NoError(t, err)
	assert.Len(t, creator.calls, 2)
}

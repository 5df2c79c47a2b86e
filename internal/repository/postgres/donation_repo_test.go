package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"alcyxob/donation-share/internal/domain"
	"alcyxob/donation-share/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var donationCols = []string{"id", "title", "description", "category", "location", "image_urls",
	"donor_id", "donor_name", "donor_email", "donor_phone", "status", "created_at", "updated_at"}

func TestDonationRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDonationRepository(db)

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+donations\b.*\$6::jsonb`).
		WithArgs(sqlmock.AnyArg(), "Desk", "Solid oak desk", "furniture", "Riga",
			`["https://cdn/a.jpg","https://cdn/b.jpg"]`, "u1", "Ann", "ann@example.com", nil,
			"available", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	d := &domain.Donation{
		Title: "Desk", Description: "Solid oak desk", Category: "furniture", Location: "Riga",
		ImageURLs: []string{"https://cdn/a.jpg", "https://cdn/b.jpg"},
		DonorID:   "u1", DonorName: "Ann", DonorEmail: "ann@example.com",
	}
	id, err := repo.Create(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, d.ID, id)
	assert.Equal(t, domain.StatusAvailable, d.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationRepository_CreateDBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDonationRepository(db)

	mock.ExpectExec(`INSERT\s+INTO\s+donations`).WillReturnError(errors.New("conn reset"))

	_, err := repo.Create(context.Background(), &domain.Donation{Title: "Desk", ImageURLs: []string{"u"}})
	assert.ErrorContains(t, err, "conn reset")
}

func TestDonationRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDonationRepository(db)
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM donations WHERE id=\$1`).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows(donationCols).AddRow(
			"d1", "Desk", "Solid oak desk", "furniture", "Riga", `["https://cdn/a.jpg"]`,
			nil, "Ann", "ann@example.com", "+371 2000", "available", now, now))

	d, err := repo.GetByID(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/a.jpg"}, d.ImageURLs)
	assert.Equal(t, "", d.DonorID)
	assert.Equal(t, "+371 2000", d.DonorPhone)
	assert.Equal(t, domain.StatusAvailable, d.Status)
}

func TestDonationRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDonationRepository(db)

	mock.ExpectQuery(`FROM donations WHERE id=\$1`).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(donationCols))

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDonationRepository_ListNewestFirst(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDonationRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM donations ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(donationCols).
			AddRow("d2", "Lamp", "A bright lamp", "home", "Riga", `["l"]`, "u1", "Ann", "a@b.co", nil, "available", now, now).
			AddRow("d1", "Desk", "Solid oak desk", "home", "Riga", `["d"]`, "u1", "Ann", "a@b.co", nil, "taken", now, now))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "d2", list[0].ID)
	assert.Equal(t, domain.StatusTaken, list[1].Status)
}

func TestDonationRepository_ListEmptyIsNotNil(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDonationRepository(db)

	mock.ExpectQuery(`FROM donations`).WillReturnRows(sqlmock.NewRows(donationCols))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

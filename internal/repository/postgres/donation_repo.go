package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alcyxob/donation-share/internal/domain"
	"alcyxob/donation-share/internal/repository"

	"github.com/google/uuid"
)

// DonationRepository implements repository.DonationRepository over a DBTX.
// Image URLs are stored as a JSONB array.
type DonationRepository struct {
	db DBTX
}

func NewDonationRepository(db DBTX) *DonationRepository {
	return &DonationRepository{db: db}
}

const donationColumns = `id, title, description, category, location, image_urls::text,
	donor_id, donor_name, donor_email, donor_phone, status, created_at, updated_at`

func (r *DonationRepository) Create(ctx context.Context, d *domain.Donation) (string, error) {
	if d.Title == "" || len(d.ImageURLs) == 0 {
		return "", errors.New("donation title and at least one image URL are required")
	}
	images, err := json.Marshal(d.ImageURLs)
	if err != nil {
		return "", fmt.Errorf("encode image urls: %w", err)
	}

	d.ID = uuid.NewString()
	if d.Status == "" {
		d.Status = domain.StatusAvailable
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	query := `
		INSERT INTO donations (id, title, description, category, location, image_urls,
			donor_id, donor_name, donor_email, donor_phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = r.db.ExecContext(ctx, query,
		d.ID, d.Title, d.Description, d.Category, d.Location, string(images),
		nullString(d.DonorID), d.DonorName, d.DonorEmail, nullString(d.DonorPhone),
		string(d.Status), d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("insert donation: %w", err)
	}
	return d.ID, nil
}

func (r *DonationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+donationColumns+` FROM donations WHERE id=$1`, id)
	d, err := scanDonation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select donation: %w", err)
	}
	return d, nil
}

func (r *DonationRepository) List(ctx context.Context) ([]domain.Donation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+donationColumns+` FROM donations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select donations: %w", err)
	}
	defer rows.Close()

	result := []domain.Donation{}
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDonation(s scanner) (*domain.Donation, error) {
	var (
		d                   domain.Donation
		images              string
		donorID, donorPhone sql.NullString
		status              string
	)
	err := s.Scan(&d.ID, &d.Title, &d.Description, &d.Category, &d.Location, &images,
		&donorID, &d.DonorName, &d.DonorEmail, &donorPhone, &status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(images), &d.ImageURLs); err != nil {
		return nil, fmt.Errorf("decode image urls: %w", err)
	}
	d.DonorID = donorID.String
	d.DonorPhone = donorPhone.String
	d.Status = domain.DonationStatus(status)
	return &d, nil
}

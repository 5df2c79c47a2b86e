package service

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/donation-share/internal/domain"
	"alcyxob/donation-share/internal/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrDonationNotFound = errors.New("donation not found")
	ErrValidationFailed = errors.New("donation validation failed")
	// ErrPersistence marks a storage failure while creating or fetching donations.
	ErrPersistence = errors.New("donation persistence failed")
)

// NewDonation is the payload of a create request, already shape-validated by the handler.
type NewDonation struct {
	Title       string
	Description string
	Category    string
	Location    string
	ImageURLs   []string
	DonorID     string
	DonorName   string
	DonorEmail  string
	DonorPhone  string
}

// DonationService creates and reads donations.
type DonationService interface {
	CreateDonation(ctx context.Context, in NewDonation) (*domain.Donation, error)
	GetDonation(ctx context.Context, id string) (*domain.Donation, error)
	ListDonations(ctx context.Context) ([]domain.Donation, error)
}

type donationService struct {
	donationRepo repository.DonationRepository
}

// NewDonationService creates a new instance of donationService.
func NewDonationService(donationRepo repository.DonationRepository) DonationService {
	return &donationService{donationRepo: donationRepo}
}

// CreateDonation persists a new donation with status available.
func (s *donationService) CreateDonation(ctx context.Context, in NewDonation) (*domain.Donation, error) {
	if len(in.ImageURLs) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", ErrValidationFailed)
	}

	donation := &domain.Donation{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Location:    in.Location,
		ImageURLs:   dedupe(in.ImageURLs),
		DonorID:     in.DonorID,
		DonorName:   in.DonorName,
		DonorEmail:  in.DonorEmail,
		DonorPhone:  in.DonorPhone,
		Status:      domain.StatusAvailable,
	}

	if _, err := s.donationRepo.Create(ctx, donation); err != nil {
		logrus.WithError(err).WithField("donorId", in.DonorID).Error("failed to create donation")
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	logrus.WithFields(logrus.Fields{
		"donationId": donation.ID,
		"donorId":    donation.DonorID,
		"images":     len(donation.ImageURLs),
	}).Info("donation created")
	return donation, nil
}

// GetDonation retrieves a single donation.
func (s *donationService) GetDonation(ctx context.Context, id string) (*domain.Donation, error) {
	donation, err := s.donationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return donation, nil
}

// ListDonations returns every donation, newest first.
func (s *donationService) ListDonations(ctx context.Context) ([]domain.Donation, error) {
	donations, err := s.donationRepo.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list donations")
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if donations == nil {
		donations = []domain.Donation{}
	}
	return donations, nil
}

// dedupe keeps the first occurrence of each URL, preserving order.
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

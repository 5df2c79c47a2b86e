package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"alcyxob/donation-share/internal/domain"
	"alcyxob/donation-share/internal/repository"

	"github.com/google/uuid"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*domain.User{}, byEmail: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return "", repository.ErrDuplicate
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[u.Email] = &cp
	return u.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeDonationRepo struct {
	mu      sync.Mutex
	items   []domain.Donation
	failErr error
	clock   time.Time
}

func (r *fakeDonationRepo) Create(_ context.Context, d *domain.Donation) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return "", r.failErr
	}
	r.clock = r.clock.Add(time.Second)
	d.ID = uuid.NewString()
	d.CreatedAt = r.clock
	d.UpdatedAt = r.clock
	r.items = append(r.items, *d)
	return d.ID, nil
}

func (r *fakeDonationRepo) GetByID(_ context.Context, id string) (*domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	for _, d := range r.items {
		if d.ID == id {
			cp := d
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeDonationRepo) List(context.Context) ([]domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	out := append([]domain.Donation(nil), r.items...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeStorage struct {
	presignErr error
	deleteErr  error
	deleted    []string
	presigned  []string
}

func (s *fakeStorage) GeneratePresignedUploadURL(_ context.Context, key, contentType string, size int64, _ time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	s.presigned = append(s.presigned, key)
	return "https://s3.test/bucket/" + key + "?sig=1", nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

var errBoom = errors.New("boom")

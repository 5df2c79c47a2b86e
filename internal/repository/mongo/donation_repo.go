package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/donation-share/internal/domain"
	"alcyxob/donation-share/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const donationCollectionName = "donations"

// mongoDonationRepository implements repository.DonationRepository
type mongoDonationRepository struct {
	collection *mongo.Collection
}

// NewMongoDonationRepository creates a new Donation repository backed by MongoDB.
func NewMongoDonationRepository(db *mongo.Database) repository.DonationRepository {
	return &mongoDonationRepository{
		collection: db.Collection(donationCollectionName),
	}
}

// Create inserts a new donation. Status defaults to available.
func (r *mongoDonationRepository) Create(ctx context.Context, donation *domain.Donation) (string, error) {
	if donation.Title == "" || len(donation.ImageURLs) == 0 {
		return "", errors.New("donation title and at least one image URL are required")
	}

	donation.ID = uuid.NewString()
	if donation.Status == "" {
		donation.Status = domain.StatusAvailable
	}
	now := time.Now().UTC()
	donation.CreatedAt = now
	donation.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, donation); err != nil {
		return "", err
	}
	return donation.ID, nil
}

// GetByID retrieves a donation by its ID.
func (r *mongoDonationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	var donation domain.Donation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&donation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &donation, nil
}

// List retrieves all donations, newest first.
func (r *mongoDonationRepository) List(ctx context.Context) ([]domain.Donation, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	donations := []domain.Donation{}
	if err = cursor.All(ctx, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

// EnsureDonationIndexes creates necessary indexes for the donations collection.
func EnsureDonationIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Listing is always newest-first
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "donorId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

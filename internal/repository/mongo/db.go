package mongo

import (
	"context"
	"time"

	"alcyxob/donation-share/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary: Connect succeeds lazily even when the server is unreachable.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// Store is the MongoDB-backed repository.Store.
type Store struct {
	client    *mongo.Client
	db        *mongo.Database
	users     repository.UserRepository
	donations repository.DonationRepository
}

// NewStore connects to uri and binds the repositories to database dbName.
func NewStore(uri, dbName string) (*Store, error) {
	client, err := ConnectDB(uri)
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)
	return &Store{
		client:    client,
		db:        db,
		users:     NewMongoUserRepository(db),
		donations: NewMongoDonationRepository(db),
	}, nil
}

func (s *Store) Users() repository.UserRepository         { return s.users }
func (s *Store) Donations() repository.DonationRepository { return s.donations }

// EnsureSchema creates the indexes of every collection.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := EnsureUserIndexes(ctx, s.db.Collection(userCollectionName)); err != nil {
		return err
	}
	return EnsureDonationIndexes(ctx, s.db.Collection(donationCollectionName))
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

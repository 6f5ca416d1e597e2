package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"expense-tracker/api/models"
)

type UserStore struct {
	col *mongo.Collection
}

// CreateUser inserts a new user, assigning its id. Returns ErrEmailTaken
// when the unique email index rejects the insert.
func (s *UserStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// UserByEmail looks a user up by exact (case-sensitive) email.
func (s *UserStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching user by email: %w", err)
	}
	return &user, nil
}

// UserByID resolves a user id minted into a session token. Malformed ids
// map to ErrNotFound since they can never name a user.
func (s *UserStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var user models.User
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching user by id: %w", err)
	}
	return &user, nil
}

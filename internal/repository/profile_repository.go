package repository

import (
	"context"
	"errors"

	"testprep-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProfileRepository struct {
	Col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{Col: db.Collection("profiles")}
}

// Load returns the stored profile, or nil if the user has none yet.
func (r *ProfileRepository) Load(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.Col.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Save(ctx context.Context, profile *models.UserProfile) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": profile.UserID}, profile, opts)
	return err
}

package repository

import (
	"context"
	"errors"

	"testprep-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PerformanceRepository keeps one document per user holding the full
// 8-subject record set, mirroring the app's per-user performance blob.
type PerformanceRepository struct {
	Col *mongo.Collection
}

func NewPerformanceRepository(db *mongo.Database) *PerformanceRepository {
	return &PerformanceRepository{Col: db.Collection("performance")}
}

type performanceDoc struct {
	UserID       string                      `bson:"_id"`
	Performances []models.SubjectPerformance `bson:"performances"`
}

// Load returns the stored record set, or nil if the user has none yet.
func (r *PerformanceRepository) Load(ctx context.Context, userID string) ([]models.SubjectPerformance, error) {
	var doc performanceDoc
	err := r.Col.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Performances, nil
}

// Save replaces the user's record set, creating the document on first write.
func (r *PerformanceRepository) Save(ctx context.Context, userID string, performances []models.SubjectPerformance) error {
	doc := performanceDoc{UserID: userID, Performances: performances}
	opts := options.Replace().SetUpsert(true)
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": userID}, doc, opts)
	return err
}

package repository

import (
	"context"

	"testprep-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResultRepository is the append-only exam result history.
type ResultRepository struct {
	Col *mongo.Collection
}

func NewResultRepository(db *mongo.Database) *ResultRepository {
	return &ResultRepository{Col: db.Collection("test_results")}
}

func (r *ResultRepository) Append(ctx context.Context, result *models.TestResult) error {
	_, err := r.Col.InsertOne(ctx, result)
	return err
}

func (r *ResultRepository) FindByID(ctx context.Context, userID, id string) (*models.TestResult, error) {
	var result models.TestResult
	err := r.Col.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultRepository) FindByUser(ctx context.Context, userID string) ([]models.TestResult, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *ResultRepository) FindByTest(ctx context.Context, userID, testID string) ([]models.TestResult, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID, "test_id": testID})
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *ResultRepository) FindRecent(ctx context.Context, userID string, limit int) ([]models.TestResult, error) {
	opts := options.Find().SetSort(bson.M{"date": -1}).SetLimit(int64(limit))
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *ResultRepository) decodeAll(ctx context.Context, cur *mongo.Cursor) ([]models.TestResult, error) {
	defer cur.Close(ctx)
	var results []models.TestResult
	for cur.Next(ctx) {
		var res models.TestResult
		if err := cur.Decode(&res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, cur.Err()
}

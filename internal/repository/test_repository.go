package repository

import (
	"context"

	"testprep-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TestRepository serves the immutable full-test catalog.
type TestRepository struct {
	Col *mongo.Collection
}

func NewTestRepository(db *mongo.Database) *TestRepository {
	return &TestRepository{Col: db.Collection("tests")}
}

func (r *TestRepository) decodeAll(ctx context.Context, cur *mongo.Cursor) ([]models.FullTest, error) {
	defer cur.Close(ctx)
	var tests []models.FullTest
	for cur.Next(ctx) {
		var t models.FullTest
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, cur.Err()
}

func (r *TestRepository) FindAll(ctx context.Context) ([]models.FullTest, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *TestRepository) FindByID(ctx context.Context, id string) (*models.FullTest, error) {
	var test models.FullTest
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&test)
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *TestRepository) FindByType(ctx context.Context, testType models.TestType) ([]models.FullTest, error) {
	cur, err := r.Col.Find(ctx, bson.M{"test_type": testType})
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *TestRepository) Create(ctx context.Context, test *models.FullTest) error {
	_, err := r.Col.InsertOne(ctx, test)
	return err
}

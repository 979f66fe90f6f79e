package repository

import (
	"context"

	"testprep-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) decodeAll(ctx context.Context, cur *mongo.Cursor) ([]models.Question, error) {
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, cur.Err()
}

func (r *QuestionRepository) FindAll(ctx context.Context) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) FindBySubject(ctx context.Context, subject models.SubjectArea) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, bson.M{"subject": subject})
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *QuestionRepository) FindByTestType(ctx context.Context, testType models.TestType) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, bson.M{"test_type": testType})
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *QuestionRepository) FindByDifficulty(ctx context.Context, difficulty models.Difficulty) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, bson.M{"difficulty": difficulty})
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *QuestionRepository) FindByTopic(ctx context.Context, topic string) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, bson.M{"topics": topic})
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	_, err := r.Col.InsertOne(ctx, question)
	return err
}

func (r *QuestionRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

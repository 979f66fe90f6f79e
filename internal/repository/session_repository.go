package repository

import (
	"context"

	"testprep-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepository is the append-only practice session history.
type SessionRepository struct {
	Col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{Col: db.Collection("practice_sessions")}
}

func (r *SessionRepository) Append(ctx context.Context, session *models.PracticeSession) error {
	_, err := r.Col.InsertOne(ctx, session)
	return err
}

func (r *SessionRepository) FindByID(ctx context.Context, userID, id string) (*models.PracticeSession, error) {
	var session models.PracticeSession
	err := r.Col.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) FindByUser(ctx context.Context, userID string) ([]models.PracticeSession, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var sessions []models.PracticeSession
	for cur.Next(ctx) {
		var s models.PracticeSession
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, cur.Err()
}

// FindRecent returns the user's newest sessions, most recent first.
func (r *SessionRepository) FindRecent(ctx context.Context, userID string, limit int) ([]models.PracticeSession, error) {
	opts := options.Find().SetSort(bson.M{"date": -1}).SetLimit(int64(limit))
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var sessions []models.PracticeSession
	for cur.Next(ctx) {
		var s models.PracticeSession
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, cur.Err()
}

func (r *SessionRepository) FindBySubject(ctx context.Context, userID string, subject models.SubjectArea) ([]models.PracticeSession, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID, "subject_areas": subject})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var sessions []models.PracticeSession
	for cur.Next(ctx) {
		var s models.PracticeSession
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, cur.Err()
}

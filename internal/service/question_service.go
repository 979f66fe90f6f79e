package service

import (
	"context"
	"fmt"

	"testprep-service/internal/models"
	"testprep-service/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
)

// QuestionService exposes the fixed question catalog plus the authoring
// operations used to seed and maintain it.
type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

func (s *QuestionService) ListQuestions(ctx context.Context) ([]models.Question, error) {
	return s.Repo.FindAll(ctx)
}

func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: question %q", models.ErrNotFound, id)
	}
	return question, nil
}

func (s *QuestionService) QuestionsBySubject(ctx context.Context, subject models.SubjectArea) ([]models.Question, error) {
	return s.Repo.FindBySubject(ctx, subject)
}

func (s *QuestionService) QuestionsByTestType(ctx context.Context, testType models.TestType) ([]models.Question, error) {
	return s.Repo.FindByTestType(ctx, testType)
}

func (s *QuestionService) QuestionsByDifficulty(ctx context.Context, difficulty models.Difficulty) ([]models.Question, error) {
	return s.Repo.FindByDifficulty(ctx, difficulty)
}

func (s *QuestionService) QuestionsByTopic(ctx context.Context, topic string) ([]models.Question, error) {
	return s.Repo.FindByTopic(ctx, topic)
}

func (s *QuestionService) CreateQuestion(ctx context.Context, question *models.Question) error {
	if !question.Subject.Valid() {
		return fmt.Errorf("%w: subject %q", models.ErrNotFound, question.Subject)
	}
	if !question.Difficulty.Valid() {
		question.Difficulty = models.DifficultyMedium
	}
	return s.Repo.Create(ctx, question)
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, id string, update map[string]any) error {
	return s.Repo.Update(ctx, id, bson.M(update))
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

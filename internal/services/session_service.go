package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arogyalabs/medassist/internal/models"
	"github.com/arogyalabs/medassist/internal/repositories/memory"
	"github.com/arogyalabs/medassist/internal/utils"
)

type SessionService interface {
	Start(ctx context.Context, name string, age int, gender string) (*models.Session, error)
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	End(ctx context.Context, sessionID string) error
}

type sessionService struct {
	sessions *memory.SessionStore
}

func NewSessionService(sessions *memory.SessionStore) SessionService {
	return &sessionService{sessions: sessions}
}

// Start creates a fresh session: empty histories, no analyses, no
// images, and a newly generated user id. Name is optional; without it
// nothing is ever persisted for this session.
func (s *sessionService) Start(ctx context.Context, name string, age int, gender string) (*models.Session, error) {
	const op = "SessionService.Start"

	if age == 0 {
		age = 25
	}
	if age < 1 || age > 120 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "age must be between 1 and 120", nil)
	}
	switch gender {
	case "", "Male", "Female", "Other":
	default:
		return nil, utils.E(utils.CodeInvalidArgument, op, "gender must be Male, Female, or Other", nil)
	}

	sess := &models.Session{
		SessionID: uuid.NewString(),
		UserID:    uuid.NewString(),
		Name:      name,
		Age:       age,
		Gender:    gender,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.sessions.Create(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	const op = "SessionService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
	}
	return sess, nil
}

func (s *sessionService) End(ctx context.Context, sessionID string) error {
	const op = "SessionService.End"

	if sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	s.sessions.Delete(sessionID)
	return nil
}

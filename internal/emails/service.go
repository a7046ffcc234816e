package emails

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pitchmate-backend/internal/llm"
	"pitchmate-backend/internal/notify"
	"pitchmate-backend/internal/shared/metrics"
	"pitchmate-backend/internal/users"
)

var (
	// ErrMissingFields means topic, tone or description is empty.
	ErrMissingFields = errors.New("all fields are required")
	// ErrInvalidTone means the tone is not one of the supported options.
	ErrInvalidTone = errors.New("invalid tone selected")
)

// GenerateInput carries the generation form. Name, Email and Phone are the
// sender's contact details embedded in the drafted email; when empty the
// draft keeps placeholder tokens for the user to fill in.
type GenerateInput struct {
	Topic       string `json:"topic"`
	Tone        string `json:"tone"`
	Description string `json:"description"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

func (in GenerateInput) validate() error {
	if strings.TrimSpace(in.Topic) == "" ||
		strings.TrimSpace(in.Tone) == "" ||
		strings.TrimSpace(in.Description) == "" {
		return ErrMissingFields
	}
	if !ValidTone(in.Tone) {
		return ErrInvalidTone
	}
	return nil
}

// Service drafts emails through the AI gateway and records the results.
type Service struct {
	Repo   Repo
	Users  users.Repo
	LLM    llm.Client
	Notify *notify.Service
}

// NewService constructs a Service.
func NewService(repo Repo, userRepo users.Repo, client llm.Client, notifier *notify.Service) *Service {
	return &Service{Repo: repo, Users: userRepo, LLM: client, Notify: notifier}
}

// Generate drafts an email for an authenticated user, mails the result to the
// account address and persists the record. The returned string is the drafted
// email text.
func (s *Service) Generate(ctx context.Context, userID string, input GenerateInput) (string, error) {
	if err := input.validate(); err != nil {
		return "", err
	}

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}

	generated, err := s.LLM.GenerateEmail(ctx, llm.EmailInput{
		Topic:       input.Topic,
		Tone:        input.Tone,
		Description: input.Description,
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
	})
	if err != nil {
		return "", fmt.Errorf("generate email: %w", err)
	}

	go s.Notify.EmailGenerated(user.Email, input.Topic, input.Tone, input.Description, generated)

	if _, err := s.Repo.Create(ctx, Email{
		ID:             uuid.NewString(),
		UserID:         userID,
		Topic:          input.Topic,
		Tone:           input.Tone,
		Description:    input.Description,
		GeneratedEmail: generated,
	}); err != nil {
		return "", fmt.Errorf("save email: %w", err)
	}

	metrics.IncEmailGenerated()
	return generated, nil
}

// Sample drafts an email for an anonymous caller. Nothing is persisted and
// nothing is mailed.
func (s *Service) Sample(ctx context.Context, input GenerateInput) (string, error) {
	if err := input.validate(); err != nil {
		return "", err
	}
	generated, err := s.LLM.GenerateEmail(ctx, llm.EmailInput{
		Topic:       input.Topic,
		Tone:        input.Tone,
		Description: input.Description,
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
	})
	if err != nil {
		return "", fmt.Errorf("generate sample email: %w", err)
	}
	metrics.IncEmailGenerated()
	return generated, nil
}

// History returns the caller's records newest-first.
func (s *Service) History(ctx context.Context, userID string) ([]Email, error) {
	return s.Repo.ListByUser(ctx, userID)
}

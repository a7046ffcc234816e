package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pitchmate-backend/internal/notify"
	"pitchmate-backend/internal/shared/storage/object"
	"pitchmate-backend/internal/shared/telemetry"
)

var (
	// ErrMissingFields means a required registration or login field is empty.
	ErrMissingFields = errors.New("please fill all the fields")
	// ErrInvalidCredentials means the password hash did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUploadFailed means the profile image could not be stored; the
	// registration is aborted and no partial user is committed.
	ErrUploadFailed = errors.New("image upload failed")
	// ErrWeakPassword means the password is under the minimum length.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
)

const bcryptCost = 10

// Service registers and authenticates users.
type Service struct {
	Repo   Repo
	Store  object.ObjectStore
	Notify *notify.Service
}

// NewService constructs a Service.
func NewService(repo Repo, store object.ObjectStore, notifier *notify.Service) *Service {
	return &Service{Repo: repo, Store: store, Notify: notifier}
}

// RegisterInput carries the registration form. Avatar is optional.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Avatar     io.Reader
	AvatarName string
}

// Register creates an account. The profile image, when supplied, is stored
// first so that an upload failure commits nothing. The welcome notification
// is fire-and-forget.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return User{}, ErrMissingFields
	}
	if len(input.Password) < 6 {
		return User{}, ErrWeakPassword
	}

	// Reject duplicates before the avatar hits the object store, so a
	// conflicting registration leaves no orphaned object. The unique index
	// behind Repo.Create stays authoritative for races.
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}

	if input.Avatar != nil {
		if s.Store == nil {
			return User{}, ErrUploadFailed
		}
		key, _, _, err := s.Store.Save(ctx, user.ID, input.AvatarName, input.Avatar)
		if err != nil {
			telemetry.Error("users.avatar_upload_failed", map[string]any{"error": err.Error()})
			return User{}, ErrUploadFailed
		}
		user.ProfilePic = s.Store.URL(key)
	}

	created, err := s.Repo.Create(ctx, user)
	if err != nil {
		return User{}, err
	}

	go s.Notify.Welcome(created.Email, created.Name)

	return created, nil
}

// Login verifies credentials and returns the matching user.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return User{}, ErrMissingFields
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID loads a user by ID, typically the authenticated caller.
func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if userID == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

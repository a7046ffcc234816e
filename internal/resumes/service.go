package resumes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"pitchmate-backend/internal/extract"
	"pitchmate-backend/internal/llm"
	"pitchmate-backend/internal/notify"
	"pitchmate-backend/internal/shared/metrics"
	"pitchmate-backend/internal/shared/storage/object"
	"pitchmate-backend/internal/shared/telemetry"
	"pitchmate-backend/internal/users"
)

// ErrMissingInput means the upload or the job title is absent.
var ErrMissingInput = errors.New("resume and job title are required")

// Service runs resume analyses through the AI gateway and records the
// results.
type Service struct {
	Repo   Repo
	Users  users.Repo
	LLM    llm.Client
	Store  object.ObjectStore
	Notify *notify.Service
}

// NewService constructs a Service.
func NewService(repo Repo, userRepo users.Repo, client llm.Client, store object.ObjectStore, notifier *notify.Service) *Service {
	return &Service{Repo: repo, Users: userRepo, LLM: client, Store: store, Notify: notifier}
}

// Analyze extracts text from the uploaded file, runs the AI review, persists
// the result and mails a summary to the account address. A response that
// fails schema parsing persists nothing. The caller owns deleting the temp
// file.
func (s *Service) Analyze(ctx context.Context, userID, jobTitle, filePath, fileName string) (llm.Analysis, error) {
	if strings.TrimSpace(jobTitle) == "" || filePath == "" {
		return llm.Analysis{}, ErrMissingInput
	}

	parsed, resumeText, err := s.review(ctx, filePath, fileName, jobTitle)
	if err != nil {
		return llm.Analysis{}, err
	}

	fileURL := s.uploadOriginal(ctx, userID, filePath, fileName)

	if _, err := s.Repo.Create(ctx, Resume{
		ID:            uuid.NewString(),
		UserID:        userID,
		FileName:      fileName,
		FileURL:       fileURL,
		JobTitle:      jobTitle,
		ResumeText:    resumeText,
		Score:         parsed.Score,
		KeySkills:     parsed.KeySkills,
		MissingSkills: parsed.MissingSkills,
		Strengths:     parsed.Strengths,
		Weaknesses:    parsed.Weaknesses,
		Suggestions:   parsed.Suggestions,
		Summary:       parsed.Summary,
	}); err != nil {
		return llm.Analysis{}, fmt.Errorf("save analysis: %w", err)
	}

	if user, err := s.Users.GetByID(ctx, userID); err == nil {
		go s.Notify.ResumeAnalyzed(user.Email, jobTitle, parsed.Score, parsed.KeySkills, parsed.MissingSkills)
	}

	metrics.IncResumeAnalyzed()
	return parsed, nil
}

// AnalyzeSample runs the review for an anonymous caller. Nothing is
// persisted, uploaded or mailed.
func (s *Service) AnalyzeSample(ctx context.Context, jobTitle, filePath, fileName string) (llm.Analysis, error) {
	if filePath == "" {
		return llm.Analysis{}, ErrMissingInput
	}
	parsed, _, err := s.review(ctx, filePath, fileName, jobTitle)
	if err != nil {
		return llm.Analysis{}, err
	}
	metrics.IncResumeAnalyzed()
	return parsed, nil
}

// History returns the caller's analyses newest-first without the extracted
// text.
func (s *Service) History(ctx context.Context, userID string) ([]Resume, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *Service) review(ctx context.Context, filePath, fileName, jobTitle string) (llm.Analysis, string, error) {
	resumeText, err := extract.TextFromFile(filePath, fileName)
	if err != nil {
		return llm.Analysis{}, "", err
	}

	raw, err := s.LLM.AnalyzeResume(ctx, resumeText, jobTitle)
	if err != nil {
		return llm.Analysis{}, "", fmt.Errorf("analyze resume: %w", err)
	}

	parsed, err := llm.ParseAnalysis(raw)
	if err != nil {
		metrics.IncAnalysisParseFailed()
		return llm.Analysis{}, "", err
	}
	return parsed, resumeText, nil
}

// uploadOriginal copies the raw resume into the object store so the history
// can link the original file. Best-effort: a failure only costs the link.
func (s *Service) uploadOriginal(ctx context.Context, userID, filePath, fileName string) string {
	if s.Store == nil {
		return ""
	}
	f, err := os.Open(filePath)
	if err != nil {
		telemetry.Error("resumes.upload_open_failed", map[string]any{"error": err.Error()})
		return ""
	}
	defer f.Close()

	key, _, _, err := s.Store.Save(ctx, userID, fileName, f)
	if err != nil {
		telemetry.Error("resumes.upload_failed", map[string]any{"error": err.Error()})
		return ""
	}
	return s.Store.URL(key)
}

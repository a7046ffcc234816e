package resumes

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"pitchmate-backend/internal/extract"
	"pitchmate-backend/internal/llm"
	"pitchmate-backend/internal/shared/server/middleware"
	"pitchmate-backend/internal/shared/server/respond"
	"pitchmate-backend/internal/shared/telemetry"
)

// Handler exposes resume analysis and history.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// Routes mounts the resume endpoints. Both analysis routes sit behind the
// upload gate; the sample route is public but rate limited.
func (h *Handler) Routes(rg *gin.RouterGroup, session, upload, sampleLimit gin.HandlerFunc) {
	rg.POST("/analyse", session, upload, h.analyze)
	rg.GET("/history", session, h.history)
	rg.POST("/analyse/sample", sampleLimit, upload, h.analyzeSample)
}

func (h *Handler) analyze(c *gin.Context) {
	filePath := middleware.UploadPathFromContext(c)
	defer removeTemp(filePath)

	jobTitle := c.PostForm("jobTitle")
	if filePath == "" || jobTitle == "" {
		respond.Error(c, http.StatusBadRequest, "Resume and job title are required")
		return
	}

	userID := middleware.UserIDFromContext(c)
	fileName := middleware.UploadNameFromContext(c)
	analysis, err := h.Svc.Analyze(c.Request.Context(), userID, jobTitle, filePath, fileName)
	if err != nil {
		respondAnalysisError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"success":  true,
		"analysis": analysis,
	})
}

func (h *Handler) analyzeSample(c *gin.Context) {
	filePath := middleware.UploadPathFromContext(c)
	defer removeTemp(filePath)

	if filePath == "" {
		respond.Error(c, http.StatusBadRequest, "No resume uploaded")
		return
	}

	fileName := middleware.UploadNameFromContext(c)
	analysis, err := h.Svc.AnalyzeSample(c.Request.Context(), c.PostForm("jobTitle"), filePath, fileName)
	if err != nil {
		respondAnalysisError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"success":  true,
		"analysis": analysis,
	})
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	history, err := h.Svc.History(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to analyze resume")
		return
	}
	respond.OK(c, gin.H{
		"history": history,
		"success": true,
	})
}

func respondAnalysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		respond.Error(c, http.StatusBadRequest, "Only PDF and DOCX files are allowed")
	case errors.Is(err, llm.ErrBadResponse):
		respond.Error(c, http.StatusInternalServerError, "AI response parsing failed")
	default:
		respond.Error(c, http.StatusInternalServerError, "Failed to analyze resume")
	}
}

// removeTemp deletes the upload gate's temp file. Runs on every exit path so
// a failed analysis never leaks files.
func removeTemp(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		telemetry.Error("resumes.temp_remove_failed", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
	}
}

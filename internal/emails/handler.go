package emails

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pitchmate-backend/internal/shared/server/middleware"
	"pitchmate-backend/internal/shared/server/respond"
)

// Handler exposes email generation and history.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// Routes mounts the email endpoints. The sample endpoint is public but rate
// limited; everything else sits behind the session gate.
func (h *Handler) Routes(rg *gin.RouterGroup, session, sampleLimit gin.HandlerFunc) {
	rg.POST("/gen", session, h.generate)
	rg.GET("/history", session, h.history)
	rg.POST("/gen/sample", sampleLimit, h.sample)
}

func (h *Handler) generate(c *gin.Context) {
	var input GenerateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, "All fields are required.")
		return
	}

	userID := middleware.UserIDFromContext(c)
	generated, err := h.Svc.Generate(c.Request.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			respond.Error(c, http.StatusBadRequest, "All fields are required.")
		case errors.Is(err, ErrInvalidTone):
			respond.Error(c, http.StatusBadRequest, "Invalid tone selected")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to generate email.")
		}
		return
	}

	respond.OK(c, gin.H{
		"email":   generated,
		"success": true,
	})
}

func (h *Handler) sample(c *gin.Context) {
	var input GenerateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, "All fields are required.")
		return
	}

	generated, err := h.Svc.Sample(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			respond.Error(c, http.StatusBadRequest, "All fields are required.")
		case errors.Is(err, ErrInvalidTone):
			respond.Error(c, http.StatusBadRequest, "Invalid tone selected")
		default:
			respond.Error(c, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	respond.OK(c, gin.H{"email": generated})
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	history, err := h.Svc.History(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to fetch email history")
		return
	}
	respond.OK(c, gin.H{
		"history": history,
		"success": true,
	})
}

package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pitchmate-backend/internal/shared/server/middleware"
	"pitchmate-backend/internal/shared/server/respond"
)

// Handler exposes the usage dashboard.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// Routes mounts the dashboard endpoints behind the session gate.
func (h *Handler) Routes(rg *gin.RouterGroup, session gin.HandlerFunc) {
	rg.GET("/metrics", session, h.metrics)
}

type metricsResponse struct {
	Success bool `json:"success"`
	Metrics
}

func (h *Handler) metrics(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	m, err := h.Svc.Metrics(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to load dashboard metrics")
		return
	}
	respond.OK(c, metricsResponse{Success: true, Metrics: m})
}

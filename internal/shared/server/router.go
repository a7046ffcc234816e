package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pitchmate-backend/internal/dashboard"
	"pitchmate-backend/internal/emails"
	"pitchmate-backend/internal/resumes"
	"pitchmate-backend/internal/shared/auth"
	"pitchmate-backend/internal/shared/config"
	"pitchmate-backend/internal/shared/metrics"
	"pitchmate-backend/internal/shared/server/middleware"
	"pitchmate-backend/internal/users"
)

const (
	maxResumeBytes = 5 << 20

	// Anonymous sample endpoints refill at one request per five seconds with
	// a small burst, keyed per client IP.
	sampleRate  = 0.2
	sampleBurst = 5
)

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	Config           config.Config
	Tokens           *auth.TokenService
	UsersHandler     *users.Handler
	EmailsHandler    *emails.Handler
	ResumesHandler   *resumes.Handler
	DashboardHandler *dashboard.Handler
	// LocalFilesDir, when non-empty, is served under /files for locally
	// stored objects.
	LocalFilesDir string
}

// NewRouter builds the gin engine with middleware and routes mounted.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     deps.Config.CORSAllowOrigin,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is running")
	})
	engine.GET("/metrics", metrics.Handler())

	if deps.LocalFilesDir != "" {
		engine.Static("/files", deps.LocalFilesDir)
	}

	session := middleware.Session(deps.Tokens)
	upload := middleware.Upload(middleware.UploadConfig{
		Field:       "resume",
		Dir:         filepath.Join(deps.Config.UploadDir, "resumes"),
		AllowedExts: []string{".pdf", ".docx"},
		MaxBytes:    maxResumeBytes,
	})
	limiter := middleware.NewRateLimiter(nil)
	sampleLimit := middleware.RateLimit(limiter, middleware.RateLimitRule{
		Rate:  sampleRate,
		Burst: sampleBurst,
	})

	deps.UsersHandler.Routes(engine.Group("/api/auth"), session)
	deps.EmailsHandler.Routes(engine.Group("/api/email"), session, sampleLimit)
	deps.ResumesHandler.Routes(engine.Group("/api/resume"), session, upload, sampleLimit)
	deps.DashboardHandler.Routes(engine.Group("/api/dashboard"), session)

	return engine
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

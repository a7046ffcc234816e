package users

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"pitchmate-backend/internal/shared/auth"
	"pitchmate-backend/internal/shared/server/middleware"
	"pitchmate-backend/internal/shared/server/respond"
)

// Handler exposes account registration, login and logout.
type Handler struct {
	Svc        *Service
	Tokens     *auth.TokenService
	Production bool
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, tokens *auth.TokenService, production bool) *Handler {
	return &Handler{Svc: svc, Tokens: tokens, Production: production}
}

// Routes mounts the auth endpoints on the given group. The session gate is
// applied only to the profile endpoint; everything else is public.
func (h *Handler) Routes(rg *gin.RouterGroup, session gin.HandlerFunc) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.GET("/logout", h.logout)
	rg.GET("/me", session, h.me)
}

func (h *Handler) register(c *gin.Context) {
	input := RegisterInput{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	if fileHeader, err := c.FormFile("profilePic"); err == nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			respond.Error(c, http.StatusInternalServerError, "Image upload failed")
			return
		}
		defer func(f multipart.File) { _ = f.Close() }(file)
		input.Avatar = file
		input.AvatarName = fileHeader.Filename
	}

	if _, err := h.Svc.Register(c.Request.Context(), input); err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			respond.Error(c, http.StatusBadRequest, "Please fill all the fields")
		case errors.Is(err, ErrWeakPassword):
			respond.Error(c, http.StatusBadRequest, "Password must be at least 6 characters")
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusBadRequest, "User already exists")
		case errors.Is(err, ErrUploadFailed):
			respond.Error(c, http.StatusInternalServerError, "Image upload failed")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"message": "User created successfully",
		"success": true,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Please fill all the fields")
		return
	}

	user, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			respond.Error(c, http.StatusBadRequest, "Please fill all the fields")
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusBadRequest, "User not found")
		case errors.Is(err, ErrInvalidCredentials):
			respond.Error(c, http.StatusBadRequest, "Invalid credentials")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	token, err := h.Tokens.Sign(user.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to log in")
		return
	}
	auth.SetSessionCookie(c, token, h.Production)

	respond.OK(c, gin.H{
		"message": "User logged in successfully",
		"success": true,
		"user":    user.Public(),
	})
}

func (h *Handler) logout(c *gin.Context) {
	auth.ClearSessionCookie(c, h.Production)
	respond.OK(c, gin.H{
		"message": "User logged out successfully",
		"success": true,
	})
}

// me returns the authenticated user's public profile. Mounted behind the
// session gate by the router.
func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "Not authorized")
		return
	}
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "User not found")
		return
	}
	respond.OK(c, gin.H{
		"success": true,
		"user":    user.Public(),
	})
}

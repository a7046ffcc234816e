package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pitchmate-backend/internal/shared/server/respond"
	"pitchmate-backend/internal/shared/util"
)

const (
	uploadPathKey = "uploadPath"
	uploadNameKey = "uploadName"
)

// UploadConfig controls the upload gate for a route.
type UploadConfig struct {
	Field       string
	Dir         string
	AllowedExts []string
	MaxBytes    int64
}

// Upload writes an accepted multipart file to local disk before the
// controller runs. Files with a disallowed extension or over the size ceiling
// are rejected here. A request without a file passes through so the
// controller can report its own validation message. The controller owns
// deleting the temp file on every exit path.
func Upload(cfg UploadConfig) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(cfg.AllowedExts))
	for _, ext := range cfg.AllowedExts {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxBytes)

		fileHeader, err := c.FormFile(cfg.Field)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				respond.Error(c, http.StatusBadRequest, "File too large (max 5MB)")
				return
			}
			// No file attached; the controller validates presence.
			c.Next()
			return
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if _, ok := allowed[ext]; !ok {
			respond.Error(c, http.StatusBadRequest, "Only PDF and DOCX files are allowed")
			return
		}

		sanitized, err := util.SanitizeFileName(fileHeader.Filename)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "Invalid file name")
			return
		}

		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			respond.Error(c, http.StatusInternalServerError, "Failed to store upload")
			return
		}

		path := filepath.Join(cfg.Dir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitized))
		if err := c.SaveUploadedFile(fileHeader, path); err != nil {
			respond.Error(c, http.StatusInternalServerError, "Failed to store upload")
			return
		}

		c.Set(uploadPathKey, path)
		c.Set(uploadNameKey, fileHeader.Filename)
		c.Next()
	}
}

// UploadPathFromContext returns the temp file path written by the upload gate.
func UploadPathFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(uploadPathKey)
	if path, ok := val.(string); ok {
		return path
	}
	return ""
}

// UploadNameFromContext returns the original file name of the upload.
func UploadNameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(uploadNameKey)
	if name, ok := val.(string); ok {
		return name
	}
	return ""
}

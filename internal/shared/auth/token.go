package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the HTTP-only session cookie carrying the signed token.
const CookieName = "email_writer"

const sessionTTL = 24 * time.Hour

// ErrInvalidToken is returned for any token that fails signature or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity embedded in a session token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens with HS256.
type TokenService struct {
	secret []byte
}

// NewTokenService constructs a TokenService. An empty secret is only
// acceptable outside production; callers enforce that at startup.
func NewTokenService(secret string) *TokenService {
	if secret == "" {
		secret = "dev-secret"
	}
	return &TokenService{secret: []byte(secret)}
}

// Sign issues a 24h session token for the given user.
func (s *TokenService) Sign(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("userID is required")
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses a session token and returns the user ID it identifies.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

// SetSessionCookie writes the session cookie. Production gets Secure and
// SameSite=None for the cross-site SPA; dev keeps Lax over plain HTTP.
func SetSessionCookie(c *gin.Context, token string, production bool) {
	if production {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(CookieName, token, int(sessionTTL/time.Second), "/", "", production, true)
}

// ClearSessionCookie expires the session cookie unconditionally.
func ClearSessionCookie(c *gin.Context, production bool) {
	if production {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(CookieName, "", -1, "/", "", production, true)
}

package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/equine-practice/internal/config"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

const (
	ContextUserID     = "userID"
	ContextPracticeID = "practiceID"
	ContextUserRole   = "userRole"

	HeaderPracticeID = "X-Practice-ID"
	HeaderUserID     = "X-User-ID"
)

// AuthMiddleware resolves the tenant and actor from a bearer token. With
// DevTenantHeaders enabled a request without a token may name them in
// X-Practice-ID / X-User-ID instead.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if cfg.DevTenantHeaders && devScope(c) {
				c.Next()
				return
			}
			httperr.Unauthorized(c, "missing_authorization_header", "Authentication required.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Authentication required.")
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "invalid_token", "Authentication required.")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Unauthorized(c, "invalid_token_claims", "Authentication required.")
			c.Abort()
			return
		}

		userID, ok1 := claims["sub"].(float64)
		practiceID, ok2 := claims["practiceId"].(float64)
		role, _ := claims["role"].(string)
		if !ok1 || !ok2 {
			httperr.Unauthorized(c, "invalid_token_payload", "Authentication required.")
			c.Abort()
			return
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextPracticeID, uint(practiceID))
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// devScope trusts the tenant headers. The actor is optional; without it
// the request acts as an owner with no audit user.
func devScope(c *gin.Context) bool {
	practiceID, err := strconv.ParseUint(c.GetHeader(HeaderPracticeID), 10, 64)
	if err != nil || practiceID == 0 {
		return false
	}
	c.Set(ContextPracticeID, uint(practiceID))
	c.Set(ContextUserRole, models.RoleOwner)

	if raw := c.GetHeader(HeaderUserID); raw != "" {
		if userID, err := strconv.ParseUint(raw, 10, 64); err == nil && userID > 0 {
			c.Set(ContextUserID, uint(userID))
		}
	}
	return true
}

// PracticeID is the tenant of an authenticated request.
func PracticeID(c *gin.Context) uint {
	return c.GetUint(ContextPracticeID)
}

// ActorID is the authenticated user, or nil for header-scoped dev requests.
func ActorID(c *gin.Context) *uint {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return nil
	}
	id := v.(uint)
	return &id
}

func Role(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}

// RequireWrite rejects mutations from read-only users.
func RequireWrite() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if Role(c) == models.RoleReadOnly {
			httperr.Forbidden(c, "read_only", "Your role cannot modify data.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole allows only the listed roles through.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "Your role cannot perform this action.")
		c.Abort()
	}
}

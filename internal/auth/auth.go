// Package auth resolves the request principal from an API token and checks
// tenant boundaries. Authorization is municipality membership: a user may
// touch data of their own municipality, superusers may touch any.
package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/koopstadt/impactcheck/internal/database/repository"
	"github.com/koopstadt/impactcheck/internal/entities"
)

const (
	// ContextKeyUser is the gin context key the middleware stores the
	// resolved principal under.
	ContextKeyUser = "auth_user"

	// TokenHeader carries the API token. An "Authorization: Bearer ..."
	// header is accepted as well.
	TokenHeader = "X-API-Token"
)

// UserResolver looks up a principal by API token.
type UserResolver interface {
	GetUserByToken(token string) (*entities.User, error)
}

// CheckAuthorized verifies that the user may act on data belonging to the
// given municipality. Superusers pass unconditionally.
func CheckAuthorized(user *entities.User, municipalityID uint) error {
	if user == nil {
		return &repository.AuthorizationError{Reason: "no authenticated user"}
	}
	if user.IsSuperuser {
		return nil
	}
	if user.MunicipalityID != municipalityID {
		return &repository.AuthorizationError{Reason: "user does not belong to this municipality"}
	}
	return nil
}

// TokenMiddleware resolves the principal from the request token and stores
// it in the context. Requests without a valid token are rejected.
func TokenMiddleware(resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API token"})
			return
		}

		user, err := resolver.GetUserByToken(token)
		if err != nil {
			log.Printf("Token lookup failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API token"})
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// CurrentUser returns the principal stored by TokenMiddleware, or nil when
// the request is unauthenticated.
func CurrentUser(c *gin.Context) *entities.User {
	v, ok := c.Get(ContextKeyUser)
	if !ok {
		return nil
	}
	user, ok := v.(*entities.User)
	if !ok {
		return nil
	}
	return user
}

func extractToken(c *gin.Context) string {
	if token := c.GetHeader(TokenHeader); token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

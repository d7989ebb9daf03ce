// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainerror "github.com/fleetops/backend/internal/domain/error"
	"github.com/fleetops/backend/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// ActorKey is the context key for the acting user's identity.
	ActorKey ContextKey = "acting_user"

	// ActorHeader is the request header carrying the acting user's identity.
	// Identity is an opaque display name; there is no authentication layer in
	// front of it.
	ActorHeader = "X-Acting-User"
)

// Identity returns a Gin middleware that extracts the acting user from the
// request header into the request context. The header is optional here;
// RequireActor enforces it on mutating routes.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := strings.TrimSpace(c.GetHeader(ActorHeader)); actor != "" {
			c.Set(string(ActorKey), actor)
		}
		c.Next()
	}
}

// RequireActor returns a Gin middleware that rejects requests without an
// acting user identity. Mutations are attributed to a person in the audit
// trail, so anonymous writes are refused outright.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetActorFromContext(c); !ok {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: ActorHeader + " header is required",
				Code:  string(domainerror.ErrCodeMissingActor),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetActorFromContext extracts the acting user from the Gin context.
func GetActorFromContext(c *gin.Context) (string, bool) {
	actor, exists := c.Get(string(ActorKey))
	if !exists {
		return "", false
	}
	actorStr, ok := actor.(string)
	return actorStr, ok && actorStr != ""
}

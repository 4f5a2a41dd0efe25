package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/internal/service"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
	"github.com/edubridge/edubridge-api/pkg/response"
)

// ContextIdentityKey is the gin context key storing the resolved identity.
const ContextIdentityKey = "currentIdentity"

// ContextClaimsKey is the gin context key storing the raw session claims.
const ContextClaimsKey = "sessionClaims"

// Session protects routes by requiring a valid session token and re-resolving
// it against the current snapshot, so a deleted teacher or student loses
// access on their next request.
func Session(authService *service.AuthService, schoolService *service.SchoolService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		identity, err := schoolService.ResolveIdentity(claims)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// RequireRoles restricts a route to the listed roles. Finer-grained checks
// (class scope, self scope, subject assignment) live in the policy consulted
// by the services.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		value, exists := c.Get(ContextIdentityKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		identity := value.(models.Identity)
		if _, ok := allowed[identity.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

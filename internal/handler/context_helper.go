package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/edubridge/edubridge-api/internal/middleware"
	"github.com/edubridge/edubridge-api/internal/models"
)

func identityFromContext(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(middleware.ContextIdentityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}

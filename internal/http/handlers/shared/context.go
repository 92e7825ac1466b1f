package shared

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Actor reads the acting identity set by the actor middleware, falling back
// to the given default.
func Actor(c *gin.Context, fallback string) string {
	if value, ok := c.Get("actor"); ok {
		if actor, ok := value.(string); ok && strings.TrimSpace(actor) != "" {
			return actor
		}
	}
	return fallback
}

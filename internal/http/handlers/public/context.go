package public

import (
	handlershared "github.com/Asadullah378/OmniValio-Junction2025/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func actor(c *gin.Context) string {
	return handlershared.Actor(c, "customer")
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

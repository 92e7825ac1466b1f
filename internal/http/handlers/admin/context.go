package admin

import (
	"fmt"
	"strings"
	"time"

	handlershared "github.com/Asadullah378/OmniValio-Junction2025/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func actor(c *gin.Context) string {
	return handlershared.Actor(c, "admin")
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// parseTimeNullable accepts an RFC 3339 timestamp or a plain date, returning
// nil for the empty string.
func parseTimeNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid time value: %s", raw)
}

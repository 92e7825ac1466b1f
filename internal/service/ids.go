package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// newBusinessNo returns a human-readable business number such as ORD-3FA29C1B.
func newBusinessNo(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(raw[:8]))
}

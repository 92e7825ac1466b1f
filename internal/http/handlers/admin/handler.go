package admin

import "github.com/Asadullah378/OmniValio-Junction2025/internal/provider"

// Handler serves the back-office API surface.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

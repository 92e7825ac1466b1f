package public

import "github.com/Asadullah378/OmniValio-Junction2025/internal/provider"

// Handler serves the customer-facing API surface.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

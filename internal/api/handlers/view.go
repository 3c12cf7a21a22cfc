package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/toonhive/toonhive/internal/controllers"
)

// ViewHandler serves view registration.
type ViewHandler struct {
	views  *controllers.ViewController
	logger zerolog.Logger
}

// NewViewHandler creates a new view handler.
func NewViewHandler(views *controllers.ViewController, logger zerolog.Logger) *ViewHandler {
	return &ViewHandler{views: views, logger: logger}
}

// clientFingerprint derives the dedup fingerprint from the request origin:
// the first forwarded hop when present, otherwise the direct peer address.
// First non-empty wins; the values are never combined.
func clientFingerprint(c *fiber.Ctx) string {
	forwarded := c.Get(fiber.HeaderXForwardedFor)
	if forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return c.IP()
}

type viewResult struct {
	Counted bool `json:"counted"`
}

// Register handles POST /api/titles/:id/views.
func (h *ViewHandler) Register(c *fiber.Ctx) error {
	titleID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	counted, err := h.views.RegisterView(titleID, clientFingerprint(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, viewResult{Counted: counted})
}

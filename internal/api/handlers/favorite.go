package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/toonhive/toonhive/internal/api/middleware"
	"github.com/toonhive/toonhive/internal/controllers"
)

// FavoriteHandler serves the follow/unfollow operations.
type FavoriteHandler struct {
	favorites *controllers.FavoriteController
	logger    zerolog.Logger
}

// NewFavoriteHandler creates a new favorite handler.
func NewFavoriteHandler(favorites *controllers.FavoriteController, logger zerolog.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, logger: logger}
}

// Add handles POST /api/titles/:id/favorite.
func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	titleID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	identity := middleware.CurrentIdentity(c)
	favorite, err := h.favorites.AddFavorite(identity.UserID, titleID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, favorite)
}

// Remove handles DELETE /api/titles/:id/favorite.
func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	titleID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	identity := middleware.CurrentIdentity(c)
	if err := h.favorites.RemoveFavorite(identity.UserID, titleID); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, nil)
}

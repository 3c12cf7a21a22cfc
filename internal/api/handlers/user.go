package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/toonhive/toonhive/internal/api/middleware"
	"github.com/toonhive/toonhive/internal/controllers"
)

// UserHandler serves the current-user views and privileged user lookup.
type UserHandler struct {
	users     *controllers.UserController
	ratings   *controllers.RatingController
	comments  *controllers.CommentController
	favorites *controllers.FavoriteController
	logger    zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *controllers.UserController, ratings *controllers.RatingController, comments *controllers.CommentController, favorites *controllers.FavoriteController, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:     users,
		ratings:   ratings,
		comments:  comments,
		favorites: favorites,
		logger:    logger,
	}
}

// Me handles GET /api/me.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)
	info, err := h.users.GetByID(identity.UserID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, info)
}

// MyRatedEpisodes handles GET /api/me/ratings.
func (h *UserHandler) MyRatedEpisodes(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)
	page, err := h.ratings.ListRatedEpisodes(identity.UserID, pageQuery(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, page)
}

// MyComments handles GET /api/me/comments.
func (h *UserHandler) MyComments(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)
	page, err := h.comments.ListByUser(identity.UserID, pageQuery(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, page)
}

// MyFavorites handles GET /api/me/favorites.
func (h *UserHandler) MyFavorites(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)
	page, err := h.favorites.ListByUser(identity.UserID, pageQuery(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, page)
}

// GetByNickname handles GET /api/users/:nickname (privileged).
func (h *UserHandler) GetByNickname(c *fiber.Ctx) error {
	info, err := h.users.GetByNickname(c.Params("nickname"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, info)
}

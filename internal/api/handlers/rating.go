package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/toonhive/toonhive/internal/api/middleware"
	"github.com/toonhive/toonhive/internal/controllers"
	"github.com/toonhive/toonhive/internal/errs"
)

// RatingHandler serves the rating operations.
type RatingHandler struct {
	ratings *controllers.RatingController
	logger  zerolog.Logger
}

// NewRatingHandler creates a new rating handler.
func NewRatingHandler(ratings *controllers.RatingController, logger zerolog.Logger) *RatingHandler {
	return &RatingHandler{ratings: ratings, logger: logger}
}

type ratingRequest struct {
	Value int `json:"value" form:"value" validate:"required,min=1,max=5"`
}

func ratingValue(c *fiber.Ctx) (int, error) {
	var req ratingRequest
	if err := c.BodyParser(&req); err != nil {
		return 0, errs.Validation("malformed rating payload")
	}
	if err := validateStruct(req); err != nil {
		return 0, err
	}
	return req.Value, nil
}

// Add handles POST /api/episodes/:id/rating.
func (h *RatingHandler) Add(c *fiber.Ctx) error {
	episodeID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	value, err := ratingValue(c)
	if err != nil {
		return err
	}
	identity := middleware.CurrentIdentity(c)
	rating, err := h.ratings.AddRating(episodeID, identity.UserID, value)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, rating)
}

// Update handles PUT /api/episodes/:id/rating.
func (h *RatingHandler) Update(c *fiber.Ctx) error {
	episodeID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	value, err := ratingValue(c)
	if err != nil {
		return err
	}
	identity := middleware.CurrentIdentity(c)
	rating, err := h.ratings.UpdateRating(episodeID, identity.UserID, value)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, rating)
}

// Delete handles DELETE /api/episodes/:id/rating.
func (h *RatingHandler) Delete(c *fiber.Ctx) error {
	episodeID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	identity := middleware.CurrentIdentity(c)
	if err := h.ratings.DeleteRating(episodeID, identity.UserID); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, nil)
}

// averagePayload renders an average; a catalog entry with no ratings yet
// reports null, never zero.
type averagePayload struct {
	Average *float64 `json:"average"`
	Rated   bool     `json:"rated"`
}

func averageResponse(avg float64, ok bool) averagePayload {
	if !ok {
		return averagePayload{}
	}
	return averagePayload{Average: &avg, Rated: true}
}

// EpisodeAverage handles GET /api/episodes/:id/rating/average.
func (h *RatingHandler) EpisodeAverage(c *fiber.Ctx) error {
	episodeID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	avg, ok, err := h.ratings.AverageForEpisode(episodeID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, averageResponse(avg, ok))
}

// TitleAverage handles GET /api/titles/:id/rating/average.
func (h *RatingHandler) TitleAverage(c *fiber.Ctx) error {
	titleID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	avg, ok, err := h.ratings.AverageForTitle(titleID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, averageResponse(avg, ok))
}

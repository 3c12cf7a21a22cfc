package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/toonhive/toonhive/internal/controllers"
)

// EpisodeHandler serves the episode operations.
type EpisodeHandler struct {
	episodes *controllers.EpisodeController
	logger   zerolog.Logger
}

// NewEpisodeHandler creates a new episode handler.
func NewEpisodeHandler(episodes *controllers.EpisodeController, logger zerolog.Logger) *EpisodeHandler {
	return &EpisodeHandler{episodes: episodes, logger: logger}
}

type episodeForm struct {
	Name string `validate:"required,max=200"`
}

func episodeInput(c *fiber.Ctx) (controllers.EpisodeInput, error) {
	form := episodeForm{Name: c.FormValue("name")}
	if err := validateStruct(form); err != nil {
		return controllers.EpisodeInput{}, err
	}
	media, err := readUpload(c, "media")
	if err != nil {
		return controllers.EpisodeInput{}, err
	}
	thumbnail, err := readUpload(c, "thumbnail")
	if err != nil {
		return controllers.EpisodeInput{}, err
	}
	return controllers.EpisodeInput{Name: form.Name, Media: media, Thumbnail: thumbnail}, nil
}

// Create handles POST /api/titles/:id/episodes.
func (h *EpisodeHandler) Create(c *fiber.Ctx) error {
	titleID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	input, err := episodeInput(c)
	if err != nil {
		return err
	}
	episode, err := h.episodes.CreateEpisode(titleID, input)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, episode)
}

// Update handles PUT /api/episodes/:id.
func (h *EpisodeHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	input, err := episodeInput(c)
	if err != nil {
		return err
	}
	episode, err := h.episodes.UpdateEpisode(id, input)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, episode)
}

// Delete handles DELETE /api/episodes/:id.
func (h *EpisodeHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.episodes.DeleteEpisode(id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, nil)
}

// ListByTitle handles GET /api/titles/:id/episodes.
func (h *EpisodeHandler) ListByTitle(c *fiber.Ctx) error {
	titleID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	page, err := h.episodes.ListByTitle(titleID, pageQuery(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, page)
}

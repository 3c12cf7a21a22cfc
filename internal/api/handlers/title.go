package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/toonhive/toonhive/internal/controllers"
	"github.com/toonhive/toonhive/internal/models"
)

// TitleHandler serves the title operations.
type TitleHandler struct {
	catalog *controllers.CatalogController
	logger  zerolog.Logger
}

// NewTitleHandler creates a new title handler.
func NewTitleHandler(catalog *controllers.CatalogController, logger zerolog.Logger) *TitleHandler {
	return &TitleHandler{catalog: catalog, logger: logger}
}

type titleForm struct {
	Name    string `validate:"required,max=200"`
	Creator string `validate:"required,max=100"`
	Day     string `validate:"required,oneof=MON TUE WED THU FRI SAT SUN"`
	Genre   string `validate:"max=100"`
}

func (h *TitleHandler) titleInput(c *fiber.Ctx) (controllers.TitleInput, error) {
	form := titleForm{
		Name:    c.FormValue("name"),
		Creator: c.FormValue("creator"),
		Day:     c.FormValue("day"),
		Genre:   c.FormValue("genre"),
	}
	if err := validateStruct(form); err != nil {
		return controllers.TitleInput{}, err
	}
	thumbnail, err := readUpload(c, "thumbnail")
	if err != nil {
		return controllers.TitleInput{}, err
	}
	return controllers.TitleInput{
		Name:      form.Name,
		Creator:   form.Creator,
		Day:       models.Day(form.Day),
		Genre:     form.Genre,
		Thumbnail: thumbnail,
	}, nil
}

// Create handles POST /api/titles.
func (h *TitleHandler) Create(c *fiber.Ctx) error {
	input, err := h.titleInput(c)
	if err != nil {
		return err
	}
	title, err := h.catalog.CreateTitle(c.UserContext(), input)
	if title == nil {
		return err
	}
	return respondMaybePending(c, fiber.StatusCreated, title, err)
}

// Update handles PUT /api/titles/:id.
func (h *TitleHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	input, err := h.titleInput(c)
	if err != nil {
		return err
	}
	title, err := h.catalog.UpdateTitle(c.UserContext(), id, input)
	if title == nil {
		return err
	}
	return respondMaybePending(c, fiber.StatusOK, title, err)
}

// Delete handles DELETE /api/titles/:id.
func (h *TitleHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteTitle(c.UserContext(), id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, nil)
}

// Get handles GET /api/titles/:id.
func (h *TitleHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	title, err := h.catalog.GetTitle(id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, title)
}

// ListByDay handles GET /api/titles/day/:day.
func (h *TitleHandler) ListByDay(c *fiber.Ctx) error {
	day := models.Day(c.Params("day"))
	sort := models.SortMode(c.Query("sort", string(models.SortNewest)))

	page, err := h.catalog.ListByDay(day, sort, pageQuery(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, page)
}

// Search handles GET /api/titles/search.
func (h *TitleHandler) Search(c *fiber.Ctx) error {
	result, err := h.catalog.SearchTitles(c.UserContext(), c.Query("keyword"), pageQuery(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, result)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/toonhive/toonhive/internal/api/middleware"
	"github.com/toonhive/toonhive/internal/controllers"
	"github.com/toonhive/toonhive/internal/errs"
)

// CommentHandler serves the comment operations.
type CommentHandler struct {
	comments *controllers.CommentController
	logger   zerolog.Logger
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(comments *controllers.CommentController, logger zerolog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

type commentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

func commentBody(c *fiber.Ctx) (string, error) {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return "", errs.Validation("malformed comment payload")
	}
	if err := validateStruct(req); err != nil {
		return "", err
	}
	return req.Body, nil
}

// Create handles POST /api/episodes/:id/comments.
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	episodeID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	body, err := commentBody(c)
	if err != nil {
		return err
	}
	identity := middleware.CurrentIdentity(c)
	comment, err := h.comments.CreateComment(episodeID, identity.UserID, body)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, comment)
}

// Update handles PUT /api/comments/:id.
func (h *CommentHandler) Update(c *fiber.Ctx) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	body, err := commentBody(c)
	if err != nil {
		return err
	}
	identity := middleware.CurrentIdentity(c)
	comment, err := h.comments.UpdateComment(commentID, identity.UserID, body)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, comment)
}

// Delete handles DELETE /api/comments/:id, the self-service path.
func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	identity := middleware.CurrentIdentity(c)
	if err := h.comments.DeleteComment(commentID, identity.UserID); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, nil)
}

// DeletePrivileged handles DELETE /api/admin/comments/:id.
func (h *CommentHandler) DeletePrivileged(c *fiber.Ctx) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.comments.DeleteCommentPrivileged(commentID); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, nil)
}

// ListByEpisode handles GET /api/episodes/:id/comments.
func (h *CommentHandler) ListByEpisode(c *fiber.Ctx) error {
	episodeID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	page, err := h.comments.ListByEpisode(episodeID, pageQuery(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, page)
}

package handlers

import (
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/toonhive/toonhive/internal/controllers"
	"github.com/toonhive/toonhive/internal/errs"
)

var validate = validator.New()

// Response is the envelope every operation answers with. The application
// error code is independent of the transport status code.
type Response struct {
	Status  string        `json:"status"`
	Data    any           `json:"data,omitempty"`
	Warning string        `json:"warning,omitempty"`
	Error   *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload carries the application error code and message.
type ErrorPayload struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Response{Status: "ok", Data: data})
}

// respondMaybePending renders a successful write whose index upsert may
// still be pending. The authoritative mutation succeeded either way.
func respondMaybePending(c *fiber.Ctx, status int, data any, err error) error {
	if err == nil {
		return respond(c, status, data)
	}
	if errs.IsCode(err, errs.CodeIndexPending) {
		return c.Status(status).JSON(Response{
			Status:  "ok",
			Data:    data,
			Warning: "catalog updated, index pending",
		})
	}
	return err
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return errs.Validation(err.Error())
	}
	return nil
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, errs.Validation(fmt.Sprintf("invalid %s", name))
	}
	return uint(id), nil
}

func pageQuery(c *fiber.Ctx) int {
	page := c.QueryInt("page", 0)
	if page < 0 {
		page = 0
	}
	return page
}

// readUpload reads an optional multipart file field into an upload for the
// blob store. A missing field is not an error.
func readUpload(c *fiber.Ctx, field string) (*controllers.Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, errs.Validation(fmt.Sprintf("unreadable %s file", field))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errs.Validation(fmt.Sprintf("unreadable %s file", field))
	}
	return &controllers.Upload{Data: data, Name: header.Filename}, nil
}

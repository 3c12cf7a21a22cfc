package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Tracing opens one span per request and records the route and status.
func Tracing() fiber.Handler {
	tracer := otel.Tracer("toonhive/http")
	return func(c *fiber.Ctx) error {
		ctx, span := tracer.Start(c.UserContext(), c.Method()+" "+c.Path())
		defer span.End()
		c.SetUserContext(ctx)

		err := c.Next()

		span.SetAttributes(
			attribute.String("http.method", c.Method()),
			attribute.String("http.target", c.Path()),
			attribute.Int("http.status_code", c.Response().StatusCode()),
		)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	}
}

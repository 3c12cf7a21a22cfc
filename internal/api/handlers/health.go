package handlers

import "github.com/gofiber/fiber/v2"

// Health answers liveness probes.
func Health(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, fiber.Map{"healthy": true})
}

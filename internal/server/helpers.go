package server

import (
	"fmt"
	"strconv"

	"schoolhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseID extracts and validates a numeric ID from the URL parameters. When
// the value is missing or not a positive integer it writes a 400 response and
// returns ok=false; the handler should return nil in that case.
func parseID(c *fiber.Ctx, param string) (uint, bool) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(fmt.Sprintf("invalid %s parameter", param)))
		return 0, false
	}
	return uint(id), true
}

// statusForCode maps application error codes onto HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeUniqueViolation, models.CodeConflict:
		return fiber.StatusConflict
	case models.CodePermissionDenied:
		return fiber.StatusForbidden
	case models.CodeValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// handleServiceError writes the error response that matches the service
// error's code.
func handleServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForCode(models.CodeOf(err)), err)
}

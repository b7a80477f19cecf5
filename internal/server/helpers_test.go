package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"schoolhub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{models.CodeNotFound, http.StatusNotFound},
		{models.CodeUniqueViolation, http.StatusConflict},
		{models.CodeConflict, http.StatusConflict},
		{models.CodePermissionDenied, http.StatusForbidden},
		{models.CodeValidation, http.StatusBadRequest},
		{models.CodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, statusForCode(tt.code), "code %q", tt.code)
	}
}

func TestParseID(t *testing.T) {
	app := fiber.New()
	app.Get("/things/:id", func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		name           string
		param          string
		expectedStatus int
	}{
		{"numeric id", "42", http.StatusOK},
		{"non-numeric id", "abc", http.StatusBadRequest},
		{"zero id", "0", http.StatusBadRequest},
		{"negative id", "-1", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/things/"+tt.param, nil)
			resp, err := app.Test(req)
			assert.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

package server

import (
	"log"
	"strings"

	"dilse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SuggestTag handles POST /api/suggest-tag
// @Summary Suggest an emotion tag
// @Description Ask the AI model to pick the best emotion tag for a draft
// @Tags posts
// @Accept json
// @Produce json
// @Param request body object{content=string} true "Draft content"
// @Success 200 {object} object{tag=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /suggest-tag [post]
func (s *Server) SuggestTag(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Content is required"))
	}

	if s.suggester == nil || !s.featureFlags.Enabled("suggest_tag", currentUserID(c)) {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			&models.AppError{
				Code:    "AI_UNAVAILABLE",
				Message: "Server is not configured with an AI API key.",
			})
	}

	tag, err := s.suggester.SuggestTag(c.Context(), content)
	if err != nil {
		log.Printf("tag suggestion failed: %v", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			&models.AppError{
				Code:    "AI_ERROR",
				Message: "Failed to suggest a tag.",
			})
	}

	return c.JSON(fiber.Map{"tag": tag})
}

package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"dilse/internal/featureflags"
	"dilse/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

// suggesterStub lets tests script the AI response.
type suggesterStub struct {
	tag models.EmotionTagID
	err error
}

func (s *suggesterStub) SuggestTag(_ context.Context, _ string) (models.EmotionTagID, error) {
	return s.tag, s.err
}

func newSuggestTestApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Post("/suggest-tag", func(c *fiber.Ctx) error {
		c.Locals("userID", "11111111-1111-1111-1111-111111111111")
		return c.Next()
	}, s.SuggestTag)
	return app
}

func TestSuggestTag(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s := newTestServer(nil)
		s.SetSuggester(&suggesterStub{tag: models.TagHeartbreak})
		app := newSuggestTestApp(s)

		resp := postJSON(t, app, "/suggest-tag", map[string]string{"content": "she left and took the dog"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "heartbreak", decodeBody(t, resp)["tag"])
	})

	t.Run("Empty Content", func(t *testing.T) {
		s := newTestServer(nil)
		s.SetSuggester(&suggesterStub{tag: models.TagHope})
		app := newSuggestTestApp(s)

		resp := postJSON(t, app, "/suggest-tag", map[string]string{"content": "   "})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unconfigured", func(t *testing.T) {
		s := newTestServer(nil)
		app := newSuggestTestApp(s)

		resp := postJSON(t, app, "/suggest-tag", map[string]string{"content": "some draft"})
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "Server is not configured with an AI API key.", decodeBody(t, resp)["message"])
	})

	t.Run("Flag Disabled", func(t *testing.T) {
		s := newTestServer(nil)
		s.SetSuggester(&suggesterStub{tag: models.TagHope})
		s.featureFlags = featureflags.NewManager("suggest_tag=off")
		app := newSuggestTestApp(s)

		resp := postJSON(t, app, "/suggest-tag", map[string]string{"content": "some draft"})
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("Model Failure", func(t *testing.T) {
		s := newTestServer(nil)
		s.SetSuggester(&suggesterStub{err: errors.New("quota exceeded")})
		app := newSuggestTestApp(s)

		resp := postJSON(t, app, "/suggest-tag", map[string]string{"content": "some draft"})
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "Failed to suggest a tag.", decodeBody(t, resp)["message"])
	})
}

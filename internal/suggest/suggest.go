// Package suggest picks an emotion tag for a draft confession using an AI
// model.
package suggest

import (
	"context"

	"dilse/internal/models"
)

// Suggester proposes an emotion tag for the given draft content.
type Suggester interface {
	SuggestTag(ctx context.Context, content string) (models.EmotionTagID, error)
}

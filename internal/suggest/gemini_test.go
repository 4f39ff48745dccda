package suggest

import (
	"testing"

	"dilse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTagResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    models.EmotionTagID
		wantErr bool
	}{
		{"JSON String", `"heartbreak"`, models.TagHeartbreak, false},
		{"Bare Text", "unsent-love", models.TagUnsentLove, false},
		{"Fenced JSON", "```json\n\"hope\"\n```", models.TagHope, false},
		{"Surrounding Whitespace", "  \"dreams\"  ", models.TagDreams, false},
		{"Unknown Tag", `"rage"`, "", true},
		{"Empty", "", "", true},
		{"Garbage", "{\"tag\": \"hope\"}", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTagResponse(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewGeminiSuggesterRequiresKey(t *testing.T) {
	_, err := NewGeminiSuggester(t.Context(), "")
	assert.Error(t, err)
}

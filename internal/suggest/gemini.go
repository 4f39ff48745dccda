package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dilse/internal/models"

	"google.golang.org/genai"
)

const suggestModel = "gemini-2.5-flash"

// GeminiSuggester classifies draft confessions into one of the known emotion
// tags using the Gemini API.
type GeminiSuggester struct {
	client *genai.Client
}

// NewGeminiSuggester creates a suggester backed by the Gemini API.
func NewGeminiSuggester(ctx context.Context, apiKey string) (*GeminiSuggester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiSuggester{client: client}, nil
}

var _ Suggester = (*GeminiSuggester)(nil)

func (g *GeminiSuggester) SuggestTag(ctx context.Context, content string) (models.EmotionTagID, error) {
	ids := models.TagIDs()
	enum := make([]string, len(ids))
	for i, id := range ids {
		enum[i] = string(id)
	}

	prompt := fmt.Sprintf(
		"Analyze the following anonymous confession and choose the single emotion tag that fits it best. Respond with the tag id only.\n\nConfession:\n%s",
		content,
	)

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeString,
			Enum: enum,
		},
	}

	result, err := g.client.Models.GenerateContent(ctx, suggestModel, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 ||
		result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	return ParseTagResponse(result.Candidates[0].Content.Parts[0].Text)
}

// ParseTagResponse extracts a valid emotion tag from a model response. The
// model is asked for a JSON string, but responses occasionally arrive fenced
// or as bare text, so both forms are accepted.
func ParseTagResponse(raw string) (models.EmotionTagID, error) {
	cleaned := cleanJSON(raw)

	var decoded string
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		decoded = strings.Trim(cleaned, `"`)
	}

	tag := models.EmotionTagID(strings.TrimSpace(decoded))
	if !models.ValidTag(tag) {
		return "", fmt.Errorf("model returned unknown tag %q", decoded)
	}
	return tag, nil
}

func cleanJSON(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}

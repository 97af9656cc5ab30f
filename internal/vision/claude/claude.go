// Package claude adapts the Anthropic Messages API as a vision.Analyzer.
package claude

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/mfujita/mapnotes/internal/vision"
)

type Analyzer struct {
	client *anthropic.Client
	model  anthropic.Model
}

// New builds an Analyzer for the given API key and model. Extra options are
// passed through to the underlying client (tests inject a base URL).
func New(apiKey, model string, opts ...anthropic.ClientOption) *Analyzer {
	return &Analyzer{
		client: anthropic.NewClient(apiKey, opts...),
		model:  anthropic.Model(model),
	}
}

func (a *Analyzer) Suggest(ctx context.Context, image []byte, mimeType string) ([]vision.Suggestion, error) {
	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: a.model,
		// A course map yields a few dozen suggestion lines at most.
		MaxTokens: 1024,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
						anthropic.MessagesContentSourceTypeBase64,
						normaliseMIME(mimeType),
						image,
					)),
					anthropic.NewTextMessageContent(vision.SuggestPrompt),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call claude: %w", err)
	}
	return vision.ParseResponse(resp.GetFirstContentText()), nil
}

// normaliseMIME maps browser MIME types to the values the Anthropic API
// accepts (jpeg, png, gif, webp). Unknown types are coerced to jpeg.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}

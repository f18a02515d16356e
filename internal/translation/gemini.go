package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SulimanHakimi/volvera-sub000/models"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var languageNames = map[string]string{
	"en": "English",
	"fa": "Dari (Persian)",
	"ps": "Pashto",
}

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiProvider переводит через Gemini, ответ запрашивается в виде JSON.
type GeminiProvider struct {
	client *genai.Client
	model  generator
}

// NewGeminiProvider создаёт клиента Gemini. Close освобождает соединение.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gemini client: %v", err)
	}
	m := client.GenerativeModel(model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0)
	slog.Info("Gemini API client initialized successfully.", "model", model)

	return &GeminiProvider{client: client, model: m}, nil
}

func (g *GeminiProvider) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiProvider) Translate(ctx context.Context, data models.ContractData, from, to string) (models.ContractData, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return data, err
	}
	prompt := fmt.Sprintf(
		"Translate the string values of this JSON object from %s to %s. "+
			"Keep the keys, e-mail addresses, phone numbers and links unchanged. "+
			"Reply with the JSON object only.\n%s",
		languageName(from), languageName(to), payload)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return data, fmt.Errorf("gemini translation error: %w", err)
	}

	var text strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	raw := strings.TrimSpace(text.String())
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "```"), "```")
	if raw == "" {
		return data, fmt.Errorf("gemini returned an empty translation")
	}

	var out models.ContractData
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return data, fmt.Errorf("gemini returned invalid JSON: %w", err)
	}
	// контакты и ссылки не переводятся
	out.Email = data.Email
	out.Phone = data.Phone
	if len(out.Platforms) == len(data.Platforms) {
		for i := range out.Platforms {
			out.Platforms[i].Link = data.Platforms[i].Link
		}
	} else {
		out.Platforms = data.Platforms
	}
	return out, nil
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

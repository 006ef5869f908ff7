package out

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"taskquest/internal/modules/narrative/domain"
	narrativeout "taskquest/internal/modules/narrative/port/out"
)

// LLMNarrator talks to any OpenAI-compatible chat endpoint. The default
// configuration points it at Gemini's compatibility layer.
type LLMNarrator struct {
	model llms.Model
}

type LLMConfig struct {
	BaseURL string
	Model   string
	APIKey  string
}

func NewLLMNarrator(cfg LLMConfig) (narrativeout.Narrator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("narrator api key is not configured")
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}
	return NewModelNarrator(llm), nil
}

// NewModelNarrator wraps an already constructed model.
func NewModelNarrator(model llms.Model) narrativeout.Narrator {
	return &LLMNarrator{model: model}
}

func (n *LLMNarrator) Name() string { return "llm" }

func (n *LLMNarrator) CreatePersona(ctx context.Context) (domain.PersonaPayload, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, n.model, domain.PersonaPrompt, llms.WithTemperature(1.0))
	if err != nil {
		return domain.PersonaPayload{}, fmt.Errorf("generate persona: %w", err)
	}
	var payload domain.PersonaPayload
	if err := decodeObject(text, &payload); err != nil {
		return domain.PersonaPayload{}, err
	}
	return payload, nil
}

func (n *LLMNarrator) CreateTaskNarrative(ctx context.Context, req domain.NarrativeRequest) (domain.NarrativePayload, error) {
	prompt := domain.QuestPrompt(req.Description, req.Persona)
	text, err := llms.GenerateFromSinglePrompt(ctx, n.model, prompt, llms.WithTemperature(0.9))
	if err != nil {
		return domain.NarrativePayload{}, fmt.Errorf("generate narrative: %w", err)
	}
	var payload domain.NarrativePayload
	if err := decodeObject(text, &payload); err != nil {
		return domain.NarrativePayload{}, err
	}
	return payload, nil
}

// decodeObject accepts a bare JSON object or one wrapped in a markdown fence.
func decodeObject(text string, v any) error {
	body := strings.TrimSpace(text)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
		body = strings.TrimSpace(body)
	}
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode narrator response: %w", err)
	}
	return nil
}

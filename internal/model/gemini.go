package model

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/hpungsan/nudge/internal/habit"
	"github.com/hpungsan/nudge/internal/intent"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig holds Gemini client settings.
// BaseURL is only used to point the client at a test server.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Gemini classifies text with the Google GenAI API using a response schema.
type Gemini struct {
	client     *genai.Client
	httpClient *http.Client
	model      string
}

// NewGemini creates a Gemini classifier.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{client: client, httpClient: httpClient, model: cfg.Model}, nil
}

// Classify makes one GenerateContent call constrained to the intent schema.
func (g *Gemini) Classify(ctx context.Context, text string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(intent.Instruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    intentSchema(),
		Temperature:       genai.Ptr[float32](0),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	out := resp.Text()
	if out == "" {
		return "", fmt.Errorf("empty response")
	}
	return out, nil
}

// Close releases idle connections.
func (g *Gemini) Close() {
	g.httpClient.CloseIdleConnections()
}

// intentSchema describes the JSON object the interpreter accepts.
func intentSchema() *genai.Schema {
	actions := make([]string, len(intent.Actions))
	for i, a := range intent.Actions {
		actions[i] = string(a)
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"action": {
				Type: genai.TypeString,
				Enum: actions,
			},
			"habit_name": {
				Type:     genai.TypeString,
				Nullable: genai.Ptr(true),
			},
			"frequency_type": {
				Type:     genai.TypeString,
				Enum:     []string{habit.FrequencyDaily, habit.FrequencyWeekly, habit.FrequencyTimesPerDay},
				Nullable: genai.Ptr(true),
			},
			"frequency_times": {
				Type:     genai.TypeInteger,
				Nullable: genai.Ptr(true),
			},
		},
		Required:         []string{"action"},
		PropertyOrdering: []string{"action", "habit_name", "frequency_type", "frequency_times"},
	}
}

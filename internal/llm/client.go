package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	defaultOpenAIModel = "gpt-4o"
	defaultGrokModel   = "grok-2-latest"
	defaultGrokBaseURL = "https://api.x.ai/v1"

	// jsonSystemPrompt is sent with chat-completion requests.
	jsonSystemPrompt = "You return only raw JSON arrays. No markdown, no explanation."
	temperature      = 0.3
)

// trendListSchema constrains Gemini's structured output to the trend array shape.
var trendListSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":        {Type: genai.TypeString},
			"searchVolume": {Type: genai.TypeString},
			"category":     {Type: genai.TypeString},
		},
		Required: []string{"title"},
	},
}

// Client is a Completer backed by the vendor SDKs.
// Gemini uses its structured-output call; OpenAI and Grok share the
// chat-completions shape with a JSON-object response format.
type Client struct {
	geminiModel   string
	geminiBaseURL string
	openAIModel   string
	openAIBaseURL string
	grokModel     string
	grokBaseURL   string
}

// Config holds configuration for the client.
type Config struct {
	GeminiModel   string
	GeminiBaseURL string // Optional, for proxies and tests
	OpenAIModel   string
	OpenAIBaseURL string // Optional, for proxies and tests
	GrokModel     string
	GrokBaseURL   string
}

// New creates a new Client.
func New(cfg Config) *Client {
	c := &Client{
		geminiModel:   cfg.GeminiModel,
		geminiBaseURL: cfg.GeminiBaseURL,
		openAIModel:   cfg.OpenAIModel,
		openAIBaseURL: cfg.OpenAIBaseURL,
		grokModel:     cfg.GrokModel,
		grokBaseURL:   cfg.GrokBaseURL,
	}
	if c.geminiModel == "" {
		c.geminiModel = defaultGeminiModel
	}
	if c.openAIModel == "" {
		c.openAIModel = defaultOpenAIModel
	}
	if c.grokModel == "" {
		c.grokModel = defaultGrokModel
	}
	if c.grokBaseURL == "" {
		c.grokBaseURL = defaultGrokBaseURL
	}
	return c
}

// Complete sends prompt to the vendor named by cred.
func (c *Client) Complete(ctx context.Context, prompt string, cred Credential) (string, error) {
	if !cred.Valid() {
		return "", fmt.Errorf("incomplete credential")
	}

	slog.Debug("model completion starting", "provider", cred.Provider)

	switch cred.Provider {
	case ProviderGemini:
		return c.completeGemini(ctx, prompt, cred.APIKey)
	case ProviderOpenAI:
		return c.completeChat(ctx, prompt, cred.APIKey, c.openAIBaseURL, c.openAIModel)
	case ProviderGrok:
		return c.completeChat(ctx, prompt, cred.APIKey, c.grokBaseURL, c.grokModel)
	default:
		return "", fmt.Errorf("unsupported provider %q", cred.Provider)
	}
}

func (c *Client) completeGemini(ctx context.Context, prompt, apiKey string) (string, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.geminiBaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.geminiBaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, c.geminiModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   trendListSchema,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "[]", nil
	}
	return text, nil
}

func (c *Client) completeChat(ctx context.Context, prompt, apiKey, baseURL, model string) (string, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		// Relative endpoint paths resolve against the base, so keep its last segment.
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(jsonSystemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion (%s): %w", model, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", model)
	}

	return resp.Choices[0].Message.Content, nil
}

package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/sitebuilder-backend/internal/observability"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

const (
	defaultModel               = "gpt-5"
	defaultMaxCompletionTokens = 8192
	defaultTimeout             = 180 * time.Second
)

type Config struct {
	APIKey              string
	BaseURL             string
	Model               string
	MaxCompletionTokens int
	Timeout             time.Duration
}

// Client is the chat-completions surface the website generator needs.
type Client interface {
	// GenerateJSON sends a system+user prompt in JSON mode and decodes the reply into out.
	GenerateJSON(ctx context.Context, system string, user string, out any) error
	Model() string
}

type client struct {
	log       *logger.Logger
	api       *goopenai.Client
	model     string
	maxTokens int
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxCompletionTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxCompletionTokens
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	apiCfg := goopenai.DefaultConfig(apiKey)
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); baseURL != "" {
		apiCfg.BaseURL = baseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &client{
		log:       log.With("client", "OpenAI"),
		api:       goopenai.NewClientWithConfig(apiCfg),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (c *client) Model() string { return c.model }

func (c *client) GenerateJSON(ctx context.Context, system string, user string, out any) error {
	if out == nil {
		return errors.New("output target required")
	}
	start := time.Now()
	req := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxCompletionTokens: c.maxTokens,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		observability.Current().ObserveLLMRequest(c.model, statusFromErr(err), time.Since(start), 0, 0)
		c.log.Warn("OpenAI chat completion failed", "model", c.model, "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return fmt.Errorf("openai chat completion: %w", err)
	}
	observability.Current().ObserveLLMRequest(c.model, "200", time.Since(start), resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return errors.New("no choices in completion response")
	}
	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return fmt.Errorf("model refused: %s", choice.Message.Refusal)
	}
	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return errors.New("no content received from model")
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("failed to parse model JSON: %w", err)
	}
	return nil
}

func statusFromErr(err error) string {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return strconv.Itoa(apiErr.HTTPStatusCode)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return strconv.Itoa(reqErr.HTTPStatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "error"
}

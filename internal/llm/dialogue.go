package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/cognicore/reelmood/pkg/reelmood/internalerr"
	"github.com/cognicore/reelmood/pkg/reelmood/respond"
)

// Dialogue providers accepted by NewDialogue.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// DefaultSystemPrompt frames the dialogue model as a movie chat companion.
const DefaultSystemPrompt = "You are a friendly movie buff chatting casually with a user. " +
	"Keep replies short, conversational and about films."

// DialogueConfig holds the settings shared by the dialogue clients.
type DialogueConfig struct {
	Provider     string
	Endpoint     string // Base URL; empty selects the provider default
	Model        string
	APIKey       string
	SystemPrompt string
	MaxTokens    int
	HTTPClient   *http.Client
}

// NewDialogue creates the dialogue client for cfg.Provider.
func NewDialogue(cfg DialogueConfig, logger *zap.Logger) (respond.Dialogue, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("dialogue model is required: %w", internalerr.ErrInvalidConfig)
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 256
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		return NewOpenAIDialogue(cfg, logger), nil
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic api key is required: %w", internalerr.ErrInvalidConfig)
		}
		return NewAnthropicDialogue(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown dialogue provider %q: %w", cfg.Provider, internalerr.ErrInvalidConfig)
	}
}

// OpenAIDialogue generates replies from an OpenAI-compatible chat completion
// endpoint.
type OpenAIDialogue struct {
	client *openai.Client
	cfg    DialogueConfig
	logger *zap.Logger
}

// NewOpenAIDialogue creates an OpenAI-compatible dialogue client.
func NewOpenAIDialogue(cfg DialogueConfig, logger *zap.Logger) *OpenAIDialogue {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	}
	if cfg.HTTPClient != nil {
		clientConfig.HTTPClient = cfg.HTTPClient
	}
	return &OpenAIDialogue{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		logger: logger.Named("openai"),
	}
}

// Name implements respond.Dialogue.
func (d *OpenAIDialogue) Name() string { return ProviderOpenAI }

// Generate implements respond.Dialogue. Prior exchanges are replayed as
// alternating user and assistant messages.
func (d *OpenAIDialogue) Generate(ctx context.Context, prompt string, history []respond.Exchange) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2*len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: d.cfg.SystemPrompt})
	for _, ex := range history {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: ex.User},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: ex.Bot},
		)
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	start := time.Now()
	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     d.cfg.Model,
		Messages:  messages,
		MaxTokens: d.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}

	d.logger.Debug("Dialogue reply",
		zap.String("model", d.cfg.Model),
		zap.Int("history", len(history)),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}

// AnthropicDialogue generates replies with the Anthropic messages API.
type AnthropicDialogue struct {
	client *anthropic.Client
	cfg    DialogueConfig
	logger *zap.Logger
}

// NewAnthropicDialogue creates an Anthropic dialogue client.
func NewAnthropicDialogue(cfg DialogueConfig, logger *zap.Logger) *AnthropicDialogue {
	var opts []anthropic.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimSuffix(cfg.Endpoint, "/")))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, anthropic.WithHTTPClient(cfg.HTTPClient))
	}
	return &AnthropicDialogue{
		client: anthropic.NewClient(cfg.APIKey, opts...),
		cfg:    cfg,
		logger: logger.Named("anthropic"),
	}
}

// Name implements respond.Dialogue.
func (d *AnthropicDialogue) Name() string { return ProviderAnthropic }

// Generate implements respond.Dialogue.
func (d *AnthropicDialogue) Generate(ctx context.Context, prompt string, history []respond.Exchange) (string, error) {
	messages := make([]anthropic.Message, 0, 2*len(history)+1)
	for _, ex := range history {
		messages = append(messages, textMessage(anthropic.RoleUser, ex.User), textMessage(anthropic.RoleAssistant, ex.Bot))
	}
	messages = append(messages, textMessage(anthropic.RoleUser, prompt))

	start := time.Now()
	resp, err := d.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(d.cfg.Model),
		System:    d.cfg.SystemPrompt,
		MaxTokens: d.cfg.MaxTokens,
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	d.logger.Debug("Dialogue reply",
		zap.String("model", d.cfg.Model),
		zap.Int("history", len(history)),
		zap.Duration("elapsed", time.Since(start)))

	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return *block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic: no text in response")
}

func textMessage(role anthropic.ChatRole, text string) anthropic.Message {
	return anthropic.Message{
		Role:    role,
		Content: []anthropic.MessageContent{{Type: "text", Text: &text}},
	}
}

package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/cognicore/reelmood/pkg/reelmood/internalerr"
)

// Sentiment backends.
const (
	BackendLexicon    = "lexicon"
	BackendClassifier = "classifier"
)

// Chat modes.
const (
	ChatRules    = "rules"
	ChatDialogue = "dialogue"
)

// Config holds all configuration for reelmood.
// Values come from a YAML file and/or environment variables; environment
// variables override the file. Secrets are only read from the environment.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Sentiment SentimentConfig `yaml:"sentiment"`
	Chat      ChatConfig      `yaml:"chat"`
	Batch     BatchConfig     `yaml:"batch"`

	// KnowledgeBasePath optionally replaces the built-in movie tables.
	KnowledgeBasePath string `yaml:"knowledge_base" env:"REELMOOD_KNOWLEDGE_BASE" env-default:""`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" env:"REELMOOD_LOG_LEVEL" env-default:"info"`
	Development bool   `yaml:"development" env:"REELMOOD_LOG_DEVELOPMENT" env-default:"false"`
}

// SentimentConfig selects and configures the sentiment backend.
type SentimentConfig struct {
	Disabled    bool   `yaml:"disabled" env:"REELMOOD_SENTIMENT_DISABLED" env-default:"false"`
	Backend     string `yaml:"backend" env:"REELMOOD_SENTIMENT_BACKEND" env-default:"lexicon"`
	MaxLength   int    `yaml:"max_length" env:"REELMOOD_SENTIMENT_MAX_LENGTH" env-default:"512"`
	LexiconPath string `yaml:"lexicon" env:"REELMOOD_LEXICON" env-default:""`

	// Hosted classifier endpoint (Hugging Face inference format).
	ClassifierURL  string `yaml:"classifier_url" env:"REELMOOD_CLASSIFIER_URL" env-default:""`
	ClassifierKey  string `yaml:"-" env:"REELMOOD_CLASSIFIER_API_KEY"` // Secret - not in YAML
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"REELMOOD_CLASSIFIER_TIMEOUT" env-default:"15"`
}

// ChatConfig configures reply generation.
type ChatConfig struct {
	Mode string `yaml:"mode" env:"REELMOOD_CHAT_MODE" env-default:"rules"`
	// AnnotateSentiment attaches the sentiment of each user message to its chat turn.
	AnnotateSentiment bool           `yaml:"annotate_sentiment" env:"REELMOOD_CHAT_ANNOTATE" env-default:"false"`
	Dialogue          DialogueConfig `yaml:"dialogue"`
}

// DialogueConfig configures the generative dialogue backend.
type DialogueConfig struct {
	Provider     string `yaml:"provider" env:"REELMOOD_DIALOGUE_PROVIDER" env-default:"openai"`
	Endpoint     string `yaml:"endpoint" env:"REELMOOD_DIALOGUE_ENDPOINT" env-default:""`
	Model        string `yaml:"model" env:"REELMOOD_DIALOGUE_MODEL" env-default:""`
	APIKey       string `yaml:"-" env:"REELMOOD_DIALOGUE_API_KEY"` // Secret - not in YAML
	SystemPrompt string `yaml:"system_prompt" env:"REELMOOD_DIALOGUE_SYSTEM_PROMPT" env-default:""`
	MaxTokens    int    `yaml:"max_tokens" env:"REELMOOD_DIALOGUE_MAX_TOKENS" env-default:"256"`
	HistoryLimit int    `yaml:"history_limit" env:"REELMOOD_DIALOGUE_HISTORY" env-default:"5"`
}

// BatchConfig configures CSV batch scoring.
type BatchConfig struct {
	Column    string `yaml:"column" env:"REELMOOD_BATCH_COLUMN" env-default:"text"`
	ChunkSize int    `yaml:"chunk_size" env:"REELMOOD_BATCH_CHUNK_SIZE" env-default:"100"`
	InboxDir  string `yaml:"inbox" env:"REELMOOD_BATCH_INBOX" env-default:""`
}

// Default returns the configuration used when neither a file nor the
// environment sets anything.
func Default() *Config {
	return &Config{
		Log:       LogConfig{Level: "info"},
		Sentiment: SentimentConfig{Backend: BackendLexicon, MaxLength: 512, TimeoutSeconds: 15},
		Chat: ChatConfig{
			Mode:     ChatRules,
			Dialogue: DialogueConfig{Provider: "openai", MaxTokens: 256, HistoryLimit: 5},
		},
		Batch: BatchConfig{Column: "text", ChunkSize: 100},
	}
}

// Load reads configuration from path with environment variable overrides.
// An empty path reads the environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values and numeric bounds.
func (c *Config) Validate() error {
	c.Sentiment.Backend = strings.ToLower(c.Sentiment.Backend)
	c.Chat.Mode = strings.ToLower(c.Chat.Mode)

	switch c.Sentiment.Backend {
	case BackendLexicon, BackendClassifier:
	default:
		return fmt.Errorf("sentiment backend %q: %w", c.Sentiment.Backend, internalerr.ErrInvalidConfig)
	}
	switch c.Chat.Mode {
	case ChatRules, ChatDialogue:
	default:
		return fmt.Errorf("chat mode %q: %w", c.Chat.Mode, internalerr.ErrInvalidConfig)
	}
	if c.Sentiment.MaxLength < 0 {
		return fmt.Errorf("sentiment max_length %d: %w", c.Sentiment.MaxLength, internalerr.ErrInvalidConfig)
	}
	if c.Batch.ChunkSize < 0 {
		return fmt.Errorf("batch chunk_size %d: %w", c.Batch.ChunkSize, internalerr.ErrInvalidConfig)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// ChatAPIKeyEnvVar is the environment variable holding the chat model API key
const ChatAPIKeyEnvVar = "CHAT_API_KEY"

// ChatConfig defines configuration for the hosted chat model client
type ChatConfig struct {
	// Model name passed to the chat completion endpoint
	Model string `yaml:"model"`

	// BaseURL overrides the model provider endpoint, useful for
	// OpenAI-compatible gateways and for tests
	BaseURL string `yaml:"base_url"`

	// RequestTimeout caps a single model call
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// APIKeyFile is an optional file to read the key from when the
	// environment variable is not set
	APIKeyFile string `yaml:"api_key_file"`

	apiKey string
}

// DefaultChatConfig returns default chat configuration
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		Model:          "gpt-4o-mini",
		RequestTimeout: 10 * time.Second,
	}
}

// ResolveAPIKey loads the chat API key from the environment or the
// configured key file. Absence is a configuration error.
func (c *ChatConfig) ResolveAPIKey() error {
	if key := os.Getenv(ChatAPIKeyEnvVar); key != "" {
		c.apiKey = key
		return nil
	}

	if c.APIKeyFile != "" {
		data, err := os.ReadFile(c.APIKeyFile)
		if err != nil {
			return fmt.Errorf("reading api_key_file: %w", err)
		}
		if key := strings.TrimSpace(string(data)); key != "" {
			c.apiKey = key
			return nil
		}
	}

	return fmt.Errorf("chat API key not found: set %s or configure api_key_file", ChatAPIKeyEnvVar)
}

// APIKey returns the resolved chat API key
func (c *ChatConfig) APIKey() string {
	return c.apiKey
}

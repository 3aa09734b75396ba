package appconfig

import (
	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	DatabaseName      string `env:"DATABASE-NAME" ini:"database_name"`
	HTTPPort          string `env:"HTTP-PORT" ini:"http_port"`
	GeneratorBackend  string `env:"GENERATOR-BACKEND" ini:"generator_backend"`
	ChatModel         string `env:"CHAT-MODEL" ini:"chat_model"`
	EmbeddingModel    string `env:"EMBEDDING-MODEL" ini:"embedding_model"`
	MaxClarifications int    `env:"MAX-CLARIFICATIONS" ini:"max_clarifications"`
}

// ApplyDefaults fills unset knobs with the service defaults.
func (c *AppConfig) ApplyDefaults() {
	if c.DatabaseName == "" {
		c.DatabaseName = "chatrag"
	}
	if c.HTTPPort == "" {
		c.HTTPPort = "8080"
	}
	if c.GeneratorBackend == "" {
		c.GeneratorBackend = "openai"
	}
	if c.ChatModel == "" {
		c.ChatModel = "gpt-4o-mini"
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = "text-embedding-3-small"
	}
	if c.MaxClarifications <= 0 {
		c.MaxClarifications = 2
	}
}

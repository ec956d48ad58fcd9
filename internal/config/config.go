package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aurelabs/aura/internal/pathutil"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Models    ModelsConfig    `koanf:"models"`
	Store     StoreConfig     `koanf:"store"`
	Memory    MemoryConfig    `koanf:"memory"`
	Assistant AssistantConfig `koanf:"assistant"`
}

type ServerConfig struct {
	Port            int    `koanf:"port"`
	LogLevel        string `koanf:"log_level"`
	ReadTimeout     string `koanf:"read_timeout"`
	WriteTimeout    string `koanf:"write_timeout"`
	IdleTimeout     string `koanf:"idle_timeout"`
	ShutdownTimeout string `koanf:"shutdown_timeout"`
}

type ModelsConfig struct {
	// Chat answers live turns, Extraction runs the cheaper end-of-call
	// pass, Embedding produces vectors for the memory index. Each name
	// must resolve to a registry entry.
	Chat       string          `koanf:"chat"`
	Extraction string          `koanf:"extraction"`
	Embedding  string          `koanf:"embedding"`
	Registry   []ModelRegistry `koanf:"registry"`
}

type ModelRegistry struct {
	Name     string `koanf:"name"`
	Provider string `koanf:"provider"`
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
}

type StoreConfig struct {
	DataDir      string `koanf:"data_dir"`
	LockTimeout  string `koanf:"lock_timeout"`
	LockRetry    string `koanf:"lock_retry"`
	LockMaxRetry int    `koanf:"lock_max_retry"`
}

type MemoryConfig struct {
	// EmbeddingDimension sizes the zero-vector fallback when the
	// embedding capability fails. Must match the embedding model.
	EmbeddingDimension int `koanf:"embedding_dimension"`
}

type AssistantConfig struct {
	Timezone              string  `koanf:"timezone"`
	ChatTemperature       float32 `koanf:"chat_temperature"`
	GreetingTemperature   float32 `koanf:"greeting_temperature"`
	GreetingMaxTokens     int     `koanf:"greeting_max_tokens"`
	MoodTemperature       float32 `koanf:"mood_temperature"`
	MoodMaxTokens         int     `koanf:"mood_max_tokens"`
	ExtractionTemperature float32 `koanf:"extraction_temperature"`
	ExtractionMaxTokens   int     `koanf:"extraction_max_tokens"`
	ContextMemories       int     `koanf:"context_memories"`
	TurnMemories          int     `koanf:"turn_memories"`
}

const (
	DefaultServerPort            = 3000
	DefaultServerLogLevel        = "info"
	DefaultServerReadTimeout     = "10s"
	DefaultServerWriteTimeout    = "30s"
	DefaultServerIdleTimeout     = "60s"
	DefaultServerShutdownTimeout = "5s"

	DefaultModelChat       = "gpt-4o"
	DefaultModelExtraction = "gpt-4o-mini"
	DefaultModelEmbedding  = "text-embedding-ada-002"

	DefaultStoreLockTimeout  = "10s"
	DefaultStoreLockRetry    = "100ms"
	DefaultStoreLockMaxRetry = 50

	DefaultMemoryEmbeddingDimension = 1536

	DefaultAssistantTimezone              = "America/New_York"
	DefaultAssistantChatTemperature       = 0.7
	DefaultAssistantGreetingTemperature   = 0.8
	DefaultAssistantGreetingMaxTokens     = 100
	DefaultAssistantMoodTemperature       = 0.5
	DefaultAssistantMoodMaxTokens         = 50
	DefaultAssistantExtractionTemperature = 0.2
	DefaultAssistantExtractionMaxTokens   = 800
	DefaultAssistantContextMemories       = 5
	DefaultAssistantTurnMemories          = 3
)

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             DefaultServerPort,
		"server.log_level":        DefaultServerLogLevel,
		"server.read_timeout":     DefaultServerReadTimeout,
		"server.write_timeout":    DefaultServerWriteTimeout,
		"server.idle_timeout":     DefaultServerIdleTimeout,
		"server.shutdown_timeout": DefaultServerShutdownTimeout,
		"models.chat":             DefaultModelChat,
		"models.extraction":       DefaultModelExtraction,
		"models.embedding":        DefaultModelEmbedding,
		"models.registry": []ModelRegistry{
			{Name: DefaultModelChat, Provider: "openai"},
			{Name: DefaultModelExtraction, Provider: "openai"},
			{Name: DefaultModelEmbedding, Provider: "openai"},
		},
		"store.data_dir":                   filepath.Join(os.Getenv("HOME"), ".aura", "data"),
		"store.lock_timeout":               DefaultStoreLockTimeout,
		"store.lock_retry":                 DefaultStoreLockRetry,
		"store.lock_max_retry":             DefaultStoreLockMaxRetry,
		"memory.embedding_dimension":       DefaultMemoryEmbeddingDimension,
		"assistant.timezone":               DefaultAssistantTimezone,
		"assistant.chat_temperature":       DefaultAssistantChatTemperature,
		"assistant.greeting_temperature":   DefaultAssistantGreetingTemperature,
		"assistant.greeting_max_tokens":    DefaultAssistantGreetingMaxTokens,
		"assistant.mood_temperature":       DefaultAssistantMoodTemperature,
		"assistant.mood_max_tokens":        DefaultAssistantMoodMaxTokens,
		"assistant.extraction_temperature": DefaultAssistantExtractionTemperature,
		"assistant.extraction_max_tokens":  DefaultAssistantExtractionMaxTokens,
		"assistant.context_memories":       DefaultAssistantContextMemories,
		"assistant.turn_memories":          DefaultAssistantTurnMemories,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Config file loading
	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		expanded, err := pathutil.Expand(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(expanded), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".aura", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	// Environment Variables
	k.Load(env.Provider("AURA_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "AURA_")), "_", ".", -1)
	}), nil)

	// CLI Flags
	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	for i, m := range cfg.Models.Registry {
		if m.Provider == "" {
			cfg.Models.Registry[i].Provider = "openai"
		}
	}

	dataDir, err := pathutil.Expand(cfg.Store.DataDir)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Store.DataDir = dataDir
	}

	// Post-Process: Inject standard Env Vars if missing
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		for i, m := range cfg.Models.Registry {
			if m.Provider == "openai" && m.APIKey == "" {
				cfg.Models.Registry[i].APIKey = key
			}
		}
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		for i, m := range cfg.Models.Registry {
			if m.Provider == "anthropic" && m.APIKey == "" {
				cfg.Models.Registry[i].APIKey = key
			}
		}
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		for i, m := range cfg.Models.Registry {
			if m.Provider == "gemini" && m.APIKey == "" {
				cfg.Models.Registry[i].APIKey = key
			}
		}
	}

	return &cfg, nil
}

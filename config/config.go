// Package config defines JSON-driven configuration for the brainstorm
// workflow engine. Configs are used only during initialization and then
// transformed into domain objects; observer and checkpoint-store fields are
// names resolved through the corresponding registries at construction time.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

const defaultMaxIterations = 100

// GraphConfig defines construction parameters for a workflow graph.
type GraphConfig struct {
	// Name identifies the graph for observability.
	Name string `json:"name"`

	// Observer names the observer implementation to use ("noop", "slog", ...).
	Observer string `json:"observer"`

	// MaxIterations bounds stage executions per session. The plan-feedback
	// loop is the only cycle and has no policy limit, so this is a safety
	// net against runaway loops, not a feature bound.
	MaxIterations int `json:"max_iterations"`
}

// DefaultGraphConfig returns sensible defaults for graph construction.
func DefaultGraphConfig(name string) GraphConfig {
	return GraphConfig{
		Name:          name,
		Observer:      "slog",
		MaxIterations: defaultMaxIterations,
	}
}

// Merge applies non-zero values from source into c.
func (c *GraphConfig) Merge(source *GraphConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
	if source.MaxIterations > 0 {
		c.MaxIterations = source.MaxIterations
	}
}

// CheckpointConfig controls session persistence at suspension points.
type CheckpointConfig struct {
	// Store names the CheckpointStore to use (resolved via registry).
	Store string `json:"store"`

	// Path is the root directory for the "file" store.
	Path string `json:"path,omitempty"`

	// Preserve keeps the checkpoint after the session completes
	// (false = deleted on terminal).
	Preserve bool `json:"preserve"`
}

// DefaultCheckpointConfig returns in-memory checkpointing with auto-cleanup.
func DefaultCheckpointConfig() CheckpointConfig {
	return CheckpointConfig{
		Store:    "memory",
		Preserve: false,
	}
}

// Merge applies non-zero values from source into c.
func (c *CheckpointConfig) Merge(source *CheckpointConfig) {
	if source.Store != "" {
		c.Store = source.Store
	}
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.Preserve {
		c.Preserve = source.Preserve
	}
}

// CompletionConfig configures the chat-completion collaborator.
type CompletionConfig struct {
	// BaseURL is the OpenAI-compatible API root, e.g. "https://api.example.com/v1".
	BaseURL string `json:"base_url"`

	// Model names the completion model.
	Model string `json:"model"`

	// APIKeyEnv names the environment variable holding the API key.
	// The key itself never appears in config files.
	APIKeyEnv string `json:"api_key_env"`

	// TimeoutSeconds bounds a single completion call.
	TimeoutSeconds int `json:"timeout_seconds"`

	// Temperature is passed through to the model.
	Temperature float64 `json:"temperature"`
}

// DefaultCompletionConfig returns completion defaults. BaseURL and Model
// have no sensible defaults and must come from config.
func DefaultCompletionConfig() CompletionConfig {
	return CompletionConfig{
		APIKeyEnv:      "BRAINSTORM_API_KEY",
		TimeoutSeconds: 120,
		Temperature:    0.7,
	}
}

// Merge applies non-zero values from source into c.
func (c *CompletionConfig) Merge(source *CompletionConfig) {
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.APIKeyEnv != "" {
		c.APIKeyEnv = source.APIKeyEnv
	}
	if source.TimeoutSeconds > 0 {
		c.TimeoutSeconds = source.TimeoutSeconds
	}
	if source.Temperature > 0 {
		c.Temperature = source.Temperature
	}
}

// LiteratureConfig configures the paper-search stage.
type LiteratureConfig struct {
	// MaxDocs caps how many papers a search may return.
	MaxDocs int `json:"max_docs"`

	// RecencyCutoffDays excludes papers older than this many days.
	RecencyCutoffDays int `json:"recency_cutoff_days"`
}

// DefaultLiteratureConfig returns the reference limits: eight papers,
// two-year recency window.
func DefaultLiteratureConfig() LiteratureConfig {
	return LiteratureConfig{
		MaxDocs:           8,
		RecencyCutoffDays: 730,
	}
}

// Merge applies non-zero values from source into c.
func (c *LiteratureConfig) Merge(source *LiteratureConfig) {
	if source.MaxDocs > 0 {
		c.MaxDocs = source.MaxDocs
	}
	if source.RecencyCutoffDays > 0 {
		c.RecencyCutoffDays = source.RecencyCutoffDays
	}
}

// Config aggregates all subsystem sections.
type Config struct {
	Graph      GraphConfig      `json:"graph"`
	Checkpoint CheckpointConfig `json:"checkpoint"`
	Completion CompletionConfig `json:"completion"`
	Literature LiteratureConfig `json:"literature"`
}

// DefaultConfig returns a Config with defaults for all sections.
func DefaultConfig() Config {
	return Config{
		Graph:      DefaultGraphConfig("brainstorm"),
		Checkpoint: DefaultCheckpointConfig(),
		Completion: DefaultCompletionConfig(),
		Literature: DefaultLiteratureConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// section's Merge method.
func (c *Config) Merge(source *Config) {
	c.Graph.Merge(&source.Graph)
	c.Checkpoint.Merge(&source.Checkpoint)
	c.Completion.Merge(&source.Completion)
	c.Literature.Merge(&source.Literature)
}

// Load reads a JSON config file, merges it over defaults, and returns the
// resulting Config.
func Load(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

package experiments

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"pursuit/engine"
	"pursuit/experiments/metrics"
	"pursuit/game"
	"pursuit/searcher/agent"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const DefaultOutputDir = "experiments"

// Config describes an experiment: every agent plays Games games on every layout.
type Config struct {
	Name        string                `yaml:"name" validate:"required"`
	OutputDir   string                `yaml:"output_dir"`
	Games       int                   `yaml:"games" validate:"gte=1"`
	Seed        int64                 `yaml:"seed"`
	MaxTurns    int                   `yaml:"max_turns" validate:"gte=0"`
	TickBudget  int                   `yaml:"tick_budget" validate:"gte=0"`
	Layouts     []string              `yaml:"layouts" validate:"required,min=1,dive,required"`
	Agents      []metrics.AgentConfig `yaml:"agents" validate:"required,min=1,unique=ID,dive"`
	Parquet     bool                  `yaml:"parquet"`
	MetricsAddr string                `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
}

var validate = validator.New()

// LoadConfig reads a YAML experiment file, fills in defaults and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.MaxTurns == 0 {
		c.MaxTurns = engine.MaxTurns
	}
	if c.TickBudget == 0 {
		c.TickBudget = engine.DefaultTickBudget
	}
}

// Validate checks struct constraints, then that every agent and layout exists.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var errs []error
	names := agent.Names()
	for _, a := range c.Agents {
		if !slices.Contains(names, strings.ToLower(a.Name)) {
			errs = append(errs, fmt.Errorf("agent %d: unknown agent %q", a.ID, a.Name))
		}
	}
	for _, layout := range c.Layouts {
		if _, err := game.FindLayout(layout); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

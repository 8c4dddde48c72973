package meta

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// validate is a singleton validator instance
var validate = validator.New()

// Config holds the tunable parts of a match and its host.
type Config struct {
	TurnTime     time.Duration `yaml:"turn_time" validate:"gt=0"`
	GameTime     time.Duration `yaml:"game_time" validate:"gt=0,gtefield=TurnTime"`
	TickInterval time.Duration `yaml:"tick_interval" validate:"gt=0"`

	// AdvancedMode exposes undo, redo, move history and the leaderboard to
	// the presentation layer. Toggling it resets the match.
	AdvancedMode bool `yaml:"advanced_mode"`

	Results     ResultsConfig `yaml:"results"`
	MetricsAddr string        `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
}

type ResultsConfig struct {
	Driver string `yaml:"driver" validate:"oneof=memory file postgres"`
	Path   string `yaml:"path" validate:"required_if=Driver file"`
	URL    string `yaml:"url" validate:"required_if=Driver postgres"`
}

// Default returns the standard five minute match with thirty second turns.
func Default() Config {
	return Config{
		TurnTime:     TURN_TIME,
		GameTime:     GAME_TIME,
		TickInterval: TICK_INTERVAL,
		Results: ResultsConfig{
			Driver: "file",
			Path:   "titan_results.csv",
		},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

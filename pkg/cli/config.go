package cli

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/m-mizutani/recall/pkg/adapter"
	"github.com/m-mizutani/recall/pkg/usecase/memory"
	"github.com/m-mizutani/recall/pkg/utils/logging"
)

// config holds configuration values shared across commands
type config struct {
	apiKey     string
	baseURL    string
	userID     string
	verbosity  string
	logLevel   string
	configPath string
}

// fileConfig is the optional YAML configuration file shape. Flags and
// environment variables take precedence over file values.
type fileConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	UserID    string `yaml:"user_id"`
	Verbosity string `yaml:"verbosity"`
	LogLevel  string `yaml:"log_level"`
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-key",
			Usage:       "Mem0 API key",
			Sources:     cli.EnvVars("MEM0_API_KEY"),
			Destination: &cfg.apiKey,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Mem0 API endpoint override",
			Sources:     cli.EnvVars("RECALL_BASE_URL"),
			Destination: &cfg.baseURL,
		},
		&cli.StringFlag{
			Name:        "user-id",
			Aliases:     []string{"u"},
			Usage:       "Default user ID for memory operations",
			Sources:     cli.EnvVars("RECALL_USER_ID"),
			Destination: &cfg.userID,
		},
		&cli.StringFlag{
			Name:        "verbosity",
			Usage:       "Result shape for negative outcomes: verbose or silent",
			Sources:     cli.EnvVars("RECALL_VERBOSITY"),
			Destination: &cfg.verbosity,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level: debug, info, warn, error",
			Sources:     cli.EnvVars("RECALL_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to YAML configuration file",
			Sources:     cli.EnvVars("RECALL_CONFIG"),
			Destination: &cfg.configPath,
		},
	}
}

// resolve merges the optional config file into unset fields, applies
// defaults, and configures logging. Call once at the start of each
// command action.
func (cfg *config) resolve() error {
	if cfg.configPath != "" {
		data, err := os.ReadFile(cfg.configPath)
		if err != nil {
			return goerr.Wrap(err, "failed to read config file", goerr.V("path", cfg.configPath))
		}

		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return goerr.Wrap(err, "failed to parse config file", goerr.V("path", cfg.configPath))
		}

		if cfg.apiKey == "" {
			cfg.apiKey = file.APIKey
		}
		if cfg.baseURL == "" {
			cfg.baseURL = file.BaseURL
		}
		if cfg.userID == "" {
			cfg.userID = file.UserID
		}
		if cfg.verbosity == "" {
			cfg.verbosity = file.Verbosity
		}
		if cfg.logLevel == "" {
			cfg.logLevel = file.LogLevel
		}
	}

	if cfg.userID == "" {
		cfg.userID = memory.DefaultUserID
	}
	if cfg.verbosity == "" {
		cfg.verbosity = "verbose"
	}
	if cfg.logLevel != "" {
		logging.SetDefault(logging.New(cfg.logLevel, os.Stderr))
	}

	return nil
}

// newStore creates the remote store client
func (cfg *config) newStore() (adapter.Mem0, error) {
	if cfg.apiKey == "" {
		return nil, goerr.New("api-key is required")
	}

	var opts []adapter.Mem0Option
	if cfg.baseURL != "" {
		opts = append(opts, adapter.WithBaseURL(cfg.baseURL))
	}
	return adapter.NewMem0(cfg.apiKey, opts...), nil
}

// newUseCase creates the curation pipeline over the remote store
func (cfg *config) newUseCase() (*memory.UseCase, error) {
	store, err := cfg.newStore()
	if err != nil {
		return nil, err
	}
	return memory.New(store, memory.WithDefaultUser(cfg.userID)), nil
}

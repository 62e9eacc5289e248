package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "POSTERDROP"

// DefaultLocations is the location list a new session starts with.
var DefaultLocations = []string{
	"Times Square billboard",
	"NYC subway lightbox",
	"London bus stop",
	"Tokyo metro",
	"Urban brick wall",
	"Mall digital signage",
}

// Load configuration from environment variables and optionally a
// posterdrop.yaml file in the working directory.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile behaves like Load but reads the given config file instead of
// searching the working directory. A missing explicit file is an error.
func LoadFile(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("posterdrop")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Configure environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so bind the
	// ones without defaults explicitly.
	for _, key := range []string{
		"llm.gemini_api_key",
		"llm.poster_prompt_template_path",
		"llm.video_prompt_template_path",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("llm.poster_model", "gemini-2.5-flash-image-preview")
	v.SetDefault("llm.video_model", "veo-2.0-generate-001")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.video_poll_interval_seconds", 10)
	v.SetDefault("llm.video_timeout_seconds", 600)

	v.SetDefault("workflow.default_slogan", "Your Brand, Everywhere.")
	v.SetDefault("workflow.default_aspect_ratio", "1:1")
	v.SetDefault("workflow.default_locations", DefaultLocations)
	v.SetDefault("workflow.max_concurrent_videos", 0)
}

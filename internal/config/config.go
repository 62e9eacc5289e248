package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Workflow WorkflowConfig `mapstructure:"workflow" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// ShutdownTimeoutSeconds bounds how long graceful shutdown waits for
	// in-flight requests and generation tasks.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// LLMConfig contains all Gemini/Veo integration related settings.
type LLMConfig struct {
	// GeminiAPIKey is optional at load time: the access gate can select a key
	// later, and nothing generates until it does.
	GeminiAPIKey string `mapstructure:"gemini_api_key"`

	PosterModel string `mapstructure:"poster_model" validate:"required"`
	VideoModel  string `mapstructure:"video_model" validate:"required"`

	MaxRetries        int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=1"`

	// VideoPollIntervalSeconds is the delay between long-running operation polls.
	VideoPollIntervalSeconds int `mapstructure:"video_poll_interval_seconds" validate:"gte=1"`
	VideoTimeoutSeconds      int `mapstructure:"video_timeout_seconds" validate:"gte=1"`

	// Optional template overrides. Built-in prompts are used when empty.
	PosterPromptTemplatePath string `mapstructure:"poster_prompt_template_path" validate:"omitempty,file"`
	VideoPromptTemplatePath  string `mapstructure:"video_prompt_template_path" validate:"omitempty,file"`
}

// WorkflowConfig contains the defaults a fresh workflow session starts from.
type WorkflowConfig struct {
	DefaultSlogan      string   `mapstructure:"default_slogan" validate:"required"`
	DefaultAspectRatio string   `mapstructure:"default_aspect_ratio" validate:"required,oneof=1:1 16:9 9:16 4:3 3:4"`
	DefaultLocations   []string `mapstructure:"default_locations" validate:"unique,dive,required"`

	// MaxConcurrentVideos caps simultaneous video generations. Poster
	// generation is not limited by it. Zero means every location in a batch
	// starts at once.
	MaxConcurrentVideos int `mapstructure:"max_concurrent_videos" validate:"gte=0"`
}

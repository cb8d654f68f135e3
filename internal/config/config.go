// Package config provides configuration loading, validation, and defaults
// for the MuralBot application. Values come from a YAML file overlaid with
// BOT_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration parameters for all components
// of the MuralBot system.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Unsplash  UnsplashConfig  `mapstructure:"unsplash"`
	Policy    PolicyConfig    `mapstructure:"policy"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and the admin recipients of the daily
// summary. With no admins configured the summary task has nobody to notify
// and skips its send.
type TelegramConfig struct {
	Token        string  `mapstructure:"token"          validate:"required"`
	AdminUserIDs []int64 `mapstructure:"admin_user_ids" validate:"dive,gt=0"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// UnsplashConfig holds the image provider credentials and request limits.
// RequestsPerHour stays below the provider's stated budget to leave headroom.
type UnsplashConfig struct {
	AccessKey       string        `mapstructure:"access_key"        validate:"required"`
	BaseURL         string        `mapstructure:"base_url"          validate:"url"`
	Orientation     string        `mapstructure:"orientation"       validate:"oneof=portrait landscape squarish"`
	Timeout         time.Duration `mapstructure:"timeout"           validate:"min=1s,max=2m"`
	RequestsPerHour int           `mapstructure:"requests_per_hour" validate:"min=1,max=50"`
}

// PolicyConfig holds the cooldown window between category selections and the
// seed for the random group assignment.
type PolicyConfig struct {
	CooldownWindow time.Duration `mapstructure:"cooldown_window" validate:"min=1m"`
	GroupSeed      int64         `mapstructure:"group_seed"`
}

// SchedulerConfig holds the timezone and the per-task schedules. Cron
// expressions are evaluated in the configured location, so DST shifts are
// handled at this boundary and nowhere else.
type SchedulerConfig struct {
	Timezone string                `mapstructure:"timezone" validate:"required"`
	Tasks    map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// MessagesConfig holds the user-facing bot texts.
type MessagesConfig struct {
	Welcome       string `mapstructure:"welcome"`
	MorningPrompt string `mapstructure:"morning_prompt"`
	SubcatPrompt  string `mapstructure:"subcat_prompt"`
	Cooldown      string `mapstructure:"cooldown"`
	Exhausted     string `mapstructure:"exhausted"`
	DeliveryError string `mapstructure:"delivery_error"`
	UsagePrompt   string `mapstructure:"usage_prompt"`
	UsageThanks   string `mapstructure:"usage_thanks"`
}

// LoadConfig reads the configuration file at path (optional), applies
// BOT_-prefixed environment variables and defaults, and validates the
// result. Missing required values (bot token, Unsplash access key) are the
// only startup errors allowed to abort the process.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// Missing config file is fine, defaults plus env vars apply.
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Scheduler.Timezone); err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", cfg.Scheduler.Timezone, err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	v.SetDefault("database.path", "muralbot.db")

	v.SetDefault("unsplash.base_url", "https://api.unsplash.com")
	v.SetDefault("unsplash.orientation", "portrait")
	v.SetDefault("unsplash.timeout", 10*time.Second)
	// Conservative slice of the provider's ~50/hour budget.
	v.SetDefault("unsplash.requests_per_hour", 45)

	v.SetDefault("policy.cooldown_window", 12*time.Hour)
	v.SetDefault("policy.group_seed", time.Now().UnixNano())

	v.SetDefault("scheduler.timezone", "Asia/Nicosia")
	v.SetDefault("scheduler.tasks.distribution.enabled", true)
	v.SetDefault("scheduler.tasks.distribution.schedule", "0 11 * * *")
	v.SetDefault("scheduler.tasks.usage_prompt.enabled", true)
	v.SetDefault("scheduler.tasks.usage_prompt.schedule", "0 22 * * *")
	v.SetDefault("scheduler.tasks.summary.enabled", true)
	v.SetDefault("scheduler.tasks.summary.schedule", "0 23 * * *")
	v.SetDefault("scheduler.tasks.prefetch.enabled", true)
	v.SetDefault("scheduler.tasks.prefetch.schedule", "0 1 * * *")
	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 4 * * 0")

	v.SetDefault("messages.welcome", "Hello! You will receive a wallpaper every day in the morning. Stay tuned!")
	v.SetDefault("messages.morning_prompt", "Good morning! Choose one category:")
	v.SetDefault("messages.subcat_prompt", "Subcategories of %s:")
	v.SetDefault("messages.cooldown", "You can get only one wallpaper a day.")
	v.SetDefault("messages.exhausted", "No new wallpapers for %s, sorry.")
	v.SetDefault("messages.delivery_error", "Error sending wallpaper, sorry.")
	v.SetDefault("messages.usage_prompt", "Did you set your new wallpaper on your phone?")
	v.SetDefault("messages.usage_thanks", "Thank you for the feedback! Good night!")
}

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config keeps process-level runtime settings. User-facing settings (the
// working-hours window, the timer deadline) live in the store instead.
type Config struct {
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Optional Telegram alert channel; alerts are disabled when the token
	// is empty.
	TelegramToken  string `mapstructure:"TELEGRAM_TOKEN"`
	TelegramChatID int64  `mapstructure:"TELEGRAM_CHAT_ID"`

	// Poll cadences for the two loops.
	SentinelPoll time.Duration `mapstructure:"SENTINEL_POLL"`
	TimerPoll    time.Duration `mapstructure:"TIMER_POLL"`

	// ReviewReminderTime is an optional HH:MM at which a nightly "close
	// your day" nudge goes out; empty disables it.
	ReviewReminderTime string `mapstructure:"REVIEW_REMINDER_TIME"`

	TimerDefaultSeconds int `mapstructure:"TIMER_DEFAULT_SECONDS"`
}

// Load reads configuration from EFECTO18_* environment variables with sane
// defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EFECTO18")
	v.AutomaticEnv()

	v.SetDefault("DATABASE_URL", "efecto18.db")
	v.SetDefault("TELEGRAM_TOKEN", "")
	v.SetDefault("TELEGRAM_CHAT_ID", 0)
	v.SetDefault("SENTINEL_POLL", "10s")
	v.SetDefault("TIMER_POLL", "1s")
	v.SetDefault("REVIEW_REMINDER_TIME", "")
	v.SetDefault("TIMER_DEFAULT_SECONDS", 300)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.SentinelPoll <= 0 || cfg.SentinelPoll >= time.Minute {
		return cfg, fmt.Errorf("EFECTO18_SENTINEL_POLL must be positive and under a minute")
	}
	if cfg.TimerPoll <= 0 {
		return cfg, fmt.Errorf("EFECTO18_TIMER_POLL must be positive")
	}
	if cfg.TimerDefaultSeconds <= 0 {
		return cfg, fmt.Errorf("EFECTO18_TIMER_DEFAULT_SECONDS must be positive")
	}
	return cfg, nil
}

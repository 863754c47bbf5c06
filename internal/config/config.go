package config

import (
	"encoding/json"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/jsabazova/suburb-swipe/internal/game"
	"github.com/jsabazova/suburb-swipe/internal/rating"
)

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	HostUser      string `env:"HOST_USER"`
	HostPass      string `env:"HOST_PASS"`
	SingleSession bool   `env:"SINGLE_SESSION" envDefault:"true"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	MaxRounds      int     `env:"MAX_ROUNDS" envDefault:"20"`
	BaselineRating int     `env:"BASELINE_RATING" envDefault:"1200"`
	KMode          string  `env:"K_MODE" envDefault:"adaptive"`
	KBase          float64 `env:"K_BASE"`
	KMedium        float64 `env:"K_MEDIUM" envDefault:"45"`
	KHigh          float64 `env:"K_HIGH" envDefault:"60"`
	KHighBelow     int     `env:"K_HIGH_BELOW" envDefault:"5"`
	KMediumBelow   int     `env:"K_MEDIUM_BELOW" envDefault:"10"`

	Catalog           string `env:"CATALOG" envDefault:"melbourne"`
	ImageSource       string `env:"IMAGE_SOURCE" envDefault:"curated"`
	UnsplashAccessKey string `env:"UNSPLASH_ACCESS_KEY"`
	UnsplashBaseURL   string `env:"UNSPLASH_BASE_URL"`

	ExportEnabled bool   `env:"EXPORT_ENABLED" envDefault:"false"`
	ExportFile    string `env:"EXPORT_FILE" envDefault:"./suburb-swipe-results.txt"`
}

// FromEnv reads Config from the environment. The rating options are
// validated here so a bad K_MODE stops the server at startup.
func FromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := c.SessionDefaults().Rating.Policy(); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// SessionDefaults is the session configuration used when a client does not
// send its own. K_BASE left unset means 50 in adaptive mode and 32 in
// constant mode.
func (c Config) SessionDefaults() game.SessionConfig {
	return game.SessionConfig{
		MaxRounds:      c.MaxRounds,
		BaselineRating: c.BaselineRating,
		Rating: rating.Options{
			Mode:        rating.Mode(c.KMode),
			BaseK:       c.KBase,
			MediumK:     c.KMedium,
			HighK:       c.KHigh,
			HighBelow:   c.KHighBelow,
			MediumBelow: c.KMediumBelow,
		},
	}
}

// SessionConfig applies a client's JSON session config on top of
// SessionDefaults. Fields the client leaves out keep the server values.
func (c Config) SessionConfig(raw json.RawMessage) (game.SessionConfig, error) {
	cfg := c.SessionDefaults()
	if len(raw) == 0 || string(raw) == "null" {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return game.SessionConfig{}, fmt.Errorf("%w: session config: %v", game.ErrInvalidArgument, err)
	}
	return cfg, nil
}

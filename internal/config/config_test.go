package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/jsabazova/suburb-swipe/internal/game"
	"github.com/jsabazova/suburb-swipe/internal/rating"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %s", cfg.Port)
	}
	if !cfg.SingleSession {
		t.Fatal("single session should default to true")
	}
	if cfg.Catalog != "melbourne" || cfg.ImageSource != "curated" {
		t.Fatalf("unexpected catalog defaults: %s/%s", cfg.Catalog, cfg.ImageSource)
	}
	if cfg.ExportEnabled {
		t.Fatal("export should be off by default")
	}

	sc := cfg.SessionDefaults()
	if sc.MaxRounds != 20 || sc.BaselineRating != 1200 {
		t.Fatalf("unexpected session defaults: %+v", sc)
	}
	p, err := sc.Rating.Policy()
	if err != nil {
		t.Fatalf("default policy: %v", err)
	}
	if p.K(0) != 60 || p.K(5) != 45 || p.K(10) != 50 {
		t.Fatalf("unexpected default K tiers: %v %v %v", p.K(0), p.K(5), p.K(10))
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("SINGLE_SESSION", "false")
	t.Setenv("MAX_ROUNDS", "45")
	t.Setenv("K_MODE", "constant")
	t.Setenv("CATALOG", "melbourne-extended")
	t.Setenv("EXPORT_ENABLED", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.Port != "3000" || cfg.SingleSession || cfg.Catalog != "melbourne-extended" || !cfg.ExportEnabled {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	sc := cfg.SessionDefaults()
	if sc.MaxRounds != 45 {
		t.Fatalf("expected 45 rounds, got %d", sc.MaxRounds)
	}
	p, err := sc.Rating.Policy()
	if err != nil {
		t.Fatalf("constant policy: %v", err)
	}
	if p.K(0) != rating.DefaultConstantK || p.K(20) != rating.DefaultConstantK {
		t.Fatalf("expected constant K 32, got %v", p.K(0))
	}
}

func TestFromEnvError(t *testing.T) {
	t.Setenv("MAX_ROUNDS", "lots")
	_, err := FromEnv()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestFromEnvRejectsBadRatingOptions(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown mode":       {"K_MODE": "bogus"},
		"thresholds swapped": {"K_HIGH_BELOW": "10", "K_MEDIUM_BELOW": "5"},
		"negative K":         {"K_BASE": "-1"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			if !errors.Is(err, rating.ErrInvalidOptions) {
				t.Fatalf("expected invalid options, got %v", err)
			}
		})
	}
}

func TestSessionConfigKeepsServerDefaults(t *testing.T) {
	t.Setenv("K_MODE", "constant")
	t.Setenv("BASELINE_RATING", "1500")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}

	sc, err := cfg.SessionConfig([]byte(`{"maxRounds":5}`))
	if err != nil {
		t.Fatalf("session config: %v", err)
	}
	if sc.MaxRounds != 5 || sc.BaselineRating != 1500 || sc.Rating.Mode != rating.ModeConstant {
		t.Fatalf("partial config dropped server defaults: %+v", sc)
	}

	sc, err = cfg.SessionConfig([]byte(`{"rating":{"mode":"adaptive"}}`))
	if err != nil {
		t.Fatalf("session config: %v", err)
	}
	if sc.MaxRounds != 20 || sc.Rating.Mode != rating.ModeAdaptive || sc.Rating.MediumK != 45 {
		t.Fatalf("unexpected merged config: %+v", sc)
	}

	for _, raw := range []string{"", "null"} {
		sc, err = cfg.SessionConfig([]byte(raw))
		if err != nil || sc != cfg.SessionDefaults() {
			t.Fatalf("%q: expected server defaults, got %+v, %v", raw, sc, err)
		}
	}

	if _, err := cfg.SessionConfig([]byte(`{"maxRounds":"many"}`)); !errors.Is(err, game.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

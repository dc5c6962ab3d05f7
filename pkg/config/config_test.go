//go:build !integration

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_SOURCE", "")
	t.Setenv("RECOMMENDER_MODE", "")
	t.Setenv("FALLBACK_MIN_RATINGS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Data.Source != DataSourceFile {
		t.Errorf("data source = %q, want %q", cfg.Data.Source, DataSourceFile)
	}
	if cfg.Recommender.Mode != ModePrecomputed {
		t.Errorf("mode = %q, want %q", cfg.Recommender.Mode, ModePrecomputed)
	}
	if cfg.Recommender.FallbackMinRatings != 20 {
		t.Errorf("fallback min ratings = %d, want 20", cfg.Recommender.FallbackMinRatings)
	}
	if cfg.Recommender.ScoringThreshold != 4.0 {
		t.Errorf("threshold = %v, want 4.0", cfg.Recommender.ScoringThreshold)
	}
	if cfg.Predictor.Timeout != 5*time.Second {
		t.Errorf("predict timeout = %v, want 5s", cfg.Predictor.Timeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RECOMMENDER_MODE", ModeOnDemand)
	t.Setenv("RATING_ESTIMATOR", EstimatorBaseline)
	t.Setenv("FALLBACK_MIN_RATINGS", "2")
	t.Setenv("PREDICT_TIMEOUT", "2s")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Recommender.Mode != ModeOnDemand || cfg.Recommender.Estimator != EstimatorBaseline {
		t.Errorf("mode/estimator = %q/%q", cfg.Recommender.Mode, cfg.Recommender.Estimator)
	}
	if cfg.Recommender.FallbackMinRatings != 2 {
		t.Errorf("fallback min ratings = %d, want 2", cfg.Recommender.FallbackMinRatings)
	}
	if cfg.Predictor.Timeout != 2*time.Second {
		t.Errorf("predict timeout = %v, want 2s", cfg.Predictor.Timeout)
	}
	if len(cfg.Server.AllowOrigins) != 2 || cfg.Server.AllowOrigins[1] != "https://b.example" {
		t.Errorf("allow origins = %v", cfg.Server.AllowOrigins)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Data:        DataConfig{Source: DataSourceFile, Dir: "./data"},
			Recommender: RecommenderConfig{Mode: ModePrecomputed, TopN: 10, MaxConcurrency: 4},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid file source", mutate: func(c *Config) {}},
		{name: "postgres without password", mutate: func(c *Config) { c.Data.Source = DataSourcePostgres }, wantErr: true},
		{name: "unknown source", mutate: func(c *Config) { c.Data.Source = "s3" }, wantErr: true},
		{name: "unknown mode", mutate: func(c *Config) { c.Recommender.Mode = "bandit" }, wantErr: true},
		{
			name: "on demand unknown estimator",
			mutate: func(c *Config) {
				c.Recommender.Mode = ModeOnDemand
				c.Recommender.Estimator = "svd"
			},
			wantErr: true,
		},
		{name: "negative min ratings", mutate: func(c *Config) { c.Recommender.FallbackMinRatings = -1 }, wantErr: true},
		{name: "zero concurrency", mutate: func(c *Config) { c.Recommender.MaxConcurrency = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DataSourceFile     = "file"
	DataSourcePostgres = "postgres"

	ModePrecomputed = "precomputed"
	ModeOnDemand    = "on_demand"

	EstimatorPredictor = "predictor"
	EstimatorBaseline  = "baseline"
)

type Config struct {
	App         AppConfig
	Server      ServerConfig
	Data        DataConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Recommender RecommenderConfig
	Predictor   PredictorConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	AllowOrigins   []string
	RateLimitRPS   float64
	RequestTimeout time.Duration
}

type DataConfig struct {
	Source string
	Dir    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	EstimateTTL   time.Duration
}

type RecommenderConfig struct {
	Mode               string
	TopN               int
	FallbackMinRatings int
	DemoUserCount      int
	ScoringThreshold   float64
	MaxConcurrency     int
	Estimator          string
}

type PredictorConfig struct {
	URL              string
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Product Recommender"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowOrigins:   getEnvList("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),
			RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		},
		Data: DataConfig{
			Source: getEnv("DATA_SOURCE", DataSourceFile),
			Dir:    getEnv("DATA_DIR", "./data"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "product_reco"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:       getEnvBool("REDIS_ENABLED", false),
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			EstimateTTL:   getEnvDuration("ESTIMATE_CACHE_TTL", 10*time.Minute),
		},
		Recommender: RecommenderConfig{
			Mode:               getEnv("RECOMMENDER_MODE", ModePrecomputed),
			TopN:               getEnvInt("RECOMMENDER_TOP_N", 10),
			FallbackMinRatings: getEnvInt("FALLBACK_MIN_RATINGS", 20),
			DemoUserCount:      getEnvInt("DEMO_USER_COUNT", 10),
			ScoringThreshold:   getEnvFloat("SCORING_THRESHOLD", 4.0),
			MaxConcurrency:     getEnvInt("SCORING_MAX_CONCURRENCY", 8),
			Estimator:          getEnv("RATING_ESTIMATOR", EstimatorPredictor),
		},
		Predictor: PredictorConfig{
			URL:              strings.TrimRight(getEnv("PREDICTOR_URL", "http://localhost:5000"), "/"),
			Timeout:          getEnvDuration("PREDICT_TIMEOUT", 5*time.Second),
			FailureThreshold: uint32(getEnvInt("PREDICTOR_FAILURE_THRESHOLD", 5)),
			OpenTimeout:      getEnvDuration("PREDICTOR_OPEN_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the combinations Load cannot express with defaults alone.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case DataSourceFile:
		if c.Data.Dir == "" {
			return errors.New("missing data dir")
		}
	case DataSourcePostgres:
		if c.Database.Password == "" {
			return errors.New("missing database password")
		}
	default:
		return fmt.Errorf("unknown data source %q", c.Data.Source)
	}

	switch c.Recommender.Mode {
	case ModePrecomputed:
	case ModeOnDemand:
		switch c.Recommender.Estimator {
		case EstimatorPredictor:
			if c.Predictor.URL == "" {
				return errors.New("missing predictor url")
			}
		case EstimatorBaseline:
		default:
			return fmt.Errorf("unknown rating estimator %q", c.Recommender.Estimator)
		}
	default:
		return fmt.Errorf("unknown recommender mode %q", c.Recommender.Mode)
	}

	if c.Recommender.TopN <= 0 {
		return errors.New("recommender top n must be positive")
	}
	if c.Recommender.FallbackMinRatings < 0 {
		return errors.New("fallback min ratings must not be negative")
	}
	if c.Recommender.MaxConcurrency <= 0 {
		return errors.New("scoring max concurrency must be positive")
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

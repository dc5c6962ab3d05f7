//go:build !integration

package redis

import (
	"testing"
	"time"

	"productReco/pkg/config"
)

func TestNewRedisClient_UnreachableServer(t *testing.T) {
	cfg := &config.Config{
		Redis:       config.RedisConfig{RedisHost: "127.0.0.1", RedisPort: "1"},
		Recommender: config.RecommenderConfig{MaxConcurrency: 2},
	}

	start := time.Now()
	client, err := NewRedisClient(cfg)
	if err == nil {
		t.Fatal("expected connection error")
	}
	if client != nil {
		t.Errorf("client = %v, want nil on failed ping", client)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("NewRedisClient took %v", elapsed)
	}
	if err := CloseRedisClient(client); err != nil {
		t.Errorf("CloseRedisClient(nil) error = %v", err)
	}
}

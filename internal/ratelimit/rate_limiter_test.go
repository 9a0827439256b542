package ratelimit

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestAllow_NoRedisConfigured(t *testing.T) {
	rl := &RateLimiter{rdb: nil, ctx: context.Background()}

	for i := 0; i < 50; i++ {
		allowed, err := rl.AllowAnalysis("user-1", DefaultRateLimitConfig())
		if err != nil {
			t.Fatalf("AllowAnalysis returned error without Redis: %v", err)
		}
		if !allowed {
			t.Fatal("AllowAnalysis = false without Redis, want allow-all")
		}
	}
}

func TestAllow_FailsOpenOnRedisError(t *testing.T) {
	// Port 1 is never listening; every command errors immediately
	dead := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	rl := &RateLimiter{rdb: dead, ctx: context.Background()}

	allowed, err := rl.AllowAnalysis("user-1", DefaultRateLimitConfig())
	if err == nil {
		t.Fatal("expected an error from the dead Redis client")
	}
	if !allowed {
		t.Error("AllowAnalysis = false on Redis error, want fail-open true")
	}

	allowed, err = rl.AllowChat("user-1", DefaultRateLimitConfig())
	if err == nil {
		t.Fatal("expected an error from the dead Redis client")
	}
	if !allowed {
		t.Error("AllowChat = false on Redis error, want fail-open true")
	}
}

func TestInitRedis_UnreachableLeavesClientNil(t *testing.T) {
	prev := rdb
	rdb = nil
	defer func() { rdb = prev }()

	if err := InitRedis("127.0.0.1:1", "", 0); err == nil {
		t.Fatal("expected InitRedis to fail against a dead address")
	}
	if GetRedisClient() != nil {
		t.Error("GetRedisClient() non-nil after failed init, want nil")
	}

	rl := NewRateLimiter()
	allowed, err := rl.AllowAnalysis("user-1", DefaultRateLimitConfig())
	if err != nil || !allowed {
		t.Errorf("AllowAnalysis = (%v, %v) after failed init, want (true, nil)", allowed, err)
	}
}

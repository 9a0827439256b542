package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles the AI-backed endpoints per user. When Redis is
// not configured every check passes, so self-hosted setups without
// Redis keep working.
type RateLimiter struct {
	rdb *redis.Client
	ctx context.Context
}

// NewRateLimiter creates a new RateLimiter instance
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		rdb: GetRedisClient(),
		ctx: GetContext(),
	}
}

// RateLimitConfig defines rate limit rules
type RateLimitConfig struct {
	MaxAnalyses    int           // per window
	MaxChatTurns   int           // per window
	AnalysisWindow time.Duration // time window for journal analyses
	ChatWindow     time.Duration // time window for chat messages
}

// DefaultRateLimitConfig returns default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxAnalyses:    10,
		MaxChatTurns:   30,
		AnalysisWindow: time.Minute,
		ChatWindow:     time.Minute,
	}
}

// AllowAnalysis checks and records one journal analysis for the user.
func (rl *RateLimiter) AllowAnalysis(userID string, config RateLimitConfig) (bool, error) {
	return rl.allow("rate:analysis:"+userID, config.MaxAnalyses, config.AnalysisWindow)
}

// AllowChat checks and records one chat turn for the user.
func (rl *RateLimiter) AllowChat(userID string, config RateLimitConfig) (bool, error) {
	return rl.allow("rate:chat:"+userID, config.MaxChatTurns, config.ChatWindow)
}

func (rl *RateLimiter) allow(key string, max int, window time.Duration) (bool, error) {
	if rl == nil || rl.rdb == nil {
		// No Redis, no limits
		return true, nil
	}

	count, err := rl.rdb.Incr(rl.ctx, key).Result()
	if err != nil {
		// Fail open: a Redis outage must never block the journal or
		// chat flow
		return true, fmt.Errorf("rate limit check failed: %w", err)
	}

	// Set expiration if first time
	if count == 1 {
		rl.rdb.Expire(rl.ctx, key, window)
	}

	return count <= int64(max), nil
}

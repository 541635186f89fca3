package auth

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// RateLimiter counts failed logins per IP+username inside a window and locks
// the pair out once the limit is reached. Records expire on their own.
type RateLimiter struct {
	mu              sync.Mutex
	attempts        *gocache.Cache
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// RateLimitConfig contains configuration for the rate limiter.
type RateLimitConfig struct {
	MaxAttempts     int           // default 5
	WindowDuration  time.Duration // default 15m
	LockoutDuration time.Duration // default 30m
	CleanupInterval time.Duration // default 5m
}

// NewRateLimiter creates a new rate limiter with the given configuration.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = 15 * time.Minute
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	return &RateLimiter{
		attempts:        gocache.New(cfg.WindowDuration+cfg.LockoutDuration, cfg.CleanupInterval),
		maxAttempts:     cfg.MaxAttempts,
		windowDuration:  cfg.WindowDuration,
		lockoutDuration: cfg.LockoutDuration,
	}
}

func makeKey(ip, username string) string {
	return ip + ":" + username
}

func (rl *RateLimiter) record(key string) (*attemptRecord, bool) {
	v, ok := rl.attempts.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*attemptRecord), true
}

// Allow reports whether a login attempt may proceed and, if not, how long
// until it may.
func (rl *RateLimiter) Allow(ip, username string) (bool, time.Duration) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	record, ok := rl.record(makeKey(ip, username))
	if !ok {
		return true, 0
	}
	if !record.lockedUntil.IsZero() && now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}
	if now.Sub(record.firstAttempt) > rl.windowDuration {
		return true, 0
	}
	if record.count < rl.maxAttempts {
		return true, 0
	}
	return false, rl.lockoutDuration
}

// RecordFailure counts a failed attempt and reports whether it triggered a lockout.
func (rl *RateLimiter) RecordFailure(ip, username string) (bool, time.Duration) {
	key := makeKey(ip, username)
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	record, ok := rl.record(key)
	if !ok || now.Sub(record.firstAttempt) > rl.windowDuration {
		record = &attemptRecord{firstAttempt: now}
	}
	record.count++

	locked := record.count >= rl.maxAttempts
	if locked {
		record.lockedUntil = now.Add(rl.lockoutDuration)
	}
	rl.attempts.SetDefault(key, record)

	if locked {
		return true, rl.lockoutDuration
	}
	return false, 0
}

// RecordSuccess clears the failure record for a successful login.
func (rl *RateLimiter) RecordSuccess(ip, username string) {
	rl.attempts.Delete(makeKey(ip, username))
}

// Package ratelimit protects the login endpoints against brute force:
// a per-IP request window plus escalating lockouts after repeated
// failed password attempts.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	DefaultIPRequestsPerMinute = 10
	DefaultIPWindowDuration    = time.Minute
	DefaultMaxFailedAttempts   = 5
	DefaultLockoutDuration     = 15 * time.Minute
	MaxLockoutDuration         = time.Hour
)

type ipWindow struct {
	count   int
	resetAt time.Time
}

type lockoutState struct {
	failures    int
	lockedUntil time.Time
	lockouts    int
}

// AuthLimiter tracks request rates per IP and failed logins per account.
// All state is in memory; a restart clears it.
type AuthLimiter struct {
	mu        sync.RWMutex
	byIP      map[string]*ipWindow
	byAccount map[string]*lockoutState

	ipLimit             int
	ipWindowDuration    time.Duration
	maxFailedAttempts   int
	baseLockoutDuration time.Duration
}

func NewAuthLimiter() *AuthLimiter {
	return &AuthLimiter{
		byIP:                make(map[string]*ipWindow),
		byAccount:           make(map[string]*lockoutState),
		ipLimit:             DefaultIPRequestsPerMinute,
		ipWindowDuration:    DefaultIPWindowDuration,
		maxFailedAttempts:   DefaultMaxFailedAttempts,
		baseLockoutDuration: DefaultLockoutDuration,
	}
}

// Middleware rejects requests from IPs that exceeded the window limit.
func (l *AuthLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.allowIP(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, please try again later")
			}
			return next(c)
		}
	}
}

func (l *AuthLimiter) allowIP(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	window, ok := l.byIP[ip]
	if !ok || now.After(window.resetAt) {
		l.byIP[ip] = &ipWindow{count: 1, resetAt: now.Add(l.ipWindowDuration)}
		return true
	}

	if window.count >= l.ipLimit {
		return false
	}

	window.count++
	return true
}

// IsAccountLocked reports whether the account is currently locked out.
func (l *AuthLimiter) IsAccountLocked(account string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	state, ok := l.byAccount[account]
	if !ok {
		return false
	}
	return time.Now().Before(state.lockedUntil)
}

// GetLockoutRemaining returns how long until the account unlocks.
func (l *AuthLimiter) GetLockoutRemaining(account string) time.Duration {
	l.mu.RLock()
	defer l.mu.RUnlock()

	state, ok := l.byAccount[account]
	if !ok {
		return 0
	}

	remaining := time.Until(state.lockedUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RecordFailedAttempt counts a failed login. Each lockout lasts longer
// than the previous one, capped at MaxLockoutDuration.
func (l *AuthLimiter) RecordFailedAttempt(account string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.byAccount[account]
	if !ok {
		state = &lockoutState{}
		l.byAccount[account] = state
	}

	// A lockout that already expired starts a fresh counting window.
	if time.Now().After(state.lockedUntil) && state.failures >= l.maxFailedAttempts {
		state.failures = 0
	}

	state.failures++

	if state.failures >= l.maxFailedAttempts {
		state.lockouts++
		duration := l.baseLockoutDuration * time.Duration(state.lockouts)
		if duration > MaxLockoutDuration {
			duration = MaxLockoutDuration
		}
		state.lockedUntil = time.Now().Add(duration)
	}
}

// RecordSuccessfulLogin clears any lockout state for the account.
func (l *AuthLimiter) RecordSuccessfulLogin(account string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.byAccount, account)
}

// Cleanup drops expired windows and lockouts.
func (l *AuthLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	for ip, window := range l.byIP {
		if now.After(window.resetAt) {
			delete(l.byIP, ip)
		}
	}

	for account, state := range l.byAccount {
		if now.After(state.lockedUntil) && state.failures < l.maxFailedAttempts {
			delete(l.byAccount, account)
		}
	}
}

// StartCleanup runs Cleanup on the given interval.
func (l *AuthLimiter) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			l.Cleanup()
		}
	}()
}

// Package ratelimit throttles public form submissions and admin login attempts.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Public submissions (contact form)
	SubmitCooldown     time.Duration // Minimum gap between submissions from one sender
	SubmitMaxPerHour   int           // Per sender
	SubmitMaxIPPerHour int           // Per client IP

	// Login attempts
	LoginMaxAttempts  int           // Failed attempts before the account is locked
	LoginLockout      time.Duration // How long a locked account stays locked
	LoginMaxIPPerHour int           // Attempts per client IP regardless of account

	// Nil uses the real clock
	Clock clockwork.Clock
}

func DefaultConfig() *Config {
	return &Config{
		SubmitCooldown:     30 * time.Second,
		SubmitMaxPerHour:   5,
		SubmitMaxIPPerHour: 20,
		LoginMaxAttempts:   5,
		LoginLockout:       15 * time.Minute,
		LoginMaxIPPerHour:  50,
	}
}

// Result reports whether a request may proceed. Reason is for logs only.
type Result struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string
}

func allow() Result { return Result{Allowed: true} }

func deny(reason string, retryAfter time.Duration) Result {
	return Result{Allowed: false, RetryAfter: retryAfter, Reason: reason}
}

// window counts events since firstAt and remembers the most recent one.
type window struct {
	count    int
	firstAt  time.Time
	lastAt   time.Time
	lockedAt time.Time
}

func (w *window) expired(now time.Time, span time.Duration) bool {
	return w == nil || now.Sub(w.firstAt) >= span
}

// bump records an event in buckets[key], starting a fresh hourly window when
// the old one has lapsed.
func bump(buckets map[string]*window, key string, now time.Time) *window {
	w := buckets[key]
	if w.expired(now, time.Hour) {
		w = &window{firstAt: now}
		buckets[key] = w
	}
	w.count++
	w.lastAt = now
	return w
}

type Limiter struct {
	config *Config
	clock  clockwork.Clock

	mu             sync.RWMutex
	submitBySender map[string]*window
	submitByIP     map[string]*window
	loginByAccount map[string]*window
	loginByIP      map[string]*window

	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:         cfg,
		clock:          clock,
		submitBySender: make(map[string]*window),
		submitByIP:     make(map[string]*window),
		loginByAccount: make(map[string]*window),
		loginByIP:      make(map[string]*window),
		cleanupCtx:     ctx,
		cleanupCancel:  cancel,
	}
}

// Close stops the cleanup goroutine.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// CheckSubmit reports whether sender may submit a form from ip. It does not
// record anything; call RecordSubmit once the submission is accepted.
func (l *Limiter) CheckSubmit(sender, ip string) Result {
	l.startCleanup()
	now := l.clock.Now()

	l.mu.RLock()
	defer l.mu.RUnlock()

	if w := l.submitBySender[hashKey("submit:id:", normalizeIdentifier(sender))]; w != nil {
		if since := now.Sub(w.lastAt); since < l.config.SubmitCooldown {
			return deny("cooldown", l.config.SubmitCooldown-since)
		}
		if !w.expired(now, time.Hour) && w.count >= l.config.SubmitMaxPerHour {
			return deny("hourly_limit", time.Hour-now.Sub(w.firstAt))
		}
	}
	if w := l.submitByIP[hashKey("submit:ip:", ip)]; w != nil {
		if !w.expired(now, time.Hour) && w.count >= l.config.SubmitMaxIPPerHour {
			return deny("ip_hourly_limit", time.Hour-now.Sub(w.firstAt))
		}
	}
	return allow()
}

func (l *Limiter) RecordSubmit(sender, ip string) {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	bump(l.submitBySender, hashKey("submit:id:", normalizeIdentifier(sender)), now)
	bump(l.submitByIP, hashKey("submit:ip:", ip), now)
}

// CheckLogin reports whether account may attempt a login from ip.
func (l *Limiter) CheckLogin(account, ip string) Result {
	l.startCleanup()
	now := l.clock.Now()

	l.mu.RLock()
	defer l.mu.RUnlock()

	if w := l.loginByAccount[hashKey("login:id:", normalizeIdentifier(account))]; w != nil {
		switch {
		case !w.lockedAt.IsZero():
			if since := now.Sub(w.lockedAt); since < l.config.LoginLockout {
				return deny("lockout", l.config.LoginLockout-since)
			}
		case w.count >= l.config.LoginMaxAttempts:
			return deny("max_attempts", l.config.LoginLockout)
		}
	}
	if w := l.loginByIP[hashKey("login:ip:", ip)]; w != nil {
		if !w.expired(now, time.Hour) && w.count >= l.config.LoginMaxIPPerHour {
			return deny("ip_hourly_limit", time.Hour-now.Sub(w.firstAt))
		}
	}
	return allow()
}

// RecordFailedLogin counts a failed attempt and reports whether it locked the
// account.
func (l *Limiter) RecordFailedLogin(account, ip string) (lockedOut bool) {
	now := l.clock.Now()
	key := hashKey("login:id:", normalizeIdentifier(account))

	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.loginByAccount[key]
	if w == nil || (!w.lockedAt.IsZero() && now.Sub(w.lockedAt) >= l.config.LoginLockout) {
		w = &window{firstAt: now}
		l.loginByAccount[key] = w
	}
	w.count++
	w.lastAt = now
	if w.count >= l.config.LoginMaxAttempts && w.lockedAt.IsZero() {
		w.lockedAt = now
		lockedOut = true
	}

	bump(l.loginByIP, hashKey("login:ip:", ip), now)
	return lockedOut
}

// ResetLogin clears the account's failure count after a successful login.
func (l *Limiter) ResetLogin(account string) {
	key := hashKey("login:id:", normalizeIdentifier(account))
	l.mu.Lock()
	delete(l.loginByAccount, key)
	l.mu.Unlock()
}

func hashKey(prefix, value string) string {
	hash := sha256.Sum256([]byte(value))
	return prefix + hex.EncodeToString(hash[:8])
}

func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := l.clock.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.Chan():
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	prune := func(buckets map[string]*window, maxAge time.Duration) {
		for k, w := range buckets {
			if now.Sub(w.lastAt) > maxAge {
				delete(buckets, k)
			}
		}
	}
	prune(l.submitBySender, time.Hour)
	prune(l.submitByIP, time.Hour)
	prune(l.loginByAccount, l.config.LoginLockout+time.Hour)
	prune(l.loginByIP, time.Hour)
}

// GetClientIP extracts the client IP from a request. X-Forwarded-For and
// X-Real-IP are only honoured when trustProxy is set; the rightmost public
// XFF entry wins.
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			for i := len(parts) - 1; i >= 0; i-- {
				ip := strings.TrimSpace(parts[i])
				if ip != "" && !isPrivateIP(ip) {
					return ip
				}
			}
			return strings.TrimSpace(parts[len(parts)-1])
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if net.ParseIP(r.RemoteAddr) != nil {
			return r.RemoteAddr
		}
		if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
			candidate := r.RemoteAddr[:idx]
			if net.ParseIP(candidate) != nil {
				return candidate
			}
		}
		return r.RemoteAddr
	}
	return ip
}

var privateNetworks []*net.IPNet

func init() {
	for _, cidr := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
	} {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("invalid private CIDR: " + cidr)
		}
		privateNetworks = append(privateNetworks, network)
	}
}

// isPrivateIP treats IPv4-mapped IPv6 addresses like their IPv4 form.
func isPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	if ipv4 := ip.To4(); ipv4 != nil {
		ip = ipv4
	}
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// SanitizeIdentifier masks an email or phone for logging.
func SanitizeIdentifier(identifier string) string {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if local, domain, ok := strings.Cut(identifier, "@"); ok {
		if len(local) > 2 {
			return local[:2] + "***@" + domain
		}
		return "***@" + domain
	}
	if len(identifier) >= 4 {
		return "***" + identifier[len(identifier)-4:]
	}
	return "***"
}

func LogRateLimitExceeded(limitType, identifier, ip, reason string) {
	log.Warn().
		Str("event", "rate_limit_exceeded").
		Str("type", limitType).
		Str("identifier", SanitizeIdentifier(identifier)).
		Str("ip", ip).
		Str("reason", reason).
		Msg("Rate limit exceeded")
}

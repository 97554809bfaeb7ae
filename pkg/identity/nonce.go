package identity

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// NonceConfig configures nonce issuance.
type NonceConfig struct {
	// TTL is how long an issued nonce stays valid. Default: 2 minutes.
	TTL time.Duration

	// SweepInterval is how often expired nonces are purged in the background
	// (0 = no background sweep; expired entries are still rejected on use).
	SweepInterval time.Duration
}

// DefaultNonceConfig returns sensible defaults.
func DefaultNonceConfig() *NonceConfig {
	return &NonceConfig{
		TTL:           2 * time.Minute,
		SweepInterval: time.Minute,
	}
}

// NonceCache issues single-use challenge nonces for the nonce auth mode.
// Each nonce is valid for one successful Consume within its TTL.
type NonceCache struct {
	mu      sync.Mutex
	entries map[string]time.Time
	config  *NonceConfig
	done    chan struct{}
}

// NewNonceCache creates a nonce cache. A background sweep goroutine starts if
// SweepInterval is set; stop it with Close.
func NewNonceCache(config *NonceConfig) *NonceCache {
	if config == nil {
		config = DefaultNonceConfig()
	}
	if config.TTL <= 0 {
		config.TTL = DefaultNonceConfig().TTL
	}

	c := &NonceCache{
		entries: make(map[string]time.Time),
		config:  config,
		done:    make(chan struct{}),
	}
	if config.SweepInterval > 0 {
		go c.sweepLoop()
	}
	return c
}

// Issue mints a fresh nonce valid for the configured TTL.
func (c *NonceCache) Issue() string {
	nonce := uuid.NewString()
	c.mu.Lock()
	c.entries[nonce] = time.Now().Add(c.config.TTL)
	c.mu.Unlock()
	return nonce
}

// TTL reports the validity window for issued nonces.
func (c *NonceCache) TTL() time.Duration {
	return c.config.TTL
}

// Consume removes the nonce and reports whether it was live. A nonce can only
// ever be consumed once; expired or unknown nonces report false.
func (c *NonceCache) Consume(nonce string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiry, ok := c.entries[nonce]
	if !ok {
		return false
	}
	delete(c.entries, nonce)
	return time.Now().Before(expiry)
}

// Close stops the background sweep.
func (c *NonceCache) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

func (c *NonceCache) sweepLoop() {
	ticker := time.NewTicker(c.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for nonce, expiry := range c.entries {
				if now.After(expiry) {
					delete(c.entries, nonce)
				}
			}
			c.mu.Unlock()
		}
	}
}

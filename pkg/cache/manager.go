package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss indicates the requested key was not found in any layer.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates a stored entry could not be decoded.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// DefaultTTL is how long entries are kept when Options.TTL is unset.
const DefaultTTL = 5 * time.Minute

// Options configures a Manager.
type Options struct {
	// TTL bounds how long an entry is kept in every layer.
	TTL time.Duration

	// Redis enables the shared layer. Nil keeps the cache in-process only.
	Redis *redis.Client
}

// Manager stores search responses in memory and, optionally, in redis.
type Manager struct {
	memory *gocache.Cache
	redis  *redis.Client
	ttl    time.Duration
}

// NewManager creates a cache manager.
func NewManager(opts Options) *Manager {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{
		memory: gocache.New(ttl, 2*ttl),
		redis:  opts.Redis,
		ttl:    ttl,
	}
}

// TTL returns the lifetime given to new entries.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Get retrieves an entry by key. Returns ErrCacheMiss if no layer holds a
// live entry.
func (m *Manager) Get(ctx context.Context, key Key) (*Entry, error) {
	cacheKey := key.String()

	if v, ok := m.memory.Get(cacheKey); ok {
		if entry, ok := v.(*Entry); ok && !entry.IsExpired() {
			CacheHits.WithLabelValues("memory").Inc()
			copied := *entry
			return &copied, nil
		}
		m.memory.Delete(cacheKey)
	}

	if m.redis == nil {
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	data, err := m.redis.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if entry.IsExpired() {
		_ = m.Delete(ctx, key)
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("redis").Inc()
	promoted := entry
	m.memory.Set(cacheKey, &promoted, entry.TTL())

	return &entry, nil
}

// Set stores entry in every layer until entry.Expires.
func (m *Manager) Set(ctx context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	ttl := entry.TTL()
	if ttl <= 0 {
		return nil
	}

	cacheKey := key.String()
	stored := *entry
	m.memory.Set(cacheKey, &stored, ttl)

	if m.redis == nil {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := m.redis.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes an entry from every layer.
func (m *Manager) Delete(ctx context.Context, key Key) error {
	cacheKey := key.String()
	m.memory.Delete(cacheKey)

	if m.redis == nil {
		return nil
	}

	if err := m.redis.Del(ctx, cacheKey).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

// Touch extends an entry's lifetime by the manager TTL. It is called when a
// revalidation confirms the entry is still current.
func (m *Manager) Touch(ctx context.Context, key Key) error {
	entry, err := m.Get(ctx, key)
	if err != nil {
		return err
	}

	entry.Expires = time.Now().Add(m.ttl)
	return m.Set(ctx, key, entry)
}

// Len returns the number of entries held in memory.
func (m *Manager) Len() int {
	return m.memory.ItemCount()
}

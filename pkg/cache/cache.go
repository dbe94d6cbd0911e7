// Package cache stores computed layouts and rendered artifacts so repeated
// runs over an unchanged concept graph skip the force simulation.
//
// Three backends implement [Cache]:
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps JSON entries under a local directory (CLI default)
//   - [RedisCache] shares entries between machines through redis
//
// Keys are produced by a [Keyer] from content hashes and the options that
// influence the result, so a change to either yields a different key.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a layout of the graph with the given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the inputs, besides the graph, that change a layout.
type LayoutKeyOpts struct {
	Seed       uint64 `json:"seed"`
	ParamsHash string `json:"params_hash"` // hash of the remaining force parameters
}

// ArtifactKeyOpts holds the inputs, besides the layout, that change a render.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Threshold float64 `json:"threshold"`
	Detailed  bool    `json:"detailed"`
}

// DefaultKeyer produces keys of the form "layout:<sha256>" and
// "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}

// ttlCache replaces the TTL of every write with a fixed lifetime.
type ttlCache struct {
	Cache
	ttl time.Duration
}

// WithTTL returns c with every Set using ttl instead of the caller's value.
// A non-positive ttl returns c unchanged.
func WithTTL(c Cache, ttl time.Duration) Cache {
	if ttl <= 0 {
		return c
	}
	return &ttlCache{Cache: c, ttl: ttl}
}

func (c *ttlCache) Set(ctx context.Context, key string, data []byte, _ time.Duration) error {
	return c.Cache.Set(ctx, key, data, c.ttl)
}

// Clear forwards to the wrapped cache when it supports clearing.
func (c *ttlCache) Clear(ctx context.Context) error {
	if cl, ok := c.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}

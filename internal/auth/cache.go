package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tired-Fox/rataify-sub001/internal/shared"
)

const cacheVersion = 1

// cacheEntry is the on-disk encoding of a Token. The version field lets
// incompatible layout changes invalidate old entries instead of
// half-decoding them.
type cacheEntry struct {
	Version int   `json:"version"`
	Token   Token `json:"token"`
}

// Cache persists tokens to disk, one file per flow identity, so the
// three flow variants never collide. The directory is an explicit
// constructor argument; the cache never consults process-wide paths.
type Cache struct {
	dir string
}

// NewCache creates a token cache rooted at the given directory.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Load reads the cached token for a flow identity.
//
// Absence, corruption, and version mismatch all return
// [shared.ErrNoCachedToken]; the cache is advisory and a miss simply
// means a fresh exchange is needed.
func (c *Cache) Load(flowID string) (Token, error) {
	data, err := os.ReadFile(c.path(flowID))
	if err != nil {
		return Token{}, shared.ErrNoCachedToken
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Token{}, shared.ErrNoCachedToken
	}
	if entry.Version != cacheVersion || entry.Token.Empty() {
		return Token{}, shared.ErrNoCachedToken
	}

	return entry.Token, nil
}

// Save writes the token for a flow identity. The encoding round-trips
// every field, including sub-second expiry precision.
func (c *Cache) Save(flowID string, t Token) error {
	if err := os.MkdirAll(c.dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(cacheEntry{Version: cacheVersion, Token: t}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(c.path(flowID), data, 0600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}

	return nil
}

// Remove deletes the cached token for a flow identity. Removing a
// missing entry is not an error.
func (c *Cache) Remove(flowID string) error {
	if err := os.Remove(c.path(flowID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token cache: %w", err)
	}
	return nil
}

func (c *Cache) path(flowID string) string {
	return filepath.Join(c.dir, flowID+".json")
}

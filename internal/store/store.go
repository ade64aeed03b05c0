package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a key has no blob.
	ErrNotFound = errors.New("not found")

	// ErrInvalidKey is returned for keys that are empty, absolute, or
	// contain empty or dot-dot segments.
	ErrInvalidKey = errors.New("invalid blob key")
)

// Blob is a flat key→bytes store. Keys are slash-separated paths such as
// "documents/Untitled Paper 1.json".
type Blob interface {
	Put(ctx context.Context, key string, data []byte) error
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	// Delete reports whether a blob was actually removed.
	Delete(ctx context.Context, key string) (bool, error)
	// List returns the keys directly under prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// ValidateKey rejects keys that could escape their prefix.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

// directChildren keeps the keys that sit immediately under prefix and
// returns them sorted.
func directChildren(prefix string, keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		if rest == "" || strings.Contains(rest, "/") {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

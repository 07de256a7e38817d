// Package customdict stores operator-supplied domain terms in a Redis set.
// The terms are read once at startup and seeded into the spelling index
// with the domain-term weight.
package customdict

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis set holding the terms.
const DefaultKey = "custom_dict"

// SetStore is the subset of redis.Cmdable used by CustomDict.
type SetStore interface {
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
}

// CustomDict wraps a Redis client to store custom dictionary words.
type CustomDict struct {
	client SetStore
	key    string
}

// New creates a CustomDict on the default key. client is usually a *redis.Client.
func New(client SetStore) *CustomDict {
	return NewWithKey(client, DefaultKey)
}

// NewWithKey creates a CustomDict on key.
func NewWithKey(client SetStore, key string) *CustomDict {
	if key == "" {
		key = DefaultKey
	}
	return &CustomDict{client: client, key: key}
}

// Add inserts words, lowercased. It reports how many were new.
func (cd *CustomDict) Add(ctx context.Context, words ...string) (int64, error) {
	members := normalize(words)
	if len(members) == 0 {
		return 0, nil
	}
	n, err := cd.client.SAdd(ctx, cd.key, members...).Result()
	if err != nil {
		return 0, fmt.Errorf("adding to %s: %w", cd.key, err)
	}
	return n, nil
}

// Remove deletes words. It reports how many were present.
func (cd *CustomDict) Remove(ctx context.Context, words ...string) (int64, error) {
	members := normalize(words)
	if len(members) == 0 {
		return 0, nil
	}
	n, err := cd.client.SRem(ctx, cd.key, members...).Result()
	if err != nil {
		return 0, fmt.Errorf("removing from %s: %w", cd.key, err)
	}
	return n, nil
}

// All returns every stored word, sorted.
func (cd *CustomDict) All(ctx context.Context) ([]string, error) {
	words, err := cd.client.SMembers(ctx, cd.key).Result()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", cd.key, err)
	}
	sort.Strings(words)
	return words, nil
}

func normalize(words []string) []interface{} {
	members := make([]interface{}, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			members = append(members, w)
		}
	}
	return members
}

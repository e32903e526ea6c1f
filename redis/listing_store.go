package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/slideshow/gallery"
)

const listingKeyspace = "listing"

// ListingStore keeps gallery listings as JSON arrays under
// <keyPrefix>:listing:<prefix>.
type ListingStore struct {
	client    *Client
	keyPrefix string
}

var _ gallery.SharedStore = (*ListingStore)(nil)

func NewListingStore(client *Client, keyPrefix string) *ListingStore {
	return &ListingStore{client: client, keyPrefix: keyPrefix}
}

func (s *ListingStore) key(prefix string) string {
	k := listingKeyspace + ":" + prefix
	if s.keyPrefix == "" {
		return k
	}
	return s.keyPrefix + ":" + k
}

// Load returns ok=false when no listing is stored for prefix.
func (s *ListingStore) Load(ctx context.Context, prefix string) ([]string, bool, error) {
	raw, err := s.client.rdb.Get(ctx, s.key(prefix)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("listing store load %q: %w", prefix, err)
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, false, fmt.Errorf("listing store decode %q: %w", prefix, err)
	}
	return names, true, nil
}

func (s *ListingStore) Save(ctx context.Context, prefix string, names []string, ttl time.Duration) error {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("listing store encode %q: %w", prefix, err)
	}
	if err := s.client.rdb.Set(ctx, s.key(prefix), data, ttl).Err(); err != nil {
		return fmt.Errorf("listing store save %q: %w", prefix, err)
	}
	return nil
}

// Delete removes the given prefixes, or every stored listing when none
// are given.
func (s *ListingStore) Delete(ctx context.Context, prefixes ...string) error {
	keys := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		keys = append(keys, s.key(p))
	}
	if len(prefixes) == 0 {
		iter := s.client.rdb.Scan(ctx, 0, s.key("*"), 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("listing store scan: %w", err)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("listing store delete: %w", err)
	}
	return nil
}

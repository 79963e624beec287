package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/gosimple/slug"
	"github.com/mobilkita/tradein/internal/logger"
	"github.com/nats-io/nats.go/jetstream"
)

// KVStore keeps products in a JetStream key-value bucket, one key per product.
type KVStore struct {
	kv jetstream.KeyValue
}

// NewKVStore wraps an existing bucket.
func NewKVStore(kv jetstream.KeyValue) *KVStore {
	return &KVStore{kv: kv}
}

// ErrKeyCollision is returned when two distinct product IDs slug to the same
// bucket key, e.g. "A 1" and "a-1".
var ErrKeyCollision = errors.New("product ids share a bucket key")

// Key returns the bucket key of a product ID. Keys are slugged because the
// bucket only accepts a restricted alphabet, so IDs must be unique after
// slugging; Put and Import enforce that.
func Key(id string) string {
	return slug.Make(id)
}

// Put stores or replaces a product. A product whose key already holds a
// different ID is rejected with ErrKeyCollision.
func (s *KVStore) Put(ctx context.Context, p Product) error {
	key := Key(p.ID)
	if key == "" {
		return fmt.Errorf("product %q: id has no usable characters", p.ID)
	}
	entry, err := s.kv.Get(ctx, key)
	switch {
	case err == nil:
		var existing Product
		if json.Unmarshal(entry.Value(), &existing) == nil && existing.ID != p.ID {
			return fmt.Errorf("product %q: key %s already holds %q: %w", p.ID, key, existing.ID, ErrKeyCollision)
		}
	case !errors.Is(err, jetstream.ErrKeyNotFound):
		return fmt.Errorf("reading product %s: %w", p.ID, err)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling product %s: %w", p.ID, err)
	}
	if _, err := s.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("storing product %s: %w", p.ID, err)
	}
	return nil
}

// Import stores every product and returns how many were written. Nothing is
// written when two products of the batch collide on a key.
func (s *KVStore) Import(ctx context.Context, products []Product) (int, error) {
	owners := make(map[string]string, len(products))
	for _, p := range products {
		key := Key(p.ID)
		if owner, ok := owners[key]; ok && owner != p.ID {
			return 0, fmt.Errorf("products %q and %q: key %s: %w", owner, p.ID, key, ErrKeyCollision)
		}
		owners[key] = p.ID
	}
	for i, p := range products {
		if err := s.Put(ctx, p); err != nil {
			return i, err
		}
	}
	return len(products), nil
}

// Delete removes a product. Deleting an unknown product is not an error.
func (s *KVStore) Delete(ctx context.Context, id string) error {
	if err := s.kv.Delete(ctx, Key(id)); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("deleting product %s: %w", id, err)
	}
	return nil
}

// Products implements Source. Results are ordered by ID.
func (s *KVStore) Products(ctx context.Context) ([]Product, error) {
	lister, err := s.kv.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing inventory keys: %w", err)
	}
	defer func() { _ = lister.Stop() }()

	var products []Product
	for key := range lister.Keys() {
		entry, err := s.kv.Get(ctx, key)
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				continue // deleted between list and get
			}
			return nil, fmt.Errorf("reading product %s: %w", key, err)
		}
		var p Product
		if err := json.Unmarshal(entry.Value(), &p); err != nil {
			logger.Warn("Skipping malformed inventory entry %s: %v", key, err)
			continue
		}
		products = append(products, p)
	}

	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// Watch calls onChange with the full product list once the initial values
// have been delivered and again after every later change, until ctx is done.
func (s *KVStore) Watch(ctx context.Context, onChange func([]Product)) error {
	watcher, err := s.kv.WatchAll(ctx)
	if err != nil {
		return fmt.Errorf("watching inventory: %w", err)
	}

	go func() {
		defer func() { _ = watcher.Stop() }()
		ready := false
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-watcher.Updates():
				if !ok {
					return
				}
				// A nil entry marks the end of the initial values.
				if entry == nil {
					ready = true
				} else if !ready {
					continue
				}
				products, err := s.Products(ctx)
				if err != nil {
					logger.Warn("Reloading inventory after change failed: %v", err)
					continue
				}
				onChange(products)
			}
		}
	}()

	return nil
}

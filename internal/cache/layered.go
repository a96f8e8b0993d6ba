package cache

import (
	"errors"
	"time"
)

// LayeredCache stacks caches from fastest to slowest. Reads stop at the
// first layer holding the key and copy the value into the layers above it;
// writes go to every layer.
type LayeredCache struct {
	layers []Cache
}

// NewLayeredCache returns the analysis cache: go-cache in memory over
// snappy files in diskDir.
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return Stack(
		NewMemoryCache(memoryTTL, 10*time.Minute),
		NewDiskCache(diskDir, diskTTL),
	)
}

// Stack layers the given caches, fastest first.
func Stack(layers ...Cache) *LayeredCache {
	return &LayeredCache{layers: layers}
}

// Get returns the value from the fastest layer that has it.
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	for i, layer := range c.layers {
		val, found := layer.Get(key)
		if !found {
			continue
		}
		for _, upper := range c.layers[:i] {
			_ = upper.Set(key, val, 0)
		}
		return val, true
	}
	return nil, false
}

// Set writes to every layer, stopping at the first failure.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	for _, layer := range c.layers {
		if err := layer.Set(key, value, ttl); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes key from every layer.
func (c *LayeredCache) Delete(key string) error {
	var errs []error
	for _, layer := range c.layers {
		errs = append(errs, layer.Delete(key))
	}
	return errors.Join(errs...)
}

// Clear empties every layer.
func (c *LayeredCache) Clear() error {
	var errs []error
	for _, layer := range c.layers {
		errs = append(errs, layer.Clear())
	}
	return errors.Join(errs...)
}

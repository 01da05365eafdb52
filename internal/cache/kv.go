package cache

import (
	"encoding/json"
	"time"
)

// KV defines the minimal key-value cache contract with TTL semantics.
// Implementations must be safe for concurrent use by multiple goroutines.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// GetJSON decodes the value stored under key into v.
func GetJSON(kv KV, key string, v any) error {
	b, err := kv.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// PutJSON encodes v and stores it under key.
func PutJSON(kv KV, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Put(key, b, ttl)
}

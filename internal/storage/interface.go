package storage

import "strings"

// KV is the durable key/value surface every engine reads from and writes to.
// A missing key is reported as (nil, false, nil): callers treat it as a cold
// start, not an error.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, data []byte) error
	Keys(prefix string) ([]string, error)
}

type Provider interface {
	KV

	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Utils
	GetConfigPath() string
}

// Key builds a namespaced store key such as "streak/default".
func Key(namespace, id string) string {
	return namespace + "/" + id
}

// SplitKey is the inverse of Key.
func SplitKey(key string) (namespace, id string) {
	namespace, id, _ = strings.Cut(key, "/")
	return namespace, id
}

package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/studyline/internal/errors"
	"github.com/julianstephens/studyline/internal/logger"
)

// LoadSnapshot decodes the JSON snapshot stored under key into v. It returns
// false when the key has never been written.
func LoadSnapshot(kv KV, key string, v any) (bool, error) {
	data, ok, err := kv.Get(key)
	if err != nil {
		return false, errors.Persistence("load "+key, err)
	}
	if !ok || isTombstone(data) {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.Persistence("decode "+key, err)
	}
	return true, nil
}

// SaveSnapshot encodes v as JSON and writes it under key.
func SaveSnapshot(kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	if err := kv.Put(key, data); err != nil {
		logger.Warn("Snapshot write failed", "key", key, "error", err)
		return errors.Persistence("save "+key, err)
	}
	return nil
}

// DeleteSnapshot replaces the value under key with a tombstone. KV has no
// delete; a tombstoned key reads back as never written.
func DeleteSnapshot(kv KV, key string) error {
	if err := kv.Put(key, []byte("null")); err != nil {
		logger.Warn("Snapshot delete failed", "key", key, "error", err)
		return errors.Persistence("delete "+key, err)
	}
	return nil
}

func isTombstone(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

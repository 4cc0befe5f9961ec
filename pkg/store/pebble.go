package store

import (
	"bytes"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"agoradb/pkg/logger"

	"github.com/cockroachdb/pebble"
)

var (
	db     *pebble.DB
	dbPath string
)

// ErrKeyNotFound is returned by Get when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// Open opens (or creates) a Pebble database at the given path and keeps
// a global handle for simple usage in this package.
func Open(path string) error {
	var err error
	logger.Info("opening_pebble_db", zap.String("path", path))
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", zap.String("path", path), zap.Error(err))
		return err
	}
	dbPath = path
	logger.Info("pebble_opened", zap.String("path", path))
	return nil
}

// Close closes the opened pebble DB if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	logger.Info("pebble_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool {
	return db != nil
}

// Set writes a key/value pair synchronously. Callers choose a namespaced
// key (e.g. "person:", "thread:<name>:post:").
func Set(key string, value []byte) error {
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	if err := db.Set([]byte(key), value, pebble.Sync); err != nil {
		logger.Error("store_set_failed", zap.String("key", key), zap.Error(err))
		return err
	}
	opsTotal.WithLabelValues("set").Inc()
	logger.Debug("store_set_ok", zap.String("key", key), zap.Int("len", len(value)))
	return nil
}

// Get returns the value for key, or ErrKeyNotFound.
func Get(key string) ([]byte, error) {
	if db == nil {
		return nil, fmt.Errorf("pebble not opened; call store.Open first")
	}
	v, closer, err := db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrKeyNotFound
		}
		logger.Error("store_get_failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	out := append([]byte(nil), v...)
	if closer != nil {
		_ = closer.Close()
	}
	opsTotal.WithLabelValues("get").Inc()
	return out, nil
}

// Delete removes a key synchronously. Deleting an absent key is not an
// error.
func Delete(key string) error {
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	if err := db.Delete([]byte(key), pebble.Sync); err != nil {
		logger.Error("store_delete_failed", zap.String("key", key), zap.Error(err))
		return err
	}
	opsTotal.WithLabelValues("delete").Inc()
	return nil
}

// DeletePrefix removes every key starting with prefix in one range
// deletion.
func DeletePrefix(prefix string) error {
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	start := []byte(prefix)
	end := upperBound(start)
	if err := db.DeleteRange(start, end, pebble.Sync); err != nil {
		logger.Error("store_delete_prefix_failed", zap.String("prefix", prefix), zap.Error(err))
		return err
	}
	opsTotal.WithLabelValues("delete_range").Inc()
	return nil
}

// ScanPrefix iterates all keys with the given prefix in key order,
// invoking fn with each key and a stable copy of its value. Returning an
// error from fn stops the scan.
func ScanPrefix(prefix string, fn func(key string, value []byte) error) error {
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	pfx := []byte(prefix)
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	defer iter.Close()
	for iter.SeekGE(pfx); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), pfx) {
			break
		}
		k := string(iter.Key())
		v := append([]byte(nil), iter.Value()...)
		if err := fn(k, v); err != nil {
			return err
		}
	}
	opsTotal.WithLabelValues("scan").Inc()
	return iter.Error()
}

// CountPrefix returns the number of keys carrying the prefix.
func CountPrefix(prefix string) (uint64, error) {
	var n uint64
	err := ScanPrefix(prefix, func(string, []byte) error {
		n++
		return nil
	})
	return n, err
}

// upperBound returns the smallest key greater than every key with the
// given prefix.
func upperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	// prefix was all 0xff; no upper bound
	return nil
}

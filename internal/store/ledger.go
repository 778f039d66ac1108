// Package store provides the local persistence layer: the seen-URL
// deduplication ledger and the moderated article collection.
package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const seenBucket = "seen_urls"

// Ledger is the persisted set of already-processed article URLs. It grows
// monotonically: a URL once marked is excluded from every future run.
type Ledger struct {
	db *bolt.DB
}

// OpenLedger opens the bbolt-backed ledger, creating the file (and its
// directory) if absent. A missing file means an empty ledger, not an error.
func OpenLedger(path string) (*Ledger, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(seenBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger bucket: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// IsSeen reports whether the URL has been marked in any prior run.
func (l *Ledger) IsSeen(url string) (bool, error) {
	if l == nil || l.db == nil {
		return false, nil
	}

	var exists bool
	err := l.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(seenBucket))
		if bucket == nil {
			return fmt.Errorf("ledger bucket missing")
		}
		exists = bucket.Get([]byte(url)) != nil
		return nil
	})
	return exists, err
}

// MarkSeen records the URL as processed. Idempotent; the write is flushed to
// durable storage before the call returns.
func (l *Ledger) MarkSeen(url string) error {
	if l == nil || l.db == nil {
		return fmt.Errorf("ledger is not open")
	}

	return l.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(seenBucket))
		if bucket == nil {
			return fmt.Errorf("ledger bucket missing")
		}
		// Value records when the URL was first marked; reads only test presence.
		if bucket.Get([]byte(url)) != nil {
			return nil
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(time.Now().Unix()))
		return bucket.Put([]byte(url), buf)
	})
}

// Size returns the number of recorded URLs.
func (l *Ledger) Size() (int, error) {
	if l == nil || l.db == nil {
		return 0, nil
	}

	var n int
	err := l.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(seenBucket))
		if bucket == nil {
			return fmt.Errorf("ledger bucket missing")
		}
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}

package kv

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	boltFileName = "companion.bolt"
	boltBucket   = "companion"
)

// BoltStore keeps every key in a single bbolt bucket.
type BoltStore struct {
	db   *bolt.DB
	path string
}

// OpenBoltStore opens (or creates) companion.bolt in dir. A file that is not a
// valid bolt database is moved aside and a fresh one is created.
func OpenBoltStore(dir string) (*BoltStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	path := filepath.Join(dir, boltFileName)

	db, err := openBolt(path)
	if isCorruptBolt(err) {
		aside, mvErr := moveAside(path)
		if mvErr != nil {
			return nil, fmt.Errorf("moving corrupt %s aside: %w", path, mvErr)
		}
		log.Printf("[kv] %s is not a valid bolt database (%v), moved to %s", path, err, aside)
		db, err = openBolt(path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltStore{db: db, path: path}, nil
}

func openBolt(path string) (*bolt.DB, error) {
	return bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
}

func isCorruptBolt(err error) bool {
	return errors.Is(err, bolt.ErrInvalid) ||
		errors.Is(err, bolt.ErrChecksum) ||
		errors.Is(err, bolt.ErrVersionMismatch)
}

// Path returns the database file location.
func (s *BoltStore) Path() string {
	return s.path
}

// Get implements Store.
func (s *BoltStore) Get(_ context.Context, key string) (string, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(boltBucket)).Get([]byte(key)); v != nil {
			// v is only valid inside the transaction; string() copies it.
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("reading key %q: %w", key, err)
	}
	if !found {
		return "", ErrNotFound
	}
	return value, nil
}

// Put implements Store.
func (s *BoltStore) Put(_ context.Context, key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (s *BoltStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

// Close implements Store.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

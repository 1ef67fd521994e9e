// Package history keeps the search criteria the user submitted.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/pders01/ntsearch/internal/search"
	"github.com/pders01/ntsearch/internal/validation"
)

var (
	entriesBucket = []byte("entries")

	ErrNotFound = errors.New("no history entry")
)

type Entry struct {
	ID       string          `json:"id"`
	At       time.Time       `json:"at"`
	Criteria search.Criteria `json:"criteria"`
}

// Store persists entries keyed by UUIDv7, so key order is insertion order.
type Store struct {
	db    *bolt.DB
	limit int
	now   func() time.Time
}

// Open opens or creates the history database at path. At most limit
// entries are kept; limit below 1 keeps everything.
func Open(path string, limit int) (*Store, error) {
	path, err := validation.PrepareFile(path)
	if err != nil {
		return nil, fmt.Errorf("preparing history path: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(entriesBucket)
		return createErr
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, limit: limit, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores criteria as the newest entry and prunes the oldest ones
// beyond the limit. Empty criteria are not recorded.
func (s *Store) Record(c search.Criteria) (*Entry, error) {
	if c.Empty() {
		return nil, nil
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating id: %w", err)
	}
	entry := &Entry{ID: id.String(), At: s.now().UTC(), Criteria: c}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		if err := b.Put(id[:], data); err != nil {
			return err
		}
		return s.prune(b)
	})
	if err != nil {
		return nil, fmt.Errorf("recording history: %w", err)
	}
	return entry, nil
}

func (s *Store) prune(b *bolt.Bucket) error {
	if s.limit < 1 {
		return nil
	}
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	for i := 0; i < len(keys)-s.limit; i++ {
		if err := b.Delete(keys[i]); err != nil {
			return err
		}
	}
	return nil
}

// Recent returns up to limit entries, newest first. limit below 1
// returns all entries.
func (s *Store) Recent(limit int) ([]*Entry, error) {
	var entries []*Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(entriesBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				continue
			}
			entries = append(entries, &e)
			if limit > 0 && len(entries) == limit {
				break
			}
		}
		return nil
	})
	return entries, err
}

// Latest returns the newest entry or ErrNotFound.
func (s *Store) Latest() (*Entry, error) {
	entries, err := s.Recent(1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return entries[0], nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(entriesBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(entriesBucket)
		return err
	})
}

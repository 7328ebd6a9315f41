// Package history keeps the queries a user has submitted.
package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	queriesBucket = []byte("queries")
	metaBucket    = []byte("metadata")

	lastQueryKey = []byte("last_query")
)

// Entry is one submitted query.
type Entry struct {
	ID    uint64    `json:"id"`
	Query string    `json:"query"`
	At    time.Time `json:"at"`
	OK    bool      `json:"ok"`
}

type Store struct {
	db    *bolt.DB
	limit int
	now   func() time.Time
}

// Open opens or creates the history database at dbPath. When limit is
// positive only the newest limit entries are kept.
func Open(dbPath string, limit int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{queriesBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
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

// Record appends a query. Keys are sequence numbers, so bucket order is
// submission order.
func (s *Store) Record(query string, ok bool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(queriesBucket)
		id, err := b.NextSequence()
		if err != nil {
			return err
		}

		data, err := json.Marshal(&Entry{ID: id, Query: query, At: s.now().UTC(), OK: ok})
		if err != nil {
			return err
		}
		if err := b.Put(itob(id), data); err != nil {
			return err
		}
		if err := tx.Bucket(metaBucket).Put(lastQueryKey, []byte(query)); err != nil {
			return err
		}
		return s.prune(b)
	})
}

func (s *Store) prune(b *bolt.Bucket) error {
	if s.limit <= 0 {
		return nil
	}
	// Stats does not see uncommitted writes, so count with a cursor.
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	excess := len(keys) - s.limit
	if excess <= 0 {
		return nil
	}

	stale := keys[:excess]
	for _, k := range stale {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// Recent returns up to limit entries, newest first. A limit of zero
// returns everything.
func (s *Store) Recent(limit int) ([]*Entry, error) {
	var entries []*Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(queriesBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				continue
			}
			entries = append(entries, &e)
			if limit > 0 && len(entries) >= limit {
				break
			}
		}
		return nil
	})
	return entries, err
}

// LastQuery returns the most recently recorded query text.
func (s *Store) LastQuery() (string, error) {
	var q string
	err := s.db.View(func(tx *bolt.Tx) error {
		q = string(tx.Bucket(metaBucket).Get(lastQueryKey))
		return nil
	})
	return q, err
}

// Clear removes every entry.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{queriesBucket, metaBucket} {
			if err := tx.DeleteBucket(bucket); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}

// Grep returns entries whose query matches term, best match first.
func (s *Store) Grep(term string, limit int) ([]*Entry, error) {
	entries, err := s.Recent(0)
	if err != nil {
		return nil, err
	}

	idx, err := NewIndex(entries)
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	return idx.Search(term, limit)
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

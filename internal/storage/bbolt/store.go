// Package bbolt provides a BoltDB-backed roster persister.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/samdwyer/pokehub/internal/entity"
	"github.com/samdwyer/pokehub/internal/roster"
)

const rosterBucket = "roster"

// Store persists the roster in a BoltDB file. Members are stored one per key,
// keyed by slot so a cursor walk returns them in roster order.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns the saved roster in slot order. An empty bucket yields no members.
func (s *Store) Load(ctx context.Context) ([]entity.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var members []entity.Member
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(rosterBucket))
		if bucket == nil {
			return fmt.Errorf("roster bucket is missing")
		}
		return bucket.ForEach(func(k, v []byte) error {
			var m entity.Member
			if err := json.Unmarshal(v, &m); err != nil {
				return fmt.Errorf("unmarshal member %s: %w", k, err)
			}
			members = append(members, m)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Save replaces the stored roster with members in a single transaction.
func (s *Store) Save(ctx context.Context, members []entity.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if len(members) > roster.MaxMembers {
		return fmt.Errorf("roster has %d members, limit is %d", len(members), roster.MaxMembers)
	}

	payloads := make([][]byte, len(members))
	for i, m := range members {
		if m.SpeciesID <= 0 {
			return fmt.Errorf("member %d: species id is required", i)
		}
		payload, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal member %d: %w", m.SpeciesID, err)
		}
		payloads[i] = payload
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(rosterBucket)) != nil {
			if err := tx.DeleteBucket([]byte(rosterBucket)); err != nil {
				return fmt.Errorf("reset roster bucket: %w", err)
			}
		}
		bucket, err := tx.CreateBucket([]byte(rosterBucket))
		if err != nil {
			return fmt.Errorf("create roster bucket: %w", err)
		}
		for i, payload := range payloads {
			if err := bucket.Put(slotKey(i), payload); err != nil {
				return fmt.Errorf("put member %d: %w", i, err)
			}
		}
		return nil
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(rosterBucket))
		if err != nil {
			return fmt.Errorf("create roster bucket: %w", err)
		}
		return nil
	})
}

func slotKey(i int) []byte {
	return []byte(fmt.Sprintf("slot/%02d", i))
}

var _ roster.Persister = (*Store)(nil)

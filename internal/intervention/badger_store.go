package intervention

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStore is a Store backed by BadgerDB. Entries are written with a
// native TTL, so expiry is handled by the database rather than filtered on
// read. Useful when queues must survive a process restart.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerStore opens (or creates) a Badger-backed store at path.
// An empty path opens an in-memory database.
func OpenBadgerStore(path string, ttl time.Duration) (*BadgerStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	opts := badger.DefaultOptions(path)
	opts = opts.WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &BadgerStore{db: db, ttl: ttl}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// queueKey orders entries by enqueue time within a learner prefix.
// Badger iterates keys lexicographically, so nanos are zero-padded.
func queueKey(learnerID string, enqueuedAt time.Time, id string) []byte {
	return fmt.Appendf(nil, "iv/%s/%020d/%s", learnerID, enqueuedAt.UnixNano(), id)
}

func queuePrefix(learnerID string) []byte {
	return fmt.Appendf(nil, "iv/%s/", learnerID)
}

func (s *BadgerStore) Enqueue(learnerID string, iv Intervention) error {
	now := time.Now()
	iv.ExpiresAt = now.Add(s.ttl)

	val, err := json.Marshal(iv)
	if err != nil {
		return fmt.Errorf("marshal intervention: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(queueKey(learnerID, now, iv.ID), val).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("enqueue intervention: %w", err)
	}
	return nil
}

func (s *BadgerStore) Pending(learnerID string) ([]Intervention, error) {
	var out []Intervention

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = queuePrefix(learnerID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var iv Intervention
				if err := json.Unmarshal(val, &iv); err != nil {
					return fmt.Errorf("unmarshal intervention: %w", err)
				}
				out = append(out, iv)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read pending interventions: %w", err)
	}
	return out, nil
}

func (s *BadgerStore) Remove(learnerID, id string) (Intervention, bool, error) {
	var (
		found Intervention
		ok    bool
	)

	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = queuePrefix(learnerID)
		it := txn.NewIterator(opts)

		// Locate first, then delete after the iterator is closed. Badger
		// forbids writes while an iterator is open on the transaction.
		var key []byte
		idSuffix := []byte("/" + id)
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if !bytes.HasSuffix(item.Key(), idSuffix) {
				continue
			}
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &found)
			})
			if err != nil {
				it.Close()
				return fmt.Errorf("unmarshal intervention: %w", err)
			}
			key = item.KeyCopy(nil)
			break
		}
		it.Close()

		if key == nil {
			return nil
		}
		ok = true
		return txn.Delete(key)
	})
	if err != nil {
		return Intervention{}, false, fmt.Errorf("remove intervention: %w", err)
	}
	return found, ok, nil
}

func (s *BadgerStore) Clear(learnerID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = queuePrefix(learnerID)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear interventions: %w", err)
	}
	return nil
}

package badger

import (
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// now returns the current time at the precision records are stored with.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// nextID returns the next non-zero value of a sequence.
func nextID(seq *badger.Sequence) (uint64, error) {
	id, err := seq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if id == 0 {
		return seq.Next()
	}
	return id, nil
}

// readRecord reads and decodes a single value. Returns nil, nil when the key is absent.
func readRecord[T any](tx *badger.Txn, key []byte, decode func([]byte) (*T, error)) (*T, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *T
	err = item.Value(func(val []byte) error {
		var err error
		record, err = decode(val)
		return err
	})
	return record, err
}

// scanRecords decodes every value under prefix in key order, stopping after limit
// records when limit > 0.
func scanRecords[T any](tx *badger.Txn, prefix []byte, limit int, decode func([]byte) (*T, error)) ([]*T, error) {
	var results []*T

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
		if limit > 0 && len(results) >= limit {
			break
		}
		var record *T
		err := iter.Item().Value(func(val []byte) error {
			var err error
			record, err = decode(val)
			return err
		})
		if err != nil {
			return nil, err
		}
		if record != nil {
			results = append(results, record)
		}
	}
	return results, nil
}

// scanKeys returns copies of every key under prefix.
func scanKeys(tx *badger.Txn, prefix []byte) [][]byte {
	var keys [][]byte

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys
}

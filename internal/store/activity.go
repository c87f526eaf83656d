package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/notevault/notevault-server/internal/domain"
)

// Key layout:
//
//	activityday:{userID}:{YYYY-MM-DD} -> ActivityDay JSON
//
// One counter per user per UTC day. Keys sort chronologically within a
// user's prefix, so range scans come back in date order.

const activityRetries = 5

// IncrementActivity bumps the activity counter for (userID, date) by
// one, creating the day record if needed. The read-modify-write runs
// in a single transaction and retries on commit conflict, so
// concurrent saves never lose increments.
func (s *Store) IncrementActivity(ctx context.Context, userID, date string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte("activityday:" + userID + ":" + date)

	var err error
	for range activityRetries {
		err = s.db.Update(func(txn *badger.Txn) error {
			day := domain.ActivityDay{
				UserID: userID,
				Date:   date,
			}

			item, err := txn.Get(key)
			if err == nil {
				err = item.Value(func(val []byte) error {
					return json.Unmarshal(val, &day)
				})
				if err != nil {
					return fmt.Errorf("failed to unmarshal activity day: %w", err)
				}
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("failed to get activity day: %w", err)
			}

			day.Count++

			data, err := json.Marshal(&day)
			if err != nil {
				return fmt.Errorf("failed to marshal activity day: %w", err)
			}
			return txn.Set(key, data)
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	return err
}

// GetActivityRange returns a user's activity counts keyed by date for
// days in [from, to] (inclusive, YYYY-MM-DD). Days without activity
// are absent from the map.
func (s *Store) GetActivityRange(ctx context.Context, userID, from, to string) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte("activityday:" + userID + ":")
	counts := make(map[string]int)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		// Date keys sort lexicographically in chronological order, so
		// seeking to the range start skips older days.
		start := append([]byte{}, prefix...)
		start = append(start, from...)

		for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
			var day domain.ActivityDay
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &day)
			})
			if err != nil {
				return err
			}
			if day.Date > to {
				break
			}
			counts[day.Date] = day.Count
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return counts, nil
}

// ListActivity returns a user's activity days, newest first, capped at limit.
func (s *Store) ListActivity(ctx context.Context, userID string, limit int) ([]*domain.ActivityDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte("activityday:" + userID + ":")
	var days []*domain.ActivityDay

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var day domain.ActivityDay
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &day)
			})
			if err != nil {
				return err
			}
			days = append(days, &day)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Date > days[j].Date
	})
	if limit > 0 && len(days) > limit {
		days = days[:limit]
	}
	return days, nil
}

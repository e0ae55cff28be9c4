package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const rawHTMLPrefix = "rawhtml:"

// PutRawHTML caches a fetched portal page under a token. The entry expires
// after ttl via Badger's native TTL, so no sweeper is needed.
func (s *Store) PutRawHTML(ctx context.Context, token, html string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(rawHTMLPrefix + token)

	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, []byte(html)).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to cache raw html: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("cached raw html", "token", token, "bytes", len(html), "ttl", ttl)
	}
	return nil
}

// GetRawHTML retrieves a cached portal page. Expired entries are reported
// as ErrNotFound, same as tokens that never existed.
func (s *Store) GetRawHTML(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := []byte(rawHTMLPrefix + token)
	var html string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get raw html: %w", err)
		}
		return item.Value(func(val []byte) error {
			html = string(val)
			return nil
		})
	})
	if err != nil {
		return "", err
	}

	return html, nil
}

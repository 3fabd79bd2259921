package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samvad-hq/checkout-kit/pkg/orders"
	bolt "go.etcd.io/bbolt"
)

const (
	tokenBucket      = "access_tokens"
	expiryValueBytes = 8
)

// boltStore implements a Store backed by BoltDB.
// Values are an 8 byte big-endian unix expiry (0 = never) followed by the token.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	cleanupInterval time.Duration
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(tokenBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		cleanupInterval: opts.CleanupInterval,
	}
	store.lastCleanup.Store(time.Now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Token returns the stored token for key, dropping it when expired.
func (b *boltStore) Token(key string) (orders.Token, bool, error) {
	if b == nil || b.db == nil {
		return orders.Token{}, false, nil
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return orders.Token{}, false, err
	}

	var (
		token orders.Token
		found bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(tokenBucket))
		if bucket == nil {
			return fmt.Errorf("token bucket missing")
		}

		k := []byte(key)
		value := bucket.Get(k)
		if value == nil {
			return nil
		}

		decoded, ok := decodeToken(value)
		if !ok || decoded.Expired(now) {
			return bucket.Delete(k)
		}

		token, found = decoded, true
		return nil
	})
	return token, found, err
}

// SaveToken stores token under key, replacing any previous value.
func (b *boltStore) SaveToken(key string, token orders.Token) error {
	if b == nil || b.db == nil {
		return nil
	}
	if err := b.maybeCleanupExpired(time.Now()); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(tokenBucket))
		if bucket == nil {
			return fmt.Errorf("token bucket missing")
		}
		return bucket.Put([]byte(key), encodeToken(token))
	})
}

// maybeCleanupExpired removes expired tokens on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(tokenBucket))
		if bucket == nil {
			return fmt.Errorf("token bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			token, ok := decodeToken(v)
			if !ok || token.Expired(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func encodeToken(token orders.Token) []byte {
	buf := make([]byte, expiryValueBytes+len(token.Value))
	var unix int64
	if !token.ExpiresAt.IsZero() {
		unix = token.ExpiresAt.Unix()
	}
	binary.BigEndian.PutUint64(buf, uint64(unix))
	copy(buf[expiryValueBytes:], token.Value)
	return buf
}

// decodeToken decodes the expiry and token from the stored byte slice.
func decodeToken(value []byte) (orders.Token, bool) {
	if len(value) <= expiryValueBytes {
		return orders.Token{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix < 0 {
		return orders.Token{}, false
	}
	token := orders.Token{Value: string(value[expiryValueBytes:])}
	if unix > 0 {
		token.ExpiresAt = time.Unix(unix, 0)
	}
	return token, true
}

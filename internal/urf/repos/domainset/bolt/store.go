// Package bolt provides a bbolt-backed domainset.Store for large blocked
// domain feeds that should survive restarts without a re-ingest.
package bolt

import (
	"encoding/binary"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/haukened/rr-urf/internal/urf/repos/domainset"
)

var (
	bucketDomains = []byte("domains")
	bucketMeta    = []byte("meta")

	keyVersion = []byte("version")
	keyUpdated = []byte("updated")
)

// boltStore implements domainset.Store using bbolt.
type boltStore struct {
	db *bbolt.DB
}

// New opens (or creates) a Bolt database at path and ensures buckets exist.
func New(path string) (domainset.Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketDomains); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketMeta); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Close() error { return s.db.Close() }

func (s *boltStore) Exists(name string) (bool, error) {
	var present bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDomains)
		if b == nil {
			return nil
		}
		present = b.Get([]byte(name)) != nil
		return nil
	})
	return present, err
}

// RebuildAll replaces the whole snapshot in one write transaction so
// readers never observe a partially updated set.
func (s *boltStore) RebuildAll(names []string, version uint64, updatedUnix int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketDomains); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket(bucketDomains)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := b.Put([]byte(name), []byte{1}); err != nil {
				return err
			}
		}
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], version)
		if err := meta.Put(keyVersion, append([]byte(nil), buf[:]...)); err != nil {
			return err
		}
		binary.BigEndian.PutUint64(buf[:], uint64(updatedUnix))
		return meta.Put(keyUpdated, append([]byte(nil), buf[:]...))
	})
}

func (s *boltStore) Stats() domainset.StoreStats {
	st := domainset.StoreStats{}
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucketDomains); b != nil {
			st.Entries = uint64(b.Stats().KeyN)
		}
		if b := tx.Bucket(bucketMeta); b != nil {
			if v := b.Get(keyVersion); len(v) == 8 {
				st.Version = binary.BigEndian.Uint64(v)
			}
			if v := b.Get(keyUpdated); len(v) == 8 {
				st.UpdatedUnix = int64(binary.BigEndian.Uint64(v))
			}
		}
		return nil
	})
	return st
}

var _ domainset.Store = (*boltStore)(nil)

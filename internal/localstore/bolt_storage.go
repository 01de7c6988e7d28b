package localstore

import (
	"time"

	"storefront/internal/apperr"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("localStorage")

// BoltStorage persists items in a single bbolt bucket, one file per
// "browser profile".
type BoltStorage struct {
	db *bolt.DB
}

func OpenBoltStorage(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, apperr.Persistence(err, "open local storage")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, apperr.Persistence(err, "create local storage bucket")
	}
	return &BoltStorage{db: db}, nil
}

func (s *BoltStorage) GetItem(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, apperr.Persistence(err, "read local storage")
	}
	return value, found, nil
}

func (s *BoltStorage) SetItem(key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	return apperr.Persistence(err, "write local storage")
}

func (s *BoltStorage) RemoveItem(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	return apperr.Persistence(err, "delete local storage item")
}

func (s *BoltStorage) Close() error {
	return s.db.Close()
}

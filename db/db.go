package db

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/theQRL/interop/log"
)

var logger = log.New("db")

var (
	ErrBucketNotFound = errors.New("bucket not found")
	ErrKeyNotFound    = errors.New("key not found")
)

type DB struct {
	db *bbolt.DB

	filename string

	Lock     sync.RWMutex
	exitLock sync.Mutex
}

// NewDB opens (or creates) the bolt file and makes sure every bucket exists.
func NewDB(filename string, buckets ...string) (*DB, error) {
	db, err := bbolt.Open(filename, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("could not create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{
		filename: filename,
		db:       db,
	}, nil
}

// Append stores value under the next sequence number of bucket and returns
// that number. Keys are big endian so that iteration follows insertion order.
func (db *DB) Append(bucket []byte, value []byte) (uint64, error) {
	defer db.Lock.Unlock()
	db.Lock.Lock()

	var seq uint64
	err := db.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return ErrBucketNotFound
		}
		var err error
		if seq, err = b.NextSequence(); err != nil {
			return err
		}
		return b.Put(SequenceKey(seq), value)
	})
	return seq, err
}

// ForEach calls fn for every key of bucket in key order. The value passed to
// fn is only valid inside fn.
func (db *DB) ForEach(bucket []byte, fn func(key, value []byte) error) error {
	defer db.Lock.RUnlock()
	db.Lock.RLock()

	return db.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return ErrBucketNotFound
		}
		return b.ForEach(fn)
	})
}

func (db *DB) GetFromBucket(key []byte, bucket []byte) ([]byte, error) {
	defer db.Lock.RUnlock()
	db.Lock.RLock()

	var value []byte

	err := db.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return ErrBucketNotFound
		}
		v := b.Get(key)
		if v == nil {
			return ErrKeyNotFound
		}
		value = append([]byte(nil), v...)
		return nil
	})

	return value, err
}

func (db *DB) Close() {
	db.exitLock.Lock()
	defer db.exitLock.Unlock()

	err := db.db.Close()
	if err == nil {
		logger.WithField("file", db.filename).Info("BoltDB Closed")
	} else {
		logger.WithField("file", db.filename).Error("Failed to close BoltDB ", err)
	}
}

func SequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

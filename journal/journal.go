// Package journal records notifications to a bolt file so that a session can
// be inspected after the node has stopped.
package journal

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/golang/snappy"

	"github.com/theQRL/interop/config"
	"github.com/theQRL/interop/db"
	"github.com/theQRL/interop/misc"
)

var ErrEntryNotFound = errors.New("journal entry not found")

// Entry is one recorded notification.
type Entry struct {
	Seq  uint64
	Data []byte
}

type Journal struct {
	db     *db.DB
	bucket []byte
}

// Open opens or creates the journal file.
func Open(filename string) (*Journal, error) {
	if err := misc.EnsureParentDir(filename); err != nil {
		return nil, err
	}
	bucket := config.GetDevConfig().JournalBucket
	d, err := db.NewDB(filename, bucket)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", filename, err)
	}
	return &Journal{db: d, bucket: []byte(bucket)}, nil
}

// Record appends data, snappy compressed.
func (j *Journal) Record(data []byte) error {
	_, err := j.db.Append(j.bucket, snappy.Encode(nil, data))
	return err
}

// ForEach calls fn for every entry in recording order.
func (j *Journal) ForEach(fn func(Entry) error) error {
	return j.db.ForEach(j.bucket, func(k, v []byte) error {
		data, err := snappy.Decode(nil, v)
		if err != nil {
			return fmt.Errorf("entry %x: %w", k, err)
		}
		return fn(Entry{Seq: binary.BigEndian.Uint64(k), Data: data})
	})
}

// Get returns the entry recorded under seq.
func (j *Journal) Get(seq uint64) (Entry, error) {
	v, err := j.db.GetFromBucket(db.SequenceKey(seq), j.bucket)
	if errors.Is(err, db.ErrKeyNotFound) {
		return Entry{}, fmt.Errorf("%w: %d", ErrEntryNotFound, seq)
	}
	if err != nil {
		return Entry{}, err
	}
	data, err := snappy.Decode(nil, v)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %d: %w", seq, err)
	}
	return Entry{Seq: seq, Data: data}, nil
}

// Summary is the aggregate over all entries.
type Summary struct {
	Count    uint64
	Bytes    uint64
	Smallest int
	Largest  int
}

func (j *Journal) Summary() (Summary, error) {
	var s Summary
	err := j.ForEach(func(e Entry) error {
		n := len(e.Data)
		if s.Count == 0 || n < s.Smallest {
			s.Smallest = n
		}
		if n > s.Largest {
			s.Largest = n
		}
		s.Count++
		s.Bytes += uint64(n)
		return nil
	})
	return s, err
}

func (j *Journal) Close() {
	j.db.Close()
}

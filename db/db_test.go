package db

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_AppendForEach(t *testing.T) {
	d, err := NewDB(filepath.Join(t.TempDir(), "test.db"), "items")
	require.NoError(t, err)
	defer d.Close()

	for _, v := range []string{"a", "b", "c"} {
		_, err := d.Append([]byte("items"), []byte(v))
		require.NoError(t, err)
	}

	var (
		seqs   []uint64
		values []string
	)
	err = d.ForEach([]byte("items"), func(k, v []byte) error {
		seqs = append(seqs, binary.BigEndian.Uint64(k))
		values = append(values, string(v))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, seqs)
	assert.Equal(t, []string{"a", "b", "c"}, values)

	v, err := d.GetFromBucket(SequenceKey(2), []byte("items"))
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), v)

	_, err = d.GetFromBucket(SequenceKey(4), []byte("items"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestDB_MissingBucket(t *testing.T) {
	d, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer d.Close()

	_, err = d.Append([]byte("nope"), []byte("x"))
	assert.ErrorIs(t, err, ErrBucketNotFound)

	err = d.ForEach([]byte("nope"), func(k, v []byte) error { return nil })
	assert.ErrorIs(t, err, ErrBucketNotFound)

	_, err = d.GetFromBucket([]byte("k"), []byte("nope"))
	assert.ErrorIs(t, err, ErrBucketNotFound)
}

func TestDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := NewDB(path, "items")
	require.NoError(t, err)
	_, err = d.Append([]byte("items"), []byte("persisted"))
	require.NoError(t, err)
	d.Close()

	d, err = NewDB(path, "items")
	require.NoError(t, err)
	defer d.Close()

	seq, err := d.Append([]byte("items"), []byte("next"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), seq)
}

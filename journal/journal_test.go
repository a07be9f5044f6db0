package journal

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_RecordForEach(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "sub", "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	payloads := [][]byte{
		[]byte("X-Test: 1\r\n\r\n"),
		{},
		bytes.Repeat([]byte("A"), 4096),
	}
	for _, p := range payloads {
		require.NoError(t, j.Record(p))
	}

	var got []Entry
	require.NoError(t, j.ForEach(func(e Entry) error {
		got = append(got, e)
		return nil
	}))
	require.Len(t, got, len(payloads))
	for i, e := range got {
		assert.Equal(t, uint64(i+1), e.Seq)
		assert.Equal(t, len(payloads[i]), len(e.Data))
		assert.True(t, bytes.Equal(payloads[i], e.Data))
	}
}

func TestJournal_Summary(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	s, err := j.Summary()
	require.NoError(t, err)
	assert.Equal(t, Summary{}, s)

	require.NoError(t, j.Record([]byte("abc")))
	require.NoError(t, j.Record([]byte("a")))
	require.NoError(t, j.Record([]byte("abcdefgh")))

	s, err = j.Summary()
	require.NoError(t, err)
	assert.Equal(t, Summary{Count: 3, Bytes: 12, Smallest: 1, Largest: 8}, s)
}

func TestJournal_Get(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Record([]byte("first")))
	require.NoError(t, j.Record([]byte("second")))

	e, err := j.Get(2)
	require.NoError(t, err)
	assert.Equal(t, Entry{Seq: 2, Data: []byte("second")}, e)

	_, err = j.Get(3)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

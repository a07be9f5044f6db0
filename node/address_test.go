package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"127.0.0.1:60000", "127.0.0.1:60000"},
		{" 127.0.0.1:60000 ", "127.0.0.1:60000"},
		{"localhost:8080", "localhost:8080"},
		{"[::1]:60000", "[::1]:60000"},
		{"/ip4/127.0.0.1/tcp/60000", "127.0.0.1:60000"},
		{"/ip6/::1/tcp/60000", "[::1]:60000"},
	}
	for _, c := range cases {
		got, err := NormalizeAddress(c.in)
		assert.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestNormalizeAddress_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"127.0.0.1",
		"127.0.0.1:",
		"/ip4/127.0.0.1",
		"/tcp/60000",
		"/ip4/not-an-ip/tcp/1",
	} {
		_, err := NormalizeAddress(in)
		assert.Error(t, err, in)
	}
}

func TestHandle_Valid(t *testing.T) {
	var h Handle
	assert.False(t, h.Valid())
	assert.True(t, Handle(7).Valid())
}

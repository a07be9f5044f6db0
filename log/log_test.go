package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theQRL/interop/config"
)

func TestConfigure_Level(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	require.NoError(t, Configure(&config.LogConfig{Level: "debug"}))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestConfigure_BadLevel(t *testing.T) {
	assert.Error(t, Configure(&config.LogConfig{Level: "loud"}))
}

func TestConfigure_File(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "interop.log")
	require.NoError(t, Configure(&config.LogConfig{Level: "info", File: path, MaxSizeMB: 1}))

	New("test").Info("hello file")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestNew_Prefix(t *testing.T) {
	e := New("harness")
	assert.Equal(t, "harness", e.Data["prefix"])
}

package commands

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/theQRL/interop/journal"
)

var listeningRe = regexp.MustCompile(`Node is listening on http://127\.0\.0\.1:(\d+)`)

func newTestApp(t *testing.T, input string) (*cli.App, *bytes.Buffer) {
	exiter := cli.OsExiter
	cli.OsExiter = func(int) {}
	t.Cleanup(func() { cli.OsExiter = exiter })

	out := &bytes.Buffer{}
	app := cli.NewApp()
	app.Name = "interop"
	app.Reader = strings.NewReader(input)
	app.Writer = out
	app.ErrWriter = &bytes.Buffer{}
	AddRunCommand(app)
	AddJournalCommand(app)
	return app, out
}

func TestRun_StartStop(t *testing.T) {
	app, out := newTestApp(t, "hello\nq\n")

	err := app.Run([]string{"interop", "run", "--address", "127.0.0.1:0"})
	require.NoError(t, err)

	lines := strings.Split(out.String(), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Starting node", lines[0])
	assert.Equal(t, "Type `q` and press enter to stop", lines[2])
	assert.Equal(t, "Stopping node", lines[3])

	// the console reports the port the node actually bound
	m := listeningRe.FindStringSubmatch(lines[1])
	require.NotNil(t, m, lines[1])
	assert.NotEqual(t, "0", m[1])
}

func TestRun_DefaultActionAndMultiaddr(t *testing.T) {
	app, out := newTestApp(t, "q")

	err := app.Run([]string{"interop", "--address", "/ip4/127.0.0.1/tcp/0"})
	require.NoError(t, err)
	assert.Regexp(t, listeningRe, out.String())
	assert.NotContains(t, out.String(), "http://127.0.0.1:0\n")
}

func TestRun_EndOfInputStops(t *testing.T) {
	app, out := newTestApp(t, "")

	require.NoError(t, app.Run([]string{"interop", "run", "--address", "127.0.0.1:0"}))
	assert.True(t, strings.HasSuffix(out.String(), "Stopping node\n"))
}

func TestRun_Summary(t *testing.T) {
	app, out := newTestApp(t, "q\n")

	require.NoError(t, app.Run([]string{"interop", "run", "--address", "127.0.0.1:0", "--summary"}))
	assert.Contains(t, out.String(), "ADDRESS")
	assert.Contains(t, out.String(), "RECEIVED")
	assert.Contains(t, out.String(), "DROPPED")
}

func TestRun_InvalidAddress(t *testing.T) {
	app, out := newTestApp(t, "q\n")

	err := app.Run([]string{"interop", "run", "--address", "nowhere"})
	assert.Error(t, err)
	assert.NotContains(t, out.String(), "Starting node")
}

func TestRun_NativeUnavailable(t *testing.T) {
	app, out := newTestApp(t, "q\n")

	err := app.Run([]string{"interop", "run", "--library", "native", "--address", "127.0.0.1:0"})
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestRun_UnknownLibrary(t *testing.T) {
	app, _ := newTestApp(t, "q\n")

	err := app.Run([]string{"interop", "run", "--library", "nim"})
	assert.Error(t, err)
}

func TestRun_JournalDumpAndStats(t *testing.T) {
	file := filepath.Join(t.TempDir(), "journal.db")

	app, _ := newTestApp(t, "q\n")
	require.NoError(t, app.Run([]string{"interop", "run", "--address", "127.0.0.1:0", "--journal", file}))

	// a session without traffic leaves an empty journal behind
	app, out := newTestApp(t, "")
	require.NoError(t, app.Run([]string{"interop", "journal", "dump", "--file", file}))
	assert.Empty(t, out.String())

	app, out = newTestApp(t, "")
	require.NoError(t, app.Run([]string{"interop", "journal", "stats", "--file", file}))
	assert.Contains(t, out.String(), "ENTRIES")
}

func TestJournal_DumpSeq(t *testing.T) {
	file := filepath.Join(t.TempDir(), "journal.db")
	j, err := journal.Open(file)
	require.NoError(t, err)
	require.NoError(t, j.Record([]byte("X-First: 1")))
	require.NoError(t, j.Record([]byte("X-Second: 2")))
	j.Close()

	app, out := newTestApp(t, "")
	require.NoError(t, app.Run([]string{"interop", "journal", "dump", "--file", file, "--seq", "2"}))
	assert.Equal(t, "#2 Received headers! 11\nX-Second: 2\n\n", out.String())

	app, out = newTestApp(t, "")
	require.NoError(t, app.Run([]string{"interop", "journal", "dump", "--file", file}))
	assert.Equal(t,
		"#1 Received headers! 10\nX-First: 1\n\n"+
			"#2 Received headers! 11\nX-Second: 2\n\n",
		out.String())

	app, _ = newTestApp(t, "")
	assert.Error(t, app.Run([]string{"interop", "journal", "dump", "--file", file, "--seq", "7"}))
}

func TestJournal_MissingFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "missing.db")

	app, _ := newTestApp(t, "")
	assert.Error(t, app.Run([]string{"interop", "journal", "dump", "--file", file}))

	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}

func TestObtainJWTSecret(t *testing.T) {
	file := filepath.Join(t.TempDir(), "jwt.hex")

	generated, err := obtainJWTSecret(file)
	require.NoError(t, err)
	assert.Len(t, generated, 32)

	loaded, err := obtainJWTSecret(file)
	require.NoError(t, err)
	assert.Equal(t, generated, loaded)

	require.NoError(t, os.WriteFile(file, []byte(hex.EncodeToString([]byte("short"))), 0600))
	_, err = obtainJWTSecret(file)
	assert.Error(t, err)
}

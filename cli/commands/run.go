package commands

import (
	crand "crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/theQRL/interop/cli/flags"
	"github.com/theQRL/interop/config"
	"github.com/theQRL/interop/harness"
	"github.com/theQRL/interop/journal"
	"github.com/theQRL/interop/log"
	"github.com/theQRL/interop/node"
	"github.com/theQRL/interop/node/embedded"
	"github.com/theQRL/interop/node/native"
)

var logger = log.New("cli")

func runFlags() []cli.Flag {
	return []cli.Flag{
		flags.ConfigFileFlag,
		flags.AddressFlag,
		flags.LibraryFlag,
		flags.LogLevelFlag,
		flags.LogFileFlag,
		flags.JournalFlag,
		flags.JWTSecretFlag,
		flags.SummaryFlag,
	}
}

// AddRunCommand registers `run` and makes it the default action of app.
func AddRunCommand(app *cli.App) {
	app.Flags = append(app.Flags, runFlags()...)
	app.Action = run
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "run",
		Usage:  "Start a node, print its notifications and stop it on `q`",
		Flags:  runFlags(),
		Action: run,
	})
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.New()
	if path := c.String(flags.ConfigFileFlag.Name); path != "" {
		if err := cfg.User.LoadFile(path); err != nil {
			return nil, err
		}
	}

	u := cfg.User
	if c.IsSet(flags.AddressFlag.Name) {
		u.Node.Address = c.String(flags.AddressFlag.Name)
	}
	if c.IsSet(flags.LibraryFlag.Name) {
		u.Node.Library = c.String(flags.LibraryFlag.Name)
	}
	if c.IsSet(flags.JWTSecretFlag.Name) {
		u.Node.JWTSecretFile = c.String(flags.JWTSecretFlag.Name)
	}
	if c.IsSet(flags.LogLevelFlag.Name) {
		u.Log.Level = c.String(flags.LogLevelFlag.Name)
	}
	if c.IsSet(flags.LogFileFlag.Name) {
		u.Log.File = c.String(flags.LogFileFlag.Name)
	}
	if c.IsSet(flags.JournalFlag.Name) {
		u.Journal.File = c.String(flags.JournalFlag.Name)
	}
	if c.Bool(flags.SummaryFlag.Name) {
		u.Summary = true
	}
	return cfg, u.Validate()
}

func newLibrary(cfg *config.Config) (node.Library, error) {
	switch cfg.User.Node.Library {
	case config.LibraryNative:
		// asynclib expects start and stop from the same OS thread
		runtime.LockOSThread()
		return native.New()
	default:
		var secret []byte
		if path := cfg.User.Node.JWTSecretFile; path != "" {
			var err error
			if secret, err = obtainJWTSecret(path); err != nil {
				return nil, err
			}
		}
		return embedded.New(cfg, secret), nil
	}
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := log.Configure(cfg.User.Log); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer log.Close()

	address, err := node.NormalizeAddress(cfg.User.Node.Address)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	lib, err := newLibrary(cfg)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	opts := []harness.Option{
		harness.WithQueueSize(cfg.Dev.NotificationQueueSize),
		harness.WithSentinel(cfg.Dev.StopSentinel),
	}
	if file := cfg.User.Journal.File; file != "" {
		j, err := journal.Open(file)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defer j.Close()
		opts = append(opts, harness.WithRecorder(j))
	}

	out := c.App.Writer
	h := harness.New(lib, out, opts...)
	if err := h.Start(address); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	waitForStop(h, c.App.Reader)

	if err := h.Stop(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if cfg.User.Summary {
		renderStats(out, h.Address(), h.Stats())
	}
	return nil
}

// waitForStop returns once the sentinel is typed, input ends, or the process
// is interrupted.
func waitForStop(h *harness.Harness, in io.Reader) {
	if in == nil {
		in = os.Stdin
	}
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	input := make(chan error, 1)
	go func() {
		input <- h.WaitForStopSignal(in)
	}()

	select {
	case err := <-input:
		if err != nil {
			logger.Warn("Reading stop signal failed ", err)
		}
	case sig := <-quit:
		logger.Info("Received ", sig)
	}
}

// obtainJWTSecret loads the hex encoded secret at fileName. If the file does
// not exist a new secret is generated and stored there.
func obtainJWTSecret(fileName string) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if err == nil {
		jwtSecret, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(string(data)), "0x"))
		if err == nil && len(jwtSecret) == 32 {
			logger.WithField("path", fileName).
				WithField("crc32", fmt.Sprintf("%#x", crc32.ChecksumIEEE(jwtSecret))).
				Info("Loaded JWT secret file")
			return jwtSecret, nil
		}
		logger.WithField("path", fileName).WithField("length", len(jwtSecret)).Error("Invalid JWT secret")
		return nil, errors.New("invalid JWT secret")
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	jwtSecret := make([]byte, 32)
	if _, err := crand.Read(jwtSecret); err != nil {
		return nil, err
	}
	if err := os.WriteFile(fileName, []byte("0x"+hex.EncodeToString(jwtSecret)), 0600); err != nil {
		return nil, err
	}
	logger.WithField("path", fileName).Info("Generated JWT secret")
	return jwtSecret, nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ghodss/yaml"
)

type Config struct {
	Dev  *DevConfig
	User *UserConfig
}

type NodeConfig struct {
	Address       string   `json:"address"`
	Library       string   `json:"library"`
	JWTSecretFile string   `json:"jwtSecretFile"`
	RateLimit     float64  `json:"rateLimit"`
	RateBurst     int      `json:"rateBurst"`
	CorsOrigins   []string `json:"corsOrigins"`
}

type LogConfig struct {
	Level      string `json:"level"`
	File       string `json:"file"`
	MaxSizeMB  int    `json:"maxSizeMB"`
	MaxBackups int    `json:"maxBackups"`
}

type JournalConfig struct {
	File string `json:"file"`
}

type UserConfig struct {
	Node    *NodeConfig    `json:"node"`
	Log     *LogConfig     `json:"log"`
	Journal *JournalConfig `json:"journal"`

	Summary bool `json:"summary"`
}

type HTTPTimeouts struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DevConfig struct {
	Version string

	StopSentinel byte

	NotificationQueueSize int
	MaxTrackedVisitors    int
	MaxWSMessageSize      int64

	JWTMaxSkew time.Duration

	HTTPTimeouts HTTPTimeouts

	JournalBucket string
}

const (
	LibraryEmbedded = "embedded"
	LibraryNative   = "native"
)

// New returns a fresh config holding the defaults.
func New() *Config {
	return &Config{
		User: GetUserConfig(),
		Dev:  GetDevConfig(),
	}
}

func GetUserConfig() (userConf *UserConfig) {
	node := &NodeConfig{
		Address:     "127.0.0.1:60000",
		Library:     LibraryEmbedded,
		RateLimit:   50,
		RateBurst:   100,
		CorsOrigins: []string{"*"},
	}

	log := &LogConfig{
		Level:      "warning",
		MaxSizeMB:  10,
		MaxBackups: 3,
	}

	userConf = &UserConfig{
		Node:    node,
		Log:     log,
		Journal: &JournalConfig{},
	}

	return userConf
}

func GetDevConfig() (dev *DevConfig) {
	dev = &DevConfig{
		Version: "0.1.0 go",

		StopSentinel: 'q',

		NotificationQueueSize: 1024,
		MaxTrackedVisitors:    4096,
		MaxWSMessageSize:      1 << 20,

		JWTMaxSkew: 5 * time.Second,

		HTTPTimeouts: HTTPTimeouts{
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},

		JournalBucket: "notifications",
	}
	return dev
}

// LoadFile overlays the YAML file at path on top of the user config.
// Keys missing from the file keep their current values.
func (u *UserConfig) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, u); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	u.fillDefaults()
	return u.Validate()
}

// fillDefaults restores sections that an empty YAML key such as `node:`
// unmarshalled to nil.
func (u *UserConfig) fillDefaults() {
	d := GetUserConfig()
	if u.Node == nil {
		u.Node = d.Node
	}
	if u.Log == nil {
		u.Log = d.Log
	}
	if u.Journal == nil {
		u.Journal = d.Journal
	}
}

func (u *UserConfig) Validate() error {
	if u.Node == nil || u.Log == nil || u.Journal == nil {
		return fmt.Errorf("config section missing")
	}
	switch u.Node.Library {
	case LibraryEmbedded, LibraryNative:
	default:
		return fmt.Errorf("unknown node library %q", u.Node.Library)
	}
	if u.Node.Address == "" {
		return fmt.Errorf("node address is empty")
	}
	return nil
}

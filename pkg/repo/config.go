package repo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/odvcencio/gitlet/pkg/object"
)

const (
	BackendDir    = "dir"
	BackendBadger = "badger"
)

// Config stores repository-local settings in .gitlet/config.toml.
type Config struct {
	Core    CoreConfig    `toml:"core"`
	Storage StorageConfig `toml:"storage"`
	User    UserConfig    `toml:"user"`
}

type CoreConfig struct {
	DefaultBranch string `toml:"default_branch"`
	Hash          string `toml:"hash"`
}

type StorageConfig struct {
	Backend     string `toml:"backend"`
	Compression string `toml:"compression"`
	SyncWrites  bool   `toml:"sync_writes,omitempty"`
}

type UserConfig struct {
	SigningKey string `toml:"signing_key,omitempty"`
}

// DefaultConfig returns the settings a new repository gets when none are
// given.
func DefaultConfig() Config {
	return Config{
		Core: CoreConfig{
			DefaultBranch: "master",
			Hash:          string(object.SHA256),
		},
		Storage: StorageConfig{
			Backend:     BackendDir,
			Compression: string(object.CompressionNone),
		},
	}
}

// normalize fills blanks with defaults and validates every field.
func (c *Config) normalize() error {
	def := DefaultConfig()
	c.Core.DefaultBranch = strings.TrimSpace(c.Core.DefaultBranch)
	if c.Core.DefaultBranch == "" {
		c.Core.DefaultBranch = def.Core.DefaultBranch
	}
	algo, err := object.ParseAlgorithm(c.Core.Hash)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Core.Hash = string(algo)

	comp, err := object.ParseCompression(c.Storage.Compression)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Storage.Compression = string(comp)

	switch strings.ToLower(strings.TrimSpace(c.Storage.Backend)) {
	case "", BackendDir:
		c.Storage.Backend = BackendDir
	case BackendBadger:
		c.Storage.Backend = BackendBadger
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

func configPath(gitletDir string) string {
	return filepath.Join(gitletDir, "config.toml")
}

// ReadConfig reads .gitlet/config.toml. A missing file yields defaults.
func ReadConfig(gitletDir string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(configPath(gitletDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("read config: decode: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WriteConfig atomically writes .gitlet/config.toml.
func WriteConfig(gitletDir string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}

	tmp, err := os.CreateTemp(gitletDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, configPath(gitletDir)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}

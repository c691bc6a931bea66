package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	envLogLevel    = "PACKSYNC_LOG_LEVEL"
	envAssumeYes   = "PACKSYNC_ASSUME_YES"
	envInstanceDir = "PACKSYNC_INSTANCE_DIR"
)

type LogLevel string

// SyncConfig describes the instance layout the reconciler works over.
// All paths are relative to the instance directory.
type SyncConfig struct {
	ModsDir     string   `yaml:"mods_dir"`
	MetadataDir string   `yaml:"metadata_dir"`
	IndexFile   string   `yaml:"index_file"`
	Keep        []string `yaml:"keep"`
}

type PackSource struct {
	Path   string `yaml:"path"`
	Prefix string `yaml:"prefix"`
}

type PackConfig struct {
	Name    string       `yaml:"name"`
	Output  string       `yaml:"output"`
	Sources []PackSource `yaml:"sources"`
}

type Config struct {
	InstanceDir string     `yaml:"instance_dir"`
	LogLevel    LogLevel   `yaml:"log_level"`
	AssumeYes   bool       `yaml:"assume_yes"`
	Sync        SyncConfig `yaml:"sync"`
	Pack        PackConfig `yaml:"pack"`
}

// Default returns the conventional Prism/MultiMC instance layout so the
// tool runs without a config file at all.
func Default() *Config {
	return &Config{
		InstanceDir: ".",
		LogLevel:    LogLevelInfo,
		Sync: SyncConfig{
			ModsDir:     "minecraft/mods",
			MetadataDir: "metadata/mods",
			IndexFile:   "minecraft/mods/.index",
			Keep:        []string{"example-mod.jar"},
		},
		Pack: PackConfig{
			Name:   "Modpack",
			Output: "build/modpack-latest.zip",
			Sources: []PackSource{
				{Path: "mmc-pack.json"},
				{Path: "instance.cfg"},
				{Path: "mods", Prefix: "minecraft/mods"},
				{Path: "minecraft/mods", Prefix: "minecraft/mods"},
				{Path: "minecraft/config", Prefix: "minecraft/config"},
				{Path: "minecraft/scripts", Prefix: "minecraft/scripts"},
				{Path: "minecraft/groovy", Prefix: "minecraft/groovy"},
				{Path: "minecraft/resourcepacks", Prefix: "minecraft/resourcepacks"},
			},
		},
	}
}

// Load reads the config file at path on top of the defaults. A missing
// file is not an error. Environment variables (optionally loaded from a
// .env file) override the file values.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = LogLevel(v)
	}
	if v := os.Getenv(envAssumeYes); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AssumeYes = b
		}
	}
	if v := os.Getenv(envInstanceDir); v != "" {
		cfg.InstanceDir = v
	}
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("unknown log level: %s", c.LogLevel)
	}

	if c.Sync.ModsDir == "" {
		return fmt.Errorf("sync config missing mods_dir")
	}
	if c.Sync.MetadataDir == "" {
		return fmt.Errorf("sync config missing metadata_dir")
	}

	return nil
}

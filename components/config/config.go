package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/mockapi"
	"github.com/goliatone/go-demodata/components/synth"
)

// Catalog storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Server transports.
const (
	TransportHTTP  = "http"
	TransportFiber = "fiber"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DEMODATA_"

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full runtime configuration.
type Config struct {
	Seeds   Seeds   `yaml:"seeds"`
	Network Network `yaml:"network"`
	Cache   Cache   `yaml:"cache"`
	Catalog Catalog `yaml:"catalog"`
	Server  Server  `yaml:"server"`
	Log     Log     `yaml:"log"`
}

type Seeds struct {
	Dashboard  int64 `yaml:"dashboard"`
	Historical int64 `yaml:"historical"`
}

// Network selects a preset and optionally overrides single fields of it.
type Network struct {
	Preset     string         `yaml:"preset"`
	Online     *bool          `yaml:"online,omitempty"`
	ErrorRate  *float64       `yaml:"error_rate,omitempty"`
	MinLatency *time.Duration `yaml:"min_latency,omitempty"`
	MaxLatency *time.Duration `yaml:"max_latency,omitempty"`
}

type Cache struct {
	API        time.Duration `yaml:"api_ttl"`
	Insights   time.Duration `yaml:"insights_ttl"`
	QuickStats time.Duration `yaml:"quick_stats_ttl"`
}

type Catalog struct {
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
	Key         string `yaml:"key"`
	Latency     bool   `yaml:"latency"`
	Samples     bool   `yaml:"samples"`
}

type Server struct {
	Addr      string `yaml:"addr"`
	Transport string `yaml:"transport"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Seeds: Seeds{Dashboard: synth.DefaultSeed, Historical: synth.HistoricalSeed},
		Network: Network{
			Preset: mockapi.PresetDefault,
		},
		Cache: Cache{
			API:        mockapi.DefaultCacheTTL,
			Insights:   5 * time.Minute,
			QuickStats: time.Minute,
		},
		Catalog: Catalog{
			Backend:     BackendMemory,
			Path:        "data",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "demodata:",
			Key:         catalog.DefaultStorageKey,
			Latency:     true,
			Samples:     true,
		},
		Server: Server{Addr: ":8080", Transport: TransportHTTP},
		Log:    Log{Level: "info", Format: "text"},
	}
}

// Load reads path on top of the defaults, then applies .env files and
// DEMODATA_* environment overrides. An empty path skips the file.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path) //nolint:gosec
		if err != nil {
			return Config{}, fmt.Errorf("config: open %s: %w", path, err)
		}
		defer f.Close()
		if cfg, err = Decode(f); err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}
	if err := LoadDotEnv(envFiles...); err != nil {
		return Config{}, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode reads YAML over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads the given files, or .env when none are given. Missing
// files are ignored and variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("config: load env files: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from DEMODATA_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("NETWORK_PRESET", &c.Network.Preset)
	str("CATALOG_BACKEND", &c.Catalog.Backend)
	str("CATALOG_PATH", &c.Catalog.Path)
	str("CATALOG_KEY", &c.Catalog.Key)
	str("REDIS_ADDR", &c.Catalog.RedisAddr)
	str("REDIS_PREFIX", &c.Catalog.RedisPrefix)
	str("SERVER_ADDR", &c.Server.Addr)
	str("SERVER_TRANSPORT", &c.Server.Transport)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup(EnvPrefix + "SEED"); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %sSEED: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Seeds.Dashboard = seed
	}
	if v, ok := lookup(EnvPrefix + "CATALOG_LATENCY"); ok && v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sCATALOG_LATENCY: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Catalog.Latency = on
	}
	if v, ok := lookup(EnvPrefix + "ERROR_RATE"); ok && v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %sERROR_RATE: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Network.ErrorRate = &rate
	}
	return nil
}

// Validate rejects unknown backends, transports and presets, and inverted
// latency windows.
func (c Config) Validate() error {
	var problems []string
	switch c.Catalog.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendSQLite:
	default:
		problems = append(problems, fmt.Sprintf("unknown catalog backend %q", c.Catalog.Backend))
	}
	switch c.Server.Transport {
	case TransportHTTP, TransportFiber:
	default:
		problems = append(problems, fmt.Sprintf("unknown server transport %q", c.Server.Transport))
	}
	if c.Catalog.Key == "" {
		problems = append(problems, "catalog key is empty")
	}
	if _, err := c.Conditions(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Cache.API < 0 || c.Cache.Insights < 0 || c.Cache.QuickStats < 0 {
		problems = append(problems, "cache ttls must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Conditions resolves the network preset and applies the overrides.
func (c Config) Conditions() (mockapi.Conditions, error) {
	cond, err := mockapi.Preset(c.Network.Preset)
	if err != nil {
		return mockapi.Conditions{}, err
	}
	if c.Network.Online != nil {
		cond.Online = *c.Network.Online
	}
	if c.Network.ErrorRate != nil {
		cond.ErrorRate = *c.Network.ErrorRate
	}
	if c.Network.MinLatency != nil {
		cond.MinLatency = *c.Network.MinLatency
	}
	if c.Network.MaxLatency != nil {
		cond.MaxLatency = *c.Network.MaxLatency
	}
	if err := cond.Validate(); err != nil {
		return mockapi.Conditions{}, err
	}
	return cond, nil
}

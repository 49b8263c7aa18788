// Package config loads mewc configuration files.
//
// A configuration file is TOML or YAML, selected by extension, and holds the
// solver defaults plus the cache, store and server settings:
//
//	[solver]
//	strategy = "local-search"
//	timeout = "30s"
//	grasp_alpha = 0.3
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Fields left out keep the values from [Default]. Command-line flags override
// file values.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/mewc"
)

// EnvConfig names the environment variable pointing at a configuration file.
const EnvConfig = "MEWC_CONFIG"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// File is the root of a configuration file.
type File struct {
	Solver Solver `toml:"solver" yaml:"solver"`
	Cache  Cache  `toml:"cache" yaml:"cache"`
	Store  Store  `toml:"store" yaml:"store"`
	Server Server `toml:"server" yaml:"server"`
}

// Solver holds default solver settings.
type Solver struct {
	Strategy      string        `toml:"strategy" yaml:"strategy"`
	Timeout       time.Duration `toml:"timeout" yaml:"timeout"`
	MaxIterations int64         `toml:"max_iterations" yaml:"max_iterations"`
	Ranking       string        `toml:"ranking" yaml:"ranking"`
	MaxSwapSize   int           `toml:"max_swap_size" yaml:"max_swap_size"`
	ProbeLimit    int           `toml:"probe_limit" yaml:"probe_limit"`
	GraspTrials   int           `toml:"grasp_trials" yaml:"grasp_trials"`
	GraspAlpha    float64       `toml:"grasp_alpha" yaml:"grasp_alpha"`
	GraspSwapSize int           `toml:"grasp_swap_size" yaml:"grasp_swap_size"`
	Seed          uint64        `toml:"seed" yaml:"seed"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend  string        `toml:"backend" yaml:"backend"`
	Dir      string        `toml:"dir" yaml:"dir"`
	RedisURL string        `toml:"redis_url" yaml:"redis_url"`
	TTL      time.Duration `toml:"ttl" yaml:"ttl"`
}

// Store selects and configures the run history store.
type Store struct {
	Backend    string `toml:"backend" yaml:"backend"`
	MongoURI   string `toml:"mongo_uri" yaml:"mongo_uri"`
	Database   string `toml:"database" yaml:"database"`
	Collection string `toml:"collection" yaml:"collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string        `toml:"addr" yaml:"addr"`
	MaxVertices    int           `toml:"max_vertices" yaml:"max_vertices"`
	RequestTimeout time.Duration `toml:"request_timeout" yaml:"request_timeout"`
	Concurrency    int           `toml:"concurrency" yaml:"concurrency"`
}

// Default returns the built-in configuration.
func Default() File {
	return File{
		Solver: Solver{
			Strategy:      string(mewc.Exact),
			Timeout:       time.Minute,
			Ranking:       string(mewc.RankDegree),
			ProbeLimit:    mewc.DefaultProbeLimit,
			GraspTrials:   mewc.DefaultGraspTrials,
			GraspAlpha:    mewc.DefaultGraspAlpha,
			GraspSwapSize: mewc.DefaultGraspSwapSize,
			Seed:          mewc.DefaultSeed,
		},
		Cache: Cache{
			Backend: CacheFile,
			TTL:     7 * 24 * time.Hour,
		},
		Store: Store{
			Backend:    StoreMemory,
			Database:   "mewc",
			Collection: "runs",
		},
		Server: Server{
			Addr:           ":8080",
			MaxVertices:    5000,
			RequestTimeout: 30 * time.Second,
			Concurrency:    4,
		},
	}
}

// Load reads the file at path on top of [Default]. The format is chosen by
// extension: ".yaml" and ".yml" are YAML, everything else TOML.
func Load(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "open config")
	}
	defer f.Close()
	return Decode(f, formatOf(path))
}

// Format is a configuration file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Decode parses a configuration in the given format on top of [Default] and
// validates the result.
func Decode(r io.Reader, format Format) (File, error) {
	cfg := Default()
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return File{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode yaml")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&cfg)
		if err != nil {
			return File{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return File{}, errs.New(errs.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
		}
	default:
		return File{}, errs.New(errs.ErrCodeInvalidConfig, "unknown format %q", format)
	}
	if err := cfg.Validate(); err != nil {
		return File{}, err
	}
	return cfg, nil
}

// Resolve returns the configuration file to load: explicit if set, then
// $MEWC_CONFIG, then config.toml under the user config directory. It returns
// "" when none exists; explicit paths must exist.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errs.Wrap(errs.ErrCodeInvalidConfig, err, "config file")
		}
		return explicit, nil
	}
	if p := os.Getenv(EnvConfig); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", errs.Wrap(errs.ErrCodeInvalidConfig, err, "$%s", EnvConfig)
		}
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", nil
	}
	p := filepath.Join(dir, "mewc", "config.toml")
	if _, err := os.Stat(p); err != nil {
		return "", nil
	}
	return p, nil
}

// LoadDefault resolves and loads the configuration, falling back to
// [Default] when no file is found. The returned path is "" in that case.
func LoadDefault(explicit string) (File, string, error) {
	path, err := Resolve(explicit)
	if err != nil {
		return File{}, "", err
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return File{}, path, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// Validate checks the configuration for unusable values.
func (f File) Validate() error {
	if _, err := mewc.ParseStrategy(f.Solver.Strategy); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "solver.strategy")
	}
	opts := f.SolverOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "solver")
	}
	switch f.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if f.Cache.RedisURL == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q", f.Cache.Backend)
	}
	if f.Cache.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must be non-negative")
	}
	switch f.Store.Backend {
	case StoreMemory:
	case StoreMongo:
		if f.Store.MongoURI == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q", f.Store.Backend)
	}
	if f.Server.MaxVertices < 0 || f.Server.Concurrency < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server limits must be non-negative")
	}
	return nil
}

// SolverOptions converts the solver section into solver options.
func (f File) SolverOptions() mewc.Options {
	s := f.Solver
	return mewc.Options{
		Timeout:       s.Timeout,
		MaxIterations: s.MaxIterations,
		Ranking:       mewc.Ranking(s.Ranking),
		MaxSwapSize:   s.MaxSwapSize,
		ProbeLimit:    s.ProbeLimit,
		GraspTrials:   s.GraspTrials,
		GraspAlpha:    s.GraspAlpha,
		GraspSwapSize: s.GraspSwapSize,
		Seed:          s.Seed,
	}
}

// Strategy returns the configured default strategy.
func (f File) Strategy() mewc.Strategy {
	s, err := mewc.ParseStrategy(f.Solver.Strategy)
	if err != nil {
		return mewc.Exact
	}
	return s
}

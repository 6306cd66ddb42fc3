package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix starts every environment variable wenyan reads.
const EnvPrefix = "WENYAN_"

// Options control where Load looks.
type Options struct {
	// Path is an explicit config file. It must exist when set.
	Path string

	// DotEnv is the .env file to load. Missing files are ignored.
	// Defaults to ".env" in the working directory.
	DotEnv string

	// Getenv reads the environment. Defaults to os.Getenv.
	Getenv func(string) string
}

// Load builds the configuration: defaults, then the YAML file, then .env,
// then WENYAN_* variables. The result is validated.
func Load(opts Options) (Config, error) {
	cfg := Default()

	path := opts.Path
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	dotenv := opts.DotEnv
	if dotenv == "" {
		dotenv = ".env"
	}
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load %s: %w", dotenv, err)
	}

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if err := ApplyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath is $XDG_CONFIG_HOME/wenyan/config.yaml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "wenyan", "config.yaml"), nil
}

func mergeFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	if err := Decode(f, cfg); err != nil {
		return fmt.Errorf("config: parse %q: %w", path, err)
	}
	return nil
}

// Decode merges YAML from r into cfg. Unknown keys are an error.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with WENYAN_* variables read through getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	var errs []error
	str := func(name string, dst *string) {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	list := func(name string, dst *[]string) {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = strings.Fields(v)
		}
	}

	str("API_BASE_URL", &cfg.API.BaseURL)
	if v := getenv(EnvPrefix + "API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sAPI_TIMEOUT: %w", EnvPrefix, err))
		} else {
			cfg.API.Timeout = d
		}
	}

	str("EXPLAIN_STRATEGY", &cfg.Explain.Strategy)
	str("EXPLAIN_PENDING", &cfg.Explain.Pending)
	str("EXPLAIN_EMPTY", &cfg.Explain.Empty)
	str("EXPLAIN_FAILURE", &cfg.Explain.Failure)

	str("SPEECH_STRATEGY", &cfg.Speech.Strategy)
	str("SPEECH_VOICE", &cfg.Speech.Voice)
	list("SPEECH_COMMAND", &cfg.Speech.Command)
	list("SPEECH_PLAYER", &cfg.Speech.Player)

	str("STORE_BACKEND", &cfg.Store.Backend)
	str("DB", &cfg.Store.Path)
	str("REDIS_ADDR", &cfg.Store.RedisAddr)
	str("REDIS_PASSWORD", &cfg.Store.RedisPassword)
	if v := getenv(EnvPrefix + "REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREDIS_DB: %w", EnvPrefix, err))
		} else {
			cfg.Store.RedisDB = n
		}
	}

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_PATH", &cfg.Log.Path)
	str("METRICS_ADDR", &cfg.Metrics.Addr)

	return errors.Join(errs...)
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg Config) error {
	var errs []error

	if u, err := url.Parse(cfg.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url %q must be an absolute http(s) URL", cfg.API.BaseURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Errorf("api.base_url scheme %q is not http or https", u.Scheme))
	}
	if cfg.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must not be negative"))
	}

	switch cfg.Explain.Strategy {
	case "http", "llm":
	default:
		errs = append(errs, fmt.Errorf("explain.strategy %q is invalid; valid values: http, llm", cfg.Explain.Strategy))
	}
	if cfg.Explain.Pending == "" {
		errs = append(errs, fmt.Errorf("explain.pending must not be empty"))
	}
	if cfg.Explain.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("explain.max_tokens must be positive"))
	}
	if cfg.Explain.Temperature < 0 || cfg.Explain.Temperature > 1 {
		errs = append(errs, fmt.Errorf("explain.temperature must be within 0.0 - 1.0"))
	}

	switch cfg.Speech.Strategy {
	case "device", "remote", "off":
	default:
		errs = append(errs, fmt.Errorf("speech.strategy %q is invalid; valid values: device, remote, off", cfg.Speech.Strategy))
	}

	switch cfg.Store.Backend {
	case "sqlite":
	case "redis":
		if cfg.Store.RedisAddr == "" {
			errs = append(errs, fmt.Errorf("store.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend %q is invalid; valid values: sqlite, redis", cfg.Store.Backend))
	}
	if cfg.Store.RedisDB < 0 {
		errs = append(errs, fmt.Errorf("store.redis_db must not be negative"))
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is invalid; valid values: debug, info, warn, error", cfg.Log.Level))
	}

	return errors.Join(errs...)
}

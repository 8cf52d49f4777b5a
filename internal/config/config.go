// Package config loads application configuration from a YAML file, an
// optional .env file and QRLOGO_* environment variables, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cristianadrielbraun/qrlogo/internal/encoder"
	"github.com/cristianadrielbraun/qrlogo/internal/render"
)

// Duration is a time.Duration that unmarshals from strings like "30m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", s)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

type Server struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type Render struct {
	Encoder     string `yaml:"encoder"`
	ECC         string `yaml:"ecc"`
	Scale       int    `yaml:"scale"`
	Border      int    `yaml:"border"`
	LogoPercent int    `yaml:"logo_percent"`
	Filter      string `yaml:"filter"`
}

type Upload struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

type Session struct {
	TTL           Duration `yaml:"ttl"`
	SweepInterval Duration `yaml:"sweep_interval"`
}

// Config holds all application configuration values.
type Config struct {
	Server    Server  `yaml:"server"`
	LogLevel  string  `yaml:"log_level"`
	LogFormat string  `yaml:"log_format"`
	Render    Render  `yaml:"render"`
	Upload    Upload  `yaml:"upload"`
	Session   Session `yaml:"session"`
}

// Defaults returns a Config populated with the built-in values.
func Defaults() *Config {
	return &Config{
		Server:    Server{Port: 8080, GinMode: "release"},
		LogLevel:  "info",
		LogFormat: "text",
		Render: Render{
			Encoder:     "skip2",
			ECC:         "medium",
			Scale:       render.DefaultScale,
			Border:      render.DefaultBorder,
			LogoPercent: 20,
			Filter:      "lanczos",
		},
		Upload: Upload{MaxBytes: 5 << 20},
		Session: Session{
			TTL:           Duration{30 * time.Minute},
			SweepInterval: Duration{time.Minute},
		},
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. A .env file next to the process is
// loaded first so its values reach the environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "loading .env")
	}

	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrap(err, "reading config file")
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parsing config file")
		}
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies PORT and QRLOGO_* environment variables to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("QRLOGO_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("QRLOGO_GIN_MODE"); v != "" {
		cfg.Server.GinMode = v
	}
	if v := os.Getenv("QRLOGO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QRLOGO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("QRLOGO_ENCODER"); v != "" {
		cfg.Render.Encoder = v
	}
	if v := os.Getenv("QRLOGO_ECC"); v != "" {
		cfg.Render.ECC = v
	}
	if v := os.Getenv("QRLOGO_FILTER"); v != "" {
		cfg.Render.Filter = v
	}
	setInt(&cfg.Render.Scale, "QRLOGO_SCALE")
	setInt(&cfg.Render.Border, "QRLOGO_BORDER")
	setInt(&cfg.Render.LogoPercent, "QRLOGO_LOGO_PERCENT")
	if v := os.Getenv("QRLOGO_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Upload.MaxBytes = n
		}
	}
	if v := os.Getenv("QRLOGO_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Session.TTL = Duration{d}
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d out of range", c.Server.Port))
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		problems = append(problems, fmt.Sprintf("unknown gin mode %q", c.Server.GinMode))
	}
	if c.Render.Scale < 1 {
		problems = append(problems, fmt.Sprintf("scale %d must be at least 1", c.Render.Scale))
	}
	if c.Render.Border < 0 {
		problems = append(problems, fmt.Sprintf("border %d must not be negative", c.Render.Border))
	}
	if c.Render.LogoPercent < 10 || c.Render.LogoPercent > 40 {
		problems = append(problems, fmt.Sprintf("logo percent %d outside [10, 40]", c.Render.LogoPercent))
	}
	if _, err := encoder.New(c.Render.Encoder); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := encoder.ParseLevel(c.Render.ECC); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := render.ParseFilter(c.Render.Filter); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Upload.MaxBytes <= 0 {
		problems = append(problems, "upload max_bytes must be positive")
	}
	if len(problems) > 0 {
		return errors.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Level is the parsed default error correction level.
func (c *Config) Level() encoder.Level {
	l, _ := encoder.ParseLevel(c.Render.ECC)
	return l
}

// LogoFraction is the default logo size as a fraction.
func (c *Config) LogoFraction() float64 {
	return render.PercentToFraction(c.Render.LogoPercent)
}

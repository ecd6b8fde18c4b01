package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"btcmag7/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	SourceFirestore  = "firestore"
	SourceClickHouse = "clickhouse"

	SnapshotFile   = "file"
	SnapshotSQLite = "sqlite"
	SnapshotRedis  = "redis"
	SnapshotMemory = "memory"
)

type Config struct {
	Environment string         `yaml:"environment" default:"development" validate:"required"`
	Server      ServerConfig   `yaml:"server"`
	Log         LogConfig      `yaml:"log"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	Source      SourceConfig   `yaml:"source"`
	Snapshot    SnapshotConfig `yaml:"snapshot"`
}

type ServerConfig struct {
	Host            string          `yaml:"host" default:"0.0.0.0"`
	Port            int             `yaml:"port" default:"5000" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" default:"2m"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" default:"10s"`
	SlowThreshold   time.Duration   `yaml:"slow_threshold" default:"2s"`
	CORS            CORSConfig      `yaml:"cors"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

type CORSConfig struct {
	Enabled bool     `yaml:"enabled" default:"true"`
	Origins []string `yaml:"origins" default:"[\"*\"]"`
}

type RateLimitConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Burst        float64 `yaml:"burst" default:"10" validate:"gte=1"`
	RefillPerSec float64 `yaml:"refill_per_sec" default:"1" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

type SourceConfig struct {
	Type       string           `yaml:"type" default:"firestore" validate:"oneof=firestore clickhouse"`
	Timeout    time.Duration    `yaml:"timeout"`
	Firestore  FirestoreConfig  `yaml:"firestore"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

type FirestoreConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	Collection      string `yaml:"collection" default:"Indices/BTC_Mag7_Index/DailyData"`
}

type ClickHouseConfig struct {
	Host             string        `yaml:"host" default:"localhost"`
	Port             int           `yaml:"port" default:"9000"`
	Database         string        `yaml:"database" default:"btcmag7"`
	Table            string        `yaml:"table" default:"daily_close"`
	User             string        `yaml:"user" default:"default"`
	Password         string        `yaml:"password"`
	UseHTTP          bool          `yaml:"use_http"`
	InitSchema       bool          `yaml:"init_schema" default:"true"`
	DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
}

type SnapshotConfig struct {
	Backend string      `yaml:"backend" default:"file" validate:"oneof=file sqlite redis memory"`
	File    FileConfig  `yaml:"file"`
	SQLite  FileConfig  `yaml:"sqlite"`
	Redis   RedisConfig `yaml:"redis"`
}

type FileConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"btcmag7"`
	Key      string `yaml:"key" default:"snapshot"`
}

var validate = validator.New()

// Default returns a configuration with every default applied.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	c.applyPathDefaults()
	return &c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse applies defaults, decodes YAML over them and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyPathDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A missing file is tolerated; defaults and environment then decide.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		c, err = Default()
	}
	if err != nil {
		return nil, err
	}

	c.applyEnv(os.Getenv)
	c.applyPathDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := getenv("HTTP_PORT"); v != "" {
		c.Server.Port = util.ParsePort(v, c.Server.Port)
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := getenv("SOURCE_TYPE"); v != "" {
		c.Source.Type = v
	}
	if v := getenv("FIRESTORE_PROJECT_ID"); v != "" {
		c.Source.Firestore.ProjectID = v
	}
	if v := getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" && c.Source.Firestore.CredentialsFile == "" {
		c.Source.Firestore.CredentialsFile = v
	}
	if v := getenv("CLICKHOUSE_HOST"); v != "" {
		c.Source.ClickHouse.Host = v
	}
	if v := getenv("SNAPSHOT_BACKEND"); v != "" {
		c.Snapshot.Backend = v
	}
	if v := getenv("SNAPSHOT_PATH"); v != "" {
		c.Snapshot.File.Path = v
		c.Snapshot.SQLite.Path = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Snapshot.Redis.Host, c.Snapshot.Redis.Port = util.SplitHostPort(v, c.Snapshot.Redis.Port)
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		c.Snapshot.Redis.Password = v
	}
}

func (c *Config) applyPathDefaults() {
	if c.Snapshot.File.Path == "" {
		c.Snapshot.File.Path = "cached_data.csv"
	}
	if c.Snapshot.SQLite.Path == "" {
		c.Snapshot.SQLite.Path = "snapshot.db"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	if c.Source.Type == SourceFirestore && c.Source.Firestore.ProjectID == "" {
		return fmt.Errorf("source.firestore.project_id is required")
	}
	if c.Source.Type == SourceClickHouse && c.Source.ClickHouse.Host == "" {
		return fmt.Errorf("source.clickhouse.host is required")
	}
	if c.Snapshot.Backend == SnapshotRedis && c.Snapshot.Redis.Key == "" {
		return fmt.Errorf("snapshot.redis.key is required")
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendFile = "file"
	BackendS3   = "s3"

	envPrefix = "REPORT_ATLAS"
)

type Settings struct {
	AppName   string          `mapstructure:"app_name"`
	Env       string          `mapstructure:"env"`
	LogLevel  string          `mapstructure:"log_level"`
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	History   HistoryConfig   `mapstructure:"history"`
	Chunking  ChunkingConfig  `mapstructure:"chunking"`
	Narrative NarrativeConfig `mapstructure:"narrative"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Backend string   `mapstructure:"backend"`
	Dir     string   `mapstructure:"dir"`
	S3      S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

type HistoryConfig struct {
	// DbPath of the DuckDB variance ledger; empty disables it.
	DbPath string `mapstructure:"db_path"`
	// KeepRuns caps the stored runs per upload pair; zero keeps all.
	KeepRuns int `mapstructure:"keep_runs"`
}

type ChunkingConfig struct {
	MaxTokens     int `mapstructure:"max_tokens"`
	OverlapTokens int `mapstructure:"overlap_tokens"`
}

type NarrativeConfig struct {
	TopN int `mapstructure:"top_n"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "AI Financial Report Analyst")
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.dir", "storage")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.prefix", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.profile", "")
	v.SetDefault("history.db_path", "")
	v.SetDefault("history.keep_runs", 0)
	v.SetDefault("chunking.max_tokens", 700)
	v.SetDefault("chunking.overlap_tokens", 120)
	v.SetDefault("narrative.top_n", 3)
}

// LoadConfig reads settings from the optional YAML file at path, then applies
// REPORT_ATLAS_* environment overrides (e.g. REPORT_ATLAS_STORAGE_DIR).
func LoadConfig(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse report atlas config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report atlas config: %w", err)
	}
	return &cfg, nil
}

func (s *Settings) Validate() error {
	var errs []error

	switch s.Storage.Backend {
	case BackendFile:
		if s.Storage.Dir == "" {
			errs = append(errs, errors.New("storage.dir is required for the file backend"))
		}
	case BackendS3:
		if s.Storage.S3.Bucket == "" {
			errs = append(errs, errors.New("storage.s3.bucket is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", s.Storage.Backend))
	}

	if s.History.KeepRuns < 0 {
		errs = append(errs, errors.New("history.keep_runs must not be negative"))
	}
	if s.Chunking.MaxTokens <= 0 {
		errs = append(errs, errors.New("chunking.max_tokens must be positive"))
	}
	if s.Chunking.OverlapTokens < 0 {
		errs = append(errs, errors.New("chunking.overlap_tokens must not be negative"))
	}
	if s.Narrative.TopN < 0 {
		errs = append(errs, errors.New("narrative.top_n must not be negative"))
	}

	return errors.Join(errs...)
}

func (s *Settings) Addr() string {
	return s.Server.Host + ":" + s.Server.Port
}

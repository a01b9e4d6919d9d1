package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Environment string `toml:"environment"`

	// logging
	LogLevel    string `toml:"log_level"`
	LogsPath    string `toml:"logs_path"`
	LogToStdout bool   `toml:"log_to_stdout"`

	SentryEnabled bool `toml:"sentry_enabled"`

	// prometheus metrics endpoint (served separately from the main router)
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	QuotesCsvPath string `toml:"quotes_csv_path"`

	// base URL used when building share links returned to clients
	PublicBaseURL string `toml:"public_base_url"`

	// root dir for exercise catalog images and workout scans
	ImagesDiskRootPath string `toml:"images_disk_root_path"`

	// external vision service used for workout scan OCR and equipment recognition
	VisionAPIEndpoint string `toml:"vision_api_endpoint"`

	LoginRateLimitAllowedPerMin         int `toml:"login_rate_limit_allowed_per_min"`
	TranscriptionRateLimitAllowedPerMin int `toml:"transcription_rate_limit_allowed_per_min"`

	// sessions backup job reports its run stats through this unix socket
	BackupUnixSocketAddrDir  string `toml:"backup_unix_socket_addr_dir"`
	BackupUnixSocketFileName string `toml:"backup_unix_socket_file_name"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env %s not set", env)
	}

	cfg.Environment = env

	return cfg, nil
}

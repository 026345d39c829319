package types

import "time"

// HTTPConfig holds shared HTTP settings used by the OMDb client.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "popcorn/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// OMDbConfig holds settings for the movie database client.
type OMDbConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the OMDb endpoint; search and detail both hit it with
	// different query parameters.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is sent as the apikey parameter.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// StorageDriver identifies a watched-list persistence backend.
type StorageDriver string

const (
	StorageSQLite StorageDriver = "sqlite"
	StorageFile   StorageDriver = "file"
	StorageMemory StorageDriver = "memory"
)

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	// Driver selects the backend: sqlite, file, or memory.
	Driver StorageDriver `json:"driver" yaml:"driver" mapstructure:"driver"`

	// Path is the SQLite database file for the sqlite driver, or the
	// directory holding one JSON file per key for the file driver.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ServerConfig holds settings for the web UI.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// AllowedOrigins lists CORS origins for the JSON API.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig controls where log output goes.
type LogConfig struct {
	// File is a log file path; empty logs to stderr.
	File string `json:"file" yaml:"file" mapstructure:"file"`

	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int `json:"max_size_mb" yaml:"max_size_mb" mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `json:"max_backups" yaml:"max_backups" mapstructure:"max_backups"`
}

// Config groups all popcorn settings.
type Config struct {
	OMDb    OMDbConfig    `json:"omdb" yaml:"omdb" mapstructure:"omdb"`
	Storage StorageConfig `json:"storage" yaml:"storage" mapstructure:"storage"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Database backends supported by the server.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the API server.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	ReleaseMode    bool     `mapstructure:"release_mode"`
}

// DatabaseConfig selects the persistence backend.
// URI is a mongodb:// URI for "mongo" and a postgres DSN for "postgres".
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	// PublicBaseURL is prefixed to object keys to build the public URL of an upload.
	// Empty means "<endpoint>/<bucket>".
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// UploadConfig bounds what the presigned-URL issuer will sign.
type UploadConfig struct {
	MaxBytes      int64         `mapstructure:"max_bytes"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
}

// LogConfig is shared by the server and the CLI.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
	// File enables a rotating log file in addition to stderr.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DefaultMaxUploadBytes is the per-image size limit (500KB).
const DefaultMaxUploadBytes int64 = 500 * 1024

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.release_mode", false)
	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "donation_share")
	// Every key needs a default so AutomaticEnv can override it during Unmarshal.
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "auto")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.public_base_url", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("upload.max_bytes", DefaultMaxUploadBytes)
	v.SetDefault("upload.presign_expiry", "6m")
	v.SetDefault("upload.key_prefix", "donations")
	setLogDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No file: defaults and env vars only
		err = nil
	} else if err != nil {
		return
	}

	// Viper parses duration strings ("6m", "24h") straight into time.Duration fields.
	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}

// ClientConfig configures the donate CLI.
type ClientConfig struct {
	APIBaseURL string        `mapstructure:"api_base_url"`
	TokenFile  string        `mapstructure:"token_file"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxFiles   int           `mapstructure:"max_files"`
	MaxBytes   int64         `mapstructure:"max_bytes"`
	Log        LogConfig     `mapstructure:"log"`
}

// LoadClientConfig reads donate.yaml and DONATE_* environment variables.
func LoadClientConfig(path string) (config ClientConfig, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("donate")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("donate")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("api_base_url", "http://localhost:8080")
	v.SetDefault("token_file", ".donate-token")
	v.SetDefault("timeout", "30s")
	v.SetDefault("max_files", 3)
	v.SetDefault("max_bytes", DefaultMaxUploadBytes)
	setLogDefaults(v)
	v.SetDefault("log.level", "warn")

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	return config, err
}

func setLogDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

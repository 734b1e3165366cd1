package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Batch   BatchConfig
	Barcode BarcodeConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings. With Enabled false the
// server runs without persistence and the processing log.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds object archive settings.
type S3Config struct {
	ArchiveEnabled bool   `mapstructure:"archive_enabled"`
	Region         string `mapstructure:"region"`
	Bucket         string `mapstructure:"bucket"`
	Endpoint       string `mapstructure:"endpoint"`
	AccessKey      string `mapstructure:"access_key"`
	SecretKey      string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// BatchConfig bounds batch uploads.
type BatchConfig struct {
	Concurrency   int   `mapstructure:"concurrency"`
	MaxFiles      int   `mapstructure:"max_files"`
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the per-file limit in bytes.
func (b *BatchConfig) MaxFileSizeBytes() int64 {
	return b.MaxFileSizeMB << 20
}

// BarcodeConfig holds the rendered barcode size in pixels.
type BarcodeConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Load reads configuration from environment variables with the NFE_ prefix.
// A .env file in the working directory is loaded first when present; values
// already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("NFE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "nfe")
	v.SetDefault("db.password", "nfe_secret")
	v.SetDefault("db.name", "nfe_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	v.SetDefault("s3.archive_enabled", false)
	v.SetDefault("s3.region", "sa-east-1")
	v.SetDefault("s3.bucket", "nfe-archive")
	v.SetDefault("s3.endpoint", "")

	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	v.SetDefault("batch.concurrency", 8)
	v.SetDefault("batch.max_files", 100)
	v.SetDefault("batch.max_file_size_mb", 10)

	v.SetDefault("barcode.width", 600)
	v.SetDefault("barcode.height", 80)

	envBindings := map[string]string{
		"server.port":            "NFE_SERVER_PORT",
		"server.read_timeout":    "NFE_SERVER_READ_TIMEOUT",
		"server.write_timeout":   "NFE_SERVER_WRITE_TIMEOUT",
		"server.environment":     "NFE_SERVER_ENVIRONMENT",
		"db.enabled":             "NFE_DB_ENABLED",
		"db.host":                "NFE_DB_HOST",
		"db.port":                "NFE_DB_PORT",
		"db.user":                "NFE_DB_USER",
		"db.password":            "NFE_DB_PASSWORD",
		"db.name":                "NFE_DB_NAME",
		"db.sslmode":             "NFE_DB_SSLMODE",
		"db.max_open":            "NFE_DB_MAX_OPEN",
		"db.max_idle":            "NFE_DB_MAX_IDLE",
		"s3.archive_enabled":     "NFE_S3_ARCHIVE_ENABLED",
		"s3.region":              "NFE_S3_REGION",
		"s3.bucket":              "NFE_S3_BUCKET",
		"s3.endpoint":            "NFE_S3_ENDPOINT",
		"s3.access_key":          "NFE_S3_ACCESS_KEY",
		"s3.secret_key":          "NFE_S3_SECRET_KEY",
		"log.level":              "NFE_LOG_LEVEL",
		"log.format":             "NFE_LOG_FORMAT",
		"cors.allowed_origins":   "NFE_CORS_ALLOWED_ORIGINS",
		"batch.concurrency":      "NFE_BATCH_CONCURRENCY",
		"batch.max_files":        "NFE_BATCH_MAX_FILES",
		"batch.max_file_size_mb": "NFE_BATCH_MAX_FILE_SIZE_MB",
		"barcode.width":          "NFE_BARCODE_WIDTH",
		"barcode.height":         "NFE_BARCODE_HEIGHT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set PORT; honour it unless NFE_SERVER_PORT is set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("NFE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		ArchiveEnabled: v.GetBool("s3.archive_enabled"),
		Region:         v.GetString("s3.region"),
		Bucket:         v.GetString("s3.bucket"),
		Endpoint:       v.GetString("s3.endpoint"),
		AccessKey:      v.GetString("s3.access_key"),
		SecretKey:      v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Batch = BatchConfig{
		Concurrency:   v.GetInt("batch.concurrency"),
		MaxFiles:      v.GetInt("batch.max_files"),
		MaxFileSizeMB: v.GetInt64("batch.max_file_size_mb"),
	}
	if cfg.Batch.Concurrency < 1 {
		return nil, fmt.Errorf("config.Load: batch.concurrency must be positive, got %d", cfg.Batch.Concurrency)
	}
	cfg.Barcode = BarcodeConfig{
		Width:  v.GetInt("barcode.width"),
		Height: v.GetInt("barcode.height"),
	}

	return cfg, nil
}

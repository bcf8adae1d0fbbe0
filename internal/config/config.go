package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	AI       AIConfig       `yaml:"ai"`
	JWT      JWTConfig      `yaml:"jwt"`
	Admin    AdminConfig    `yaml:"admin"`
	Log      LogConfig      `yaml:"log"`

	// IANA timezone used for human-readable timestamps in prompts
	// and fallback narratives (e.g. "Europe/Berlin")
	DisplayTimezone string `yaml:"display_timezone"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// StorageConfig holds upload storage configuration
type StorageConfig struct {
	Driver    string    `yaml:"driver"`     // "local" (default) or "s3"
	LocalPath string    `yaml:"local_path"` // uploads directory for the local driver
	AWS       AWSConfig `yaml:"aws"`
}

// AWSConfig holds S3 driver configuration
type AWSConfig struct {
	Region    string `yaml:"region"`
	S3Bucket  string `yaml:"s3_bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"` // custom endpoint for S3-compatible providers
}

// AIConfig holds generative model configuration
type AIConfig struct {
	APIKey                   string `yaml:"api_key"` // overridden by GEMINI_API_KEY
	BaseURL                  string `yaml:"base_url"`
	Model                    string `yaml:"model"`
	TimeoutSeconds           int    `yaml:"timeout_seconds"`
	EnablePhotoAnalysis      bool   `yaml:"enable_photo_analysis"`
	EnableAudioTranscription bool   `yaml:"enable_audio_transcription"`
	DailyPhotoAnalysisLimit  int    `yaml:"daily_photo_analysis_limit"` // 0 = unlimited
	MaxImageDimension        int    `yaml:"max_image_dimension"`
	LogCosts                 bool   `yaml:"log_costs"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// AdminConfig holds admin login configuration.
// An empty password means a random one is generated at startup and logged.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.AI.APIKey = key
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.0-flash-exp"
	}
	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = 120
	}
	if c.AI.MaxImageDimension <= 0 {
		c.AI.MaxImageDimension = 1024
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "local"
	}
	if c.Storage.LocalPath == "" {
		c.Storage.LocalPath = "uploads"
	}
	if c.Admin.Username == "" {
		c.Admin.Username = "admin"
	}
	if c.DisplayTimezone == "" {
		c.DisplayTimezone = "Europe/Berlin"
	}
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

package config

import (
	"time"
)

// Config represents the application configuration
type Config struct {
	Environment  string             `mapstructure:"environment" yaml:"environment"`
	Server       ServerConfig       `mapstructure:"server" yaml:"server"`
	Database     DatabaseConfig     `mapstructure:"database" yaml:"database"`
	Redis        RedisConfig        `mapstructure:"redis" yaml:"redis"`
	Storage      StorageConfig      `mapstructure:"storage" yaml:"storage"`
	Logging      LoggingConfig      `mapstructure:"logging" yaml:"logging"`
	Auth         AuthConfig         `mapstructure:"auth" yaml:"auth"`
	Transcode    TranscodeConfig    `mapstructure:"transcode" yaml:"transcode"`
	Workflow     WorkflowConfig     `mapstructure:"workflow" yaml:"workflow"`
	Pagination   PaginationConfig   `mapstructure:"pagination" yaml:"pagination"`
}

// ServerConfig represents server configuration settings
type ServerConfig struct {
	Port int `mapstructure:"port"`
	IPRateLimit struct {
		RequestsPerSecond float64 `mapstructure:"requestsPerSecond"`
		Burst             int     `mapstructure:"burst"`
	} `mapstructure:"ipRateLimit"`
}

// DatabaseConfig represents database configuration settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Dbname   string `mapstructure:"dbname"`
	Port     int    `mapstructure:"port"`
	Sslmode  string `mapstructure:"sslmode"`
	Timezone string `mapstructure:"timezone"`
	Pool     struct {
		MaxOpen int `mapstructure:"maxOpen"`
		MaxIdle int `mapstructure:"maxIdle"`
	} `mapstructure:"pool"`
}

// RedisConfig represents Redis configuration settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig represents object storage configuration settings
type StorageConfig struct {
	S3 S3Config `mapstructure:"s3"`
}

// S3Config represents S3-compatible storage settings
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"accessKeyId"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
	UseSSL          bool   `mapstructure:"useSSL"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	PublicBaseURL   string `mapstructure:"publicBaseUrl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	Output      string `mapstructure:"output" yaml:"output"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

// AuthConfig represents authentication configuration settings
type AuthConfig struct {
	JWT struct {
		Secret string `mapstructure:"secret"`
	} `mapstructure:"jwt"`
	RateLimit struct {
		Requests int           `mapstructure:"requests"`
		Window   time.Duration `mapstructure:"window"`
	} `mapstructure:"rateLimit"`
}

// TranscodeConfig represents the hosted video-processing provider settings
type TranscodeConfig struct {
	BaseURL   string        `mapstructure:"baseUrl"`
	TokenID   string        `mapstructure:"tokenId"`
	TokenSecret string      `mapstructure:"tokenSecret"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// WorkflowConfig represents the external workflow-trigger service settings
type WorkflowConfig struct {
	BaseURL string `mapstructure:"baseUrl"`
	Token   string `mapstructure:"token"`
}

// PaginationConfig bounds list endpoint page sizes
type PaginationConfig struct {
	DefaultLimit int `mapstructure:"defaultLimit"`
	MaxLimit     int `mapstructure:"maxLimit"`
}

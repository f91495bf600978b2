package config

import "time"

// Message definition message_service YAML structure
type Message struct {
	Port  string      `mapstructure:"port"`
	KV    KVConfig    `mapstructure:"kv"`
	Redis RedisConfig `mapstructure:"redis"`

	// MessageTTL 0 表示永久保留
	MessageTTL time.Duration `mapstructure:"message_ttl"`

	Polling PollingConfig `mapstructure:"polling"`
}

// Member definition member_service YAML structure
type Member struct {
	Port       string        `mapstructure:"port"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	KV         KVConfig       `mapstructure:"kv"`
	Redis      RedisConfig    `mapstructure:"redis"`
}

// File definition file_service YAML structure
type File struct {
	Port  string      `mapstructure:"port"`
	KV    KVConfig    `mapstructure:"kv"`
	Redis RedisConfig `mapstructure:"redis"`
	MinIO MinIOConfig `mapstructure:"minio"`
}

// KVConfig definition key-value backend setting
type KVConfig struct {
	// Backend: redis | mongo | memory
	Backend string         `mapstructure:"backend"`
	Mongo   DatabaseConfig `mapstructure:"mongo"`
}

// PollingConfig definition client polling intervals
type PollingConfig struct {
	MessageInterval time.Duration `mapstructure:"message_interval"`
	RequestInterval time.Duration `mapstructure:"request_interval"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
}

// MinIOConfig definition minio setting
type MinIOConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Bucket        string `mapstructure:"bucket"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

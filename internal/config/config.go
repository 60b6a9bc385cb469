package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Queue    QueueConfig    `mapstructure:"queue" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
	// AutoMigrate applies pending migrations when the server starts.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	Algorithm            string `mapstructure:"algorithm" validate:"required,oneof=HS256 HS384 HS512"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=44640"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// TokenLifetime returns the access token lifetime as a duration.
func (a AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(a.TokenLifetimeMinutes) * time.Minute
}

// CacheConfig holds the Redis connection and key layout used by the cache store.
type CacheConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	DB             int    `mapstructure:"db" validate:"gte=0"`
	Password       string `mapstructure:"password"`
	AccountPrefix  string `mapstructure:"account_prefix" validate:"required"`
	BudgetPrefix   string `mapstructure:"budget_prefix" validate:"required"`
	ReportPrefix   string `mapstructure:"report_prefix" validate:"required"`
	ListTTLSeconds int    `mapstructure:"list_ttl_seconds" validate:"required,gt=0"`
	ReportTTLHours int    `mapstructure:"report_ttl_hours" validate:"required,gt=0"`
}

// ListTTL is the expiry applied to cached account and budget lists.
func (c CacheConfig) ListTTL() time.Duration {
	return time.Duration(c.ListTTLSeconds) * time.Second
}

// ReportTTL is the expiry applied to report job entries.
func (c CacheConfig) ReportTTL() time.Duration {
	return time.Duration(c.ReportTTLHours) * time.Hour
}

// QueueConfig selects the task queue driver and tunes the worker runner.
type QueueConfig struct {
	Driver            string `mapstructure:"driver" validate:"required,oneof=memory redis pubsub"`
	BrokerURL         string `mapstructure:"broker_url" validate:"required_if=Driver redis"`
	PubSubProjectID   string `mapstructure:"pubsub_project_id" validate:"required_if=Driver pubsub"`
	PubSubTopicPrefix string `mapstructure:"pubsub_topic_prefix"`
	ReportQueue       string `mapstructure:"report_queue" validate:"required"`
	AccountQueue      string `mapstructure:"account_queue" validate:"required"`
	WorkerCount       int    `mapstructure:"worker_count" validate:"required,gt=0"`
	MaxAttempts       int    `mapstructure:"max_attempts" validate:"required,gt=0"`
	QueueSize         int    `mapstructure:"queue_size" validate:"required,gt=0"`
}

// Queues returns the names of every queue a worker process should consume.
func (q QueueConfig) Queues() []string {
	if q.ReportQueue == q.AccountQueue {
		return []string{q.ReportQueue}
	}
	return []string{q.ReportQueue, q.AccountQueue}
}

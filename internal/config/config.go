package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	Env       string          `mapstructure:"env"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Sample    SampleConfig    `mapstructure:"sample"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Events    EventsConfig    `mapstructure:"events"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	ReadTimeout  int      `mapstructure:"read_timeout_seconds"`
	WriteTimeout int      `mapstructure:"write_timeout_seconds"`
	IdleTimeout  int      `mapstructure:"idle_timeout_seconds"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            string `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time_seconds"`
}

// StorageConfig picks the backend of each record kind: "memory" (sample
// data) or "postgres".
type StorageConfig struct {
	Students    string `mapstructure:"students"`
	Rooms       string `mapstructure:"rooms"`
	Fees        string `mapstructure:"fees"`
	Visitors    string `mapstructure:"visitors"`
	Maintenance string `mapstructure:"maintenance"`
}

// UsesPostgres reports whether any kind is stored in the database.
func (s StorageConfig) UsesPostgres() bool {
	for _, b := range []string{s.Students, s.Rooms, s.Fees, s.Visitors, s.Maintenance} {
		if b == BackendPostgres {
			return true
		}
	}
	return false
}

type SampleConfig struct {
	Seed        uint64 `mapstructure:"seed"`
	Students    int    `mapstructure:"students"`
	Rooms       int    `mapstructure:"rooms"`
	Visitors    int    `mapstructure:"visitors"`
	Maintenance int    `mapstructure:"maintenance"`
}

type AuthConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	JWTSecret         string        `mapstructure:"jwt_secret"`
	Issuer            string        `mapstructure:"issuer"`
	TokenTTL          time.Duration `mapstructure:"token_ttl"`
	AdminEmail        string        `mapstructure:"admin_email"`
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
}

// EventsConfig selects where change events go: "none", "nats" or "kafka".
type EventsConfig struct {
	Backend string `mapstructure:"backend"`
}

type NATSConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

// RateLimitConfig limits /api requests per client IP. Backend is "memory"
// or "redis"; a zero PerMinute disables limiting.
type RateLimitConfig struct {
	Backend   string `mapstructure:"backend"`
	PerMinute int    `mapstructure:"per_minute"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 15)
	v.SetDefault("server.idle_timeout_seconds", 60)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "hostel")
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("storage.students", BackendPostgres)
	v.SetDefault("storage.rooms", BackendMemory)
	v.SetDefault("storage.fees", BackendMemory)
	v.SetDefault("storage.visitors", BackendMemory)
	v.SetDefault("storage.maintenance", BackendMemory)

	v.SetDefault("sample.seed", 0)
	v.SetDefault("sample.students", 25)
	v.SetDefault("sample.rooms", 50)
	v.SetDefault("sample.visitors", 40)
	v.SetDefault("sample.maintenance", 15)

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.issuer", "hostel-service")
	v.SetDefault("auth.token_ttl", 15*time.Minute)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.admin_email", "")
	v.SetDefault("auth.admin_password_hash", "")

	v.SetDefault("events.backend", "none")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject_prefix", "hostel")
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "hostel.changes")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("rate_limit.backend", BackendMemory)
	v.SetDefault("rate_limit.per_minute", 120)

	v.SetDefault("telemetry.otlp_endpoint", "")
}

func Load() (*Config, error) {
	// Get environment from ENV, default to "local"
	env := os.Getenv("ENV")
	if env == "" {
		env = "local"
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	v.SetConfigType("yaml")
	v.AddConfigPath("/configs")   // Kubernetes mount
	v.AddConfigPath("./configs")  // repository root
	v.AddConfigPath("../configs") // IDE from cmd/

	// Config file is optional - continue with defaults and ENV variables
	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("No config file found (will use ENV variables): %v\n", err)
	}

	// ENV overrides the file, e.g. SERVER_PORT, STORAGE_STUDENTS
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("env", "ENV")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("telemetry.otlp_endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	for name, backend := range map[string]string{
		"students":    c.Storage.Students,
		"rooms":       c.Storage.Rooms,
		"fees":        c.Storage.Fees,
		"visitors":    c.Storage.Visitors,
		"maintenance": c.Storage.Maintenance,
	} {
		if backend != BackendMemory && backend != BackendPostgres {
			return fmt.Errorf("storage.%s: unknown backend %q", name, backend)
		}
	}

	switch c.Events.Backend {
	case "", "none", "nats", "kafka":
	default:
		return fmt.Errorf("events.backend: unknown backend %q", c.Events.Backend)
	}

	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required when auth is enabled")
	}
	return nil
}

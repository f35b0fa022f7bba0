package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs from the environment so main
// stays lean. Empty DSNs/URLs mean the corresponding backend is not
// configured and the in-memory fallback is used (development mode).
type Config struct {
	Addr string

	PostgresDSN string

	Redis RedisConfig
	Kafka KafkaConfig
	S3    S3Config

	JWTSigningKey string

	// DocumentKeyHex is the hex-encoded 32-byte key for document encryption
	// at rest (AES-256-GCM).
	DocumentKeyHex string

	OTP OTPConfig
}

// RedisConfig configures the OTP attempt limiter backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the audit outbox publisher.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// S3Config configures the document blob store.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// OTPConfig bounds phone OTP verification attempts per user.
type OTPConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	addr := os.Getenv("TRUSTNEST_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	documentKey := os.Getenv("DOCUMENT_ENCRYPTION_KEY")
	if documentKey == "" {
		// 32 zero bytes in hex; development only.
		documentKey = strings.Repeat("0", 64)
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	auditTopic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "trustnest.audit"
	}

	return Config{
		Addr:        addr,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    brokers,
			AuditTopic: auditTopic,
		},
		S3: S3Config{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Region:    os.Getenv("S3_REGION"),
			Bucket:    os.Getenv("S3_BUCKET"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		},
		JWTSigningKey:  jwtSigningKey,
		DocumentKeyHex: documentKey,
		OTP: OTPConfig{
			MaxAttempts: envInt("OTP_MAX_ATTEMPTS", 5),
			Window:      envDuration("OTP_ATTEMPT_WINDOW", 15*time.Minute),
		},
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

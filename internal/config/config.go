package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"billgen/internal/bill"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	Auth    AuthConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Email   EmailConfig
	Bill    BillConfig
	Cache   CacheConfig
	Cleanup CleanupConfig
	Batch   BatchConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// MaxUploadBytes is the upload limit in bytes.
func (s *ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
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

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// AuthConfig holds the single operator account. The password is stored as a
// bcrypt hash.
type AuthConfig struct {
	OperatorUsername     string `mapstructure:"operator_username"`
	OperatorPasswordHash string `mapstructure:"operator_password_hash"`
	OperatorEmail        string `mapstructure:"operator_email"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BillConfig holds the defaults applied when a request omits premium
// settings, and the sheet layout used by the engine.
type BillConfig struct {
	DefaultPremiumPercent float64          `mapstructure:"default_premium_percent"`
	DefaultPremiumType    bill.PremiumType `mapstructure:"default_premium_type"`
	// Layout is read key by key from bill.layout.*, see bill.Layout.Fields.
	Layout bill.Layout `mapstructure:"-"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// CleanupConfig holds the retention job settings.
type CleanupConfig struct {
	Schedule  string        `mapstructure:"schedule"`
	Retention time.Duration `mapstructure:"retention"`
}

// BatchConfig holds batch command settings.
type BatchConfig struct {
	Concurrency int    `mapstructure:"concurrency"`
	OutputDir   string `mapstructure:"output_dir"`
}

// Load reads configuration from environment variables with the BILLGEN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BILLGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 20)

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "billgen")
	v.SetDefault("db.password", "billgen_secret")
	v.SetDefault("db.name", "billgen_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "12h")
	v.SetDefault("jwt.issuer", "billgen")

	// Operator account defaults (no password: login disabled until set)
	v.SetDefault("auth.operator_username", "admin")
	v.SetDefault("auth.operator_password_hash", "")
	v.SetDefault("auth.operator_email", "")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "billgen-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:8501")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@billgen.local")
	v.SetDefault("email.from_name", "Bill Generator")

	// Bill defaults
	layout := bill.DefaultLayout()
	v.SetDefault("bill.default_premium_percent", 5.0)
	v.SetDefault("bill.default_premium_type", string(bill.PremiumAbove))
	layoutFields := layout.Fields()
	for _, f := range layoutFields {
		v.SetDefault(layoutPrefix+f.Key, *f.Value)
	}

	// Cache defaults
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.max_entries", 100)

	// Cleanup defaults
	v.SetDefault("cleanup.schedule", "@every 30m")
	v.SetDefault("cleanup.retention", "720h")

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.output_dir", "batch_outputs")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "BILLGEN_SERVER_PORT",
		"server.read_timeout":          "BILLGEN_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "BILLGEN_SERVER_WRITE_TIMEOUT",
		"server.environment":           "BILLGEN_SERVER_ENVIRONMENT",
		"server.max_upload_mb":         "BILLGEN_SERVER_MAX_UPLOAD_MB",
		"db.host":                      "BILLGEN_DB_HOST",
		"db.port":                      "BILLGEN_DB_PORT",
		"db.user":                      "BILLGEN_DB_USER",
		"db.password":                  "BILLGEN_DB_PASSWORD",
		"db.name":                      "BILLGEN_DB_NAME",
		"db.sslmode":                   "BILLGEN_DB_SSLMODE",
		"db.max_open":                  "BILLGEN_DB_MAX_OPEN",
		"db.max_idle":                  "BILLGEN_DB_MAX_IDLE",
		"jwt.secret":                   "BILLGEN_JWT_SECRET",
		"jwt.access_expiry":            "BILLGEN_JWT_ACCESS_EXPIRY",
		"jwt.issuer":                   "BILLGEN_JWT_ISSUER",
		"auth.operator_username":       "BILLGEN_AUTH_OPERATOR_USERNAME",
		"auth.operator_password_hash":  "BILLGEN_AUTH_OPERATOR_PASSWORD_HASH",
		"auth.operator_email":          "BILLGEN_AUTH_OPERATOR_EMAIL",
		"s3.region":                    "BILLGEN_S3_REGION",
		"s3.bucket":                    "BILLGEN_S3_BUCKET",
		"s3.endpoint":                  "BILLGEN_S3_ENDPOINT",
		"s3.access_key":                "BILLGEN_S3_ACCESS_KEY",
		"s3.secret_key":                "BILLGEN_S3_SECRET_KEY",
		"s3.presign_expiry":            "BILLGEN_S3_PRESIGN_EXPIRY",
		"log.level":                    "BILLGEN_LOG_LEVEL",
		"log.format":                   "BILLGEN_LOG_FORMAT",
		"cors.allowed_origins":         "BILLGEN_CORS_ALLOWED_ORIGINS",
		"email.provider":               "BILLGEN_EMAIL_PROVIDER",
		"email.region":                 "BILLGEN_EMAIL_REGION",
		"email.from_address":           "BILLGEN_EMAIL_FROM_ADDRESS",
		"email.from_name":              "BILLGEN_EMAIL_FROM_NAME",
		"bill.default_premium_percent": "BILLGEN_BILL_DEFAULT_PREMIUM_PERCENT",
		"bill.default_premium_type":    "BILLGEN_BILL_DEFAULT_PREMIUM_TYPE",
		"cache.ttl":                    "BILLGEN_CACHE_TTL",
		"cache.max_entries":            "BILLGEN_CACHE_MAX_ENTRIES",
		"cleanup.schedule":             "BILLGEN_CLEANUP_SCHEDULE",
		"cleanup.retention":            "BILLGEN_CLEANUP_RETENTION",
		"batch.concurrency":            "BILLGEN_BATCH_CONCURRENCY",
		"batch.output_dir":             "BILLGEN_BATCH_OUTPUT_DIR",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	// Layout keys bind to BILLGEN_BILL_LAYOUT_<KEY>, e.g.
	// BILLGEN_BILL_LAYOUT_WORK_ORDER_COLUMNS_RATE.
	for _, f := range layoutFields {
		_ = v.BindEnv(layoutPrefix+f.Key, layoutEnv(f.Key))
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if BILLGEN_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BILLGEN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.Auth = AuthConfig{
		OperatorUsername:     v.GetString("auth.operator_username"),
		OperatorPasswordHash: v.GetString("auth.operator_password_hash"),
		OperatorEmail:        v.GetString("auth.operator_email"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	premiumType, err := bill.ParsePremiumType(v.GetString("bill.default_premium_type"))
	if err != nil {
		return nil, fmt.Errorf("config: bill.default_premium_type: %w", err)
	}
	for _, f := range layoutFields {
		*f.Value = v.GetInt(layoutPrefix + f.Key)
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Bill = BillConfig{
		DefaultPremiumPercent: v.GetFloat64("bill.default_premium_percent"),
		DefaultPremiumType:    premiumType,
		Layout:                layout,
	}

	cfg.Cache = CacheConfig{
		TTL:        v.GetDuration("cache.ttl"),
		MaxEntries: v.GetInt("cache.max_entries"),
	}
	cfg.Cleanup = CleanupConfig{
		Schedule:  v.GetString("cleanup.schedule"),
		Retention: v.GetDuration("cleanup.retention"),
	}
	cfg.Batch = BatchConfig{
		Concurrency: v.GetInt("batch.concurrency"),
		OutputDir:   v.GetString("batch.output_dir"),
	}

	return cfg, nil
}

// splitList parses a comma-separated string, dropping empty entries.
const layoutPrefix = "bill.layout."

func layoutEnv(key string) string {
	return "BILLGEN_BILL_LAYOUT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func splitList(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

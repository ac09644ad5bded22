package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	S3         S3Config
	Log        LogConfig
	Parser     ParserConfig
	CORS       CORSConfig
	Validation ValidationConfig
	Batch      BatchConfig
	Retry      RetryConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserProviderConfig holds settings for a single extraction provider.
type ParserProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	Endpoint     string `mapstructure:"endpoint"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// AgentConfig holds settings for the agent-server extraction provider.
type AgentConfig struct {
	BaseURL string `mapstructure:"base_url"`
	AppName string `mapstructure:"app_name"`
	UserID  string `mapstructure:"user_id"`
}

// ParserConfig holds extraction settings with an ordered provider chain.
type ParserConfig struct {
	Mode      string               `mapstructure:"mode"` // "fallback" or "merge"
	Primary   ParserProviderConfig `mapstructure:"primary"`
	Secondary ParserProviderConfig `mapstructure:"secondary"`
	Tertiary  ParserProviderConfig `mapstructure:"tertiary"`
	Agent     AgentConfig          `mapstructure:"agent"`
}

// PrimaryConfig returns the primary provider config.
func (p *ParserConfig) PrimaryConfig() *ParserProviderConfig {
	return &p.Primary
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (p *ParserConfig) SecondaryConfig() *ParserProviderConfig {
	if p.Secondary.Provider != "" {
		return &p.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (p *ParserConfig) TertiaryConfig() *ParserProviderConfig {
	if p.Tertiary.Provider != "" {
		return &p.Tertiary
	}
	return nil
}

// Chain returns the configured providers in fallback order.
func (p *ParserConfig) Chain() []*ParserProviderConfig {
	chain := []*ParserProviderConfig{p.PrimaryConfig()}
	if s := p.SecondaryConfig(); s != nil {
		chain = append(chain, s)
	}
	if t := p.TertiaryConfig(); t != nil {
		chain = append(chain, t)
	}
	return chain
}

// ValidationConfig holds the tunable parts of field validation.
type ValidationConfig struct {
	Currencies     []string `mapstructure:"currencies"`
	DocumentTypes  []string `mapstructure:"document_types"`
	MaxAgeDays     int      `mapstructure:"max_age_days"`
	TotalTolerance string   `mapstructure:"total_tolerance"`
}

// BatchConfig holds settings for the batch review CLI.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// RetryConfig holds settings for the worker that retries rate-limited extractions.
type RetryConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	Concurrency  int           `mapstructure:"concurrency"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
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

// JWTConfig holds bearer-token verification settings. An empty secret disables auth.
type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	DefaultUser string `mapstructure:"default_user"`
}

// Enabled reports whether bearer tokens are required.
func (j *JWTConfig) Enabled() bool {
	return j.Secret != ""
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the INVOICEDESK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOICEDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.environment", "development")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invoicedesk")
	v.SetDefault("db.password", "invoicedesk_secret")
	v.SetDefault("db.name", "invoicedesk_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "invoicedesk")
	v.SetDefault("jwt.default_user", "user0")

	v.SetDefault("s3.region", "eu-west-1")
	v.SetDefault("s3.bucket", "invoicedesk-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 3600)

	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:8501")

	v.SetDefault("parser.mode", "fallback")
	v.SetDefault("parser.primary.provider", "adk")
	v.SetDefault("parser.primary.timeout_secs", 180)
	v.SetDefault("parser.primary.max_retries", 2)
	v.SetDefault("parser.secondary.provider", "")
	v.SetDefault("parser.secondary.timeout_secs", 120)
	v.SetDefault("parser.secondary.max_retries", 2)
	v.SetDefault("parser.tertiary.provider", "")
	v.SetDefault("parser.tertiary.timeout_secs", 120)
	v.SetDefault("parser.tertiary.max_retries", 2)
	v.SetDefault("parser.agent.base_url", "http://localhost:8000")
	v.SetDefault("parser.agent.app_name", "invoices")
	v.SetDefault("parser.agent.user_id", "user0")

	v.SetDefault("validation.currencies", "EUR,USD,GBP,BRL,JPY,CHF,CAD,AUD")
	v.SetDefault("validation.document_types", "Invoice,Factura,Receipt,Recibo,Credit Note,Nota de Crédito")
	v.SetDefault("validation.max_age_days", 1825)
	v.SetDefault("validation.total_tolerance", "0.01")

	v.SetDefault("batch.concurrency", 4)

	v.SetDefault("retry.enabled", true)
	v.SetDefault("retry.poll_interval", "15s")
	v.SetDefault("retry.max_attempts", 5)
	v.SetDefault("retry.concurrency", 2)

	envBindings := map[string]string{
		"server.port":                    "INVOICEDESK_SERVER_PORT",
		"server.read_timeout":            "INVOICEDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "INVOICEDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":             "INVOICEDESK_SERVER_ENVIRONMENT",
		"db.host":                        "INVOICEDESK_DB_HOST",
		"db.port":                        "INVOICEDESK_DB_PORT",
		"db.user":                        "INVOICEDESK_DB_USER",
		"db.password":                    "INVOICEDESK_DB_PASSWORD",
		"db.name":                        "INVOICEDESK_DB_NAME",
		"db.sslmode":                     "INVOICEDESK_DB_SSLMODE",
		"db.max_open":                    "INVOICEDESK_DB_MAX_OPEN",
		"db.max_idle":                    "INVOICEDESK_DB_MAX_IDLE",
		"jwt.secret":                     "INVOICEDESK_JWT_SECRET",
		"jwt.issuer":                     "INVOICEDESK_JWT_ISSUER",
		"jwt.default_user":               "INVOICEDESK_JWT_DEFAULT_USER",
		"s3.region":                      "INVOICEDESK_S3_REGION",
		"s3.bucket":                      "INVOICEDESK_S3_BUCKET",
		"s3.endpoint":                    "INVOICEDESK_S3_ENDPOINT",
		"s3.access_key":                  "INVOICEDESK_S3_ACCESS_KEY",
		"s3.secret_key":                  "INVOICEDESK_S3_SECRET_KEY",
		"s3.max_file_size_mb":            "INVOICEDESK_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":              "INVOICEDESK_S3_PRESIGN_EXPIRY",
		"log.level":                      "INVOICEDESK_LOG_LEVEL",
		"log.format":                     "INVOICEDESK_LOG_FORMAT",
		"cors.allowed_origins":           "INVOICEDESK_CORS_ALLOWED_ORIGINS",
		"parser.mode":                    "INVOICEDESK_PARSER_MODE",
		"parser.primary.provider":        "INVOICEDESK_PARSER_PRIMARY_PROVIDER",
		"parser.primary.api_key":         "INVOICEDESK_PARSER_PRIMARY_API_KEY",
		"parser.primary.default_model":   "INVOICEDESK_PARSER_PRIMARY_DEFAULT_MODEL",
		"parser.primary.endpoint":        "INVOICEDESK_PARSER_PRIMARY_ENDPOINT",
		"parser.primary.max_retries":     "INVOICEDESK_PARSER_PRIMARY_MAX_RETRIES",
		"parser.primary.timeout_secs":    "INVOICEDESK_PARSER_PRIMARY_TIMEOUT_SECS",
		"parser.secondary.provider":      "INVOICEDESK_PARSER_SECONDARY_PROVIDER",
		"parser.secondary.api_key":       "INVOICEDESK_PARSER_SECONDARY_API_KEY",
		"parser.secondary.default_model": "INVOICEDESK_PARSER_SECONDARY_DEFAULT_MODEL",
		"parser.secondary.endpoint":      "INVOICEDESK_PARSER_SECONDARY_ENDPOINT",
		"parser.secondary.max_retries":   "INVOICEDESK_PARSER_SECONDARY_MAX_RETRIES",
		"parser.secondary.timeout_secs":  "INVOICEDESK_PARSER_SECONDARY_TIMEOUT_SECS",
		"parser.tertiary.provider":       "INVOICEDESK_PARSER_TERTIARY_PROVIDER",
		"parser.tertiary.api_key":        "INVOICEDESK_PARSER_TERTIARY_API_KEY",
		"parser.tertiary.default_model":  "INVOICEDESK_PARSER_TERTIARY_DEFAULT_MODEL",
		"parser.tertiary.endpoint":       "INVOICEDESK_PARSER_TERTIARY_ENDPOINT",
		"parser.tertiary.max_retries":    "INVOICEDESK_PARSER_TERTIARY_MAX_RETRIES",
		"parser.tertiary.timeout_secs":   "INVOICEDESK_PARSER_TERTIARY_TIMEOUT_SECS",
		"parser.agent.base_url":          "INVOICEDESK_PARSER_AGENT_BASE_URL",
		"parser.agent.app_name":          "INVOICEDESK_PARSER_AGENT_APP_NAME",
		"parser.agent.user_id":           "INVOICEDESK_PARSER_AGENT_USER_ID",
		"validation.currencies":          "INVOICEDESK_VALIDATION_CURRENCIES",
		"validation.document_types":      "INVOICEDESK_VALIDATION_DOCUMENT_TYPES",
		"validation.max_age_days":        "INVOICEDESK_VALIDATION_MAX_AGE_DAYS",
		"validation.total_tolerance":     "INVOICEDESK_VALIDATION_TOTAL_TOLERANCE",
		"batch.concurrency":              "INVOICEDESK_BATCH_CONCURRENCY",
		"retry.enabled":                  "INVOICEDESK_RETRY_ENABLED",
		"retry.poll_interval":            "INVOICEDESK_RETRY_POLL_INTERVAL",
		"retry.max_attempts":             "INVOICEDESK_RETRY_MAX_ATTEMPTS",
		"retry.concurrency":              "INVOICEDESK_RETRY_CONCURRENCY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Platform-provided PORT wins when INVOICEDESK_SERVER_PORT is unset.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOICEDESK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
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
		Secret:      v.GetString("jwt.secret"),
		Issuer:      v.GetString("jwt.issuer"),
		DefaultUser: v.GetString("jwt.default_user"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	cfg.Parser = ParserConfig{
		Mode:      v.GetString("parser.mode"),
		Primary:   providerConfig(v, "parser.primary"),
		Secondary: providerConfig(v, "parser.secondary"),
		Tertiary:  providerConfig(v, "parser.tertiary"),
		Agent: AgentConfig{
			BaseURL: v.GetString("parser.agent.base_url"),
			AppName: v.GetString("parser.agent.app_name"),
			UserID:  v.GetString("parser.agent.user_id"),
		},
	}

	cfg.Validation = ValidationConfig{
		Currencies:     splitList(v.GetString("validation.currencies")),
		DocumentTypes:  splitList(v.GetString("validation.document_types")),
		MaxAgeDays:     v.GetInt("validation.max_age_days"),
		TotalTolerance: v.GetString("validation.total_tolerance"),
	}

	cfg.Batch = BatchConfig{
		Concurrency: v.GetInt("batch.concurrency"),
	}

	cfg.Retry = RetryConfig{
		Enabled:      v.GetBool("retry.enabled"),
		PollInterval: v.GetDuration("retry.poll_interval"),
		MaxAttempts:  v.GetInt("retry.max_attempts"),
		Concurrency:  v.GetInt("retry.concurrency"),
	}

	if cfg.Parser.Primary.Provider == "" {
		return nil, fmt.Errorf("parser.primary.provider must be set")
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ParserProviderConfig {
	return ParserProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		Endpoint:     v.GetString(prefix + ".endpoint"),
		MaxRetries:   v.GetInt(prefix + ".max_retries"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
	}
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store driver names accepted by store.driver.
const (
	StoreDriverOffline  = "offline"
	StoreDriverMongo    = "mongodb"
	StoreDriverPostgres = "postgres"
)

type AppConfig struct {
	App      AppSettings      `mapstructure:"app"`
	Store    StoreSettings    `mapstructure:"store"`
	Mongo    MongoSettings    `mapstructure:"mongo"`
	Postgres PostgresSettings `mapstructure:"postgres"`
	Redis    RedisSettings    `mapstructure:"redis"`
	Captcha  CaptchaSettings  `mapstructure:"captcha"`
	Argon2   Argon2Settings   `mapstructure:"argon2"`
	Security SecuritySettings `mapstructure:"security"`
	Email    EmailSettings    `mapstructure:"email"`
}

type AppSettings struct {
	Name               string   `mapstructure:"name"`
	Env                string   `mapstructure:"env"`
	Host               string   `mapstructure:"host"`
	Port               int      `mapstructure:"port"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

/// StoreSettings selects the credential store backend. Dispatch is static:
// the driver is resolved exactly once when the application is constructed.
type StoreSettings struct {
	Driver string `mapstructure:"driver"`
}

type MongoSettings struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

// RedisSettings configures the short-lived ticket/OTP store.
type RedisSettings struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	DB         int    `mapstructure:"db"`
	Password   string `mapstructure:"password"`
	TLSEnabled bool   `mapstructure:"tls_enabled"`
	KeyPrefix  string `mapstructure:"key_prefix"`
}

// CaptchaSettings gates the external captcha verification call. When
// disabled the check always succeeds.
type CaptchaSettings struct {
	Enabled   bool          `mapstructure:"enabled"`
	VerifyURL string        `mapstructure:"verify_url"`
	Secret    string        `mapstructure:"secret"`
	SiteKey   string        `mapstructure:"site_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Argon2Settings configures Argon2id password hashing parameters.
type Argon2Settings struct {
	Memory      uint32 `mapstructure:"memory"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
	SaltLength  uint32 `mapstructure:"salt_length"`
	KeyLength   uint32 `mapstructure:"key_length"`
}

// SecuritySettings carries the login decision policy knobs.
type SecuritySettings struct {
	SessionTokenBytes int           `mapstructure:"session_token_bytes"`
	PasswordMinScore  int           `mapstructure:"password_min_score"`
	MFAEnabled        bool          `mapstructure:"mfa_enabled"`
	MFAAllowedMethods []string      `mapstructure:"mfa_allowed_methods"`
	MFATicketTTL      time.Duration `mapstructure:"mfa_ticket_ttl"`
	EmailOTPEnabled   bool          `mapstructure:"email_otp_enabled"`
	EmailOTPTTL       time.Duration `mapstructure:"email_otp_ttl"`
}

// EmailSettings configures email verification. When disabled no outbound
// mail is produced and accounts are created verified.
type EmailSettings struct {
	VerificationEnabled bool             `mapstructure:"verification_enabled"`
	From                string           `mapstructure:"from"`
	ReplyTo             string           `mapstructure:"reply_to"`
	SMTP                SMTPSettings     `mapstructure:"smtp"`
	Templates           TemplateSettings `mapstructure:"templates"`
}

type SMTPSettings struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// TemplateSettings names the canonical template set. Welcome is optional.
type TemplateSettings struct {
	Verify  Template  `mapstructure:"verify"`
	Reset   Template  `mapstructure:"reset"`
	Welcome *Template `mapstructure:"welcome"`
}

// Template is a titled body with a {{url}} placeholder and its canonical
// URL. HTML is optional.
type Template struct {
	Title string `mapstructure:"title"`
	Text  string `mapstructure:"text"`
	URL   string `mapstructure:"url"`
	HTML  string `mapstructure:"html"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("AUTH")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"app.cors_allowed_origins",
		"store.driver",
		"mongo.uri",
		"mongo.database",
		"mongo.connect_timeout",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.max_conn_idle_time",
		"postgres.health_check_period",
		"redis.host",
		"redis.port",
		"redis.db",
		"redis.password",
		"redis.tls_enabled",
		"redis.key_prefix",
		"captcha.enabled",
		"captcha.verify_url",
		"captcha.secret",
		"captcha.site_key",
		"captcha.timeout",
		"argon2.memory",
		"argon2.iterations",
		"argon2.parallelism",
		"argon2.salt_length",
		"argon2.key_length",
		"security.session_token_bytes",
		"security.password_min_score",
		"security.mfa_enabled",
		"security.mfa_allowed_methods",
		"security.mfa_ticket_ttl",
		"security.email_otp_enabled",
		"security.email_otp_ttl",
		"email.verification_enabled",
		"email.from",
		"email.reply_to",
		"email.smtp.host",
		"email.smtp.port",
		"email.smtp.username",
		"email.smtp.password",
		"email.templates.verify.title",
		"email.templates.verify.text",
		"email.templates.verify.url",
		"email.templates.verify.html",
		"email.templates.reset.title",
		"email.templates.reset.text",
		"email.templates.reset.url",
		"email.templates.reset.html",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *AppConfig) error {
	switch cfg.Store.Driver {
	case StoreDriverOffline, StoreDriverMongo, StoreDriverPostgres:
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Captcha.Enabled && cfg.Captcha.Secret == "" {
		return fmt.Errorf("captcha enabled but no secret configured")
	}

	if cfg.Email.VerificationEnabled {
		if cfg.Email.From == "" {
			return fmt.Errorf("email verification enabled but no sender configured")
		}
		if cfg.Email.SMTP.Host == "" {
			return fmt.Errorf("email verification enabled but no smtp host configured")
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "auth-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.cors_allowed_origins", []string{"*"})

	// The offline store is the safe default: it persists nothing and
	// rejects writes. Deployments must select a real backend explicitly.
	v.SetDefault("store.driver", StoreDriverOffline)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "auth")
	v.SetDefault("mongo.connect_timeout", "10s")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "auth")
	v.SetDefault("postgres.password", "auth_password")
	v.SetDefault("postgres.database", "auth")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")
	v.SetDefault("postgres.max_conn_idle_time", "15m")
	v.SetDefault("postgres.health_check_period", "30s")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.tls_enabled", false)
	v.SetDefault("redis.key_prefix", "auth")

	v.SetDefault("captcha.enabled", false)
	v.SetDefault("captcha.verify_url", "https://hcaptcha.com/siteverify")
	v.SetDefault("captcha.timeout", "10s")

	v.SetDefault("argon2.memory", 65536)
	v.SetDefault("argon2.iterations", 3)
	v.SetDefault("argon2.parallelism", 4)
	v.SetDefault("argon2.salt_length", 16)
	v.SetDefault("argon2.key_length", 32)

	v.SetDefault("security.session_token_bytes", 32)
	v.SetDefault("security.password_min_score", 0)
	v.SetDefault("security.mfa_enabled", false)
	v.SetDefault("security.mfa_allowed_methods", []string{"totp"})
	v.SetDefault("security.mfa_ticket_ttl", "5m")
	v.SetDefault("security.email_otp_enabled", false)
	v.SetDefault("security.email_otp_ttl", "10m")

	v.SetDefault("email.verification_enabled", false)
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.templates.verify.title", "Verify your email")
	v.SetDefault("email.templates.verify.text", "Open {{url}} to verify your email address.")
	v.SetDefault("email.templates.verify.url", "https://example.com/verify")
	v.SetDefault("email.templates.reset.title", "Reset your password")
	v.SetDefault("email.templates.reset.text", "Open {{url}} to reset your password.")
	v.SetDefault("email.templates.reset.url", "https://example.com/reset")
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "AUTH_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}

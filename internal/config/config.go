package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"

	// devJWTSecret is only ever used with ENV=development.
	devJWTSecret = "development-only-secret"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	MongoURI      string `mapstructure:"MONGODB_URI"`
	MongoDatabase string `mapstructure:"MONGODB_DATABASE"`
	MySQLDSN      string `mapstructure:"MYSQL_DSN"`

	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	TokenTTL    time.Duration `mapstructure:"TOKEN_TTL"`
	RequireAuth bool          `mapstructure:"REQUIRE_AUTH"`
	CORSOrigin  string        `mapstructure:"CORS_ORIGIN"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	ClinicName        string `mapstructure:"CLINIC_NAME"`
	AdminEmail        string `mapstructure:"ADMIN_EMAIL"`
	RegistrationEmail string `mapstructure:"REGISTRATION_EMAIL"`

	EmailUser string `mapstructure:"EMAIL_USER"`
	EmailPass string `mapstructure:"EMAIL_PASS"`
	EmailFrom string `mapstructure:"EMAIL_FROM"`
	SMTPHost  string `mapstructure:"SMTP_HOST"`
	SMTPPort  int    `mapstructure:"SMTP_PORT"`

	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `mapstructure:"TWILIO_FROM_NUMBER"`

	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FCMAdminTopic           string `mapstructure:"FCM_ADMIN_TOPIC"`

	MidtransServerKey  string `mapstructure:"MIDTRANS_SERVER_KEY"`
	MidtransProduction bool   `mapstructure:"MIDTRANS_PRODUCTION"`

	NotifyTimeout   time.Duration `mapstructure:"NOTIFY_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	// UsingDevSecret is set when JWT_SECRET was empty and the development
	// fallback was applied.
	UsingDevSecret bool `mapstructure:"-"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL",
	"STORE_DRIVER", "MONGODB_URI", "MONGODB_DATABASE", "MYSQL_DSN",
	"JWT_SECRET", "TOKEN_TTL", "REQUIRE_AUTH", "CORS_ORIGIN",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"CLINIC_NAME", "ADMIN_EMAIL", "REGISTRATION_EMAIL",
	"EMAIL_USER", "EMAIL_PASS", "EMAIL_FROM", "SMTP_HOST", "SMTP_PORT",
	"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_FROM_NUMBER",
	"FIREBASE_CREDENTIALS_FILE", "FCM_ADMIN_TOPIC",
	"MIDTRANS_SERVER_KEY", "MIDTRANS_PRODUCTION",
	"NOTIFY_TIMEOUT", "SHUTDOWN_TIMEOUT",
}

// Load reads configuration from the environment. A .env file, if any, is
// expected to have been loaded into the environment already.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "4000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGODB_DATABASE", "osamedic")
	v.SetDefault("TOKEN_TTL", "86400s")
	v.SetDefault("REQUIRE_AUTH", false)
	v.SetDefault("CORS_ORIGIN", "https://final-osamedic.vercel.app")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("CLINIC_NAME", "Osamedic Diagnostics")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("FCM_ADMIN_TOPIC", "admin")
	v.SetDefault("MIDTRANS_PRODUCTION", false)
	v.SetDefault("NOTIFY_TIMEOUT", "30s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.RegistrationEmail == "" {
		cfg.RegistrationEmail = cfg.AdminEmail
	}
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = cfg.EmailUser
	}
	if cfg.JWTSecret == "" && cfg.IsDev() {
		cfg.JWTSecret = devJWTSecret
		cfg.UsingDevSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo store"))
		}
	case DriverMySQL:
		if c.MySQLDSN == "" {
			errs = append(errs, errors.New("MYSQL_DSN is required for the mysql store"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	set := 0
	for _, s := range []string{c.TwilioAccountSID, c.TwilioAuthToken, c.TwilioFromNumber} {
		if s != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		errs = append(errs, errors.New("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER must be set together"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) EmailEnabled() bool { return c.EmailUser != "" && c.EmailPass != "" }

func (c *Config) SMSEnabled() bool { return c.TwilioAccountSID != "" }

func (c *Config) PushEnabled() bool { return c.FirebaseCredentialsFile != "" }

func (c *Config) PaymentsEnabled() bool { return c.MidtransServerKey != "" }

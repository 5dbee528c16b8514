package util

import (
	"errors"
	"fmt"
	"time"
)

const (
	ProviderFirebase = "firebase"
	ProviderSMS      = "sms"

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Port        string
	AppName     string
	CountryCode string

	SessionSecret string
	SessionTTL    time.Duration

	Provider     string
	ChallengeTTL time.Duration

	Firebase  FirebaseConfig
	Recaptcha RecaptchaConfig
	SMS       SMSConfig

	CodeStore string
	Redis     RedisConfig

	WaitlistDB string // "postgres" or "none"
	DB         DBConfig
	SMTP       SMTPConfig
	Kafka      KafkaConfig
}

type FirebaseConfig struct {
	APIKey            string
	ProjectID         string
	CredentialsBase64 string
	CredentialsFile   string
}

type RecaptchaConfig struct {
	Secret    string
	VerifyURL string
	MinScore  float64
}

type SMSConfig struct {
	Driver           string // "twilio" or "log"
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	CodeTTL          time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

type SMTPConfig struct {
	Host       string
	Port       int
	User       string
	Pass       string
	SenderName string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// LoadConfig reads the environment (after godotenv has populated it)
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "4000"),
		AppName:     getEnv("APP_NAME", "Doodh & Co."),
		CountryCode: getEnv("COUNTRY_CODE", "91"),

		SessionSecret: getEnv("SESSION_SECRET", "fallback-dev-secret"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 15*time.Minute),

		Provider:     getEnv("PROVIDER", ProviderSMS),
		ChallengeTTL: getEnvDuration("CHALLENGE_TTL", 2*time.Minute),

		Firebase: FirebaseConfig{
			APIKey:            getEnv("FIREBASE_API_KEY", ""),
			ProjectID:         getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsBase64: getEnv("FIREBASE_CREDENTIALS_BASE64", ""),
			CredentialsFile:   getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		},
		Recaptcha: RecaptchaConfig{
			Secret:    getEnv("RECAPTCHA_SECRET", ""),
			VerifyURL: getEnv("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),
			MinScore:  getEnvFloat("RECAPTCHA_MIN_SCORE", 0.5),
		},
		SMS: SMSConfig{
			Driver:           getEnv("SMS_DRIVER", "log"),
			TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			TwilioFrom:       getEnv("TWILIO_FROM", ""),
			CodeTTL:          getEnvDuration("CODE_TTL", 5*time.Minute),
		},

		CodeStore: getEnv("CODE_STORE", StoreMemory),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},

		WaitlistDB: getEnv("WAITLIST_DB", "none"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "waitlist"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvInt("SMTP_PORT", 587),
			User:       getEnv("SMTP_USER", ""),
			Pass:       getEnv("SMTP_PASS", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Doodh & Co."),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "waitlist.joined"),
		},
	}

	if err := cfg.check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) check() error {
	switch c.Provider {
	case ProviderFirebase:
		if c.Firebase.APIKey == "" {
			return errors.New("FIREBASE_API_KEY is required when PROVIDER=firebase")
		}
	case ProviderSMS:
		if c.SMS.Driver == "twilio" && (c.SMS.TwilioAccountSID == "" || c.SMS.TwilioAuthToken == "" || c.SMS.TwilioFrom == "") {
			return errors.New("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM are required when SMS_DRIVER=twilio")
		}
	default:
		return fmt.Errorf("unknown PROVIDER %q (want %s or %s)", c.Provider, ProviderFirebase, ProviderSMS)
	}

	if c.CodeStore != StoreMemory && c.CodeStore != StoreRedis {
		return fmt.Errorf("unknown CODE_STORE %q", c.CodeStore)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

// SMTPEnabled reports whether welcome mails can be sent
func (c *Config) SMTPEnabled() bool {
	return c.SMTP.Host != ""
}

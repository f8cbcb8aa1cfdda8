package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Auth struct {
		// Секрет подписи сессионных JWT
		JWTSecret string `yaml:"jwt_secret"`
		// Стоимость bcrypt для паролей и OTP-кодов
		BcryptCost int `yaml:"bcrypt_cost"`
		// Время жизни сессионного токена, минуты
		SessionTTLMinutes int `yaml:"session_ttl_minutes"`
		// Время жизни 6-значного кода восстановления, часы
		VerificationCodeTTLHours int `yaml:"verification_code_ttl_hours"`
		// Время жизни одноразового reset-токена, минуты
		ResetTokenTTLMinutes int `yaml:"reset_token_ttl_minutes"`
	} `yaml:"auth"`

	InitialAdmin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"initial_admin"`
}

// SessionTTL возвращает время жизни сессионного токена
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLMinutes) * time.Minute
}

// VerificationCodeTTL возвращает время жизни OTP-кода
func (c *Config) VerificationCodeTTL() time.Duration {
	return time.Duration(c.Auth.VerificationCodeTTLHours) * time.Hour
}

// ResetTokenTTL возвращает время жизни reset-токена
func (c *Config) ResetTokenTTL() time.Duration {
	return time.Duration(c.Auth.ResetTokenTTLMinutes) * time.Minute
}

var AppConfig *Config

// LoadConfig загружает конфигурацию из config.yaml либо,
// если задан DATABASE_URL, из переменных окружения (режим теста)
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Loading configuration from environment variables (test mode)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")

	cfg.Email.Enabled = false
	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "noreply@sohagstore.com"
	cfg.Email.FromName = "Sohag Store"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

// applyDefaults подставляет значения по умолчанию для auth-секции
func applyDefaults(cfg *Config) {
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 10
	}
	if cfg.Auth.SessionTTLMinutes == 0 {
		cfg.Auth.SessionTTLMinutes = 60
	}
	if cfg.Auth.VerificationCodeTTLHours == 0 {
		cfg.Auth.VerificationCodeTTLHours = 24
	}
	if cfg.Auth.ResetTokenTTLMinutes == 0 {
		cfg.Auth.ResetTokenTTLMinutes = 5
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

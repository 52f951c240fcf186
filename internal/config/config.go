package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Mail backend names accepted in config.
const (
	MailBackendConsole = "console"
	MailBackendSMTP    = "smtp"
	MailBackendMemory  = "memory"
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

	JWT struct {
		Secret     string `yaml:"secret"`
		TTLMinutes int    `yaml:"ttl_minutes"`
	} `yaml:"jwt"`

	Email struct {
		Backend     string `yaml:"backend"` // console, smtp, memory
		SMTPHost    string `yaml:"smtp_host"`
		SMTPPort    int    `yaml:"smtp_port"`
		SMTPUser    string `yaml:"smtp_user"`
		SMTPPass    string `yaml:"smtp_password"`
		FromAddress string `yaml:"from_address"`
	} `yaml:"email"`

	AdminEmail string `yaml:"admin_email"`
	SiteURL    string `yaml:"site_url"`
}

var AppConfig *Config

// LoadConfig populates AppConfig, either from config.yaml or, when
// DATABASE_URL is present in the environment, from environment variables.
// The env path is what the test harness uses.
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

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTLMinutes = 60
	if ttl := os.Getenv("JWT_TTL_MINUTES"); ttl != "" {
		cfg.JWT.TTLMinutes, _ = strconv.Atoi(ttl)
	}
	cfg.Email.Backend = os.Getenv("EMAIL_BACKEND")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.JWT.TTLMinutes == 0 {
		cfg.JWT.TTLMinutes = 60
	}
	if cfg.Email.Backend == "" {
		cfg.Email.Backend = MailBackendConsole
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Email.FromAddress == "" {
		cfg.Email.FromAddress = "noreply@m51.io"
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = "austin@m51.io"
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = "http://localhost:8000"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

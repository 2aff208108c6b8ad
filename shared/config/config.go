package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Addr         string `yaml:"addr" validate:"required"`
	Domain       string `yaml:"domain" validate:"required"` // appended to usernames to derive the login email
	MailboxLimit int    `yaml:"mailbox_limit" validate:"gt=0"`
	Log          Log    `yaml:"log"`
	Notify       Notify `yaml:"notify"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type Notify struct {
	Workers   int           `yaml:"workers" validate:"gte=1"`
	QueueSize int           `yaml:"queue_size" validate:"gte=1"`
	Timeout   time.Duration `yaml:"timeout"` // per notification, covers render + SMTP
	Template  string        `yaml:"template"` // markdown; empty means the built-in one
}

type Pg struct {
	DSN      string `yaml:"dsn" validate:"required_without=Host"`
	Host     string `yaml:"host" validate:"required_without=DSN"`
	Port     int    `yaml:"port" validate:"gte=0,lte=65535"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type Email struct {
	SMTPServer     string `yaml:"smtp_server"`
	SMTPPort       int    `yaml:"smtp_port" validate:"gte=0,lte=65535"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	From           string `yaml:"from" validate:"omitempty,email"`
	SenderName     string `yaml:"sender_name"`
	StartTLS       bool   `yaml:"starttls"`
	SSLTLS         bool   `yaml:"ssl_tls"` // implicit TLS, usually port 465
	UseCredentials bool   `yaml:"use_credentials"`
	ValidateCerts  bool   `yaml:"validate_certs"`
}

type Private struct {
	Pg    Pg    `yaml:"pg"`
	Email Email `yaml:"email"`
}

// ConnString returns the DSN when set, otherwise builds a key/value string from the parts.
func (p Pg) ConnString() string {
	if p.DSN != "" {
		return p.DSN
	}
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Dbname, sslMode)
}

// Enabled reports whether enough is configured to reach an SMTP server.
func (e Email) Enabled() bool {
	return e.SMTPServer != "" && e.SMTPPort != 0 && e.From != ""
}

func defaults() Config {
	return Config{
		Public: Public{
			Addr:         ":8000",
			Domain:       "qmail.co.in",
			MailboxLimit: 100,
			Log:          Log{Level: "info"},
			Notify:       Notify{Workers: 2, QueueSize: 100, Timeout: 30 * time.Second},
		},
		Private: Private{
			Pg:    Pg{Port: 5432},
			Email: Email{SMTPPort: 25, ValidateCerts: true},
		},
	}
}

func loadPath(configPath string, output interface{}) error {
	configFile, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

// Load layers defaults, optional public.yaml/private.yaml from configFolder,
// an optional .env file and finally the process environment.
func Load(configFolder string) (*Config, error) {
	cfg := defaults()

	if err := loadPath(path.Join(configFolder, "public.yaml"), &cfg.Public); err != nil {
		return nil, err
	}
	if err := loadPath(path.Join(configFolder, "private.yaml"), &cfg.Private); err != nil {
		return nil, err
	}

	// godotenv never overrides variables that are already set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("can't load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err)
	}
	return cfg
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		cfg.Public.Addr = ":" + v
	}
	envString("LOG_LEVEL", &cfg.Public.Log.Level)
	envString("DATABASE_URL", &cfg.Private.Pg.DSN)

	e := &cfg.Private.Email
	envString("MAIL_SERVER", &e.SMTPServer)
	envString("MAIL_USERNAME", &e.Username)
	envString("MAIL_PASSWORD", &e.Password)
	envString("MAIL_FROM", &e.From)
	envString("MAIL_FROM_NAME", &e.SenderName)

	for name, dst := range map[string]*bool{
		"LOG_JSON":        &cfg.Public.Log.JSON,
		"MAIL_STARTTLS":   &e.StartTLS,
		"MAIL_SSL_TLS":    &e.SSLTLS,
		"USE_CREDENTIALS": &e.UseCredentials,
		"VALIDATE_CERTS":  &e.ValidateCerts,
	} {
		if err := envBool(name, dst); err != nil {
			return err
		}
	}

	if v, ok := os.LookupEnv("MAIL_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAIL_PORT: %w", err)
		}
		e.SMTPPort = port
	}
	return nil
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

func envBool(name string, dst *bool) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = b
	return nil
}

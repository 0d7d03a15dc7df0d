package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment override
	EnvPrefix = "ROBOTDRIVER"
	// FileName is the config file looked up in the working directory and $HOME
	FileName = "robotdriver"
)

// ErrMissingCredentials is returned when the quick lookup has no account to log in with
var ErrMissingCredentials = errors.New("missing account email or password")

type Config struct {
	Browser     BrowserConfig
	Price       ServerConfig
	Plan        PlanConfig
	Log         LogConfig
	Credentials Credentials
	CORS        []string
}

type BrowserConfig struct {
	Headless    bool
	Timeout     time.Duration
	MaxSessions int
}

type ServerConfig struct {
	Addr string
}

type PlanConfig struct {
	Addr           string
	ScreenshotDir  string
	AllowedSchemes []string
}

type LogConfig struct {
	Level  string
	Format string
}

type Credentials struct {
	Email    string
	Password string
}

// Validate - reports missing quick lookup credentials
func (c Credentials) Validate() error {
	if c.Email == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// CredentialsFrom - reads the quick lookup account at call time, so environment
// changes made after startup are seen
func CredentialsFrom(v *viper.Viper) Credentials {
	return Credentials{
		Email:    v.GetString("credentials.email"),
		Password: v.GetString("credentials.password"),
	}
}

// Options select where configuration is read from
type Options struct {
	// ConfigFile overrides the config file search when set
	ConfigFile string
	// EnvFile is loaded into the environment first; a missing file is not an error
	EnvFile string
}

// Defaults - registers default values on v
func Defaults(v *viper.Viper) {
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.timeout", 15*time.Second)
	v.SetDefault("browser.max_sessions", 2)
	v.SetDefault("price.addr", "127.0.0.1:8000")
	v.SetDefault("plan.addr", "127.0.0.1:8001")
	v.SetDefault("plan.screenshot_dir", ".")
	v.SetDefault("plan.allowed_schemes", []string{"http", "https"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("credentials.email", "")
	v.SetDefault("credentials.password", "")
	v.SetDefault("http.cors", []string{})
}

// New - creates a viper instance with defaults and environment bindings
func New() *viper.Viper {
	v := viper.New()
	Defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the quick endpoint has always read these names
	_ = v.BindEnv("credentials.email", EnvPrefix+"_CREDENTIALS_EMAIL", "AE_EMAIL")
	_ = v.BindEnv("credentials.password", EnvPrefix+"_CREDENTIALS_PASSWORD", "AE_PASSWORD")
	return v
}

// Load - reads .env, the config file and the environment into a Config
func Load(v *viper.Viper, opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	return FromViper(v)
}

// FromViper - builds a Config from already populated settings
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Browser: BrowserConfig{
			Headless:    v.GetBool("browser.headless"),
			Timeout:     v.GetDuration("browser.timeout"),
			MaxSessions: v.GetInt("browser.max_sessions"),
		},
		Price: ServerConfig{Addr: v.GetString("price.addr")},
		Plan: PlanConfig{
			Addr:           v.GetString("plan.addr"),
			ScreenshotDir:  v.GetString("plan.screenshot_dir"),
			AllowedSchemes: list(v.GetStringSlice("plan.allowed_schemes")),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Credentials: CredentialsFrom(v),
		CORS:        list(v.GetStringSlice("http.cors")),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("browser.timeout must be positive, got %s", c.Browser.Timeout)
	}
	if c.Browser.MaxSessions < 1 {
		return fmt.Errorf("browser.max_sessions must be at least 1, got %d", c.Browser.MaxSessions)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// list - splits comma separated entries, which is how lists arrive from the environment
func list(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

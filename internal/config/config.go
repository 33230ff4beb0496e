package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vilaca/gh-activity-digest/internal/credential"
)

// Config holds application configuration.
// It is loaded once at startup and passed to components by value or pointer;
// nothing mutates it afterwards.
type Config struct {
	// GitHub configuration
	GitHubURL   string
	GitHubToken string
	GitHubUser  string

	// Addresses used by both programs
	FromEmail string
	ToEmail   string

	// SMTP transport (activity report)
	SMTPHost     string
	SMTPPort     string
	SMTPPassword string
	SMTPTLS      bool

	// Mailjet transport (test mailer)
	MailjetURL       string
	MailjetAPIKey    string
	MailjetAPISecret string

	// Collection tuning
	RepoLimit          int
	WindowHours        int
	FetchConcurrency   int
	HTTPTimeoutSeconds int

	// CredentialStore names where missing secrets are looked up ("keyring" or empty).
	CredentialStore string

	Timezone string
	LogLevel string
}

// SecretStore resolves secrets that are not present in the environment.
type SecretStore interface {
	Get(key string) (string, error)
}

// Options controls where Load looks for values besides the process environment.
type Options struct {
	// EnvFile is an optional dotenv file; a missing file is not an error.
	EnvFile string
	// Secrets is consulted for secret keys left empty by the environment.
	// When nil and CREDENTIAL_STORE=keyring, the system keyring is used.
	Secrets SecretStore
}

// secretKeys are looked up in the SecretStore when unset.
var secretKeys = []string{"github_token", "google_app_password", "mj_apikey_public", "mj_apikey_private"}

var defaults = map[string]interface{}{
	"github_url":           "https://api.github.com",
	"github_username":      "isaacgemal",
	"smtp_host":            "smtp.gmail.com",
	"smtp_port":            "587",
	"smtp_tls":             false,
	"mailjet_url":          "https://api.mailjet.com",
	"repo_limit":           10,
	"window_hours":         24,
	"fetch_concurrency":    5,
	"http_timeout_seconds": 30,
	"report_timezone":      "",
	"log_level":            "info",
	"credential_store":     "",
}

// Load loads configuration from environment variables and a ".env" file in
// the working directory, if present.
func Load() (*Config, error) {
	return LoadWithOptions(Options{EnvFile: ".env"})
}

// LoadWithOptions loads configuration using Viper. Environment variables
// take precedence over the dotenv file, which takes precedence over defaults.
func LoadWithOptions(opts Options) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	// AutomaticEnv only resolves keys Viper already knows about.
	for _, key := range append(secretKeys, "from_email", "my_email") {
		_ = v.BindEnv(key)
	}

	if opts.EnvFile != "" {
		v.SetConfigFile(opts.EnvFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var pathErr *os.PathError
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading env file %s: %w", opts.EnvFile, err)
			}
		}
	}

	secrets := opts.Secrets
	if secrets == nil && strings.EqualFold(v.GetString("credential_store"), "keyring") {
		secrets = credential.NewKeyringStore()
	}

	if secrets != nil {
		for _, key := range secretKeys {
			if v.GetString(key) != "" {
				continue
			}
			secret, err := secrets.Get(strings.ToUpper(key))
			if err != nil {
				continue
			}
			v.Set(key, secret)
		}
	}

	return &Config{
		GitHubURL:          v.GetString("github_url"),
		GitHubToken:        v.GetString("github_token"),
		GitHubUser:         v.GetString("github_username"),
		FromEmail:          v.GetString("from_email"),
		ToEmail:            v.GetString("my_email"),
		SMTPHost:           v.GetString("smtp_host"),
		SMTPPort:           v.GetString("smtp_port"),
		SMTPPassword:       v.GetString("google_app_password"),
		SMTPTLS:            v.GetBool("smtp_tls"),
		MailjetURL:         v.GetString("mailjet_url"),
		MailjetAPIKey:      v.GetString("mj_apikey_public"),
		MailjetAPISecret:   v.GetString("mj_apikey_private"),
		RepoLimit:          positiveOr(v.GetInt("repo_limit"), 10),
		WindowHours:        positiveOr(v.GetInt("window_hours"), 24),
		FetchConcurrency:   positiveOr(v.GetInt("fetch_concurrency"), 5),
		HTTPTimeoutSeconds: positiveOr(v.GetInt("http_timeout_seconds"), 30),
		CredentialStore:    v.GetString("credential_store"),
		Timezone:           v.GetString("report_timezone"),
		LogLevel:           v.GetString("log_level"),
	}, nil
}

// HasGitHubConfig returns true if a GitHub token is configured.
func (c *Config) HasGitHubConfig() bool {
	return c.GitHubToken != ""
}

// HasSMTPConfig returns true if everything needed to send over SMTP is set.
func (c *Config) HasSMTPConfig() bool {
	return c.SMTPHost != "" && c.SMTPPort != "" && c.SMTPPassword != ""
}

// HasMailjetConfig returns true if both Mailjet keys are set.
func (c *Config) HasMailjetConfig() bool {
	return c.MailjetAPIKey != "" && c.MailjetAPISecret != ""
}

// ValidateReport checks the settings required by the activity report.
func (c *Config) ValidateReport() error {
	if err := c.validateAddresses(); err != nil {
		return err
	}
	if c.GitHubUser == "" {
		return errors.New("GITHUB_USERNAME is required")
	}
	if !c.HasSMTPConfig() {
		return errors.New("GOOGLE_APP_PASSWORD, SMTP_HOST and SMTP_PORT are required")
	}
	return nil
}

// ValidateTestMailer checks the settings required by the test mailer.
func (c *Config) ValidateTestMailer() error {
	if err := c.validateAddresses(); err != nil {
		return err
	}
	if !c.HasMailjetConfig() {
		return errors.New("MJ_APIKEY_PUBLIC and MJ_APIKEY_PRIVATE are required")
	}
	return nil
}

func (c *Config) validateAddresses() error {
	if c.FromEmail == "" {
		return errors.New("FROM_EMAIL is required")
	}
	if c.ToEmail == "" {
		return errors.New("MY_EMAIL is required")
	}
	return nil
}

// Window returns the trailing report window.
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowHours) * time.Hour
}

// HTTPTimeout returns the per-request timeout for API calls.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Location returns the time zone used to render times (local time when unset).
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlogLevel parses LogLevel, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/hnquery/internal/hnsearch"
	"github.com/starford/hnquery/internal/web"
)

// Config represents the application configuration.
type Config struct {
	App ApplicationConfig `yaml:"app"`
	HN  HNConfig          `yaml:"hn"`
	UI  UIConfig          `yaml:"ui"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.HN.Validate(); err != nil {
		return err
	}
	return c.UI.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// HNConfig configures the outbound search client.
//
// Timeout of zero means requests are never cut short.
type HNConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Ordering  string        `yaml:"ordering"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// Validate validates the search client configuration.
func (c *HNConfig) Validate() error {
	if c.Ordering == "" {
		c.Ordering = string(hnsearch.OrderRelevance)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Ordering, validation.In(string(hnsearch.OrderRelevance), string(hnsearch.OrderDate))),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// Options converts the config for hnsearch.NewClient.
func (c *HNConfig) Options() hnsearch.Options {
	return hnsearch.Options{
		BaseURL:   c.BaseURL,
		Ordering:  hnsearch.Ordering(c.Ordering),
		UserAgent: c.UserAgent,
		Timeout:   c.Timeout,
	}
}

// UIConfig holds page settings. TemplatesDir, when set, must contain an
// index.html that replaces the built-in page and is reloaded on change.
type UIConfig struct {
	Title        string `yaml:"title"`
	TemplatesDir string `yaml:"templates_dir"`
	CookieName   string `yaml:"cookie_name"`
}

// Validate validates the UI configuration.
func (c *UIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.CookieName, validation.Required, validation.Match(cookieNameRe)),
	)
}

var cookieNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		HN: HNConfig{
			BaseURL:   hnsearch.DefaultBaseURL,
			Ordering:  string(hnsearch.OrderRelevance),
			UserAgent: "hnquery/1.0",
		},
		UI: UIConfig{
			Title:      "Search Hacker News and keep track of previous searches",
			CookieName: web.DefaultCookieName,
		},
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user config directory under $HOME.
const DirName = ".dataexplorer"

// Global configuration structure.
type Global struct {
	APIKey      string  `mapstructure:"api_key" yaml:"api_key"`
	Provider    string  `mapstructure:"provider" yaml:"provider"`
	Model       string  `mapstructure:"model" yaml:"model"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`

	// HTTP configuration
	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	OllamaHost     string `mapstructure:"ollama_host" yaml:"ollama_host"`
	GeminiEndpoint string `mapstructure:"gemini_endpoint" yaml:"gemini_endpoint,omitempty"`

	// HTTP surface
	ServerAddr     string   `mapstructure:"server_addr" yaml:"server_addr"`
	PublicURL      string   `mapstructure:"public_url" yaml:"public_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	SessionTTLMin  int      `mapstructure:"session_ttl_min" yaml:"session_ttl_min"`

	// Walkthrough pacing
	FadeOutMs    int `mapstructure:"fade_out_ms" yaml:"fade_out_ms"`
	FadeInMs     int `mapstructure:"fade_in_ms" yaml:"fade_in_ms"`
	CleanDelayMs int `mapstructure:"clean_delay_ms" yaml:"clean_delay_ms"`

	ReportRecipient string `mapstructure:"report_recipient" yaml:"report_recipient"`
	Env             string `mapstructure:"env" yaml:"env"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"api_key", "provider", "model", "max_tokens", "temperature",
	"http_timeout_sec", "ollama_host", "gemini_endpoint",
	"server_addr", "public_url", "allowed_origins", "session_ttl_min",
	"fade_out_ms", "fade_in_ms", "clean_delay_ms",
	"report_recipient", "env",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "gemini")
	v.SetDefault("model", "")
	v.SetDefault("max_tokens", 512)
	v.SetDefault("temperature", 0.7)
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("gemini_endpoint", "")
	v.SetDefault("server_addr", "127.0.0.1:8080")
	v.SetDefault("public_url", "http://localhost:8080")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("session_ttl_min", 60)
	v.SetDefault("fade_out_ms", 300)
	v.SetDefault("fade_in_ms", 50)
	v.SetDefault("clean_delay_ms", 1500)
	v.SetDefault("report_recipient", "evyervina59@guru.smp.belajar.id")
	v.SetDefault("env", "development")
}

// DefaultPath is ~/.dataexplorer/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DirName, "config.yaml"), nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env") into
// the process environment. Missing files are ignored; existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATAEXPLORER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api_key", "DATAEXPLORER_API_KEY", "GEMINI_API_KEY", "API_KEY")
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// AutomaticEnv yields a single string for list keys.
	if len(c.AllowedOrigins) == 1 && strings.Contains(c.AllowedOrigins[0], ",") {
		c.AllowedOrigins = splitList(c.AllowedOrigins[0])
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	return &c, nil
}

// Save writes the configuration as YAML to cfgFile, or to DefaultPath when empty.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Set assigns a key from its string form, as typed on the command line.
func (c *Global) Set(key, value string) error {
	var err error
	switch key {
	case "api_key":
		c.APIKey = value
	case "provider":
		c.Provider = strings.ToLower(value)
	case "model":
		c.Model = value
	case "max_tokens":
		c.MaxTokens, err = atoi(value)
	case "temperature":
		c.Temperature, err = atof(value)
	case "http_timeout_sec":
		c.HTTPTimeoutSec, err = atoi(value)
	case "ollama_host":
		c.OllamaHost = value
	case "gemini_endpoint":
		c.GeminiEndpoint = value
	case "server_addr":
		c.ServerAddr = value
	case "public_url":
		c.PublicURL = strings.TrimRight(value, "/")
	case "allowed_origins":
		c.AllowedOrigins = splitList(value)
	case "session_ttl_min":
		c.SessionTTLMin, err = atoi(value)
	case "fade_out_ms":
		c.FadeOutMs, err = atoi(value)
	case "fade_in_ms":
		c.FadeInMs, err = atoi(value)
	case "clean_delay_ms":
		c.CleanDelayMs, err = atoi(value)
	case "report_recipient":
		c.ReportRecipient = value
	case "env":
		c.Env = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// Get renders a key for display. The API key is masked.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "api_key":
		return Mask(c.APIKey), nil
	case "provider":
		return c.Provider, nil
	case "model":
		return c.Model, nil
	case "max_tokens":
		return fmt.Sprint(c.MaxTokens), nil
	case "temperature":
		return fmt.Sprint(c.Temperature), nil
	case "http_timeout_sec":
		return fmt.Sprint(c.HTTPTimeoutSec), nil
	case "ollama_host":
		return c.OllamaHost, nil
	case "gemini_endpoint":
		return c.GeminiEndpoint, nil
	case "server_addr":
		return c.ServerAddr, nil
	case "public_url":
		return c.PublicURL, nil
	case "allowed_origins":
		return strings.Join(c.AllowedOrigins, ","), nil
	case "session_ttl_min":
		return fmt.Sprint(c.SessionTTLMin), nil
	case "fade_out_ms":
		return fmt.Sprint(c.FadeOutMs), nil
	case "fade_in_ms":
		return fmt.Sprint(c.FadeInMs), nil
	case "clean_delay_ms":
		return fmt.Sprint(c.CleanDelayMs), nil
	case "report_recipient":
		return c.ReportRecipient, nil
	case "env":
		return c.Env, nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// Mask hides all but the last four characters of a secret.
func Mask(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

func (c *Global) HTTPTimeout() time.Duration { return time.Duration(c.HTTPTimeoutSec) * time.Second }

func (c *Global) SessionTTL() time.Duration { return time.Duration(c.SessionTTLMin) * time.Minute }

func (c *Global) FadeOut() time.Duration { return ms(c.FadeOutMs) }

func (c *Global) FadeIn() time.Duration { return ms(c.FadeInMs) }

func (c *Global) CleanDelay() time.Duration { return ms(c.CleanDelayMs) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Production reports whether env selects production logging.
func (c *Global) Production() bool { return strings.EqualFold(c.Env, "production") }

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoi(s string) (int, error) { return strconv.Atoi(strings.TrimSpace(s)) }

func atof(s string) (float64, error) { return strconv.ParseFloat(strings.TrimSpace(s), 64) }

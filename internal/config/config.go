package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"bizcrm/internal/business"
)

const (
	appDir     = "bizcrm"
	envPrefix  = "BIZCRM"
	configFile = "config.json"

	// DefaultRegistryURL is the public Norwegian entity register.
	DefaultRegistryURL = "https://data.brreg.no/enhetsregisteret/api"
	DefaultWorkspace   = "default"
)

// Store manages the runtime configuration for the CRM.
type Store struct {
	path   string
	Config Data
}

// Data represents persisted user preferences.
type Data struct {
	Name             string `json:"name" mapstructure:"name"`
	Timezone         string `json:"timezone" mapstructure:"timezone"`
	Workspace        string `json:"workspace" mapstructure:"workspace"`
	HomeCountry      string `json:"home_country" mapstructure:"home_country"`
	PlaceholderEmail string `json:"placeholder_email" mapstructure:"placeholder_email"`
	PlaceholderPhone string `json:"placeholder_phone" mapstructure:"placeholder_phone"`
	RegistryURL      string `json:"registry_url" mapstructure:"registry_url"`
	RegistryTimeout  string `json:"registry_timeout" mapstructure:"registry_timeout"`
	SearchLimit      int    `json:"search_limit" mapstructure:"search_limit"`
	DBPath           string `json:"db_path" mapstructure:"db_path"`
	LogLevel         string `json:"log_level" mapstructure:"log_level"`
	LogFormat        string `json:"log_format" mapstructure:"log_format"`
	LogPath          string `json:"log_path" mapstructure:"log_path"`
}

// Load retrieves the config from the user config dir, creating defaults
// if needed.
func Load() (*Store, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir)
}

// LoadFrom reads dir/config.json. Values from a .env file in the working
// directory and BIZCRM_* environment variables take precedence.
func LoadFrom(dir string) (*Store, error) {
	_ = godotenv.Load()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	cfgPath := filepath.Join(dir, configFile)
	defaults := defaultConfig(dir)

	if _, err := os.Stat(cfgPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
		if err := writeConfig(cfgPath, defaults); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(cfgPath)
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v, defaults)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Data
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg, defaults)

	return &Store{path: cfgPath, Config: cfg}, nil
}

// Save writes the current config values to disk.
func (s *Store) Save() error {
	if s == nil {
		return errors.New("nil config store")
	}
	return writeConfig(s.path, s.Config)
}

// Path returns the location of the config file.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func resolveDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = os.Getenv("HOME")
		if base == "" {
			return "", fmt.Errorf("cannot resolve config directory: %w", err)
		}
	}
	return filepath.Join(base, appDir), nil
}

func writeConfig(path string, cfg Data) error {
	bytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper, d Data) {
	v.SetDefault("name", d.Name)
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("workspace", d.Workspace)
	v.SetDefault("home_country", d.HomeCountry)
	v.SetDefault("placeholder_email", d.PlaceholderEmail)
	v.SetDefault("placeholder_phone", d.PlaceholderPhone)
	v.SetDefault("registry_url", d.RegistryURL)
	v.SetDefault("registry_timeout", d.RegistryTimeout)
	v.SetDefault("search_limit", d.SearchLimit)
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("log_path", d.LogPath)
}

// applyDefaults covers keys present in the file but left blank.
func applyDefaults(cfg *Data, d Data) {
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = d.Name
	}
	if strings.TrimSpace(cfg.Timezone) == "" {
		cfg.Timezone = d.Timezone
	}
	if strings.TrimSpace(cfg.RegistryURL) == "" {
		cfg.RegistryURL = d.RegistryURL
	}
	if _, err := time.ParseDuration(cfg.RegistryTimeout); err != nil {
		cfg.RegistryTimeout = d.RegistryTimeout
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = d.SearchLimit
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = d.DBPath
	}
}

func defaultConfig(dir string) Data {
	return Data{
		Name:             defaultName(),
		Timezone:         defaultTimezone(),
		Workspace:        DefaultWorkspace,
		HomeCountry:      business.DefaultValues.Country,
		PlaceholderEmail: business.DefaultValues.Email,
		PlaceholderPhone: business.DefaultValues.Phone,
		RegistryURL:      DefaultRegistryURL,
		RegistryTimeout:  "10s",
		SearchLimit:      10,
		DBPath:           filepath.Join(dir, "bizcrm.db"),
		LogLevel:         "info",
		LogFormat:        "json",
		LogPath:          filepath.Join(dir, "bizcrm.log"),
	}
}

func defaultName() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	if runtime.GOOS == "windows" {
		if name := os.Getenv("USERNAME"); name != "" {
			return name
		}
	}
	return "CRM User"
}

func defaultTimezone() string {
	if locName := time.Now().Location().String(); locName != "Local" && locName != "" {
		return locName
	}
	return "UTC"
}

// Location returns the configured timezone Location, defaulting to UTC on error.
func (s *Store) Location() *time.Location {
	if s == nil {
		return time.UTC
	}
	if loc, err := time.LoadLocation(s.Config.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

// RegistryTimeout parses the configured lookup timeout.
func (s *Store) RegistryTimeout() time.Duration {
	if s != nil {
		if d, err := time.ParseDuration(s.Config.RegistryTimeout); err == nil && d > 0 {
			return d
		}
	}
	return 10 * time.Second
}

// Defaults returns the fallback table for optional business fields. Blank
// entries fall back to the built-in values.
func (s *Store) Defaults() business.Defaults {
	if s == nil {
		return business.DefaultValues
	}
	return business.Defaults{
		Country: s.Config.HomeCountry,
		Email:   s.Config.PlaceholderEmail,
		Phone:   s.Config.PlaceholderPhone,
	}.Merge(business.DefaultValues)
}

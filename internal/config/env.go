package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultRegistryBaseURL = "https://mobile.fmcsa.dot.gov/qc/services/carriers/"
	DefaultRegistryTimeout = 10 * time.Second

	// LoadsFileName is the dataset file name inside DataDir.
	LoadsFileName = "loads.csv"
)

var ErrMissingRegistryKey = errors.New("FMCSA_API_KEY must be set in environment variables")

type Env struct {
	AppAddr string
	GinMode string

	RegistryAPIKey  string
	RegistryBaseURL string
	RegistryTimeout time.Duration

	DataDir string

	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string
	MetricsEnabled     bool
}

// LoadsFile is the absolute or DataDir-relative path of the load dataset.
func (e Env) LoadsFile() string {
	return filepath.Join(e.DataDir, LoadsFileName)
}

// Validate reports settings the service cannot run without.
func (e Env) Validate() error {
	if strings.TrimSpace(e.RegistryAPIKey) == "" {
		return ErrMissingRegistryKey
	}
	if e.RegistryTimeout <= 0 {
		return fmt.Errorf("FMCSA_TIMEOUT must be positive, got %s", e.RegistryTimeout)
	}
	return nil
}

// LoadEnv reads .env (when present), an optional configs/config.yaml and the
// process environment, in increasing order of precedence.
func LoadEnv() (Env, error) {
	loadDotEnv()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Env{}, fmt.Errorf("error reading config: %w", err)
		}
	}

	v.AutomaticEnv()
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_addr", ":8080")
	v.SetDefault("gin_mode", "")
	v.SetDefault("fmcsa_api_key", "")
	v.SetDefault("fmcsa_base_url", DefaultRegistryBaseURL)
	v.SetDefault("fmcsa_timeout", DefaultRegistryTimeout.String())
	v.SetDefault("data_dir", "data")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("metrics_enabled", true)
}

func fromViper(v *viper.Viper) (Env, error) {
	timeout, err := parseTimeout(v.GetString("fmcsa_timeout"))
	if err != nil {
		return Env{}, err
	}

	baseURL := strings.TrimSpace(v.GetString("fmcsa_base_url"))
	if baseURL == "" {
		baseURL = DefaultRegistryBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return Env{
		AppAddr:            strings.TrimSpace(v.GetString("app_addr")),
		GinMode:            strings.TrimSpace(v.GetString("gin_mode")),
		RegistryAPIKey:     strings.TrimSpace(v.GetString("fmcsa_api_key")),
		RegistryBaseURL:    baseURL,
		RegistryTimeout:    timeout,
		DataDir:            strings.TrimSpace(v.GetString("data_dir")),
		LogLevel:           strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LogFormat:          strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		MetricsEnabled:     v.GetBool("metrics_enabled"),
	}, nil
}

// parseTimeout accepts a Go duration ("2500ms", "10s") or a bare number of seconds.
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultRegistryTimeout, nil
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(secs, 0) && !math.IsNaN(secs) {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid FMCSA_TIMEOUT %q: %w", raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadDotEnv tries the working directory and its parents; a missing file is fine.
func loadDotEnv() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err == nil {
				return
			}
		}
	}
}

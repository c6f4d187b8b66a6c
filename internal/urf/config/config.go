package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Port is the network port the HTTP check API will bind to.
	Port int `koanf:"port" validate:"required,gte=1,lt=65535"`

	// CacheSize caps the per-set decision cache. Zero disables caching.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// BloomFPRate is the target false-positive rate for the blocked-domain
	// Bloom filter.
	BloomFPRate float64 `koanf:"bloom_fp_rate" validate:"gt=0,lt=1"`

	// StorePath is the bbolt database for the blocked-domain set.
	// Empty selects the in-memory store.
	StorePath string `koanf:"store_path"`

	// PolicyPath points at a YAML/JSON/TOML policy file. Empty selects the
	// default policy.
	PolicyPath string `koanf:"policy_path" validate:"omitempty,policy_ext"`

	// BlocklistFiles are plain or hosts-format feed files whose domains are
	// added to the blocked set.
	BlocklistFiles []string `koanf:"blocklist_files"`

	// RateLimitRPS and RateLimitBurst shape the per-client token bucket on
	// the HTTP API. RPS of zero disables limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int     `koanf:"rate_limit_burst" validate:"gte=0"`
}

// DEFAULT_APP_CONFIG defines the default application configuration for the
// URL reputation service.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:            "prod",
	LogLevel:       "info",
	Port:           8378,
	CacheSize:      1024,
	BloomFPRate:    0.01,
	RateLimitRPS:   50,
	RateLimitBurst: 100,
}

// validPolicyExt validates that the field names a policy file with a
// supported extension.
func validPolicyExt(fl validator.FieldLevel) bool {
	switch strings.ToLower(filepath.Ext(fl.Field().String())) {
	case ".yaml", ".yml", ".json", ".toml":
		return true
	}
	return false
}

// envLoader loads environment variables with the prefix "URF_",
// lowercasing keys and splitting list values on spaces or commas.
// Defined as a variable so tests can substitute it.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "URF_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "URF_"))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads default configuration values into the provided
// Koanf instance using the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom "policy_ext" validation.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("policy_ext", validPolicyExt)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

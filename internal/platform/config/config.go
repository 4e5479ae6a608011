package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile      = ".env"
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second

	defaultCommerceTimeout    = 8 * time.Second
	defaultCommerceAPIVersion = "2025-07"

	defaultShopName      = "Store"
	defaultAvatarBaseURL = "https://avatar.iran.liara.run/public"
	defaultLocale        = "en"

	defaultHeroType        = "hero_banner"
	defaultHeroHandle      = "homepage-hero"
	defaultShowcaseType    = "product_showcase"
	defaultShowcaseHandle  = "homepage-showcase"
	defaultReviewsType     = "customer_reviews"
	defaultReviewsHandle   = "homepage-reviews"
	defaultMaxProducts     = 20
	defaultMaxReviews      = 50
	defaultEnvironmentName = "local"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Commerce CommerceConfig
	Content  ContentConfig
	Defaults DefaultsConfig
	Features FeatureFlags
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// CommerceConfig points at the remote GraphQL commerce API.
type CommerceConfig struct {
	Endpoint    string
	AccessToken string
	APIVersion  string
	Timeout     time.Duration
}

// ContentConfig names the metaobject entries backing each home page section.
type ContentConfig struct {
	Environment    string
	HeroType       string
	HeroHandle     string
	ShowcaseType   string
	ShowcaseHandle string
	ReviewsType    string
	ReviewsHandle  string
	FallbackFile   string
}

// DefaultsConfig lifts the presentation fallback constants out of the resolvers.
type DefaultsConfig struct {
	ShopName      string
	AvatarBaseURL string
	Locale        string
	MaxProducts   int
	MaxReviews    int
}

// FeatureFlags toggle optional behaviour without redeploying.
type FeatureFlags struct {
	ShowPlaceholders bool
	EnableReviews    bool
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the application configuration by combining defaults, .env overrides,
// and environment variables.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}

	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "STOREFRONT_SERVER_PORT", defaultPort),
			ReadTimeout:  durationWithDefault(lookup, "STOREFRONT_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "STOREFRONT_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "STOREFRONT_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Commerce: CommerceConfig{
			Endpoint:    stringWithDefault(lookup, "STOREFRONT_COMMERCE_ENDPOINT", ""),
			AccessToken: stringWithDefault(lookup, "STOREFRONT_COMMERCE_ACCESS_TOKEN", ""),
			APIVersion:  stringWithDefault(lookup, "STOREFRONT_COMMERCE_API_VERSION", defaultCommerceAPIVersion),
			Timeout:     durationWithDefault(lookup, "STOREFRONT_COMMERCE_TIMEOUT", defaultCommerceTimeout),
		},
		Content: ContentConfig{
			Environment:    strings.ToLower(stringWithDefault(lookup, "STOREFRONT_ENVIRONMENT", defaultEnvironmentName)),
			HeroType:       stringWithDefault(lookup, "STOREFRONT_CONTENT_HERO_TYPE", defaultHeroType),
			HeroHandle:     stringWithDefault(lookup, "STOREFRONT_CONTENT_HERO_HANDLE", defaultHeroHandle),
			ShowcaseType:   stringWithDefault(lookup, "STOREFRONT_CONTENT_SHOWCASE_TYPE", defaultShowcaseType),
			ShowcaseHandle: stringWithDefault(lookup, "STOREFRONT_CONTENT_SHOWCASE_HANDLE", defaultShowcaseHandle),
			ReviewsType:    stringWithDefault(lookup, "STOREFRONT_CONTENT_REVIEWS_TYPE", defaultReviewsType),
			ReviewsHandle:  stringWithDefault(lookup, "STOREFRONT_CONTENT_REVIEWS_HANDLE", defaultReviewsHandle),
			FallbackFile:   stringWithDefault(lookup, "STOREFRONT_CONTENT_FALLBACK_FILE", ""),
		},
		Defaults: DefaultsConfig{
			ShopName:      stringWithDefault(lookup, "STOREFRONT_DEFAULT_SHOP_NAME", defaultShopName),
			AvatarBaseURL: stringWithDefault(lookup, "STOREFRONT_DEFAULT_AVATAR_BASE_URL", defaultAvatarBaseURL),
			Locale:        stringWithDefault(lookup, "STOREFRONT_DEFAULT_LOCALE", defaultLocale),
			MaxProducts:   intWithDefault(lookup, "STOREFRONT_MAX_PRODUCTS", defaultMaxProducts),
			MaxReviews:    intWithDefault(lookup, "STOREFRONT_MAX_REVIEWS", defaultMaxReviews),
		},
		Features: FeatureFlags{
			ShowPlaceholders: boolWithDefault(lookup, "STOREFRONT_FEATURE_PLACEHOLDERS", true),
			EnableReviews:    boolWithDefault(lookup, "STOREFRONT_FEATURE_REVIEWS", true),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if strings.TrimSpace(cfg.Commerce.Endpoint) == "" {
		missing = append(missing, "Commerce.Endpoint")
	}
	if cfg.Commerce.Timeout <= 0 {
		missing = append(missing, "Commerce.Timeout")
	}
	if cfg.Defaults.MaxProducts <= 0 {
		missing = append(missing, "Defaults.MaxProducts")
	}
	if cfg.Defaults.MaxReviews <= 0 {
		missing = append(missing, "Defaults.MaxReviews")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		value = strings.Trim(value, "\"'")
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

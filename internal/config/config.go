package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samvad-hq/checkout-kit/internal/domain"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files, environment variables and flags.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	MerchantEnvironment string             `mapstructure:"merchant_environment"`
	Environment         domain.Environment `mapstructure:"-"`
	SandboxBaseURL      string             `mapstructure:"sandbox_base_url"`
	ProductionBaseURL   string             `mapstructure:"production_base_url"`
	ClientID            string             `mapstructure:"client_id"`
	ClientSecret        string             `mapstructure:"client_secret"`

	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	TokenTTLSeconds         int64         `mapstructure:"token_ttl_seconds"`
	TokenRefreshSkewSeconds int64         `mapstructure:"token_refresh_skew_seconds"`
	TokenTTL                time.Duration `mapstructure:"-"`
	TokenRefreshSkew        time.Duration `mapstructure:"-"`
	TokenCacheType          string        `mapstructure:"token_cache_type"`
	BBoltPath               string        `mapstructure:"bbolt_path"`
	StorageCleanupSeconds   int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageCleanupInterval  time.Duration `mapstructure:"-"`

	PublishersFile string `mapstructure:"publishers_file"`
	ButtonsFile    string `mapstructure:"buttons_file"`
	ButtonsOutput  string `mapstructure:"buttons_output"`
	MetricsFile    string `mapstructure:"metrics_file"`

	OrderID                 string `mapstructure:"order_id"`
	OrderIntent             string `mapstructure:"order_intent"`
	OrderCurrency           string `mapstructure:"order_currency"`
	OrderAmount             string `mapstructure:"order_amount"`
	OrderCountryCode        string `mapstructure:"order_country_code"`
	OrderShippingPreference string `mapstructure:"order_shipping_preference"`
	OrderUserAction         string `mapstructure:"order_user_action"`
}

// BaseURL returns the merchant server base URL for the given environment.
func (c *Config) BaseURL(env domain.Environment) string {
	if env == domain.Production {
		return c.ProductionBaseURL
	}
	return c.SandboxBaseURL
}

// BaseURLs returns every configured environment base URL.
func (c *Config) BaseURLs() map[domain.Environment]string {
	return map[domain.Environment]string{
		domain.Sandbox:    c.SandboxBaseURL,
		domain.Production: c.ProductionBaseURL,
	}
}

// Flags returns the command line flags understood by Load.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("merchant_environment", "", "merchant environment (sandbox or production)")
	fs.String("order_id", "", "process this approved order instead of creating one")
	fs.String("order_intent", "", "order intent (capture or authorize)")
	fs.String("order_amount", "", "order amount, e.g. 10.00")
	fs.String("order_currency", "", "ISO 4217 currency code")
	fs.String("buttons_file", "", "path to the button catalog")
	fs.String("buttons_output", "", "path of the rendered button preview page")
	fs.String("metrics_file", "", "write API call metrics to this textfile on exit")
	fs.String("log_level", "", "log level (debug, info, warn, error)")
	return fs
}

// Load reads configuration from environment variables, config files and the optional flag set.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "checkout-kit")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("merchant_environment", "sandbox")
	v.SetDefault("sandbox_base_url", "https://sdk-sample-merchant-server.herokuapp.com/sandbox")
	v.SetDefault("production_base_url", "https://sdk-sample-merchant-server.herokuapp.com/production")
	v.SetDefault("client_id", "")
	v.SetDefault("client_secret", "")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("token_ttl_seconds", 0) // never expires unless the server says so
	v.SetDefault("token_refresh_skew_seconds", 30)
	v.SetDefault("token_cache_type", "none")
	v.SetDefault("bbolt_path", "./data/tokens.db")
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("publishers_file", "")
	v.SetDefault("buttons_file", "./configs/buttons.yaml")
	v.SetDefault("buttons_output", "./data/buttons.html")
	v.SetDefault("metrics_file", "")
	v.SetDefault("order_id", "")
	v.SetDefault("order_intent", "capture")
	v.SetDefault("order_currency", "USD")
	v.SetDefault("order_amount", "10.00")
	v.SetDefault("order_country_code", "US")
	v.SetDefault("order_shipping_preference", "NO_SHIPPING")
	v.SetDefault("order_user_action", "PAY_NOW")

	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	env, err := domain.ParseEnvironment(cfg.MerchantEnvironment)
	if err != nil {
		return nil, fmt.Errorf("invalid merchant_environment: %w", err)
	}
	cfg.Environment = env

	if strings.TrimSpace(cfg.BaseURL(env)) == "" {
		return nil, fmt.Errorf("base url for environment %s is empty", env)
	}
	if _, err := url.Parse(cfg.BaseURL(env)); err != nil {
		return nil, fmt.Errorf("invalid base url for environment %s: %w", env, err)
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.TokenTTLSeconds < 0 {
		return nil, fmt.Errorf("invalid token_ttl_seconds (must not be negative)")
	}
	if cfg.TokenRefreshSkewSeconds < 0 {
		return nil, fmt.Errorf("invalid token_refresh_skew_seconds (must not be negative)")
	}
	cfg.TokenTTL = time.Duration(cfg.TokenTTLSeconds) * time.Second
	cfg.TokenRefreshSkew = time.Duration(cfg.TokenRefreshSkewSeconds) * time.Second

	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	cfg.MetricsFile = strings.TrimSpace(cfg.MetricsFile)
	cfg.OrderID = strings.TrimSpace(cfg.OrderID)
	cfg.OrderIntent = strings.ToLower(strings.TrimSpace(cfg.OrderIntent))
	cfg.OrderCurrency = strings.ToUpper(strings.TrimSpace(cfg.OrderCurrency))

	return &cfg, nil
}

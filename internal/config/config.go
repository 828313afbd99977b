// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Exchanges   ExchangesConfig   `mapstructure:"exchanges"`
	Arbitrage   ArbitrageConfig   `mapstructure:"arbitrage"`
	Withdrawals WithdrawalsConfig `mapstructure:"withdrawals"`
	Server      ServerConfig      `mapstructure:"server"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// ExchangesConfig holds per-exchange credentials and the adapter order.
// Order is significant: it is the aggregator's iteration order and therefore
// the tie-break order when two exchanges quote the same best price.
type ExchangesConfig struct {
	Order   []string      `mapstructure:"order"`
	Binance BinanceConfig `mapstructure:"binance"`
	MEXC    MEXCConfig    `mapstructure:"mexc"`
}

// BinanceConfig holds Binance API configuration. Order placement and
// withdrawals require API credentials; quotes do not.
type BinanceConfig struct {
	APIKey            string `mapstructure:"api_key"`
	APISecret         string `mapstructure:"api_secret"`
	BaseURL           string `mapstructure:"base_url"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// MEXCConfig holds MEXC API configuration (public quote endpoints only).
type MEXCConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// ArbitrageConfig holds scan-loop and sizing configuration.
type ArbitrageConfig struct {
	Pairs         []string      `mapstructure:"pairs"`
	ScanInterval  time.Duration `mapstructure:"scan_interval"`
	MinSpread     float64       `mapstructure:"min_spread"`
	TradeNotional float64       `mapstructure:"trade_notional"`
	TUIMode       bool          `mapstructure:"-"` // set at runtime, not from file
}

// MinSpreadDecimal returns the minimum spread as a decimal fraction.
func (c *ArbitrageConfig) MinSpreadDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinSpread)
}

// TradeNotionalDecimal returns the per-trade notional as a decimal.
func (c *ArbitrageConfig) TradeNotionalDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.TradeNotional)
}

// WithdrawalEntry maps one (exchange, asset) to a destination address.
type WithdrawalEntry struct {
	Exchange string `mapstructure:"exchange"`
	Asset    string `mapstructure:"asset"`
	Address  string `mapstructure:"address"`
}

// WithdrawalsConfig holds the operator-supplied destination addresses.
type WithdrawalsConfig struct {
	Addresses []WithdrawalEntry `mapstructure:"addresses"`
}

// ServerConfig holds the HTTP/WebSocket API configuration.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("CROSSARB")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine; env vars and defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "CROSSARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "CROSSARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "CROSSARB_LOG_LEVEL", "LOG_LEVEL")

	// Exchanges
	v.BindEnv("exchanges.binance.api_key", "CROSSARB_BINANCE_API_KEY", "BINANCE_API_KEY")
	v.BindEnv("exchanges.binance.api_secret", "CROSSARB_BINANCE_API_SECRET", "BINANCE_API_SECRET")
	v.BindEnv("exchanges.binance.base_url", "CROSSARB_BINANCE_BASE_URL")
	v.BindEnv("exchanges.mexc.base_url", "CROSSARB_MEXC_BASE_URL")

	// Arbitrage
	v.BindEnv("arbitrage.pairs", "CROSSARB_PAIRS")
	v.BindEnv("arbitrage.scan_interval", "CROSSARB_SCAN_INTERVAL")
	v.BindEnv("arbitrage.min_spread", "CROSSARB_MIN_SPREAD")
	v.BindEnv("arbitrage.trade_notional", "CROSSARB_TRADE_NOTIONAL")

	// Server
	v.BindEnv("server.port", "CROSSARB_SERVER_PORT", "PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "CROSSARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "CROSSARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "CROSSARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "crossarb")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Exchange defaults
	v.SetDefault("exchanges.order", []string{"binance", "mexc"})
	v.SetDefault("exchanges.binance.requests_per_minute", 1200)
	v.SetDefault("exchanges.mexc.base_url", "https://api.mexc.com")
	v.SetDefault("exchanges.mexc.requests_per_minute", 500)

	// Arbitrage defaults
	v.SetDefault("arbitrage.pairs", []string{"BTC/USDT", "ETH/USDT"})
	v.SetDefault("arbitrage.scan_interval", "5s")
	v.SetDefault("arbitrage.min_spread", 0.002)
	v.SetDefault("arbitrage.trade_notional", 100)

	// Server defaults
	v.SetDefault("server.port", 8080)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "crossarb")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Exchanges.Order) < 2 {
		return fmt.Errorf("exchanges.order requires at least two exchanges, got %d", len(c.Exchanges.Order))
	}
	if len(c.Arbitrage.Pairs) == 0 {
		return fmt.Errorf("arbitrage.pairs cannot be empty")
	}
	for _, pair := range c.Arbitrage.Pairs {
		if !strings.Contains(pair, "/") {
			return fmt.Errorf("invalid pair %q: expected BASE/QUOTE", pair)
		}
	}
	if c.Arbitrage.ScanInterval <= 0 {
		return fmt.Errorf("arbitrage.scan_interval must be positive")
	}
	if c.Arbitrage.MinSpread <= 0 || c.Arbitrage.MinSpread >= 1 {
		return fmt.Errorf("arbitrage.min_spread must be a fraction in (0,1), got %v", c.Arbitrage.MinSpread)
	}
	if c.Arbitrage.TradeNotional <= 0 {
		return fmt.Errorf("arbitrage.trade_notional must be positive")
	}
	for _, entry := range c.Withdrawals.Addresses {
		if entry.Exchange == "" || entry.Asset == "" || entry.Address == "" {
			return fmt.Errorf("withdrawals.addresses entries require exchange, asset and address")
		}
		// EVM-style addresses must parse; other formats are taken as-is.
		if strings.HasPrefix(entry.Address, "0x") && !common.IsHexAddress(entry.Address) {
			return fmt.Errorf("invalid destination address for %s/%s: %s", entry.Exchange, entry.Asset, entry.Address)
		}
	}
	return nil
}

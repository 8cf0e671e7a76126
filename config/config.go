package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DeltaConfig    DeltaConfig    `json:"delta"`
	TradingConfig  TradingConfig  `json:"trading"`
	GridConfig     GridConfig     `json:"grid"`
	RiskConfig     RiskConfig     `json:"risk"`
	LoggingConfig  LoggingConfig  `json:"logging"`
	ServerConfig   ServerConfig   `json:"server"`
	DatabaseConfig DatabaseConfig `json:"database"`
	RedisConfig    RedisConfig    `json:"redis"`
}

// DeltaConfig holds Delta Exchange connectivity settings
type DeltaConfig struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	BaseURL   string `json:"base_url"`
	StreamURL string `json:"stream_url"`
	MockMode  bool   `json:"mock_mode"` // Use simulated data when the exchange is unavailable
}

type TradingConfig struct {
	Symbols           []string `json:"symbols"`
	CycleInterval     int      `json:"cycle_interval"`     // Seconds between decision cycles
	MinBalance        float64  `json:"min_balance"`        // Skip cycles below this balance
	ConfidenceGate    float64  `json:"confidence_gate"`    // Minimum consensus confidence to act
	PlacementWorkers  int      `json:"placement_workers"`  // Concurrent order placements
	MaxAuthFailures   int      `json:"max_auth_failures"`  // Consecutive auth errors before halting
	DryRun            bool     `json:"dry_run"`
}

type GridConfig struct {
	Levels   int     `json:"levels"`    // Levels per side
	Width    float64 `json:"width"`     // Fractional spacing between levels
	TickSize float64 `json:"tick_size"` // Price rounding increment
}

type RiskConfig struct {
	RiskPercentage  float64 `json:"risk_percentage"`    // Percent of balance risked per level
	MinQuantity     float64 `json:"min_quantity"`       // Exchange lot size floor
	SafetyFactor    float64 `json:"safety_factor"`      // Applied after ATR sizing
	MaxDailyLoss    float64 `json:"max_daily_loss"`     // Fraction of balance before pausing
	MaxTradesPerDay int     `json:"max_trades_per_day"`
	MaxPositionPct  float64 `json:"max_position_pct"`
}

type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Pretty bool   `json:"pretty"` // Console writer instead of JSON
}

type ServerConfig struct {
	Enabled bool   `json:"enabled"`
	Port    int    `json:"port"`
	Host    string `json:"host"`
}

// DatabaseConfig holds PostgreSQL settings. Persistence is optional.
type DatabaseConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"ssl_mode"`
}

// RedisConfig holds Redis settings for state persistence
type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
}

func Load() (*Config, error) {
	cfg, err := loadFromFile("config.json")
	if err != nil {
		cfg = &Config{}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment values take precedence over the config file.
func applyEnvOverrides(cfg *Config) {
	cfg.DeltaConfig.APIKey = getEnvOrDefault("DELTA_API_KEY", cfg.DeltaConfig.APIKey)
	cfg.DeltaConfig.APISecret = getEnvOrDefault("DELTA_API_SECRET", cfg.DeltaConfig.APISecret)
	cfg.DeltaConfig.BaseURL = getEnvOrDefault("DELTA_BASE_URL", cfg.DeltaConfig.BaseURL)
	cfg.DeltaConfig.StreamURL = getEnvOrDefault("DELTA_STREAM_URL", cfg.DeltaConfig.StreamURL)
	if v := os.Getenv("MOCK_MODE"); v != "" {
		cfg.DeltaConfig.MockMode = v == "true"
	}

	if v := os.Getenv("TRADING_SYMBOLS"); v != "" {
		cfg.TradingConfig.Symbols = strings.Split(v, ",")
	}
	cfg.TradingConfig.CycleInterval = getEnvIntOrDefault("CYCLE_INTERVAL", cfg.TradingConfig.CycleInterval)
	cfg.TradingConfig.MinBalance = getEnvFloatOrDefault("MIN_BALANCE", cfg.TradingConfig.MinBalance)
	if v := os.Getenv("TRADING_DRY_RUN"); v != "" {
		cfg.TradingConfig.DryRun = v == "true"
	}

	cfg.GridConfig.Levels = getEnvIntOrDefault("GRID_LEVELS", cfg.GridConfig.Levels)
	cfg.GridConfig.Width = getEnvFloatOrDefault("GRID_WIDTH", cfg.GridConfig.Width)
	cfg.GridConfig.TickSize = getEnvFloatOrDefault("GRID_TICK_SIZE", cfg.GridConfig.TickSize)

	cfg.RiskConfig.RiskPercentage = getEnvFloatOrDefault("RISK_PERCENTAGE", cfg.RiskConfig.RiskPercentage)
	cfg.RiskConfig.MinQuantity = getEnvFloatOrDefault("RISK_MIN_QUANTITY", cfg.RiskConfig.MinQuantity)

	cfg.LoggingConfig.Level = getEnvOrDefault("LOG_LEVEL", cfg.LoggingConfig.Level)
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		cfg.LoggingConfig.Pretty = v == "true"
	}

	if v := os.Getenv("SERVER_ENABLED"); v != "" {
		cfg.ServerConfig.Enabled = v == "true"
	}
	cfg.ServerConfig.Port = getEnvIntOrDefault("SERVER_PORT", cfg.ServerConfig.Port)

	if v := os.Getenv("DATABASE_ENABLED"); v != "" {
		cfg.DatabaseConfig.Enabled = v == "true"
	}
	cfg.DatabaseConfig.Host = getEnvOrDefault("DATABASE_HOST", cfg.DatabaseConfig.Host)
	cfg.DatabaseConfig.Port = getEnvIntOrDefault("DATABASE_PORT", cfg.DatabaseConfig.Port)
	cfg.DatabaseConfig.User = getEnvOrDefault("DATABASE_USER", cfg.DatabaseConfig.User)
	cfg.DatabaseConfig.Password = getEnvOrDefault("DATABASE_PASSWORD", cfg.DatabaseConfig.Password)
	cfg.DatabaseConfig.Database = getEnvOrDefault("DATABASE_NAME", cfg.DatabaseConfig.Database)
	cfg.DatabaseConfig.SSLMode = getEnvOrDefault("DATABASE_SSLMODE", cfg.DatabaseConfig.SSLMode)

	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		cfg.RedisConfig.Enabled = v == "true"
	}
	cfg.RedisConfig.Address = getEnvOrDefault("REDIS_ADDRESS", cfg.RedisConfig.Address)
	cfg.RedisConfig.Password = getEnvOrDefault("REDIS_PASSWORD", cfg.RedisConfig.Password)
	cfg.RedisConfig.DB = getEnvIntOrDefault("REDIS_DB", cfg.RedisConfig.DB)
	cfg.RedisConfig.PoolSize = getEnvIntOrDefault("REDIS_POOL_SIZE", cfg.RedisConfig.PoolSize)
}

func applyDefaults(cfg *Config) {
	if cfg.DeltaConfig.BaseURL == "" {
		cfg.DeltaConfig.BaseURL = "https://api.delta.exchange"
	}
	if cfg.DeltaConfig.StreamURL == "" {
		cfg.DeltaConfig.StreamURL = "wss://socket.delta.exchange"
	}
	if len(cfg.TradingConfig.Symbols) == 0 {
		cfg.TradingConfig.Symbols = []string{"BTCUSD"}
	}
	if cfg.TradingConfig.CycleInterval <= 0 {
		cfg.TradingConfig.CycleInterval = 60
	}
	if cfg.TradingConfig.ConfidenceGate <= 0 {
		cfg.TradingConfig.ConfidenceGate = 0.5
	}
	if cfg.TradingConfig.PlacementWorkers <= 0 {
		cfg.TradingConfig.PlacementWorkers = 4
	}
	if cfg.TradingConfig.MaxAuthFailures <= 0 {
		cfg.TradingConfig.MaxAuthFailures = 3
	}
	if cfg.GridConfig.Levels <= 0 {
		cfg.GridConfig.Levels = 5
	}
	if cfg.GridConfig.Width <= 0 {
		cfg.GridConfig.Width = 0.01
	}
	if cfg.GridConfig.TickSize <= 0 {
		cfg.GridConfig.TickSize = 0.01
	}
	if cfg.RiskConfig.RiskPercentage <= 0 {
		cfg.RiskConfig.RiskPercentage = 1.0
	}
	if cfg.RiskConfig.MinQuantity <= 0 {
		cfg.RiskConfig.MinQuantity = 0.01
	}
	if cfg.RiskConfig.SafetyFactor <= 0 {
		cfg.RiskConfig.SafetyFactor = 0.7
	}
	if cfg.RiskConfig.MaxDailyLoss <= 0 {
		cfg.RiskConfig.MaxDailyLoss = 0.05
	}
	if cfg.RiskConfig.MaxTradesPerDay <= 0 {
		cfg.RiskConfig.MaxTradesPerDay = 5
	}
	if cfg.RiskConfig.MaxPositionPct <= 0 {
		cfg.RiskConfig.MaxPositionPct = 0.05
	}
	if cfg.LoggingConfig.Level == "" {
		cfg.LoggingConfig.Level = "info"
	}
	if cfg.ServerConfig.Port <= 0 {
		cfg.ServerConfig.Port = 8080
	}
	if cfg.ServerConfig.Host == "" {
		cfg.ServerConfig.Host = "0.0.0.0"
	}
	if cfg.RedisConfig.PoolSize <= 0 {
		cfg.RedisConfig.PoolSize = 10
	}
	if cfg.DatabaseConfig.SSLMode == "" {
		cfg.DatabaseConfig.SSLMode = "disable"
	}
}

// Validate rejects parameter combinations that cannot produce a working bot.
// Grid and risk violations here are startup-fatal.
func (c *Config) Validate() error {
	if c.GridConfig.Levels <= 0 {
		return fmt.Errorf("grid levels must be positive, got %d", c.GridConfig.Levels)
	}
	if c.GridConfig.Width <= 0 || c.GridConfig.Width >= 1 {
		return fmt.Errorf("grid width must be in (0, 1), got %f", c.GridConfig.Width)
	}
	if c.GridConfig.Width*float64(c.GridConfig.Levels) >= 1 {
		return fmt.Errorf("grid spans below zero: width %f with %d levels", c.GridConfig.Width, c.GridConfig.Levels)
	}
	if c.RiskConfig.RiskPercentage <= 0 || c.RiskConfig.RiskPercentage > 100 {
		return fmt.Errorf("risk percentage must be in (0, 100], got %f", c.RiskConfig.RiskPercentage)
	}
	if !c.DeltaConfig.MockMode && (c.DeltaConfig.APIKey == "" || c.DeltaConfig.APISecret == "") {
		return fmt.Errorf("delta api credentials required unless mock_mode is enabled")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

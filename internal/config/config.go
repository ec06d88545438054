package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-confirmator/internal/domain"
)

// ServiceName is the name used for config lookup, env overlays and block tracker namespaces
const ServiceName = "confirmator"

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	URL             string        `mapstructure:"url"`
	StreamName      string        `mapstructure:"stream_name"`
	SubjectPrefix   string        `mapstructure:"subject_prefix"`
	MaxReconnects   int           `mapstructure:"max_reconnects"`
	ReconnectWait   time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName  string        `mapstructure:"connection_name"`
	DuplicateWindow time.Duration `mapstructure:"duplicate_window"`
}

// EthereumConfig holds Ethereum-specific configuration
type EthereumConfig struct {
	RPCURL               string        `mapstructure:"rpc_url"`
	ChainID              domain.Chain  `mapstructure:"chain_id"`
	BlockHeadTTL         time.Duration `mapstructure:"block_head_ttl"`
	BlockHeadStaleWindow time.Duration `mapstructure:"block_head_stale_window"`
	// RequestsPerSecond caps RPC calls across every replica. Zero disables rate limiting.
	RequestsPerSecond int `mapstructure:"requests_per_second"`
	RequestBurst      int `mapstructure:"request_burst"`
	// ABIPath points to the JSON ABI used to decode ingested logs
	ABIPath                   string            `mapstructure:"abi_path"`
	DefaultTargetConfirmation uint64            `mapstructure:"default_target_confirmation"`
	TargetConfirmations       map[string]uint64 `mapstructure:"target_confirmations"`
}

// RedisConfig holds the run lock backend. An empty URL keeps locks in-process.
type RedisConfig struct {
	URL      string        `mapstructure:"url"`
	Password string        `mapstructure:"password"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// WebhookConfig holds webhook delivery configuration
type WebhookConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url"`
	Secret         string        `mapstructure:"secret"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxElapsedTime time.Duration `mapstructure:"max_elapsed_time"`
}

// ConfirmatorSettings holds the confirmation routine settings shared by every tracked contract
type ConfirmatorSettings struct {
	ContractAddresses                   []string `mapstructure:"contract_addresses"`
	DeleteTargetConfirmationsMultiplier float64  `mapstructure:"delete_target_confirmations_multiplier"`
	EmissionPolicy                      string   `mapstructure:"emission_policy"`
	ValidationConcurrency               int      `mapstructure:"validation_concurrency"`
	RevalidateEmitted                   bool     `mapstructure:"revalidate_emitted"`
}

// EmitterConfig holds the new block driver configuration
type EmitterConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	RunTimeout   time.Duration `mapstructure:"run_timeout"`
}

// ConfirmatorConfig holds configuration for the confirmator service
type ConfirmatorConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Database    DatabaseConfig      `mapstructure:"database"`
	NATS        NATSConfig          `mapstructure:"nats"`
	Ethereum    EthereumConfig      `mapstructure:"ethereum"`
	Redis       RedisConfig         `mapstructure:"redis"`
	Server      ServerConfig        `mapstructure:"server"`
	Webhook     WebhookConfig       `mapstructure:"webhook"`
	Confirmator ConfirmatorSettings `mapstructure:"confirmator"`
	Emitter     EmitterConfig       `mapstructure:"emitter"`
}

// LoadConfirmatorConfig loads configuration for the confirmator service
func LoadConfirmatorConfig(configFile string, envPath string) (*ConfirmatorConfig, error) {
	v := configureViper(ServiceName, configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.enabled", true)
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "CONTRACT_CONFIRMATIONS")
	v.SetDefault("nats.subject_prefix", "confirmations")
	v.SetDefault("nats.connection_name", "ff-confirmator")
	v.SetDefault("nats.duplicate_window", "2m")
	v.SetDefault("ethereum.chain_id", "eip155:1")
	v.SetDefault("ethereum.block_head_ttl", "12s")
	v.SetDefault("ethereum.block_head_stale_window", "60s")
	v.SetDefault("ethereum.default_target_confirmation", 12)
	v.SetDefault("redis.lock_ttl", "5m")
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("webhook.timeout", "10s")
	v.SetDefault("webhook.max_elapsed_time", "2m")
	v.SetDefault("confirmator.delete_target_confirmations_multiplier", 3)
	v.SetDefault("confirmator.emission_policy", "threshold")
	v.SetDefault("confirmator.validation_concurrency", 8)
	v.SetDefault("emitter.poll_interval", "15s")
	v.SetDefault("emitter.run_timeout", "2m")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use environment variables
	}

	var cfg ConfirmatorConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Comma separated lists are common when addresses come from the environment
	if len(cfg.Confirmator.ContractAddresses) == 1 && strings.Contains(cfg.Confirmator.ContractAddresses[0], ",") {
		cfg.Confirmator.ContractAddresses = strings.Split(cfg.Confirmator.ContractAddresses[0], ",")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the required fields and normalizes contract addresses to their checksum form
func (c *ConfirmatorConfig) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required: %w", domain.ErrInvalidConfig)
	}
	if c.Ethereum.RPCURL == "" {
		return fmt.Errorf("ethereum.rpc_url is required: %w", domain.ErrInvalidConfig)
	}
	if !domain.IsValidChain(c.Ethereum.ChainID) {
		return fmt.Errorf("unsupported chain %s: %w", c.Ethereum.ChainID, domain.ErrInvalidConfig)
	}
	if c.Redis.URL != "" && (c.Emitter.RunTimeout <= 0 || c.Emitter.RunTimeout >= c.Redis.LockTTL) {
		return fmt.Errorf("emitter.run_timeout must be positive and shorter than redis.lock_ttl: %w", domain.ErrInvalidConfig)
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required when nats is enabled: %w", domain.ErrInvalidConfig)
	}
	if c.Webhook.Enabled && (c.Webhook.URL == "" || c.Webhook.Secret == "") {
		return fmt.Errorf("webhook.url and webhook.secret are required when webhook is enabled: %w", domain.ErrInvalidConfig)
	}
	if len(c.Confirmator.ContractAddresses) == 0 {
		return fmt.Errorf("confirmator.contract_addresses is required: %w", domain.ErrInvalidConfig)
	}

	seen := make(map[string]struct{}, len(c.Confirmator.ContractAddresses))
	addresses := make([]string, 0, len(c.Confirmator.ContractAddresses))
	for _, raw := range c.Confirmator.ContractAddresses {
		raw = strings.TrimSpace(raw)
		if !common.IsHexAddress(raw) {
			return fmt.Errorf("invalid contract address %q: %w", raw, domain.ErrInvalidConfig)
		}
		address := common.HexToAddress(raw).Hex()
		if _, ok := seen[address]; ok {
			continue
		}
		seen[address] = struct{}{}
		addresses = append(addresses, address)
	}
	c.Confirmator.ContractAddresses = addresses

	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/confirmator/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("FF_CONFIRMATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.enabled",
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.duplicate_window",
		// Ethereum
		"ethereum.rpc_url",
		"ethereum.chain_id",
		"ethereum.block_head_ttl",
		"ethereum.block_head_stale_window",
		"ethereum.requests_per_second",
		"ethereum.request_burst",
		"ethereum.abi_path",
		"ethereum.default_target_confirmation",
		// Redis
		"redis.url",
		"redis.password",
		"redis.lock_ttl",
		// Server
		"server.enabled",
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Webhook
		"webhook.enabled",
		"webhook.url",
		"webhook.secret",
		"webhook.timeout",
		"webhook.max_elapsed_time",
		// Confirmator
		"confirmator.contract_addresses",
		"confirmator.delete_target_confirmations_multiplier",
		"confirmator.emission_policy",
		"confirmator.validation_concurrency",
		"confirmator.revalidate_emitted",
		// Emitter
		"emitter.poll_interval",
		"emitter.run_timeout",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-confirmator/internal/domain"
)

const minimalConfig = `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: testdb
nats:
  url: "nats://localhost:4222"
ethereum:
  rpc_url: "http://localhost:8545"
confirmator:
  contract_addresses:
    - "0x5fbdb2315678afecb367f032d93f642f64180aa3"
`

func TestLoadConfirmatorConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *ConfirmatorConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
database:
  host: localhost
  port: 5433
  user: testuser
  password: testpass
  dbname: testdb
  sslmode: require
nats:
  url: "nats://localhost:4222"
  stream_name: "TEST_STREAM"
  subject_prefix: "test"
  max_reconnects: 5
  reconnect_wait: "5s"
  connection_name: "test-connection"
  duplicate_window: "10m"
ethereum:
  rpc_url: "http://localhost:8545"
  chain_id: "eip155:11155111"
  abi_path: "config/abi.json"
  default_target_confirmation: 6
  target_confirmations:
    Transfer: 20
redis:
  url: "redis://localhost:6379/0"
  lock_ttl: "30s"
webhook:
  enabled: true
  url: "https://hooks.example.com"
  secret: "deadbeef"
confirmator:
  contract_addresses:
    - "0x5fbdb2315678afecb367f032d93f642f64180aa3"
    - "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
  delete_target_confirmations_multiplier: 2.5
  emission_policy: exact
  validation_concurrency: 4
  revalidate_emitted: true
emitter:
  poll_interval: "5s"
  run_timeout: "20s"
`,
			validate: func(t *testing.T, cfg *ConfirmatorConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, "TEST_STREAM", cfg.NATS.StreamName)
				assert.Equal(t, "test", cfg.NATS.SubjectPrefix)
				assert.Equal(t, 5*time.Second, cfg.NATS.ReconnectWait)
				assert.Equal(t, 10*time.Minute, cfg.NATS.DuplicateWindow)
				assert.Equal(t, domain.ChainEthereumSepolia, cfg.Ethereum.ChainID)
				assert.Equal(t, "config/abi.json", cfg.Ethereum.ABIPath)
				assert.Equal(t, uint64(6), cfg.Ethereum.DefaultTargetConfirmation)
				assert.Equal(t, uint64(20), cfg.Ethereum.TargetConfirmations["transfer"])
				assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
				assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
				assert.True(t, cfg.Webhook.Enabled)
				assert.Equal(t, []string{
					"0x5FbDB2315678afecb367f032d93F642f64180aa3",
					"0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
				}, cfg.Confirmator.ContractAddresses)
				assert.Equal(t, 2.5, cfg.Confirmator.DeleteTargetConfirmationsMultiplier)
				assert.Equal(t, "exact", cfg.Confirmator.EmissionPolicy)
				assert.Equal(t, 4, cfg.Confirmator.ValidationConcurrency)
				assert.True(t, cfg.Confirmator.RevalidateEmitted)
				assert.Equal(t, 5*time.Second, cfg.Emitter.PollInterval)
				assert.Equal(t, 20*time.Second, cfg.Emitter.RunTimeout)
			},
		},
		{
			name:       "config with defaults",
			configFile: minimalConfig,
			validate: func(t *testing.T, cfg *ConfirmatorConfig) {
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.True(t, cfg.NATS.Enabled)
				assert.Equal(t, "CONTRACT_CONFIRMATIONS", cfg.NATS.StreamName)
				assert.Equal(t, "confirmations", cfg.NATS.SubjectPrefix)
				assert.Equal(t, 10, cfg.NATS.MaxReconnects)
				assert.Equal(t, 2*time.Second, cfg.NATS.ReconnectWait)
				assert.Equal(t, domain.ChainEthereumMainnet, cfg.Ethereum.ChainID)
				assert.Equal(t, 12*time.Second, cfg.Ethereum.BlockHeadTTL)
				assert.Equal(t, uint64(12), cfg.Ethereum.DefaultTargetConfirmation)
				assert.Empty(t, cfg.Redis.URL)
				assert.Equal(t, 5*time.Minute, cfg.Redis.LockTTL)
				assert.True(t, cfg.Server.Enabled)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.False(t, cfg.Webhook.Enabled)
				assert.Equal(t, float64(3), cfg.Confirmator.DeleteTargetConfirmationsMultiplier)
				assert.Equal(t, "threshold", cfg.Confirmator.EmissionPolicy)
				assert.Equal(t, 8, cfg.Confirmator.ValidationConcurrency)
				assert.Equal(t, 15*time.Second, cfg.Emitter.PollInterval)
				assert.Equal(t, 2*time.Minute, cfg.Emitter.RunTimeout)
			},
		},
		{
			name: "duplicate addresses are collapsed",
			configFile: minimalConfig + `    - "0x5FbDB2315678afecb367f032d93F642f64180aa3"
`,
			validate: func(t *testing.T, cfg *ConfirmatorConfig) {
				assert.Equal(t, []string{"0x5FbDB2315678afecb367f032d93F642f64180aa3"}, cfg.Confirmator.ContractAddresses)
			},
		},
		{
			name: "missing contract addresses",
			configFile: `
database:
  host: localhost
nats:
  url: "nats://localhost:4222"
ethereum:
  rpc_url: "http://localhost:8545"
`,
			expectError: true,
		},
		{
			name: "invalid contract address",
			configFile: `
database:
  host: localhost
nats:
  url: "nats://localhost:4222"
ethereum:
  rpc_url: "http://localhost:8545"
confirmator:
  contract_addresses: ["not-an-address"]
`,
			expectError: true,
		},
		{
			name: "unsupported chain",
			configFile: `
database:
  host: localhost
nats:
  url: "nats://localhost:4222"
ethereum:
  rpc_url: "http://localhost:8545"
  chain_id: "tezos:mainnet"
confirmator:
  contract_addresses: ["0x5fbdb2315678afecb367f032d93f642f64180aa3"]
`,
			expectError: true,
		},
		{
			name: "run timeout longer than lock ttl",
			configFile: minimalConfig + `
redis:
  url: "redis://localhost:6379/0"
  lock_ttl: "1m"
emitter:
  run_timeout: "2m"
`,
			expectError: true,
		},
		{
			name: "rsk chain",
			configFile: `
database:
  host: localhost
nats:
  url: "nats://localhost:4222"
ethereum:
  rpc_url: "http://localhost:4444"
  chain_id: "eip155:30"
confirmator:
  contract_addresses: ["0x5fbdb2315678afecb367f032d93f642f64180aa3"]
`,
			validate: func(t *testing.T, cfg *ConfirmatorConfig) {
				assert.Equal(t, domain.Chain("eip155:30"), cfg.Ethereum.ChainID)
			},
		},
		{
			name: "webhook enabled without secret",
			configFile: minimalConfig + `
webhook:
  enabled: true
  url: "https://hooks.example.com"
`,
			expectError: true,
		},
		{
			name: "invalid yaml",
			configFile: `
				database:
				  host: localhost
				  port: invalid
			`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configFile := filepath.Join(tmpDir, "config.yaml")
			err := os.WriteFile(configFile, []byte(tt.configFile), 0600)
			require.NoError(t, err)

			cfg, err := LoadConfirmatorConfig(configFile, tmpDir)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadConfirmatorConfig_MissingRequiredFields(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadConfirmatorConfig(filepath.Join(tmpDir, "nonexistent.yaml"), tmpDir)

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestConfirmatorConfig_Validate(t *testing.T) {
	valid := func() ConfirmatorConfig {
		return ConfirmatorConfig{
			Database: DatabaseConfig{Host: "localhost"},
			NATS:     NATSConfig{Enabled: true, URL: "nats://localhost:4222"},
			Ethereum: EthereumConfig{RPCURL: "http://localhost:8545", ChainID: domain.ChainEthereumMainnet},
			Confirmator: ConfirmatorSettings{
				ContractAddresses: []string{" 0x5fbdb2315678afecb367f032d93f642f64180aa3 "},
			},
		}
	}

	tests := []struct {
		name   string
		modify func(*ConfirmatorConfig)
		valid  bool
	}{
		{name: "valid", modify: func(*ConfirmatorConfig) {}, valid: true},
		{name: "missing database host", modify: func(c *ConfirmatorConfig) { c.Database.Host = "" }},
		{name: "missing rpc url", modify: func(c *ConfirmatorConfig) { c.Ethereum.RPCURL = "" }},
		{name: "missing nats url", modify: func(c *ConfirmatorConfig) { c.NATS.URL = "" }},
		{
			name: "nats disabled without url",
			modify: func(c *ConfirmatorConfig) {
				c.NATS.Enabled = false
				c.NATS.URL = ""
			},
			valid: true,
		},
		{name: "webhook without url", modify: func(c *ConfirmatorConfig) { c.Webhook = WebhookConfig{Enabled: true, Secret: "aa"} }},
		{
			name: "redis with run timeout below lock ttl",
			modify: func(c *ConfirmatorConfig) {
				c.Redis = RedisConfig{URL: "redis://localhost:6379/0", LockTTL: 5 * time.Minute}
				c.Emitter.RunTimeout = 2 * time.Minute
			},
			valid: true,
		},
		{
			name: "redis without run timeout",
			modify: func(c *ConfirmatorConfig) {
				c.Redis = RedisConfig{URL: "redis://localhost:6379/0", LockTTL: 5 * time.Minute}
				c.Emitter.RunTimeout = 0
			},
		},
		{
			name: "redis with run timeout equal to lock ttl",
			modify: func(c *ConfirmatorConfig) {
				c.Redis = RedisConfig{URL: "redis://localhost:6379/0", LockTTL: 5 * time.Minute}
				c.Emitter.RunTimeout = 5 * time.Minute
			},
		},
		{name: "any evm chain", modify: func(c *ConfirmatorConfig) { c.Ethereum.ChainID = domain.Chain("eip155:30") }, valid: true},
		{name: "malformed chain", modify: func(c *ConfirmatorConfig) { c.Ethereum.ChainID = domain.Chain("eip155:rsk") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)

			err := cfg.Validate()

			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, []string{"0x5FbDB2315678afecb367f032d93F642f64180aa3"}, cfg.Confirmator.ContractAddresses)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name: "complete config",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "testpass",
				DBName:   "testdb",
				SSLMode:  "require",
			},
			expected: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require",
		},
		{
			name: "with special characters in password",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "p@ssw0rd!",
				DBName:   "testdb",
				SSLMode:  "disable",
			},
			expected: "host=localhost port=5432 user=testuser password=p@ssw0rd! dbname=testdb sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	tmpDir := t.TempDir()

	envDir := filepath.Join(tmpDir, "env")
	err := os.MkdirAll(envDir, 0750)
	require.NoError(t, err)

	// Registered with t.Setenv so the values loaded from .env are restored after the test
	for _, key := range []string{
		"FF_CONFIRMATOR_DEBUG",
		"FF_CONFIRMATOR_DATABASE_HOST",
		"FF_CONFIRMATOR_DATABASE_PORT",
		"FF_CONFIRMATOR_CONFIRMATOR_CONTRACT_ADDRESSES",
		"FF_CONFIRMATOR_EMITTER_POLL_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	envContent := `FF_CONFIRMATOR_DEBUG=true
FF_CONFIRMATOR_DATABASE_HOST=env-host
FF_CONFIRMATOR_DATABASE_PORT=6543
FF_CONFIRMATOR_CONFIRMATOR_CONTRACT_ADDRESSES=0x5fbdb2315678afecb367f032d93f642f64180aa3,0xe7f1725e7734ce288f8367e1bb143e90bb3f0512
FF_CONFIRMATOR_EMITTER_POLL_INTERVAL=3s
`
	err = os.WriteFile(filepath.Join(envDir, ".env"), []byte(envContent), 0600)
	require.NoError(t, err)

	configPath := filepath.Join(tmpDir, "config.yaml")
	err = os.WriteFile(configPath, []byte(`
debug: false
database:
  host: file-host
  port: 5432
nats:
  url: "nats://localhost:4222"
ethereum:
  rpc_url: "http://localhost:8545"
confirmator:
  contract_addresses: ["0x0000000000000000000000000000000000000001"]
`), 0600)
	require.NoError(t, err)

	cfg, err := LoadConfirmatorConfig(configPath, envDir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Values from the .env file override the config file
	assert.True(t, cfg.Debug)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 3*time.Second, cfg.Emitter.PollInterval)
	assert.Equal(t, []string{
		"0x5FbDB2315678afecb367f032d93F642f64180aa3",
		"0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
	}, cfg.Confirmator.ContractAddresses)
}

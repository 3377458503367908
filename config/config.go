package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// TLSConfig holds PEM paths for the RPC listener. ClientCA is optional;
// when set, clients must present a certificate signed by it.
type TLSConfig struct {
	Cert     string `json:"cert" env:"PODIUM_TLS_CERT"`
	Key      string `json:"key" env:"PODIUM_TLS_KEY"`
	ClientCA string `json:"client_ca" env:"PODIUM_TLS_CLIENT_CA"`
}

// Config holds all daemon configuration. Values come from defaults,
// then the JSON config file, then PODIUM_* environment variables.
type Config struct {
	DataDir      string     `json:"data_dir" env:"PODIUM_DATA_DIR"`
	RPCPort      int        `json:"rpc_port" env:"PODIUM_RPC_PORT"`
	RPCAuthToken string     `json:"rpc_auth_token" env:"PODIUM_RPC_TOKEN"`
	TLS          *TLSConfig `json:"tls,omitempty"`
}

// DefaultConfig returns a single-node development configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		RPCPort: 8645,
	}
}

// Load reads a JSON config file from path and applies environment
// overrides. A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env overrides: %w", err)
	}
	return cfg, nil
}

// Save writes the config to path as formatted JSON.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

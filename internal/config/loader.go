package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadServerConfig reads configPath (if non-empty) plus NOSTIMINT_SERVER_
// environment overrides into a ServerConfig.
func LoadServerConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()
	setServerDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read server config %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix("NOSTIMINT_SERVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal server config: %w", err)
	}
	cfg.ConfigPath = configPath

	if err := ValidateServerConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config: validate server config: %w", err)
	}
	return &cfg, nil
}

// LoadClientConfig reads configPath (if non-empty) plus NOSTIMINT_CLIENT_
// environment overrides into a ClientConfig.
func LoadClientConfig(configPath string) (*ClientConfig, error) {
	v := viper.New()
	setClientDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read client config %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix("NOSTIMINT_CLIENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal client config: %w", err)
	}
	cfg.ConfigPath = configPath

	if err := ValidateClientConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config: validate client config: %w", err)
	}
	return &cfg, nil
}

// NostrPrivateKey returns the per-peer signing key from the environment,
// surfacing a clear error instead of a panic when it is unset, per
// spec.md §6.
func NostrPrivateKey() (string, error) {
	key, set := os.LookupEnv(nostrPrivKeyEnv)
	if !set {
		return "", fmt.Errorf("config: %s not set for this peer", nostrPrivKeyEnv)
	}
	return key, nil
}

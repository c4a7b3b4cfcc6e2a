// Package config loads a federation peer's or a client's runtime settings
// through viper: a config file plus environment overrides, unmarshalled
// into a typed struct and validated before use.
package config

import "time"

// ServerConfig is one federation peer's process-level settings: its peer
// id, where to persist state, its transaction fee and its log level. It
// holds no addresses of other peers. The peer's BLS share and
// public key set are provisioned separately through a config-generation
// ceremony (see internal/server.GenParams) and are not loaded from this file.
type ServerConfig struct {
	PeerID     uint16 `mapstructure:"peer_id" toml:"peer_id"`
	DataDir    string `mapstructure:"data_dir" toml:"data_dir"`
	TxFeeMsat  uint64 `mapstructure:"tx_fee_msat" toml:"tx_fee_msat"`
	LogLevel   string `mapstructure:"log_level" toml:"log_level"`
	ConfigPath string `mapstructure:"-" toml:"-"`
}

// ClientConfig is one client process's local settings.
type ClientConfig struct {
	DataDir        string        `mapstructure:"data_dir" toml:"data_dir"`
	LogLevel       string        `mapstructure:"log_level" toml:"log_level"`
	OutcomeTimeout time.Duration `mapstructure:"outcome_timeout" toml:"outcome_timeout"`
	ConfigPath     string        `mapstructure:"-" toml:"-"`
}

// nostrPrivKeyEnv is the environment variable a peer process reads to
// confirm it is provisioned to sign, per spec.md §6.
const nostrPrivKeyEnv = "NOSTR_PRIVKEY"

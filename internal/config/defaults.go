package config

import "github.com/spf13/viper"

func setServerDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "./data/server")
	v.SetDefault("tx_fee_msat", 0)
	v.SetDefault("log_level", "info")
}

func setClientDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "./data/client")
	v.SetDefault("log_level", "info")
	v.SetDefault("outcome_timeout", "596h31m23.647s") // math.MaxInt32 milliseconds
}

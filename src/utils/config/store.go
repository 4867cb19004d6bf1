package config

import (
	"github.com/spf13/viper"
)

type Store struct {
	// Path of the device-local sqlite file.
	// Overrides and orchestration progress survive process restarts.
	Path string

	// Acting address the store is namespaced to
	Actor string
}

func setStoreDefaults() {
	viper.SetDefault("Store.Path", "pumasi.db")
	viper.SetDefault("Store.Actor", "")
}

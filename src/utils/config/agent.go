package config

import (
	"time"

	"github.com/spf13/viper"
)

type Agent struct {
	// How often expired overrides are swept from the local store
	JanitorInterval time.Duration

	// How often live overrides are checked against the indexer
	CatchUpInterval time.Duration

	// Number of workers resolving entities during catch-up
	NumWorkers int

	// Max number of jobs waiting in the worker queue
	WorkerQueueSize int
}

func setAgentDefaults() {
	viper.SetDefault("Agent.JanitorInterval", "5s")
	viper.SetDefault("Agent.CatchUpInterval", "3s")
	viper.SetDefault("Agent.NumWorkers", 5)
	viper.SetDefault("Agent.WorkerQueueSize", 10)
}

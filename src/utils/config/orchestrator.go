package config

import (
	"time"

	"github.com/spf13/viper"
)

type Orchestrator struct {
	// How long a confirmed transition is asserted locally before the
	// indexer is trusted again
	OverrideTTL time.Duration

	// Total window the indexer is re-queried after a confirmed call
	CatchUpWindow time.Duration

	// Interval between indexer re-queries inside the window
	CatchUpInterval time.Duration
}

func setOrchestratorDefaults() {
	viper.SetDefault("Orchestrator.OverrideTTL", "15s")
	viper.SetDefault("Orchestrator.CatchUpWindow", "15s")
	viper.SetDefault("Orchestrator.CatchUpInterval", "3s")
}

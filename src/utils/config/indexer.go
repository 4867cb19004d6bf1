package config

import (
	"time"

	"github.com/spf13/viper"
)

type Indexer struct {
	// GraphQL endpoint of the subgraph that projects ledger events
	Url string

	// How long does it wait for the query response
	RequestTimeout time.Duration

	// Default page size for list queries
	PageLimit int

	// Max queries per second towards the indexer
	RateLimit float64

	// Burst size for the rate limiter
	RateBurst int
}

func setIndexerDefaults() {
	viper.SetDefault("Indexer.Url", "https://graph.verylabs.io/subgraphs/name/pumasi")
	viper.SetDefault("Indexer.RequestTimeout", "15s")
	viper.SetDefault("Indexer.PageLimit", 25)
	viper.SetDefault("Indexer.RateLimit", 10)
	viper.SetDefault("Indexer.RateBurst", 5)
}

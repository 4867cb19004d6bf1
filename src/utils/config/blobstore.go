package config

import (
	"time"

	"github.com/spf13/viper"
)

type BlobStore struct {
	// HTTP gateway resolving content-addressed refs
	GatewayUrl string

	// Endpoint accepting uploads of JSON documents
	UploadUrl string

	// Blob reads must fail fast rather than hang the entity transform
	RequestTimeout time.Duration

	// Resolved documents are immutable, the cache only bounds memory
	CacheTTL             time.Duration
	CacheCleanupInterval time.Duration
}

func setBlobStoreDefaults() {
	viper.SetDefault("BlobStore.GatewayUrl", "https://ipfs.io/ipfs")
	viper.SetDefault("BlobStore.UploadUrl", "https://ipfs.verylabs.io/api/v0/add")
	viper.SetDefault("BlobStore.RequestTimeout", "5s")
	viper.SetDefault("BlobStore.CacheTTL", "10m")
	viper.SetDefault("BlobStore.CacheCleanupInterval", "15m")
}

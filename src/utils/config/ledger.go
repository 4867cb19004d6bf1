package config

import (
	"time"

	"github.com/spf13/viper"
)

type Ledger struct {
	// JSON-RPC endpoint of the chain node
	RpcUrl string

	// Deployed contract addresses
	JobFactoryAddress          string
	ApplicationRegistryAddress string
	ArbitrationAddress         string

	// Hex-encoded private key used for signing write calls.
	// Writes fail fast when empty
	PrivateKey string

	// Chain id used for signing
	ChainId int64

	// How long a single RPC call may take
	RequestTimeout time.Duration

	// How often the receipt of a submitted call is polled
	ConfirmInterval time.Duration

	// Max time to wait for a submitted call to be accepted by the network.
	// After this the call is reported as failed even though it may still land.
	ConfirmTimeout time.Duration
}

func setLedgerDefaults() {
	viper.SetDefault("Ledger.RpcUrl", "https://rpc.verylabs.io")
	viper.SetDefault("Ledger.JobFactoryAddress", "0x0000000000000000000000000000000000000000")
	viper.SetDefault("Ledger.ApplicationRegistryAddress", "0x0000000000000000000000000000000000000000")
	viper.SetDefault("Ledger.ArbitrationAddress", "0x0000000000000000000000000000000000000000")
	viper.SetDefault("Ledger.PrivateKey", "")
	viper.SetDefault("Ledger.ChainId", 4613)
	viper.SetDefault("Ledger.RequestTimeout", "30s")
	viper.SetDefault("Ledger.ConfirmInterval", "1s")
	viper.SetDefault("Ledger.ConfirmTimeout", "60s")
}

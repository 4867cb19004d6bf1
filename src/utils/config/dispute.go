package config

import (
	"github.com/spf13/viper"
)

type Dispute struct {
	// Bounds checked before any ledger call is wasted
	EvidenceMinLength  int
	EvidenceMaxLength  int
	RationaleMinLength int
	RationaleMaxLength int
}

func setDisputeDefaults() {
	viper.SetDefault("Dispute.EvidenceMinLength", 20)
	viper.SetDefault("Dispute.EvidenceMaxLength", 5000)
	viper.SetDefault("Dispute.RationaleMinLength", 20)
	viper.SetDefault("Dispute.RationaleMaxLength", 2000)
}

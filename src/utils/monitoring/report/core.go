package report

import (
	"go.uber.org/atomic"
)

type CoreErrors struct {
	IndexerQuery   atomic.Uint64 `json:"indexer_query"`
	BlobFetch      atomic.Uint64 `json:"blob_fetch"`
	LedgerCall     atomic.Uint64 `json:"ledger_call"`
	StoreWrite     atomic.Uint64 `json:"store_write"`
	ConfirmTimeout atomic.Uint64 `json:"confirm_timeout"`
}

type CoreState struct {
	JobsLoaded           atomic.Uint64 `json:"jobs_loaded"`
	DegradedLoads        atomic.Uint64 `json:"degraded_loads"`
	HiresCompleted       atomic.Uint64 `json:"hires_completed"`
	RepairsRun           atomic.Uint64 `json:"repairs_run"`
	OverridesSet         atomic.Uint64 `json:"overrides_set"`
	OverridesCaughtUp    atomic.Uint64 `json:"overrides_caught_up"`
	OverridesExpired     atomic.Uint64 `json:"overrides_expired"`
	LastCatchUpTimestamp atomic.Int64  `json:"last_catch_up_timestamp"`
}

type CoreReport struct {
	State  CoreState  `json:"state"`
	Errors CoreErrors `json:"errors"`
}

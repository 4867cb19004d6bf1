package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusOrdering(t *testing.T) {
	assert.True(t, JobStatusOpen.IsBefore(JobStatusInProgress))
	assert.True(t, JobStatusInProgress.IsBefore(JobStatusDelivered))
	assert.True(t, JobStatusDelivered.IsBefore(JobStatusCompleted))

	// Side branches never count as regressions from their fork point
	assert.Equal(t, JobStatusInProgress.Rank(), JobStatusCancelled.Rank())
	assert.Equal(t, JobStatusDelivered.Rank(), JobStatusDisputed.Rank())
	assert.False(t, JobStatusDisputed.IsBefore(JobStatusDelivered))
}

func TestParseIndexerSpellings(t *testing.T) {
	assert.Equal(t, JobStatusInProgress, ParseJobStatus("InProgress"))
	assert.Equal(t, JobStatusOpen, ParseJobStatus("bogus"))

	assert.Equal(t, ApplicationStatusAccepted, ParseApplicationStatus("Accepted"))
	assert.Equal(t, ApplicationStatusPending, ParseApplicationStatus(""))

	assert.Equal(t, DisputeStatusVoting, ParseDisputeStatus("VotingPhase"))
}

func TestLedgerStatusCodes(t *testing.T) {
	assert.Equal(t, JobStatusOpen, JobStatusFromLedger(0))
	assert.Equal(t, JobStatusCancelled, JobStatusFromLedger(5))
	assert.Equal(t, JobStatusOpen, JobStatusFromLedger(200))
}

func TestAddressSet(t *testing.T) {
	assert.False(t, AddressSet(""))
	assert.False(t, AddressSet("0x0000000000000000000000000000000000000000"))
	assert.True(t, AddressSet("0xf1"))
}

func TestTerminalApplicationStatuses(t *testing.T) {
	assert.True(t, ApplicationStatusAccepted.IsTerminal())
	assert.True(t, ApplicationStatusRejected.IsTerminal())
	assert.False(t, ApplicationStatusPending.IsTerminal())
}

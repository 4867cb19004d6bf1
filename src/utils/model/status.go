package model

// Job lifecycle on the ledger. The raw value advances strictly forward
// through open -> in_progress -> delivered -> completed. Disputed branches
// off in_progress or delivered, cancelled only off open.
type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusDelivered  JobStatus = "delivered"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusDisputed   JobStatus = "disputed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Position in the canonical ordering. Side branches share the rank of the
// earliest state they are reachable from, so they never count as a regression.
var jobStatusRank = map[JobStatus]int{
	JobStatusOpen:       0,
	JobStatusCancelled:  1,
	JobStatusInProgress: 1,
	JobStatusDisputed:   2,
	JobStatusDelivered:  2,
	JobStatusCompleted:  3,
}

func (self JobStatus) Rank() int {
	return jobStatusRank[self]
}

// IsBefore reports whether self is strictly earlier than other in the
// canonical ordering
func (self JobStatus) IsBefore(other JobStatus) bool {
	return self.Rank() < other.Rank()
}

// The indexer spells statuses as enum variants
var jobStatusFromIndexer = map[string]JobStatus{
	"Open":       JobStatusOpen,
	"InProgress": JobStatusInProgress,
	"Delivered":  JobStatusDelivered,
	"Completed":  JobStatusCompleted,
	"Disputed":   JobStatusDisputed,
	"Cancelled":  JobStatusCancelled,
}

func ParseJobStatus(s string) JobStatus {
	status, ok := jobStatusFromIndexer[s]
	if !ok {
		return JobStatusOpen
	}
	return status
}

// The ledger read returns the status as a numeric enum
var jobStatusFromLedger = []JobStatus{
	JobStatusOpen,
	JobStatusInProgress,
	JobStatusDelivered,
	JobStatusCompleted,
	JobStatusDisputed,
	JobStatusCancelled,
}

func JobStatusFromLedger(v uint8) JobStatus {
	if int(v) >= len(jobStatusFromLedger) {
		return JobStatusOpen
	}
	return jobStatusFromLedger[v]
}

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Accepted and rejected are terminal on the ledger, they never revert to pending
func (self ApplicationStatus) IsTerminal() bool {
	return self == ApplicationStatusAccepted || self == ApplicationStatusRejected
}

var applicationStatusFromIndexer = map[string]ApplicationStatus{
	"Pending":  ApplicationStatusPending,
	"Accepted": ApplicationStatusAccepted,
	"Rejected": ApplicationStatusRejected,
}

func ParseApplicationStatus(s string) ApplicationStatus {
	status, ok := applicationStatusFromIndexer[s]
	if !ok {
		return ApplicationStatusPending
	}
	return status
}

type MilestoneStatus string

const (
	MilestoneStatusPending    MilestoneStatus = "pending"
	MilestoneStatusInProgress MilestoneStatus = "in_progress"
	MilestoneStatusDelivered  MilestoneStatus = "delivered"
	MilestoneStatusApproved   MilestoneStatus = "approved"
)

type DisputeStatus string

const (
	DisputeStatusEvidence DisputeStatus = "evidence"
	DisputeStatusVoting   DisputeStatus = "voting"
	DisputeStatusResolved DisputeStatus = "resolved"
)

var disputeStatusFromIndexer = map[string]DisputeStatus{
	"EvidencePhase": DisputeStatusEvidence,
	"VotingPhase":   DisputeStatusVoting,
	"Resolved":      DisputeStatusResolved,
}

func ParseDisputeStatus(s string) DisputeStatus {
	status, ok := disputeStatusFromIndexer[s]
	if !ok {
		return DisputeStatusEvidence
	}
	return status
}

type Resolution string

const (
	ResolutionFullToClient     Resolution = "full_to_client"
	ResolutionFullToFreelancer Resolution = "full_to_freelancer"
	ResolutionSplit            Resolution = "split"
)

package model

import (
	"strings"
	"time"
)

// Job is the merged view of a posting: chain state joined with the
// content-addressed metadata blob
type Job struct {
	Id     string
	Client string

	// Assigned freelancer, empty until the hire lands on chain
	Freelancer string

	// RawStatus is what the backends reported, Status is the effective
	// one after reconciliation
	RawStatus JobStatus
	Status    JobStatus

	Title       string
	Description string
	Category    string
	Skills      []string
	Budget      string
	Deadline    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	MetadataRef string

	// True when the metadata blob could not be fetched and placeholder
	// fields were substituted
	Degraded bool

	Milestones   []Milestone
	Applications []Application
}

// HasFreelancer reports whether a freelancer has been assigned on chain
func (self *Job) HasFreelancer() bool {
	return AddressSet(self.Freelancer)
}

const zeroAddress = "0x0000000000000000000000000000000000000000"

// AddressSet reports whether addr is a real address, not empty and not
// the zero sentinel unassigned slots carry on chain
func AddressSet(addr string) bool {
	return addr != "" && addr != zeroAddress
}

// SameAddress compares two addresses ignoring case. The indexer reports
// lowercase addresses while ledger reads come back checksummed, so a
// byte comparison across sources misclassifies parties.
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

type Milestone struct {
	Index  int
	Amount string
	Status MilestoneStatus
}

type User struct {
	Address         string
	Name            string
	Bio             string
	Skills          []string
	IsArbitrator    bool
	ArbitratorStake string
	CompletedJobs   int
	AverageRating   string
	ProfileRef      string
	JoinedAt        time.Time
	Degraded        bool
}

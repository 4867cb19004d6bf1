package model

import "time"

type Application struct {
	Id         string
	JobId      string
	Freelancer string

	// RawStatus is the ledger-confirmed status, Status the effective one
	RawStatus ApplicationStatus
	Status    ApplicationStatus

	// Hidden marks a local-only rejection. Display filter, the effective
	// status is computed as if the application were visible.
	Hidden bool

	CoverLetter      string
	ProposedTimeline string
	PortfolioLinks   []string
	SubmittedAt      time.Time
	ProposalRef      string
	Degraded         bool
}

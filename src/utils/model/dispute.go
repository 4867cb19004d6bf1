package model

import "time"

type Dispute struct {
	Id                 string
	JobId              string
	Client             string
	Freelancer         string
	Raiser             string
	Status             DisputeStatus
	Resolution         Resolution
	ClientEvidence     *Evidence
	FreelancerEvidence *Evidence
	EvidenceDeadline   time.Time
	VoteDeadline       time.Time
	CreatedAt          time.Time
	ResolvedAt         time.Time
	Votes              []Vote
}

// HasEvidenceFrom reports whether party already submitted evidence.
// Only the job's client and freelancer are parties to a dispute.
func (self *Dispute) HasEvidenceFrom(party string) bool {
	switch {
	case SameAddress(party, self.Client):
		return self.ClientEvidence != nil
	case SameAddress(party, self.Freelancer):
		return self.FreelancerEvidence != nil
	}
	return false
}

// HasVoteFrom reports whether arbitrator already cast a vote
func (self *Dispute) HasVoteFrom(arbitrator string) bool {
	for _, vote := range self.Votes {
		if SameAddress(vote.Arbitrator, arbitrator) {
			return true
		}
	}
	return false
}

type Evidence struct {
	Submitter   string
	Description string
	EvidenceRef string
	Degraded    bool
}

type Vote struct {
	Arbitrator   string
	Decision     Resolution
	Rationale    string
	RationaleRef string
	CastAt       time.Time
}

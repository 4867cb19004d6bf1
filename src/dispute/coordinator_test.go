package dispute

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pumasi/core/src/utils/config"
	"github.com/pumasi/core/src/utils/eth"
	"github.com/pumasi/core/src/utils/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type fakeLedger struct {
	raised   int
	evidence int
	votes    int
}

func (self *fakeLedger) RaiseDispute(ctx context.Context, jobId string, reasonRef string) (eth.TxHandle, error) {
	self.raised++
	return eth.TxHandle{}, nil
}

func (self *fakeLedger) SubmitEvidence(ctx context.Context, disputeId string, evidenceRef string) (eth.TxHandle, error) {
	self.evidence++
	return eth.TxHandle{}, nil
}

func (self *fakeLedger) CastVote(ctx context.Context, disputeId string, decision model.Resolution, rationaleRef string) (eth.TxHandle, error) {
	self.votes++
	return eth.TxHandle{}, nil
}

func (self *fakeLedger) WaitConfirmed(ctx context.Context, handle eth.TxHandle) error {
	return nil
}

type fakeDisputes struct {
	dispute *model.Dispute
}

func (self *fakeDisputes) GetDispute(ctx context.Context, jobId string) (*model.Dispute, error) {
	return self.dispute, nil
}

type fakeBlobs struct {
	uploads int
}

func (self *fakeBlobs) PutJSON(ctx context.Context, v any) (string, error) {
	self.uploads++
	return "ipfs://uploaded", nil
}

func TestCoordinatorTestSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorTestSuite))
}

type CoordinatorTestSuite struct {
	suite.Suite
	config      *config.Config
	ledger      *fakeLedger
	disputes    *fakeDisputes
	blobs       *fakeBlobs
	coordinator *Coordinator
}

func (s *CoordinatorTestSuite) SetupTest() {
	s.config = config.Default()
	s.ledger = &fakeLedger{}
	s.disputes = &fakeDisputes{}
	s.blobs = &fakeBlobs{}
	s.coordinator = NewCoordinator(s.config, s.ledger, s.disputes, s.blobs)
}

func (s *CoordinatorTestSuite) evidencePhaseDispute() *model.Dispute {
	return &model.Dispute{
		Id:               "d1",
		JobId:            "1",
		Client:           "0xc1",
		Freelancer:       "0xf1",
		Raiser:           "0xc1",
		Status:           model.DisputeStatusEvidence,
		EvidenceDeadline: time.Now().Add(6 * 24 * time.Hour),
		VoteDeadline:     time.Now().Add(9 * 24 * time.Hour),
	}
}

const validText = "The deliverable does not match the milestones we agreed on."

func (s *CoordinatorTestSuite) TestRaise() {
	err := s.coordinator.Raise(context.Background(), "1", "0xc1", validText)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, s.ledger.raised)
	assert.Equal(s.T(), 1, s.blobs.uploads)
}

func (s *CoordinatorTestSuite) TestRaiseRejectsSecondDispute() {
	s.disputes.dispute = s.evidencePhaseDispute()

	err := s.coordinator.Raise(context.Background(), "1", "0xc1", validText)
	assert.ErrorIs(s.T(), err, ErrDisputeExists)
	assert.Zero(s.T(), s.ledger.raised)
}

func (s *CoordinatorTestSuite) TestEvidenceGuards() {
	s.disputes.dispute = s.evidencePhaseDispute()

	// Happy path for a party
	err := s.coordinator.SubmitEvidence(context.Background(), "1", "0xc1", validText, nil)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, s.ledger.evidence)

	// Outsiders are rejected before anything is uploaded
	err = s.coordinator.SubmitEvidence(context.Background(), "1", "0xeve", validText, nil)
	assert.ErrorIs(s.T(), err, ErrNotParty)

	// Same party twice
	s.disputes.dispute.ClientEvidence = &model.Evidence{Submitter: "0xc1"}
	err = s.coordinator.SubmitEvidence(context.Background(), "1", "0xc1", validText, nil)
	assert.ErrorIs(s.T(), err, ErrAlreadySubmitted)

	// The other party still may
	err = s.coordinator.SubmitEvidence(context.Background(), "1", "0xf1", validText, nil)
	assert.NoError(s.T(), err)
}

func (s *CoordinatorTestSuite) TestEvidenceDeadline() {
	s.disputes.dispute = s.evidencePhaseDispute()
	s.disputes.dispute.EvidenceDeadline = time.Now().Add(-time.Second)

	err := s.coordinator.SubmitEvidence(context.Background(), "1", "0xc1", validText, nil)
	assert.ErrorIs(s.T(), err, ErrDeadlineExceeded)
	assert.Zero(s.T(), s.ledger.evidence)
}

func (s *CoordinatorTestSuite) TestEvidenceWrongPhase() {
	s.disputes.dispute = s.evidencePhaseDispute()
	s.disputes.dispute.Status = model.DisputeStatusVoting

	err := s.coordinator.SubmitEvidence(context.Background(), "1", "0xc1", validText, nil)
	assert.ErrorIs(s.T(), err, ErrWrongPhase)
}

func (s *CoordinatorTestSuite) TestEvidenceLengthBounds() {
	s.disputes.dispute = s.evidencePhaseDispute()

	err := s.coordinator.SubmitEvidence(context.Background(), "1", "0xc1", "too short", nil)
	assert.Error(s.T(), err)

	long := strings.Repeat("x", s.config.Dispute.EvidenceMaxLength+1)
	err = s.coordinator.SubmitEvidence(context.Background(), "1", "0xc1", long, nil)
	assert.Error(s.T(), err)

	assert.Zero(s.T(), s.ledger.evidence)
}

func (s *CoordinatorTestSuite) TestVoteGuards() {
	s.disputes.dispute = s.evidencePhaseDispute()
	s.disputes.dispute.Status = model.DisputeStatusVoting

	err := s.coordinator.CastVote(context.Background(), "1", "0xa1", model.ResolutionSplit, validText)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, s.ledger.votes)

	// One arbitrator, one vote
	s.disputes.dispute.Votes = []model.Vote{{Arbitrator: "0xa1", Decision: model.ResolutionSplit}}
	err = s.coordinator.CastVote(context.Background(), "1", "0xa1", model.ResolutionFullToClient, validText)
	assert.ErrorIs(s.T(), err, ErrAlreadyVoted)

	// Voting needs the voting phase
	s.disputes.dispute.Status = model.DisputeStatusEvidence
	err = s.coordinator.CastVote(context.Background(), "1", "0xa2", model.ResolutionSplit, validText)
	assert.ErrorIs(s.T(), err, ErrWrongPhase)

	// Resolved is terminal
	s.disputes.dispute.Status = model.DisputeStatusResolved
	err = s.coordinator.CastVote(context.Background(), "1", "0xa2", model.ResolutionSplit, validText)
	assert.ErrorIs(s.T(), err, ErrResolved)
}

func (s *CoordinatorTestSuite) TestVoteDeadline() {
	s.disputes.dispute = s.evidencePhaseDispute()
	s.disputes.dispute.Status = model.DisputeStatusVoting
	s.disputes.dispute.VoteDeadline = time.Now().Add(-time.Second)

	err := s.coordinator.CastVote(context.Background(), "1", "0xa1", model.ResolutionSplit, validText)
	assert.ErrorIs(s.T(), err, ErrDeadlineExceeded)
	assert.Zero(s.T(), s.ledger.votes)
}

func (s *CoordinatorTestSuite) TestVoteValidation() {
	s.disputes.dispute = s.evidencePhaseDispute()
	s.disputes.dispute.Status = model.DisputeStatusVoting

	// No decision
	err := s.coordinator.CastVote(context.Background(), "1", "0xa1", "", validText)
	assert.Error(s.T(), err)

	// Rationale too short
	err = s.coordinator.CastVote(context.Background(), "1", "0xa1", model.ResolutionSplit, "lgtm")
	assert.Error(s.T(), err)

	assert.Zero(s.T(), s.ledger.votes)
}

func (s *CoordinatorTestSuite) TestEvidencePartyAddressCase() {
	s.disputes.dispute = s.evidencePhaseDispute()

	// Wallets report checksummed addresses, the dispute record holds
	// lowercase ones
	err := s.coordinator.SubmitEvidence(context.Background(), "1", "0xC1", validText, nil)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, s.ledger.evidence)
}

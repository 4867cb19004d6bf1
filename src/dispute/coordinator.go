package dispute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pumasi/core/src/utils/blob"
	"github.com/pumasi/core/src/utils/config"
	"github.com/pumasi/core/src/utils/eth"
	"github.com/pumasi/core/src/utils/logger"
	"github.com/pumasi/core/src/utils/model"

	"github.com/sirupsen/logrus"
)

// Guard failures, checked client-side before any ledger call goes out
var (
	ErrWrongPhase       = errors.New("dispute is not in the required phase")
	ErrDeadlineExceeded = errors.New("the deadline for this action has passed")
	ErrAlreadySubmitted = errors.New("evidence was already submitted by this party")
	ErrAlreadyVoted     = errors.New("this arbitrator has already voted")
	ErrNotParty         = errors.New("only the job client or freelancer may do this")
	ErrResolved         = errors.New("dispute is already resolved")
	ErrDisputeExists    = errors.New("job already has a dispute")
)

// Ledger is the arbitration write surface
type Ledger interface {
	RaiseDispute(ctx context.Context, jobId string, reasonRef string) (eth.TxHandle, error)
	SubmitEvidence(ctx context.Context, disputeId string, evidenceRef string) (eth.TxHandle, error)
	CastVote(ctx context.Context, disputeId string, decision model.Resolution, rationaleRef string) (eth.TxHandle, error)
	WaitConfirmed(ctx context.Context, handle eth.TxHandle) error
}

// DisputeSource provides the current dispute view for guard checks
type DisputeSource interface {
	GetDispute(ctx context.Context, jobId string) (*model.Dispute, error)
}

// BlobWriter uploads evidence and rationale payloads
type BlobWriter interface {
	PutJSON(ctx context.Context, v any) (string, error)
}

// Coordinator enforces the dispute state machine before anything is
// sent to the arbitration contract. Raise, evidence and vote all follow
// the pending/confirmed/failed ledger lifecycle, there is no local
// fallback for any of them.
type Coordinator struct {
	config   *config.Config
	log      *logrus.Entry
	ledger   Ledger
	disputes DisputeSource
	blob     BlobWriter
}

func NewCoordinator(config *config.Config, ledger Ledger, disputes DisputeSource, blobWriter BlobWriter) (self *Coordinator) {
	self = new(Coordinator)
	self.config = config
	self.log = logger.NewSublogger("dispute")
	self.ledger = ledger
	self.disputes = disputes
	self.blob = blobWriter
	return
}

// Raise opens a dispute over a job. One dispute per job.
func (self *Coordinator) Raise(ctx context.Context, jobId, raiser, reason string) (err error) {
	err = self.validateEvidenceText(reason)
	if err != nil {
		return
	}

	existing, err := self.disputes.GetDispute(ctx, jobId)
	if err != nil {
		return
	}
	if existing != nil {
		return ErrDisputeExists
	}

	ref, err := self.blob.PutJSON(ctx, blob.EvidenceMetadata{Description: reason})
	if err != nil {
		return fmt.Errorf("uploading dispute reason: %w", err)
	}

	handle, err := self.ledger.RaiseDispute(ctx, jobId, ref)
	if err != nil {
		if eth.IsUserCancellation(err) {
			return nil
		}
		return fmt.Errorf("raising dispute failed: %s", eth.Describe(err))
	}

	err = self.ledger.WaitConfirmed(ctx, handle)
	if err != nil {
		return fmt.Errorf("dispute not confirmed: %s", eth.Describe(err))
	}

	self.log.WithField("job_id", jobId).WithField("raiser", raiser).Info("Dispute raised")
	return nil
}

// SubmitEvidence files one party's evidence. Allowed once per party,
// only during the evidence phase and before the evidence deadline.
func (self *Coordinator) SubmitEvidence(ctx context.Context, jobId, party, description string, attachments []string) (err error) {
	err = self.validateEvidenceText(description)
	if err != nil {
		return
	}

	dispute, err := self.requireDispute(ctx, jobId)
	if err != nil {
		return
	}

	if dispute.Status == model.DisputeStatusResolved {
		return ErrResolved
	}
	if dispute.Status != model.DisputeStatusEvidence {
		return ErrWrongPhase
	}
	if !time.Now().Before(dispute.EvidenceDeadline) {
		return ErrDeadlineExceeded
	}
	if !model.SameAddress(party, dispute.Client) && !model.SameAddress(party, dispute.Freelancer) {
		return ErrNotParty
	}
	if dispute.HasEvidenceFrom(party) {
		return ErrAlreadySubmitted
	}

	ref, err := self.blob.PutJSON(ctx, blob.EvidenceMetadata{Description: description, Attachments: attachments})
	if err != nil {
		return fmt.Errorf("uploading evidence: %w", err)
	}

	handle, err := self.ledger.SubmitEvidence(ctx, dispute.Id, ref)
	if err != nil {
		if eth.IsUserCancellation(err) {
			return nil
		}
		return fmt.Errorf("submitting evidence failed: %s", eth.Describe(err))
	}

	err = self.ledger.WaitConfirmed(ctx, handle)
	if err != nil {
		return fmt.Errorf("evidence not confirmed: %s", eth.Describe(err))
	}

	self.log.WithField("dispute_id", dispute.Id).WithField("party", party).Info("Evidence submitted")
	return nil
}

// CastVote records one arbitrator's decision. Allowed once per
// arbitrator, only during the voting phase and before the vote deadline.
// A vote without a decision or without a rationale of the required
// length never leaves the client.
func (self *Coordinator) CastVote(ctx context.Context, jobId, arbitrator string, decision model.Resolution, rationale string) (err error) {
	err = self.validateVote(decision, rationale)
	if err != nil {
		return
	}

	dispute, err := self.requireDispute(ctx, jobId)
	if err != nil {
		return
	}

	if dispute.Status == model.DisputeStatusResolved {
		return ErrResolved
	}
	if dispute.Status != model.DisputeStatusVoting {
		return ErrWrongPhase
	}
	if !time.Now().Before(dispute.VoteDeadline) {
		return ErrDeadlineExceeded
	}
	if dispute.HasVoteFrom(arbitrator) {
		return ErrAlreadyVoted
	}

	ref, err := self.blob.PutJSON(ctx, blob.RationaleMetadata{Rationale: rationale})
	if err != nil {
		return fmt.Errorf("uploading rationale: %w", err)
	}

	handle, err := self.ledger.CastVote(ctx, dispute.Id, decision, ref)
	if err != nil {
		if eth.IsUserCancellation(err) {
			return nil
		}
		return fmt.Errorf("casting vote failed: %s", eth.Describe(err))
	}

	err = self.ledger.WaitConfirmed(ctx, handle)
	if err != nil {
		return fmt.Errorf("vote not confirmed: %s", eth.Describe(err))
	}

	self.log.WithField("dispute_id", dispute.Id).WithField("arbitrator", arbitrator).Info("Vote cast")
	return nil
}

func (self *Coordinator) requireDispute(ctx context.Context, jobId string) (out *model.Dispute, err error) {
	out, err = self.disputes.GetDispute(ctx, jobId)
	if err != nil {
		return
	}
	if out == nil {
		err = fmt.Errorf("no dispute for job %s", jobId)
	}
	return
}

package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pumasi/core/src/reconcile"
	"github.com/pumasi/core/src/utils/eth"
	"github.com/pumasi/core/src/utils/model"

	"github.com/rs/xid"
)

// ErrNothingToRepair means the job is not in the half-hired state
var ErrNothingToRepair = errors.New("job does not need assignment")

// Hire runs the two-call hire workflow: accept the application, wait for
// the acceptance to land, then assign the freelancer on the job. The
// second call is only sent after the first one's receipt, the ledger
// rejects an assignment for an unaccepted application.
//
// The signer declining the request in their wallet resets the workflow
// silently, that is a change of mind and not a failure. Any other
// failure also resets to idle but surfaces its message.
//
// A crash or failure between the two calls leaves the persisted
// operation at the assigning step; Resume and the repair path converge
// the job to the same end state as an uninterrupted hire.
func (self *Orchestrator) Hire(ctx context.Context, jobId, applicationId, freelancer string, onStep StepFunc) (err error) {
	operation := model.Operation{
		Id:            xid.New().String(),
		Kind:          model.OperationKindHire,
		Step:          model.OperationStepAccepting,
		JobId:         jobId,
		ApplicationId: applicationId,
		Freelancer:    freelancer,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	err = self.db.Create(&operation).Error
	if err != nil {
		return
	}

	self.step(onStep, model.OperationStepAccepting)

	handle, err := self.ledger.AcceptApplication(ctx, applicationId)
	if err != nil {
		// Nothing landed on chain, the operation never started
		self.discard(&operation)
		if eth.IsUserCancellation(err) {
			self.log.WithField("job_id", jobId).Debug("Hire cancelled by user")
			return nil
		}
		self.report.Errors.LedgerCall.Inc()
		return fmt.Errorf("accepting application failed: %s", eth.Describe(err))
	}

	err = self.waitStep(ctx, &operation, handle, model.OperationStepAssigning)
	if err != nil {
		return
	}

	self.step(onStep, model.OperationStepAssigning)

	assigned, err := self.assignStep(ctx, &operation, jobId, freelancer)
	if err != nil || !assigned {
		return
	}

	self.step(onStep, model.OperationStepDone)
	self.finish(&operation, jobId)
	return nil
}

// Assign is the standalone repair call for a job whose acceptance landed
// but whose assignment did not. Idempotent, gated on the job actually
// being in the half-hired state.
func (self *Orchestrator) Assign(ctx context.Context, jobId string) (err error) {
	job, err := self.jobs.GetJob(ctx, jobId)
	if err != nil {
		return
	}
	if job == nil {
		return fmt.Errorf("unknown job: %s", jobId)
	}

	freelancer, applicationId, needed := reconcile.NeedsAssignment(job.RawStatus, job.HasFreelancer(), job.Applications)
	if !needed {
		return ErrNothingToRepair
	}
	self.report.State.RepairsRun.Inc()

	operation := model.Operation{
		Id:            xid.New().String(),
		Kind:          model.OperationKindHire,
		Step:          model.OperationStepAssigning,
		JobId:         jobId,
		ApplicationId: applicationId,
		Freelancer:    freelancer,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	err = self.db.Create(&operation).Error
	if err != nil {
		return
	}

	assigned, err := self.assignStep(ctx, &operation, jobId, freelancer)
	if err != nil || !assigned {
		return
	}

	self.finish(&operation, jobId)
	return nil
}

// assignStep sends the assignment call and waits for its receipt. On
// failure or user cancellation the operation stays persisted at the
// assigning step, Resume or a later repair picks it up.
func (self *Orchestrator) assignStep(ctx context.Context, operation *model.Operation, jobId, freelancer string) (assigned bool, err error) {
	handle, err := self.ledger.AssignFreelancer(ctx, jobId, freelancer)
	if err != nil {
		if eth.IsUserCancellation(err) {
			self.log.WithField("job_id", jobId).Debug("Assignment cancelled by user, repair pending")
			err = nil
			return
		}
		self.report.Errors.LedgerCall.Inc()
		err = fmt.Errorf("assigning freelancer failed: %s", eth.Describe(err))
		return
	}

	err = self.waitStep(ctx, operation, handle, model.OperationStepDone)
	if err != nil {
		return
	}
	assigned = true
	return
}

// waitStep blocks on the receipt of handle, then advances the persisted
// operation to next
func (self *Orchestrator) waitStep(ctx context.Context, operation *model.Operation, handle eth.TxHandle, next string) (err error) {
	err = self.ledger.WaitConfirmed(ctx, handle)
	if err != nil {
		self.countConfirmFailure(err)
		return fmt.Errorf("waiting for confirmation of %s: %s", operation.Step, eth.Describe(err))
	}

	operation.Step = next
	operation.TxHash = handle.String()
	operation.UpdatedAt = time.Now()
	saveErr := self.db.Save(operation).Error
	if saveErr != nil {
		self.log.WithError(saveErr).WithField("operation", operation.Id).Warn("Cannot persist operation progress")
	}
	return nil
}

// finish clears the operation record, sets the optimistic override and
// signals the status change
func (self *Orchestrator) finish(operation *model.Operation, jobId string) {
	self.discard(operation)

	err := self.store.SetOverride(jobId, model.JobStatusInProgress)
	if err != nil {
		self.log.WithError(err).WithField("job_id", jobId).Warn("Cannot set optimistic override")
		self.report.Errors.StoreWrite.Inc()
	} else {
		self.report.State.OverridesSet.Inc()
	}

	self.report.State.HiresCompleted.Inc()
	self.emit("job", jobId, operation.ApplicationId, string(model.JobStatusInProgress), "hire")
	self.log.WithField("job_id", jobId).WithField("freelancer", operation.Freelancer).Info("Hire complete")
}

func (self *Orchestrator) discard(operation *model.Operation) {
	err := self.db.Delete(&model.Operation{}, "id = ?", operation.Id).Error
	if err != nil {
		self.log.WithError(err).WithField("operation", operation.Id).Warn("Cannot delete operation record")
	}
}

func (self *Orchestrator) step(onStep StepFunc, step string) {
	if onStep != nil {
		onStep(step)
	}
}

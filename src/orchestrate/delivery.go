package orchestrate

import (
	"context"
	"fmt"
	"time"

	"github.com/pumasi/core/src/utils/eth"
	"github.com/pumasi/core/src/utils/model"
)

// SubmitDeliverable marks the work as delivered. On confirmation the job
// gets a bounded optimistic override so the change shows immediately,
// while the indexer catches up in the background.
func (self *Orchestrator) SubmitDeliverable(ctx context.Context, jobId, deliverableRef string) (err error) {
	return self.singleCall(ctx, jobId, model.JobStatusDelivered, "deliver", func() (eth.TxHandle, error) {
		return self.ledger.SubmitDeliverable(ctx, jobId, deliverableRef)
	})
}

// ApproveDelivery releases the escrow and completes the job
func (self *Orchestrator) ApproveDelivery(ctx context.Context, jobId string) (err error) {
	return self.singleCall(ctx, jobId, model.JobStatusCompleted, "approve", func() (eth.TxHandle, error) {
		return self.ledger.ApproveDelivery(ctx, jobId)
	})
}

func (self *Orchestrator) singleCall(ctx context.Context, jobId string, optimistic model.JobStatus, source string, call func() (eth.TxHandle, error)) (err error) {
	handle, err := call()
	if err != nil {
		if eth.IsUserCancellation(err) {
			self.log.WithField("job_id", jobId).Debug("Call cancelled by user")
			return nil
		}
		self.report.Errors.LedgerCall.Inc()
		return fmt.Errorf("%s failed: %s", source, eth.Describe(err))
	}

	err = self.ledger.WaitConfirmed(ctx, handle)
	if err != nil {
		self.countConfirmFailure(err)
		return fmt.Errorf("%s not confirmed: %s", source, eth.Describe(err))
	}

	err = self.store.SetOverride(jobId, optimistic)
	if err != nil {
		self.log.WithError(err).WithField("job_id", jobId).Warn("Cannot set optimistic override")
		self.report.Errors.StoreWrite.Inc()
	} else {
		self.report.State.OverridesSet.Inc()
	}

	self.emit("job", jobId, "", string(optimistic), source)

	go self.catchUp(jobId, optimistic)
	return nil
}

// catchUp polls the indexer until its raw status reaches the optimistic
// one, then drops the override. Bounded by the configured window, on
// window end the override is dropped regardless and the view falls back
// to whatever the backends report.
func (self *Orchestrator) catchUp(jobId string, optimistic model.JobStatus) {
	ctx, cancel := context.WithTimeout(context.Background(), self.config.Orchestrator.CatchUpWindow)
	defer cancel()

	ticker := time.NewTicker(self.config.Orchestrator.CatchUpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			err := self.store.ClearOverride(jobId)
			if err != nil {
				self.log.WithError(err).WithField("job_id", jobId).Warn("Cannot clear override")
			}
			return
		case <-ticker.C:
		}

		job, err := self.jobs.GetJob(ctx, jobId)
		if err != nil || job == nil {
			continue
		}

		if !job.RawStatus.IsBefore(optimistic) {
			err = self.store.ClearOverride(jobId)
			if err != nil {
				self.log.WithError(err).WithField("job_id", jobId).Warn("Cannot clear override")
				continue
			}
			self.log.WithField("job_id", jobId).Debug("Indexer caught up, override cleared")
			return
		}
	}
}

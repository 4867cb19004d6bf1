package orchestrate

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/pumasi/core/src/utils/eth"
	"github.com/pumasi/core/src/utils/model"
)

// PostJob publishes a new job. The milestone split is validated against
// the budget first, a job whose milestone amounts do not sum to the
// budget never reaches the ledger.
func (self *Orchestrator) PostJob(ctx context.Context, metadataRef string, budget string, deadline time.Time, milestones []model.Milestone) (err error) {
	err = model.ValidateMilestones(budget, milestones)
	if err != nil {
		return
	}

	// Parseability was just validated
	amount, _ := new(big.Int).SetString(budget, 10)

	handle, err := self.ledger.CreateJob(ctx, metadataRef, amount, uint64(deadline.Unix()))
	if err != nil {
		if eth.IsUserCancellation(err) {
			self.log.Debug("Job creation cancelled by user")
			return nil
		}
		self.report.Errors.LedgerCall.Inc()
		return fmt.Errorf("creating job failed: %s", eth.Describe(err))
	}

	err = self.ledger.WaitConfirmed(ctx, handle)
	if err != nil {
		self.countConfirmFailure(err)
		return fmt.Errorf("job creation not confirmed: %s", eth.Describe(err))
	}

	self.log.WithField("tx", handle.String()).Info("Job created")
	return nil
}

package orchestrate

import (
	"context"
	"errors"

	"github.com/pumasi/core/src/utils/model"
)

// Resume picks up hire workflows that were interrupted before their
// assignment landed. Runs once on startup. Each unfinished operation is
// re-checked against the live job state: the repair only fires when the
// job really is half-hired, a stale record for an already assigned or
// no longer open job is just dropped.
func (self *Orchestrator) Resume(ctx context.Context) (err error) {
	var pending []model.Operation
	err = self.db.
		Where("kind = ? AND step <> ?", model.OperationKindHire, model.OperationStepDone).
		Find(&pending).
		Error
	if err != nil {
		return
	}

	for _, operation := range pending {
		log := self.log.WithField("operation", operation.Id).WithField("job_id", operation.JobId)

		if operation.Step == model.OperationStepAccepting {
			// The acceptance call never confirmed, the workflow never got
			// past the point of no return. Drop the record, the user
			// restarts the hire if they still want it.
			log.Info("Dropping hire that never confirmed acceptance")
			self.discard(&operation)
			continue
		}

		log.Info("Resuming interrupted hire")
		resumeErr := self.Assign(ctx, operation.JobId)
		switch {
		case resumeErr == nil:
			self.discard(&operation)
		case errors.Is(resumeErr, ErrNothingToRepair):
			// Assignment already landed or the job moved on
			log.Info("Job no longer needs assignment, dropping record")
			self.discard(&operation)
		default:
			log.WithError(resumeErr).Warn("Resume attempt failed, keeping record")
		}
	}
	return nil
}

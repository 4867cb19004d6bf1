package agent

import (
	"time"

	"github.com/pumasi/core/src/orchestrate"
	"github.com/pumasi/core/src/overrides"
	"github.com/pumasi/core/src/utils/config"
	"github.com/pumasi/core/src/utils/model"
	"github.com/pumasi/core/src/utils/monitoring"
	"github.com/pumasi/core/src/utils/task"
)

// Periodically re-queries the indexer for every live override and clears
// the ones the backends caught up with. The per-operation catch-up loops
// already do this for their own job, this task covers overrides whose
// loop died with the process.
type CatchUp struct {
	*task.Task

	store   *overrides.Store
	jobs    orchestrate.JobSource
	monitor monitoring.Monitor
	output  chan<- model.StatusEvent
}

func NewCatchUp(config *config.Config) (self *CatchUp) {
	self = new(CatchUp)

	self.Task = task.NewTask(config, "catch-up").
		WithPeriodicSubtaskFunc(config.Agent.CatchUpInterval, self.check).
		WithWorkerPool(config.Agent.NumWorkers, config.Agent.WorkerQueueSize)

	return
}

func (self *CatchUp) WithStore(store *overrides.Store) *CatchUp {
	self.store = store
	return self
}

func (self *CatchUp) WithJobSource(jobs orchestrate.JobSource) *CatchUp {
	self.jobs = jobs
	return self
}

func (self *CatchUp) WithMonitor(monitor monitoring.Monitor) *CatchUp {
	self.monitor = monitor
	return self
}

func (self *CatchUp) WithOutputChannel(output chan<- model.StatusEvent) *CatchUp {
	self.output = output
	return self
}

func (self *CatchUp) check() (err error) {
	live, err := self.store.Live(time.Now())
	if err != nil {
		self.Log.WithError(err).Error("Failed to list live overrides")
		self.monitor.GetReport().Core.Errors.StoreWrite.Inc()
		return nil
	}

	for _, override := range live {
		override := override
		self.SubmitToWorker(func() {
			self.checkOne(&override)
		})
	}

	self.monitor.GetReport().Core.State.LastCatchUpTimestamp.Store(time.Now().Unix())
	return nil
}

func (self *CatchUp) checkOne(override *model.Override) {
	job, err := self.jobs.GetJob(self.Ctx, override.JobId)
	if err != nil {
		self.monitor.GetReport().Core.Errors.IndexerQuery.Inc()
		return
	}
	if job == nil {
		return
	}

	if job.RawStatus.IsBefore(override.Status) {
		// Indexer still behind, keep asserting the override
		return
	}

	err = self.store.ClearOverride(override.JobId)
	if err != nil {
		self.Log.WithError(err).WithField("job_id", override.JobId).Error("Failed to clear override")
		self.monitor.GetReport().Core.Errors.StoreWrite.Inc()
		return
	}

	self.monitor.GetReport().Core.State.OverridesCaughtUp.Inc()
	self.Log.WithField("job_id", override.JobId).Debug("Override caught up, cleared")

	if self.output == nil {
		return
	}
	event := model.StatusEvent{
		Kind:      "job",
		JobId:     override.JobId,
		Status:    string(job.RawStatus),
		Source:    "catch-up",
		EmittedAt: time.Now(),
	}
	select {
	case self.output <- event:
	default:
	}
}

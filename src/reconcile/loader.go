package reconcile

import (
	"context"
	"time"

	"github.com/pumasi/core/src/utils/config"
	"github.com/pumasi/core/src/utils/graph"
	"github.com/pumasi/core/src/utils/logger"
	"github.com/pumasi/core/src/utils/model"
	"github.com/pumasi/core/src/utils/monitoring"
	"github.com/pumasi/core/src/utils/monitoring/report"

	"github.com/sirupsen/logrus"
)

// Loader produces reconciled domain entities out of the three backends.
// Indexer snapshots carry state, blobs carry content, the local store
// carries overrides and hides. The ledger is only read directly when the
// indexer is unreachable.
type Loader struct {
	config    *config.Config
	log       *logrus.Entry
	indexer   Indexer
	blob      BlobGetter
	ledger    Ledger
	overrides OverrideSource
	report    *report.CoreReport
}

func NewLoader(config *config.Config, indexer Indexer, blobGetter BlobGetter, ledger Ledger, overrides OverrideSource) (self *Loader) {
	self = new(Loader)
	self.config = config
	self.log = logger.NewSublogger("loader")
	self.indexer = indexer
	self.blob = blobGetter
	self.ledger = ledger
	self.overrides = overrides

	// Detached until a monitor is attached, counting stays safe either way
	self.report = &report.CoreReport{}
	return
}

func (self *Loader) WithMonitor(monitor monitoring.Monitor) *Loader {
	self.report = monitor.GetReport().Core
	return self
}

func (self *Loader) localState(jobId string) (override *model.Override, hidden map[string]bool) {
	override, err := self.overrides.GetOverride(jobId)
	if err != nil {
		self.log.WithError(err).WithField("job_id", jobId).Warn("Cannot read override, ignoring")
		override = nil
	}
	hidden, err = self.overrides.HiddenApplicationIds()
	if err != nil {
		self.log.WithError(err).Warn("Cannot read hidden applications, ignoring")
		hidden = map[string]bool{}
	}
	return
}

func (self *Loader) toJobs(ctx context.Context, snapshots []graph.JobSnapshot, now time.Time) (out []model.Job) {
	out = make([]model.Job, 0, len(snapshots))
	for i := range snapshots {
		override, hidden := self.localState(snapshots[i].Id)
		out = append(out, self.toJob(ctx, &snapshots[i], hidden, override, now))
	}
	return
}

// GetJobs lists jobs page by page. An indexer failure degrades to an
// empty projection with the error reported, never to a crash.
func (self *Loader) GetJobs(ctx context.Context, skip int) (out []model.Job, err error) {
	snapshots, err := self.indexer.GetJobs(ctx, skip)
	if err != nil {
		self.log.WithError(err).Warn("Indexer unreachable, returning empty job list")
		self.report.Errors.IndexerQuery.Inc()
		return []model.Job{}, err
	}
	return self.toJobs(ctx, snapshots, time.Now()), nil
}

// GetJob loads one job. When the indexer is down the ledger record is
// read directly, yielding a degraded entity without metadata joins.
func (self *Loader) GetJob(ctx context.Context, jobId string) (out *model.Job, err error) {
	snapshot, err := self.indexer.GetJob(ctx, jobId)
	if err != nil {
		self.log.WithError(err).WithField("job_id", jobId).Warn("Indexer unreachable, falling back to ledger read")
		self.report.Errors.IndexerQuery.Inc()
		return self.getJobFromLedger(ctx, jobId)
	}
	if snapshot == nil {
		return nil, nil
	}

	override, hidden := self.localState(jobId)
	job := self.toJob(ctx, snapshot, hidden, override, time.Now())
	out = &job
	return
}

func (self *Loader) getJobFromLedger(ctx context.Context, jobId string) (out *model.Job, err error) {
	state, err := self.ledger.GetJob(ctx, jobId)
	if err != nil {
		self.report.Errors.LedgerCall.Inc()
		return
	}

	freelancer := state.Freelancer.Hex()
	if !model.AddressSet(freelancer) {
		freelancer = ""
	}

	override, _ := self.localState(jobId)
	out = &model.Job{
		Id:          jobId,
		Client:      state.Client.Hex(),
		Freelancer:  freelancer,
		RawStatus:   state.Status,
		Status:      EffectiveJobStatus(state.Status, freelancer != "", nil, override, time.Now()),
		Budget:      state.Budget,
		Deadline:    state.Deadline,
		MetadataRef: state.MetadataRef,
		Degraded:    true,
		Title:       placeholderTitle,
		Description: placeholderDescription,
	}
	self.report.State.JobsLoaded.Inc()
	self.report.State.DegradedLoads.Inc()
	return
}

func (self *Loader) GetJobsByClient(ctx context.Context, client string) (out []model.Job, err error) {
	snapshots, err := self.indexer.GetJobsByClient(ctx, client)
	if err != nil {
		return []model.Job{}, err
	}
	return self.toJobs(ctx, snapshots, time.Now()), nil
}

func (self *Loader) GetJobsByFreelancer(ctx context.Context, freelancer string) (out []model.Job, err error) {
	snapshots, err := self.indexer.GetJobsByFreelancer(ctx, freelancer)
	if err != nil {
		return []model.Job{}, err
	}
	return self.toJobs(ctx, snapshots, time.Now()), nil
}

// GetApplicationsByFreelancer returns the acting freelancer's own
// applications. Effective statuses need each application's job and
// siblings, so the jobs are loaded alongside.
func (self *Loader) GetApplicationsByFreelancer(ctx context.Context, freelancer string) (out []model.Application, err error) {
	snapshots, err := self.indexer.GetApplicationsByFreelancer(ctx, freelancer)
	if err != nil {
		return []model.Application{}, err
	}

	out = make([]model.Application, 0, len(snapshots))
	for i := range snapshots {
		application := self.toApplication(ctx, &snapshots[i])

		job, jobErr := self.indexer.GetJob(ctx, application.JobId)
		if jobErr != nil || job == nil {
			// Without the job context the raw status is the best we have
			out = append(out, application)
			continue
		}

		siblings := make([]model.Application, 0, len(job.Applications))
		for j := range job.Applications {
			siblings = append(siblings, model.Application{
				Id:         job.Applications[j].Id,
				Freelancer: job.Applications[j].Freelancer,
				RawStatus:  model.ParseApplicationStatus(job.Applications[j].Status),
			})
		}

		jobFreelancer := ""
		if model.AddressSet(job.Freelancer) {
			jobFreelancer = job.Freelancer
		}
		application.Status = EffectiveApplicationStatus(application, jobFreelancer, siblings)
		out = append(out, application)
	}
	return
}

func (self *Loader) GetDispute(ctx context.Context, jobId string) (out *model.Dispute, err error) {
	snapshot, err := self.indexer.GetDisputeByJob(ctx, jobId)
	if err != nil || snapshot == nil {
		return
	}

	job, jobErr := self.GetJob(ctx, jobId)
	if jobErr != nil {
		job = nil
	}

	dispute := self.toDispute(ctx, snapshot, job)
	out = &dispute
	return
}

func (self *Loader) GetActiveDisputes(ctx context.Context) (out []model.Dispute, err error) {
	snapshots, err := self.indexer.GetActiveDisputes(ctx)
	if err != nil {
		return []model.Dispute{}, err
	}

	out = make([]model.Dispute, 0, len(snapshots))
	for i := range snapshots {
		job, jobErr := self.GetJob(ctx, snapshots[i].JobId)
		if jobErr != nil {
			job = nil
		}
		out = append(out, self.toDispute(ctx, &snapshots[i], job))
	}
	return
}

func (self *Loader) GetUser(ctx context.Context, address string) (out *model.User, err error) {
	snapshot, err := self.indexer.GetUser(ctx, address)
	if err != nil || snapshot == nil {
		return
	}

	user := self.toUser(ctx, snapshot)
	out = &user
	return
}

// GetReviewsByUser lists the reviews left on a user's completed jobs,
// newest first, comments joined from their blobs
func (self *Loader) GetReviewsByUser(ctx context.Context, address string, skip int) (out []model.Review, err error) {
	snapshots, err := self.indexer.GetReviewsByReviewee(ctx, address, skip)
	if err != nil {
		self.report.Errors.IndexerQuery.Inc()
		return []model.Review{}, err
	}

	out = make([]model.Review, 0, len(snapshots))
	for i := range snapshots {
		out = append(out, self.toReview(ctx, &snapshots[i]))
	}
	return
}

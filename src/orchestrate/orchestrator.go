package orchestrate

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/pumasi/core/src/overrides"
	"github.com/pumasi/core/src/utils/config"
	"github.com/pumasi/core/src/utils/eth"
	"github.com/pumasi/core/src/utils/logger"
	"github.com/pumasi/core/src/utils/model"
	"github.com/pumasi/core/src/utils/monitoring"
	"github.com/pumasi/core/src/utils/monitoring/report"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Ledger is the write surface the orchestrator drives
type Ledger interface {
	CreateJob(ctx context.Context, metadataRef string, budget *big.Int, deadline uint64) (eth.TxHandle, error)
	AcceptApplication(ctx context.Context, applicationId string) (eth.TxHandle, error)
	AssignFreelancer(ctx context.Context, jobId string, freelancer string) (eth.TxHandle, error)
	SubmitDeliverable(ctx context.Context, jobId string, deliverableRef string) (eth.TxHandle, error)
	ApproveDelivery(ctx context.Context, jobId string) (eth.TxHandle, error)
	WaitConfirmed(ctx context.Context, handle eth.TxHandle) error
}

// JobSource provides the reconciled job view used for repair detection
// and catch-up polling
type JobSource interface {
	GetJob(ctx context.Context, jobId string) (*model.Job, error)
}

// StepFunc receives per-step progress of a multi-call workflow
type StepFunc func(step string)

// Orchestrator runs the multi-step ledger workflows. Progress of each
// workflow is persisted before every step, an interrupted run is picked
// up by Resume after restart.
type Orchestrator struct {
	config *config.Config
	log    *logrus.Entry

	ledger Ledger
	jobs   JobSource
	store  *overrides.Store
	db     *gorm.DB
	report *report.CoreReport

	events chan model.StatusEvent
}

func NewOrchestrator(config *config.Config, ledger Ledger, jobs JobSource, store *overrides.Store, db *gorm.DB) (self *Orchestrator) {
	self = new(Orchestrator)
	self.config = config
	self.log = logger.NewSublogger("orchestrator")
	self.ledger = ledger
	self.jobs = jobs
	self.store = store
	self.db = db
	self.report = &report.CoreReport{}
	self.events = make(chan model.StatusEvent, 64)
	return
}

func (self *Orchestrator) WithMonitor(monitor monitoring.Monitor) *Orchestrator {
	self.report = monitor.GetReport().Core
	return self
}

// Events delivers a StatusEvent for every effective status change the
// orchestrator causes. The channel is drained by the publisher task.
func (self *Orchestrator) Events() <-chan model.StatusEvent {
	return self.events
}

func (self *Orchestrator) countConfirmFailure(err error) {
	if errors.Is(err, eth.ErrConfirmTimeout) {
		self.report.Errors.ConfirmTimeout.Inc()
	} else {
		self.report.Errors.LedgerCall.Inc()
	}
}

func (self *Orchestrator) emit(kind, jobId, applicationId, status, source string) {
	event := model.StatusEvent{
		Kind:          kind,
		JobId:         jobId,
		ApplicationId: applicationId,
		Status:        status,
		Source:        source,
		EmittedAt:     time.Now(),
	}
	select {
	case self.events <- event:
	default:
		// Nobody draining, an event is advisory and droppable
		self.log.WithField("job_id", jobId).Warn("Event channel full, dropping status event")
	}
}

package agent

import (
	"time"

	"github.com/pumasi/core/src/dispute"
	"github.com/pumasi/core/src/orchestrate"
	"github.com/pumasi/core/src/overrides"
	"github.com/pumasi/core/src/reconcile"
	"github.com/pumasi/core/src/utils/blob"
	"github.com/pumasi/core/src/utils/config"
	"github.com/pumasi/core/src/utils/eth"
	"github.com/pumasi/core/src/utils/graph"
	"github.com/pumasi/core/src/utils/model"
	monitor_core "github.com/pumasi/core/src/utils/monitoring/core"
	"github.com/pumasi/core/src/utils/publisher"
	"github.com/pumasi/core/src/utils/task"
)

// Main class that wires the client core together: backends, loader,
// orchestrator, dispute coordinator and the background maintenance tasks
type Controller struct {
	*task.Task

	Loader       *reconcile.Loader
	Orchestrator *orchestrate.Orchestrator
	Disputes     *dispute.Coordinator
	Store        *overrides.Store
}

func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)

	self.Task = task.NewTask(config, "controller")

	db, err := model.Connect(&config.Store)
	if err != nil {
		return
	}

	ethClient, err := eth.NewClient(config)
	if err != nil {
		return
	}

	graphClient := graph.NewClient(config)
	blobClient := blob.NewClient(config)

	monitor := monitor_core.NewMonitor()

	server := NewServer(config).
		WithMonitor(monitor)

	self.Store = overrides.NewStore(config, db)
	self.Loader = reconcile.NewLoader(config, graphClient, blobClient, ethClient, self.Store).
		WithMonitor(monitor)
	self.Orchestrator = orchestrate.NewOrchestrator(config, ethClient, self.Loader, self.Store, db).
		WithMonitor(monitor)
	self.Disputes = dispute.NewCoordinator(config, ethClient, self.Loader, blobClient)

	events := make(chan model.StatusEvent, 64)

	// Buffers the orchestrator's bursty emissions before they reach the
	// publisher
	sink := task.NewSinkTask[model.StatusEvent](config, "event-sink").
		WithInputChannel(self.Orchestrator.Events()).
		WithBatchSize(16).
		WithOnFlush(time.Second, func(batch []model.StatusEvent) error {
			for _, event := range batch {
				select {
				case events <- event:
				default:
				}
			}
			return nil
		})

	janitor := NewJanitor(config).
		WithStore(self.Store).
		WithMonitor(monitor)

	catchUp := NewCatchUp(config).
		WithStore(self.Store).
		WithJobSource(self.Loader).
		WithMonitor(monitor).
		WithOutputChannel(events)

	self.Task = self.Task.
		WithOnBeforeStart(func() error {
			return self.Orchestrator.Resume(self.Ctx)
		}).
		WithOnAfterStop(ethClient.Close).
		WithSubtask(monitor.Task).
		WithSubtask(server.Task).
		WithSubtask(sink.Task).
		WithSubtask(janitor.Task).
		WithSubtask(catchUp.Task)

	if config.Redis.Host != "" {
		redisPublisher := publisher.NewRedisPublisher[model.StatusEvent](config, "redis-publisher").
			WithInputChannel(events).
			WithMonitor(monitor)
		self.Task = self.Task.WithSubtask(redisPublisher.Task)
	}

	return
}

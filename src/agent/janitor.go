package agent

import (
	"time"

	"github.com/pumasi/core/src/overrides"
	"github.com/pumasi/core/src/utils/config"
	"github.com/pumasi/core/src/utils/monitoring"
	"github.com/pumasi/core/src/utils/task"
)

// Periodically removes expired overrides from the local store. Expiry is
// already enforced on read, the sweep just keeps the table from growing.
type Janitor struct {
	*task.Task

	store   *overrides.Store
	monitor monitoring.Monitor
}

func NewJanitor(config *config.Config) (self *Janitor) {
	self = new(Janitor)

	self.Task = task.NewTask(config, "janitor").
		WithPeriodicSubtaskFunc(config.Agent.JanitorInterval, self.sweep)

	return
}

func (self *Janitor) WithStore(store *overrides.Store) *Janitor {
	self.store = store
	return self
}

func (self *Janitor) WithMonitor(monitor monitoring.Monitor) *Janitor {
	self.monitor = monitor
	return self
}

func (self *Janitor) sweep() (err error) {
	removed, err := self.store.Sweep(time.Now())
	if err != nil {
		self.Log.WithError(err).Error("Failed to sweep expired overrides")
		self.monitor.GetReport().Core.Errors.StoreWrite.Inc()
		return nil
	}
	if removed > 0 {
		self.Log.WithField("removed", removed).Debug("Swept expired overrides")
		self.monitor.GetReport().Core.State.OverridesExpired.Add(uint64(removed))
	}
	return nil
}

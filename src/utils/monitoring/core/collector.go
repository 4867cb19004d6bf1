package monitor_core

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	JobsLoaded        *prometheus.Desc `json:"jobs_loaded"`
	DegradedLoads     *prometheus.Desc `json:"degraded_loads"`
	HiresCompleted    *prometheus.Desc `json:"hires_completed"`
	RepairsRun        *prometheus.Desc `json:"repairs_run"`
	OverridesSet      *prometheus.Desc `json:"overrides_set"`
	OverridesCaughtUp *prometheus.Desc `json:"overrides_caught_up"`
	OverridesExpired  *prometheus.Desc `json:"overrides_expired"`
	IndexerQueryError *prometheus.Desc `json:"indexer_query_error"`
	BlobFetchError    *prometheus.Desc `json:"blob_fetch_error"`
	LedgerCallError   *prometheus.Desc `json:"ledger_call_error"`
	StoreWriteError   *prometheus.Desc `json:"store_write_error"`
	ConfirmTimeout    *prometheus.Desc `json:"confirm_timeout"`
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "core",
	}

	return &Collector{
		JobsLoaded:        prometheus.NewDesc("jobs_loaded", "", nil, labels),
		DegradedLoads:     prometheus.NewDesc("degraded_loads", "", nil, labels),
		HiresCompleted:    prometheus.NewDesc("hires_completed", "", nil, labels),
		RepairsRun:        prometheus.NewDesc("repairs_run", "", nil, labels),
		OverridesSet:      prometheus.NewDesc("overrides_set", "", nil, labels),
		OverridesCaughtUp: prometheus.NewDesc("overrides_caught_up", "", nil, labels),
		OverridesExpired:  prometheus.NewDesc("overrides_expired", "", nil, labels),
		IndexerQueryError: prometheus.NewDesc("indexer_query_error", "", nil, labels),
		BlobFetchError:    prometheus.NewDesc("blob_fetch_error", "", nil, labels),
		LedgerCallError:   prometheus.NewDesc("ledger_call_error", "", nil, labels),
		StoreWriteError:   prometheus.NewDesc("store_write_error", "", nil, labels),
		ConfirmTimeout:    prometheus.NewDesc("confirm_timeout", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.JobsLoaded
	ch <- self.DegradedLoads
	ch <- self.HiresCompleted
	ch <- self.RepairsRun
	ch <- self.OverridesSet
	ch <- self.OverridesCaughtUp
	ch <- self.OverridesExpired
	ch <- self.IndexerQueryError
	ch <- self.BlobFetchError
	ch <- self.LedgerCallError
	ch <- self.StoreWriteError
	ch <- self.ConfirmTimeout
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(self.JobsLoaded, prometheus.CounterValue, float64(self.monitor.Report.Core.State.JobsLoaded.Load()))
	ch <- prometheus.MustNewConstMetric(self.DegradedLoads, prometheus.CounterValue, float64(self.monitor.Report.Core.State.DegradedLoads.Load()))
	ch <- prometheus.MustNewConstMetric(self.HiresCompleted, prometheus.CounterValue, float64(self.monitor.Report.Core.State.HiresCompleted.Load()))
	ch <- prometheus.MustNewConstMetric(self.RepairsRun, prometheus.CounterValue, float64(self.monitor.Report.Core.State.RepairsRun.Load()))
	ch <- prometheus.MustNewConstMetric(self.OverridesSet, prometheus.CounterValue, float64(self.monitor.Report.Core.State.OverridesSet.Load()))
	ch <- prometheus.MustNewConstMetric(self.OverridesCaughtUp, prometheus.CounterValue, float64(self.monitor.Report.Core.State.OverridesCaughtUp.Load()))
	ch <- prometheus.MustNewConstMetric(self.OverridesExpired, prometheus.CounterValue, float64(self.monitor.Report.Core.State.OverridesExpired.Load()))
	ch <- prometheus.MustNewConstMetric(self.IndexerQueryError, prometheus.CounterValue, float64(self.monitor.Report.Core.Errors.IndexerQuery.Load()))
	ch <- prometheus.MustNewConstMetric(self.BlobFetchError, prometheus.CounterValue, float64(self.monitor.Report.Core.Errors.BlobFetch.Load()))
	ch <- prometheus.MustNewConstMetric(self.LedgerCallError, prometheus.CounterValue, float64(self.monitor.Report.Core.Errors.LedgerCall.Load()))
	ch <- prometheus.MustNewConstMetric(self.StoreWriteError, prometheus.CounterValue, float64(self.monitor.Report.Core.Errors.StoreWrite.Load()))
	ch <- prometheus.MustNewConstMetric(self.ConfirmTimeout, prometheus.CounterValue, float64(self.monitor.Report.Core.Errors.ConfirmTimeout.Load()))
}

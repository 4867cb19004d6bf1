package monitoring

import (
	"github.com/pumasi/core/src/utils/monitoring/report"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Monitor interface {
	GetReport() *report.Report
	GetPrometheusCollector() prometheus.Collector
	IsOK() bool

	OnGetState(c *gin.Context)
	OnGetHealth(c *gin.Context)

	Start() error
	StopWait()
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"xmlprocessor/internal/metrics"
)

// GetPerformanceSnapshot godoc
// @Summary Read the current per-client performance counters
// @Description Non-destructive: counters keep accumulating for the periodic report window.
// @Tags metrics
// @Produce json
// @Success 200 {object} map[string]metrics.ClientReport
// @Router /metrics/performance [get]
func (a *API) GetPerformanceSnapshot(c *gin.Context) {
	snapshot := a.Aggregator.Snapshot()
	reports := make(map[string]metrics.ClientReport, len(snapshot))
	for clientID, report := range snapshot {
		reports[clientID.String()] = report
	}
	RespondWithSuccess(c, http.StatusOK, reports)
}

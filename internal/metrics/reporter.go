package metrics

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Reporter periodically drains the aggregator and logs one report per client.
type Reporter struct {
	aggregator *Aggregator
	cron       *cron.Cron
}

// NewReporter schedules SnapshotAndReset on the given cron spec (e.g.
// "@every 5m").
func NewReporter(aggregator *Aggregator, schedule string) (*Reporter, error) {
	r := &Reporter{
		aggregator: aggregator,
		cron:       cron.New(),
	}
	if _, err := r.cron.AddFunc(schedule, r.report); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reporter) Start() {
	r.cron.Start()
}

func (r *Reporter) Stop() {
	r.cron.Stop()
}

func (r *Reporter) report() {
	for clientID, report := range r.aggregator.SnapshotAndReset() {
		log.Printf("Performance report for client %s: requests=%d avg=%.2fms errorRate=%.2f%% peak=%.2fms",
			clientID, report.TotalRequests, report.AvgLatencyMs, report.ErrorRatePct, report.PeakLatencyMs)
	}
}

package verifier

import (
	"time"

	"github.com/ethereum/go-ethereum/metrics"
)

// service_metrics live in the service's own registry. The verdict counters
// always count; timers and the histogram follow metrics.Enabled at creation.
type service_metrics struct {
	accepted   metrics.Counter
	rejected   metrics.Counter
	verify     metrics.Timer
	batch      metrics.Timer
	batch_size metrics.Histogram
}

func new_service_metrics(r metrics.Registry) *service_metrics {
	return &service_metrics{
		accepted:   metrics.NewRegisteredCounterForced("verifier/proof/accepted", r),
		rejected:   metrics.NewRegisteredCounterForced("verifier/proof/rejected", r),
		verify:     metrics.NewRegisteredTimer("verifier/proof/time", r),
		batch:      metrics.NewRegisteredTimer("verifier/batch/time", r),
		batch_size: metrics.NewRegisteredHistogram("verifier/batch/size", r, metrics.NewExpDecaySample(1028, 0.015)),
	}
}

// recorder starts timing and returns the function that stops it.
func recorder(t metrics.Timer) func() {
	start := time.Now()
	return func() {
		t.UpdateSince(start)
	}
}

func (self *service_metrics) verdict(err error) {
	if err == nil {
		self.accepted.Inc(1)
	} else {
		self.rejected.Inc(1)
	}
}

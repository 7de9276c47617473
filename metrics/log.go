// Package metrics reports the contents of a go-ethereum metrics registry
// through a logger.
package metrics

import (
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/log"
	gethmetrics "github.com/ethereum/go-ethereum/metrics"
)

var quantiles = []float64{0.5, 0.95, 0.99}

// Log writes each metric in r once, in name order. Timings are printed in
// scale units (eg time.Millisecond) rather than nanos.
func Log(r gethmetrics.Registry, scale time.Duration, logger log.Logger) {
	du := float64(scale)
	var names []string
	metrics := make(map[string]interface{})
	r.Each(func(name string, m interface{}) {
		names = append(names, name)
		metrics[name] = m
	})
	sort.Strings(names)
	for _, name := range names {
		switch m := metrics[name].(type) {
		case gethmetrics.Counter:
			logger.Info("counter", "name", name, "count", m.Count())
		case gethmetrics.Gauge:
			logger.Info("gauge", "name", name, "value", m.Value())
		case gethmetrics.Meter:
			s := m.Snapshot()
			logger.Info("meter", "name", name, "count", s.Count(), "rate1", s.Rate1(), "mean", s.RateMean())
		case gethmetrics.Histogram:
			s := m.Snapshot()
			ps := s.Percentiles(quantiles)
			logger.Info("histogram", "name", name, "count", s.Count(), "min", s.Min(), "max", s.Max(),
				"mean", s.Mean(), "p50", ps[0], "p95", ps[1], "p99", ps[2])
		case gethmetrics.Timer:
			s := m.Snapshot()
			ps := s.Percentiles(quantiles)
			logger.Info("timer", "name", name, "count", s.Count(), "min", float64(s.Min())/du, "max", float64(s.Max())/du,
				"mean", s.Mean()/du, "p50", ps[0]/du, "p95", ps[1]/du, "p99", ps[2]/du)
		}
	}
}

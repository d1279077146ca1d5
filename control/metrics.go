// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collectors for rename barriers and pool occupancy.

package control

import (
	"errors"
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-threadname/threadname"
)

// RenameMetrics records RenameAll outcomes. It implements threadname.Observer.
type RenameMetrics struct {
	barrierTotal    *prom.CounterVec
	barrierDuration prom.Histogram
	renamedWorkers  prom.Counter
}

var _ threadname.Observer = (*RenameMetrics)(nil)

// NewRenameMetrics creates and registers the collectors. Collectors already
// registered under the same names are reused.
func NewRenameMetrics(namespace string, reg prom.Registerer) (*RenameMetrics, error) {
	if namespace == "" {
		namespace = "threadname"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	total := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "rename_barrier_total",
		Help:      "Pool rename barriers by outcome.",
	}, []string{"result"})
	duration := prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "rename_barrier_duration_seconds",
		Help:      "Wall time of pool rename barriers.",
		Buckets:   prom.ExponentialBuckets(0.005, 2, 12),
	})
	renamed := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "renamed_workers_total",
		Help:      "Workers that checked in to a rename barrier.",
	})

	var err error
	if total, err = registerCollector(reg, total); err != nil {
		return nil, err
	}
	if duration, err = registerCollector(reg, duration); err != nil {
		return nil, err
	}
	if renamed, err = registerCollector(reg, renamed); err != nil {
		return nil, err
	}
	return &RenameMetrics{barrierTotal: total, barrierDuration: duration, renamedWorkers: renamed}, nil
}

// ObserveRename records one barrier.
func (m *RenameMetrics) ObserveRename(_ string, res threadname.Result) {
	if m == nil {
		return
	}
	result := "ok"
	if res.Straggler >= 0 {
		result = "straggler"
	}
	m.barrierTotal.WithLabelValues(result).Inc()
	m.barrierDuration.Observe(res.Elapsed.Seconds())
	m.renamedWorkers.Add(float64(res.Renamed))
}

// RegisterPoolGauges exposes pool counters read from stats at scrape time.
func RegisterPoolGauges(namespace string, reg prom.Registerer, stats func() map[string]int64) error {
	if namespace == "" {
		namespace = "threadname"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	gauges := []struct{ key, name, help string }{
		{"num_workers", "pool_workers", "Current number of worker slots."},
		{"idle_workers", "pool_idle_workers", "Workers waiting for a task."},
		{"queued_tasks", "pool_queued_tasks", "Tasks waiting in the shared queue."},
	}
	for _, g := range gauges {
		key := g.key
		gf := prom.NewGaugeFunc(prom.GaugeOpts{
			Namespace: namespace,
			Name:      g.name,
			Help:      g.help,
		}, func() float64 { return float64(stats()[key]) })
		if _, err := registerCollector[prom.Collector](reg, gf); err != nil {
			return err
		}
	}
	return nil
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}

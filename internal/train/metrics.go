package train

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	steps         prometheus.Counter
	examples      prometheus.Counter
	epochLoss     prometheus.Gauge
	valAccuracy   prometheus.Gauge
	epochDuration prometheus.Histogram
}

// newMetrics creates the training collectors on reg. A nil reg leaves
// them unregistered. Trainers sharing a registry share the collectors.
func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		steps: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradnet_train_steps_total",
			Help: "Optimizer steps applied",
		})),
		examples: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradnet_train_examples_total",
			Help: "Training examples processed",
		})),
		epochLoss: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gradnet_train_epoch_loss",
			Help: "Training loss of the last completed epoch",
		})),
		valAccuracy: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gradnet_train_validation_accuracy",
			Help: "Validation accuracy of the last completed epoch",
		})),
		epochDuration: register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gradnet_train_epoch_duration_seconds",
			Help:    "Wall time per training epoch",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 60},
		})),
	}
}

// register adds c to reg, returning the collector already registered
// under the same descriptor if there is one.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

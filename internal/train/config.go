// Package train runs mini-batch training loops over a Sequential network
// and reports progress through structured logs, Prometheus metrics and
// OpenTelemetry spans.
package train

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/born-ml/gradnet/internal/data"
	"github.com/born-ml/gradnet/internal/nn"
	"github.com/born-ml/gradnet/internal/optim"
)

// Config holds configuration for a Trainer. Zero fields take the
// defaults listed beside them.
type Config struct {
	Epochs    int  // Passes over the dataset (default: 1)
	BatchSize int  // Examples per optimizer step (default: 1)
	Shuffle   bool // Reshuffle example order every epoch
	Seed      uint64

	Loss        nn.Loss         // default: MSE
	Optimizer   optim.Optimizer // default: Adadelta with rho 0.9, step 0.1
	Regularizer nn.Regularizer  // optional

	// Validation, when set, is evaluated after every epoch.
	Validation *data.Dataset

	// Logger receives one line per epoch. The zero Logger discards.
	Logger zerolog.Logger

	// Registerer receives the training metrics. Nil leaves them
	// unregistered. Trainers sharing a Registerer update the same
	// collectors.
	Registerer prometheus.Registerer

	// TracerProvider creates the training spans (default: the global one).
	TracerProvider trace.TracerProvider

	// OnEpoch is called synchronously after every epoch.
	OnEpoch func(EpochStats)
}

func (c Config) withDefaults() Config {
	if c.Epochs < 1 {
		c.Epochs = 1
	}
	if c.BatchSize < 1 {
		c.BatchSize = 1
	}
	if c.Loss == nil {
		c.Loss = nn.NewMSELoss()
	}
	if c.Optimizer == nil {
		c.Optimizer = optim.NewAdadelta(optim.AdadeltaConfig{})
	}
	if c.TracerProvider == nil {
		c.TracerProvider = otel.GetTracerProvider()
	}
	return c
}

// EpochStats summarizes one epoch.
type EpochStats struct {
	Epoch    int           // 1-based
	Loss     float64       // Mean data loss plus regularization penalty
	Steps    int           // Optimizer steps taken
	Duration time.Duration // Wall time
	Val      *Result       // Validation result, if configured
}

// History collects per-epoch statistics of a Fit call.
type History struct {
	Epochs []EpochStats
}

// Last returns the final epoch, or the zero value if none completed.
func (h *History) Last() EpochStats {
	if len(h.Epochs) == 0 {
		return EpochStats{}
	}
	return h.Epochs[len(h.Epochs)-1]
}

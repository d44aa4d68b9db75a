package train

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/born-ml/gradnet/internal/data"
	"github.com/born-ml/gradnet/internal/nn"
	"github.com/born-ml/gradnet/internal/optim"
)

// ErrDiverged is returned when an epoch loss becomes NaN or infinite.
var ErrDiverged = errors.New("train: loss diverged")

const tracerName = "github.com/born-ml/gradnet/internal/train"

// Trainer fits networks with a fixed configuration. A Trainer is not safe
// for concurrent use; networks themselves are single-threaded.
type Trainer struct {
	cfg     Config
	metrics *metrics
	tracer  trace.Tracer
}

// New creates a Trainer. Metrics are registered once, here.
func New(cfg Config) *Trainer {
	cfg = cfg.withDefaults()
	return &Trainer{
		cfg:     cfg,
		metrics: newMetrics(cfg.Registerer),
		tracer:  cfg.TracerProvider.Tracer(tracerName),
	}
}

// Config returns the effective configuration, defaults applied.
func (t *Trainer) Config() Config {
	return t.cfg
}

// Fit trains net on ds for the configured number of epochs.
//
// The context is checked before every batch; on cancellation Fit returns
// the epochs completed so far together with ctx.Err(). The dataset order
// is permuted only when Shuffle is set; ds itself is never reordered.
func (t *Trainer) Fit(ctx context.Context, net *nn.Sequential, ds *data.Dataset) (*History, error) {
	if !net.Initialized() {
		return nil, nn.ErrNotInitialized
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	ctx, span := t.tracer.Start(ctx, "train.Fit", trace.WithAttributes(
		attribute.Int("epochs", t.cfg.Epochs),
		attribute.Int("batch_size", t.cfg.BatchSize),
		attribute.Int("examples", ds.Len()),
	))
	defer span.End()

	params := net.Parameters()
	attach(t.cfg.Optimizer, params)

	order := make([]int, ds.Len())
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewPCG(t.cfg.Seed, t.cfg.Seed^0x9e3779b97f4a7c15))

	history := &History{}
	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		if t.cfg.Shuffle {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		stats, err := t.epoch(ctx, net, ds, order, params, epoch)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return history, err
		}
		history.Epochs = append(history.Epochs, stats)
		if t.cfg.OnEpoch != nil {
			t.cfg.OnEpoch(stats)
		}
	}

	span.SetAttributes(attribute.Float64("final_loss", history.Last().Loss))
	return history, nil
}

func (t *Trainer) epoch(ctx context.Context, net *nn.Sequential, ds *data.Dataset, order []int, params []*nn.Parameter, epoch int) (EpochStats, error) {
	_, span := t.tracer.Start(ctx, "train.epoch", trace.WithAttributes(attribute.Int("epoch", epoch)))
	defer span.End()

	start := time.Now()
	loss := t.cfg.Loss
	var total float64
	var steps int

	for _, b := range ds.Batches(t.cfg.BatchSize) {
		if err := ctx.Err(); err != nil {
			return EpochStats{}, err
		}
		for _, i := range order[b[0]:b[1]] {
			acts := net.Forward(ds.X[i], true)
			out := acts[len(acts)-1]
			total += loss.Loss(out, ds.Y[i])
			net.Backward(acts, loss.Derivative(out, ds.Y[i]))
		}
		optim.Step(t.cfg.Optimizer, params, t.cfg.Regularizer, b[1]-b[0])
		steps++
		t.metrics.steps.Inc()
		t.metrics.examples.Add(float64(b[1] - b[0]))
	}

	stats := EpochStats{
		Epoch:    epoch,
		Loss:     total/float64(ds.Len()) + penalty(t.cfg.Regularizer, params),
		Steps:    steps,
		Duration: time.Since(start),
	}
	if math.IsNaN(stats.Loss) || math.IsInf(stats.Loss, 0) {
		return EpochStats{}, fmt.Errorf("%w at epoch %d", ErrDiverged, epoch)
	}

	t.metrics.epochLoss.Set(stats.Loss)
	t.metrics.epochDuration.Observe(stats.Duration.Seconds())
	span.SetAttributes(attribute.Float64("loss", stats.Loss))

	ev := t.cfg.Logger.Info().
		Int("epoch", epoch).
		Float64("loss", stats.Loss).
		Int("steps", steps).
		Dur("duration", stats.Duration)

	if t.cfg.Validation != nil && t.cfg.Validation.Len() > 0 {
		val := Evaluate(net, loss, t.cfg.Validation)
		stats.Val = &val
		t.metrics.valAccuracy.Set(val.Accuracy)
		ev = ev.Float64("val_loss", val.Loss).Float64("val_accuracy", val.Accuracy)
	}
	ev.Msg("epoch complete")

	return stats, nil
}

// attach zeroes the optimizer state unless opt already owns it, so
// repeated Fit calls with the same optimizer continue where they left off
// and a new optimizer always starts fresh.
func attach(opt optim.Optimizer, params []*nn.Parameter) {
	if !optim.Attached(opt, params) {
		optim.Attach(opt, params)
	}
}

// penalty sums the regularization loss over regularized parameters.
func penalty(reg nn.Regularizer, params []*nn.Parameter) float64 {
	if reg == nil {
		return 0
	}
	var sum float64
	for _, p := range params {
		if p.Regularized() {
			sum += reg.Loss(p.Tensor())
		}
	}
	return sum
}

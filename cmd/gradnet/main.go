// Package main provides the gradnet CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/gradnet/internal/data"
	"github.com/born-ml/gradnet/internal/nn"
	"github.com/born-ml/gradnet/internal/optim"
	"github.com/born-ml/gradnet/internal/tensor"
	"github.com/born-ml/gradnet/internal/train"
)

const version = "v0.1.0"

func main() {
	// Initialize logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("gradnet %s\n", version)
	case "train":
		if err := runTrain(os.Args[2:]); err != nil {
			log.Fatal().Err(err).Msg("Training failed")
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("gradnet - neural network training engine")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  train      Train a small network on a synthetic dataset (train -h for flags)")
}

type trainFlags struct {
	task        string
	epochs      int
	batch       int
	hidden      int
	lr          float64
	optimizer   string
	l2          float64
	seed        uint64
	samples     int
	valSplit    float64
	metricsAddr string
	enableOTel  bool
	verbose     bool
}

func parseTrainFlags(args []string) (*trainFlags, error) {
	f := &trainFlags{}
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.StringVar(&f.task, "task", "xor", "Dataset (xor, blobs)")
	fs.IntVar(&f.epochs, "epochs", 200, "Number of epochs")
	fs.IntVar(&f.batch, "batch", 4, "Mini-batch size")
	fs.IntVar(&f.hidden, "hidden", 8, "Hidden layer width")
	fs.Float64Var(&f.lr, "lr", 0, "Learning rate (0 selects the optimizer default)")
	fs.StringVar(&f.optimizer, "optimizer", "adadelta", "Optimizer (adadelta, adam, sgd, momentum, rmsprop, adagrad)")
	fs.Float64Var(&f.l2, "l2", 0, "L2 regularization strength")
	fs.Uint64Var(&f.seed, "seed", 1, "Random seed")
	fs.IntVar(&f.samples, "samples", 50, "Examples per cluster")
	fs.Float64Var(&f.valSplit, "val", 0.2, "Fraction of examples held out for validation")
	fs.StringVar(&f.metricsAddr, "metrics", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	fs.BoolVar(&f.enableOTel, "otel", false, "Enable OpenTelemetry tracing (stdout)")
	fs.BoolVar(&f.verbose, "v", false, "Debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.valSplit < 0 || f.valSplit >= 1 {
		return nil, fmt.Errorf("-val %g outside [0, 1)", f.valSplit)
	}
	if f.samples < 1 {
		return nil, fmt.Errorf("-samples must be positive, got %d", f.samples)
	}
	return f, nil
}

// buildTask returns the dataset, network and loss for a task name.
func buildTask(f *trainFlags, src rand.Source) (*data.Dataset, *nn.Sequential, nn.Loss, error) {
	switch f.task {
	case "xor":
		ds := data.XORBlobs(f.samples, 0.1, src)
		net := nn.NewSequential(nn.NewLinear(f.hidden), nn.NewTanh(), nn.NewLinear(1), nn.NewSigmoid())
		return ds, net, nn.NewBinaryCrossEntropyLoss(), nil
	case "blobs":
		const classes = 3
		ds := data.Blobs(classes, f.samples, 2, 0.5, src)
		net := nn.NewSequential(nn.NewLinear(f.hidden), nn.NewReLU(), nn.NewLinear(classes), nn.NewSoftmax())
		return ds, net, nn.NewCrossEntropyLoss(), nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown task %q", f.task)
	}
}

func runTrain(args []string) error {
	f, err := parseTrainFlags(args)
	if err != nil {
		return err
	}
	if f.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if f.enableOTel {
		shutdown, err := initTracer()
		if err != nil {
			return fmt.Errorf("initialize tracer: %w", err)
		}
		defer shutdown(context.Background())
	}

	src := rand.NewPCG(f.seed, f.seed)
	ds, net, loss, err := buildTask(f, src)
	if err != nil {
		return err
	}
	net.SetSource(src)
	if err := net.Init(ds.X[0].Shape()); err != nil {
		return fmt.Errorf("build network: %w", err)
	}
	log.Debug().Str("summary", net.Summary()).Msg("Network")

	opt, err := optim.New(f.optimizer, f.lr)
	if err != nil {
		return err
	}

	ds.Shuffle(src)
	trainSet, valSet := ds.Split(1 - f.valSplit)
	log.Info().
		Str("task", f.task).
		Str("optimizer", f.optimizer).
		Int("train", trainSet.Len()).
		Int("validation", valSet.Len()).
		Int("params", net.NumParams()).
		Msg("Starting training")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cfg := train.Config{
		Epochs:     f.epochs,
		BatchSize:  f.batch,
		Shuffle:    true,
		Seed:       f.seed,
		Loss:       loss,
		Optimizer:  opt,
		Validation: valSet,
		Logger:     log.Logger,
		Registerer: reg,
	}
	if f.l2 > 0 {
		cfg.Regularizer = nn.L2{Lambda: f.l2}
	}
	if !f.verbose {
		// One line every tenth of the run.
		every := max(f.epochs/10, 1)
		cfg.Logger = log.Logger.Sample(&zerolog.BasicSampler{N: uint32(every)})
	}
	trainer := train.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	var server *http.Server
	if f.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		server = &http.Server{Addr: f.metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			log.Info().Str("addr", f.metricsAddr).Msg("Serving metrics")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	var history *train.History
	g.Go(func() error {
		if server != nil {
			defer server.Shutdown(context.Background())
		}
		var err error
		history, err = trainer.Fit(ctx, net, trainSet)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	last := history.Last()
	ev := log.Info().Float64("loss", last.Loss).Int("epochs", len(history.Epochs))
	if valSet.Len() > 0 {
		res := train.Evaluate(net, loss, valSet)
		ev = ev.Float64("val_loss", res.Loss).Float64("val_accuracy", res.Accuracy)
	}
	ev.Msg("Training complete")

	if f.task == "xor" {
		for _, p := range [][2]float64{{0, 0}, {0, 0.5}, {0.5, 0}, {0.5, 0.5}} {
			out := net.Predict(tensor.Vector(p[0], p[1]))
			log.Info().Floats64("input", p[:]).Float64("output", out.FlatGet(0)).Msg("Prediction")
		}
	}
	return nil
}

func initTracer() (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("gradnet"),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp.Shutdown, nil
}

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train runs mini-batch training loops and synthetic datasets.
//
// Example:
//
//	ds := train.XORBlobs(50, 0.1, rand.NewPCG(1, 2))
//	trainer := train.New(train.Config{
//	    Epochs:    200,
//	    BatchSize: 4,
//	    Shuffle:   true,
//	    Loss:      nn.NewBinaryCrossEntropyLoss(),
//	    Optimizer: optim.NewAdam(optim.AdamConfig{LR: 0.05}),
//	    Logger:    log.Logger,
//	})
//	history, err := trainer.Fit(ctx, net, ds)
package train

import (
	"math/rand/v2"

	"github.com/born-ml/gradnet/internal/data"
	"github.com/born-ml/gradnet/internal/train"
	"github.com/born-ml/gradnet/nn"
	"github.com/born-ml/gradnet/tensor"
)

// Trainer fits networks with a fixed configuration.
type Trainer = train.Trainer

// Config holds configuration for a Trainer.
type Config = train.Config

// EpochStats summarizes one epoch.
type EpochStats = train.EpochStats

// History collects per-epoch statistics.
type History = train.History

// Result is the outcome of an evaluation.
type Result = train.Result

// Dataset is a list of (input, target) pairs.
type Dataset = data.Dataset

// Errors.
var (
	ErrDiverged   = train.ErrDiverged
	ErrEmpty      = data.ErrEmpty
	ErrMismatched = data.ErrMismatched
)

// New creates a Trainer.
func New(cfg Config) *Trainer {
	return train.New(cfg)
}

// Evaluate runs net in inference mode over ds.
func Evaluate(net *nn.Sequential, loss nn.Loss, ds *Dataset) Result {
	return train.Evaluate(net, loss, ds)
}

// NewDataset pairs inputs with targets.
func NewDataset(x, y []*tensor.Tensor) (*Dataset, error) {
	return data.New(x, y)
}

// XORBlobs returns four Gaussian clusters labelled with XOR.
func XORBlobs(perCluster int, stddev float64, src rand.Source) *Dataset {
	return data.XORBlobs(perCluster, stddev, src)
}

// Blobs returns classes Gaussian clusters on a circle with one-hot targets.
func Blobs(classes, perClass int, radius, stddev float64, src rand.Source) *Dataset {
	return data.Blobs(classes, perClass, radius, stddev, src)
}

// OneHot returns a length-n vector with a 1 at class.
func OneHot(class, n int) *tensor.Tensor {
	return data.OneHot(class, n)
}

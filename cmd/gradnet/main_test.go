package main

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrainFlags(t *testing.T) {
	f, err := parseTrainFlags([]string{"-epochs", "5", "-optimizer", "adam", "-lr", "0.01", "-val", "0.5"})
	require.NoError(t, err)
	assert.Equal(t, 5, f.epochs)
	assert.Equal(t, "adam", f.optimizer)
	assert.Equal(t, 0.01, f.lr)
	assert.Equal(t, "xor", f.task)

	_, err = parseTrainFlags([]string{"-val", "1"})
	assert.Error(t, err)
	_, err = parseTrainFlags([]string{"-samples", "0"})
	assert.Error(t, err)
	_, err = parseTrainFlags([]string{"-nope"})
	assert.Error(t, err)
}

func TestBuildTask(t *testing.T) {
	for _, task := range []string{"xor", "blobs"} {
		t.Run(task, func(t *testing.T) {
			f := &trainFlags{task: task, hidden: 4, samples: 3}
			ds, net, loss, err := buildTask(f, rand.NewPCG(1, 1))
			require.NoError(t, err)
			require.NotNil(t, loss)
			require.NoError(t, net.Init(ds.X[0].Shape()))
			assert.Equal(t, ds.Y[0].Shape(), net.OutputShape())
		})
	}

	_, _, _, err := buildTask(&trainFlags{task: "mnist"}, rand.NewPCG(1, 1))
	assert.Error(t, err)
}

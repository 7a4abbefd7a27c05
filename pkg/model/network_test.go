package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholdBinary(t *testing.T) {
	probs := []float64{0, 0.1, 0.25, 0.49, 0.5, 0.51, 0.75, 0.9, 1}
	labels := Threshold(probs)

	assert.Len(t, labels, len(probs))
	for i, l := range labels {
		assert.True(t, l == 0 || l == 1, "probability %f produced label %d", probs[i], l)
		if probs[i] >= 0.5 {
			assert.Equal(t, 1, l)
		} else {
			assert.Equal(t, 0, l)
		}
	}
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{VocabSize: 10, SeqLen: 3})
	assert.Error(t, err, "missing structured width")

	_, err = New(Config{StructuredInputs: 4})
	assert.Error(t, err, "missing vocab/sequence config")

	n, err := New(Config{StructuredInputs: 4, VocabSize: 10, SeqLen: 3})
	assert.NoError(t, err)
	assert.NotNil(t, n)
}

func TestPredictProbaRange(t *testing.T) {
	n, err := New(Config{StructuredInputs: 2, VocabSize: 8, SeqLen: 3, Seed: 7})
	assert.NoError(t, err)

	probs, err := n.PredictProba(
		[][]float64{{0.5, -1.2}, {3, 0}},
		[][]int{{0, 2, 3}, {0, 0, 1}},
	)
	assert.NoError(t, err)
	for _, p := range probs {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestPredictShapeMismatch(t *testing.T) {
	n, err := New(Config{StructuredInputs: 2, VocabSize: 8, SeqLen: 3})
	assert.NoError(t, err)

	_, err = n.PredictProba([][]float64{{1, 2, 3}}, [][]int{{0, 0, 0}})
	assert.Error(t, err, "wrong structured width")

	_, err = n.PredictProba([][]float64{{1, 2}}, [][]int{})
	assert.Error(t, err, "row count mismatch")
}

// separableSet builds rows where the label depends on whether the
// first structured value exceeds the second.
func separableSet(n int, seed int64) (X [][]float64, seqs [][]int, y []float64) {
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		a, b := rng.Float64(), rng.Float64()
		label := 0.0
		if a > b {
			label = 1
		}
		X = append(X, []float64{a*2 - 1, b*2 - 1})
		seqs = append(seqs, []int{0, 0, 0})
		y = append(y, label)
	}
	return
}

func TestTrainLearnsSeparableData(t *testing.T) {
	X, seqs, y := separableSet(60, 11)

	cfg := Config{
		StructuredInputs: 2,
		VocabSize:        4,
		SeqLen:           3,
		EmbeddingDim:     4,
		StructuredUnits:  []int{16, 8},
		TextUnits:        []int{4},
		MergedUnits:      []int{8},
		Dropout:          0.05,
		LearningRate:     0.01,
		Epochs:           60,
		ValidationSplit:  0.2,
		ScoreHistory:     60,
		Seed:             11,
	}

	n, report, err := Train(cfg, X, seqs, y)
	assert.NoError(t, err)
	assert.NotNil(t, n)
	assert.NotEmpty(t, report.History)
	assert.GreaterOrEqual(t, report.Best, 0)

	first := report.History[0]
	last := report.History[len(report.History)-1]
	assert.Less(t, last.TrainLoss, first.TrainLoss)

	_, acc, err := n.Evaluate(X, seqs, y)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, acc, 0.85)
}

func TestTrainValidation(t *testing.T) {
	_, _, err := Train(Config{}, nil, nil, nil)
	assert.Error(t, err, "empty rows")

	_, _, err = Train(Config{}, [][]float64{{1}}, [][]int{}, []float64{1})
	assert.Error(t, err, "mismatched row counts")
}

func TestMarshalRoundTrip(t *testing.T) {
	X, seqs, y := separableSet(20, 3)

	cfg := Config{
		StructuredInputs: 2,
		VocabSize:        4,
		SeqLen:           3,
		Epochs:           3,
		Seed:             3,
	}
	n, _, err := Train(cfg, X, seqs, y)
	assert.NoError(t, err)

	b, err := n.Marshal()
	assert.NoError(t, err)

	restored, err := Load(b)
	assert.NoError(t, err)

	want, err := n.PredictProba(X, seqs)
	assert.NoError(t, err)
	got, err := restored.PredictProba(X, seqs)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEvaluateCounts(t *testing.T) {
	n, err := New(Config{StructuredInputs: 1, VocabSize: 4, SeqLen: 2})
	assert.NoError(t, err)

	_, _, err = n.Evaluate([][]float64{{1}}, [][]int{{0, 0}}, []float64{1, 0})
	assert.Error(t, err, "label count mismatch")
}

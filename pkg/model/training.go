package model

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
)

// EpochMetrics is one row of the training history.
type EpochMetrics struct {
	Epoch     int     `json:"epoch"`
	TrainLoss float64 `json:"train_loss"`
	TrainAcc  float64 `json:"train_acc"`
	ValLoss   float64 `json:"val_loss"`
	ValAcc    float64 `json:"val_acc"`
}

// Report summarizes a training run: the full epoch history, the best
// epoch by validation score, and that epoch's score.
type Report struct {
	History []EpochMetrics `json:"history"`
	Best    int            `json:"best"`
	Score   float64        `json:"score"`
}

// Train fits a new network on the given rows. A validation fraction is
// carved from the rows with the config seed; the best-scoring epoch's
// weights are kept, and training stops early once the score has not
// improved for ScoreHistory epochs.
func Train(cfg Config, X [][]float64, seqs [][]int, y []float64) (*Network, *Report, error) {
	if len(X) == 0 {
		return nil, nil, fmt.Errorf("training requires at least one row")
	}
	if len(seqs) != len(X) || len(y) != len(X) {
		return nil, nil, fmt.Errorf("row count mismatch: %d structured, %d text, %d labels", len(X), len(seqs), len(y))
	}
	if cfg.StructuredInputs == 0 {
		cfg.StructuredInputs = len(X[0])
	}

	n, err := New(cfg)
	if err != nil {
		return nil, nil, err
	}
	cfg = n.Cfg

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	idx := rng.Perm(len(X))
	nVal := int(float64(len(X)) * cfg.ValidationSplit)
	if nVal >= len(X) {
		nVal = len(X) - 1
	}
	trainIdx := idx[nVal:]
	valIdx := idx[:nVal]
	if len(valIdx) == 0 {
		// too few rows to hold out; validate on the training rows
		valIdx = trainIdx
	}

	report := &Report{Best: -1}
	var bestWeights [][]float64
	bestLoss := math.Inf(1)

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		rng.Shuffle(len(trainIdx), func(i, j int) {
			trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i]
		})
		for _, i := range trainIdx {
			n.trainStep(X[i], seqs[i], y[i])
		}

		m := EpochMetrics{Epoch: epoch}
		m.TrainLoss, m.TrainAcc, _ = evalSubset(n, X, seqs, y, trainIdx)
		m.ValLoss, m.ValAcc, _ = evalSubset(n, X, seqs, y, valIdx)
		report.History = append(report.History, m)

		if m.ValAcc > report.Score || (m.ValAcc == report.Score && m.ValLoss < bestLoss) {
			report.Score = m.ValAcc
			bestLoss = m.ValLoss
			report.Best = epoch
			bestWeights = n.snapshot()
		}

		slog.Debug("epoch complete",
			"epoch", epoch,
			"train_loss", m.TrainLoss,
			"val_loss", m.ValLoss,
			"val_acc", m.ValAcc,
		)

		if cfg.ScoreHistory > 0 && epoch-report.Best >= cfg.ScoreHistory {
			break
		}
	}

	if bestWeights != nil {
		n.restore(bestWeights)
	}
	return n, report, nil
}

func evalSubset(n *Network, X [][]float64, seqs [][]int, y []float64, idx []int) (loss, acc float64, err error) {
	sx := make([][]float64, len(idx))
	ss := make([][]int, len(idx))
	sy := make([]float64, len(idx))
	for i, j := range idx {
		sx[i] = X[j]
		ss[i] = seqs[j]
		sy[i] = y[j]
	}
	return n.Evaluate(sx, ss, sy)
}

// bce is binary cross-entropy for one sample, clamped away from 0/1.
func bce(p, y float64) float64 {
	const eps = 1e-7
	p = math.Min(math.Max(p, eps), 1-eps)
	return -(y*math.Log(p) + (1-y)*math.Log(1-p))
}

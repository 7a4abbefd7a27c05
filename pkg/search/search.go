/*
Package search implements random-sampling architecture search over the
two-branch model builder. Each trial draws hyper-parameters from the
declared variance space, trains a candidate through the shared trainer,
and is scored on its validation accuracy.
*/
package search

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"github.com/mchmarny/credpulse/pkg/model"
)

// Params is one sampled set of hyper-parameters.
type Params map[string]float64

// Get returns the parameter value by name, or dflt when absent.
func (p Params) Get(name string, dflt float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return dflt
}

// distribution is the sampling contract of a variance dimension.
type distribution interface {
	sample(rng *rand.Rand) float64
}

// Range is an open float range (min,max).
type Range [2]float64

func (r Range) sample(rng *rand.Rand) float64 {
	return r[0] + rng.Float64()*(r[1]-r[0])
}

// LogRange is an open float range sampled uniformly in log space.
type LogRange [2]float64

func (r LogRange) sample(rng *rand.Rand) float64 {
	lo, hi := math.Log(r[0]), math.Log(r[1])
	return math.Exp(lo + rng.Float64()*(hi-lo))
}

// IntRange is a closed integer range [min,max].
type IntRange [2]int

func (r IntRange) sample(rng *rand.Rand) float64 {
	return float64(r[0] + rng.Intn(r[1]-r[0]+1))
}

// Choice is a list of possible parameter values.
type Choice []float64

func (c Choice) sample(rng *rand.Rand) float64 {
	return c[rng.Intn(len(c))]
}

// Variance is the hyper-parameter space searched over.
type Variance map[string]distribution

// Space defines an architecture search run.
type Space struct {
	Trials   int
	Seed     int64
	Variance Variance

	// ModelFunc builds a candidate model config from sampled params.
	ModelFunc func(Params) model.Config
}

// Trial is one search iteration result.
type Trial struct {
	Params Params        `json:"params"`
	Score  float64       `json:"score"`
	Report *model.Report `json:"report,omitempty"`
}

// Report is the search outcome: the best trial plus the full history.
type Report struct {
	Best   Trial   `json:"best"`
	Trials []Trial `json:"trials"`
}

// Search runs the trials against the encoded training rows and returns
// the best candidate's trained network alongside the report.
func (s Space) Search(X [][]float64, seqs [][]int, y []float64) (*model.Network, *Report, error) {
	if s.Trials <= 0 {
		return nil, nil, fmt.Errorf("at least one trial required")
	}
	if s.ModelFunc == nil {
		return nil, nil, fmt.Errorf("model builder required")
	}

	seed := s.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	report := &Report{Best: Trial{Score: -1}}
	var best *model.Network

	// fixed sampling order keeps runs reproducible for a given seed
	names := make([]string, 0, len(s.Variance))
	for name := range s.Variance {
		names = append(names, name)
	}
	sort.Strings(names)

	for i := 0; i < s.Trials; i++ {
		params := make(Params, len(names))
		for _, name := range names {
			params[name] = s.Variance[name].sample(rng)
		}

		cfg := s.ModelFunc(params)
		n, tr, err := model.Train(cfg, X, seqs, y)
		if err != nil {
			return nil, nil, fmt.Errorf("trial %d: %w", i, err)
		}

		trial := Trial{Params: params, Score: tr.Score, Report: tr}
		report.Trials = append(report.Trials, trial)
		slog.Debug("trial complete", "trial", i, "score", tr.Score)

		if tr.Score > report.Best.Score {
			report.Best = trial
			best = n
		}
	}
	return best, report, nil
}

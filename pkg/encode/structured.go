package encode

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Structured scales numeric columns and one-hot expands categorical
// columns. Fit captures column statistics and vocabularies from the
// training partition once; Transform replays that exact state on any
// later partition. Values unseen during Fit encode as all zeros in
// their one-hot block, never as an error.
type Structured struct {
	Mean  []float64        `json:"mean"`
	Std   []float64        `json:"std"`
	Vocab []map[string]int `json:"vocab"`
}

// Fit learns per-column mean/std for numeric columns and the observed
// value vocabulary for categorical columns. numeric[i] and
// categorical[i] are the i-th row.
func (s *Structured) Fit(numeric [][]float64, categorical [][]string) error {
	if len(numeric) == 0 {
		return fmt.Errorf("fit requires at least one row")
	}
	if len(categorical) != len(numeric) {
		return fmt.Errorf("row count mismatch: %d numeric vs %d categorical", len(numeric), len(categorical))
	}

	numCols := len(numeric[0])
	s.Mean = make([]float64, numCols)
	s.Std = make([]float64, numCols)
	col := make([]float64, len(numeric))
	for j := 0; j < numCols; j++ {
		for i, row := range numeric {
			col[i] = row[j]
		}
		m, sd := stat.MeanStdDev(col, nil)
		if sd == 0 || sd != sd {
			sd = 1
		}
		s.Mean[j] = m
		s.Std[j] = sd
	}

	catCols := len(categorical[0])
	s.Vocab = make([]map[string]int, catCols)
	for j := 0; j < catCols; j++ {
		seen := map[string]bool{}
		for _, row := range categorical {
			seen[row[j]] = true
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)
		s.Vocab[j] = make(map[string]int, len(values))
		for k, v := range values {
			s.Vocab[j][v] = k
		}
	}
	return nil
}

// Width returns the number of output columns: one per numeric column
// plus the cardinality of each categorical vocabulary.
func (s *Structured) Width() int {
	w := len(s.Mean)
	for _, v := range s.Vocab {
		w += len(v)
	}
	return w
}

// Transform encodes rows using the captured fit state. The state is
// never modified, so transforming the same batch twice yields
// identical output.
func (s *Structured) Transform(numeric [][]float64, categorical [][]string) (*mat.Dense, error) {
	if len(s.Mean) == 0 && len(s.Vocab) == 0 {
		return nil, fmt.Errorf("encoder not fitted")
	}
	if len(numeric) != len(categorical) {
		return nil, fmt.Errorf("row count mismatch: %d numeric vs %d categorical", len(numeric), len(categorical))
	}

	out := mat.NewDense(len(numeric), s.Width(), nil)
	for i := range numeric {
		if len(numeric[i]) != len(s.Mean) {
			return nil, fmt.Errorf("row %d has %d numeric columns, want %d", i, len(numeric[i]), len(s.Mean))
		}
		if len(categorical[i]) != len(s.Vocab) {
			return nil, fmt.Errorf("row %d has %d categorical columns, want %d", i, len(categorical[i]), len(s.Vocab))
		}
		for j, v := range numeric[i] {
			out.Set(i, j, (v-s.Mean[j])/s.Std[j])
		}
		base := len(s.Mean)
		for j, v := range categorical[i] {
			if k, ok := s.Vocab[j][v]; ok {
				out.Set(i, base+k, 1)
			}
			base += len(s.Vocab[j])
		}
	}
	return out, nil
}

// FitTransform fits on rows and transforms them in one call.
func (s *Structured) FitTransform(numeric [][]float64, categorical [][]string) (*mat.Dense, error) {
	if err := s.Fit(numeric, categorical); err != nil {
		return nil, err
	}
	return s.Transform(numeric, categorical)
}

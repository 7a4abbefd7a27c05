package encode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func fittedEncoder(t *testing.T) *Structured {
	t.Helper()
	s := &Structured{}
	err := s.Fit(
		[][]float64{{1, 0, 500000}, {2, 1, 11920000}, {0, 1, 1217000}},
		[][]string{{"M", "single"}, {"F", "married"}, {"M", "married"}},
	)
	assert.NoError(t, err)
	return s
}

func TestStructuredWidth(t *testing.T) {
	s := fittedEncoder(t)
	// 3 numeric + 2 genders + 2 marital statuses
	assert.Equal(t, 7, s.Width())
}

func TestStructuredUnseenCategory(t *testing.T) {
	s := fittedEncoder(t)

	out, err := s.Transform(
		[][]float64{{1, 0, 500000}},
		[][]string{{"M", "divorced"}}, // marital value never seen in fit
	)
	assert.NoError(t, err)

	_, cols := out.Dims()
	assert.Equal(t, 7, cols)

	// marital block (last two columns) is all zeros, everything finite
	assert.Equal(t, 0.0, out.At(0, 5))
	assert.Equal(t, 0.0, out.At(0, 6))
	for j := 0; j < cols; j++ {
		assert.False(t, math.IsNaN(out.At(0, j)), "column %d is NaN", j)
		assert.False(t, math.IsInf(out.At(0, j), 0), "column %d is Inf", j)
	}
}

func TestStructuredTransformIdempotent(t *testing.T) {
	s := fittedEncoder(t)

	num := [][]float64{{2, 1, 800000}, {1, 0, 500000}}
	cat := [][]string{{"F", "married"}, {"M", "single"}}

	first, err := s.Transform(num, cat)
	assert.NoError(t, err)

	meanBefore := append([]float64(nil), s.Mean...)
	stdBefore := append([]float64(nil), s.Std...)

	second, err := s.Transform(num, cat)
	assert.NoError(t, err)

	// fit state untouched, outputs byte-identical
	assert.Equal(t, meanBefore, s.Mean)
	assert.Equal(t, stdBefore, s.Std)
	assert.True(t, mat.Equal(first, second))
}

func TestStructuredOneHotPlacement(t *testing.T) {
	s := fittedEncoder(t)

	out, err := s.Transform(
		[][]float64{{1, 0, 500000}},
		[][]string{{"F", "single"}},
	)
	assert.NoError(t, err)

	// vocab values are sorted: genders [F M], marital [married single]
	assert.Equal(t, 1.0, out.At(0, 3)) // F
	assert.Equal(t, 0.0, out.At(0, 4)) // M
	assert.Equal(t, 0.0, out.At(0, 5)) // married
	assert.Equal(t, 1.0, out.At(0, 6)) // single
}

func TestStructuredConstantColumn(t *testing.T) {
	s := &Structured{}
	err := s.Fit(
		[][]float64{{5, 1}, {5, 2}, {5, 3}},
		[][]string{{"a"}, {"a"}, {"b"}},
	)
	assert.NoError(t, err)

	out, err := s.Transform([][]float64{{5, 2}}, [][]string{{"a"}})
	assert.NoError(t, err)

	// zero-variance column scales with std guard of 1, not NaN
	assert.Equal(t, 0.0, out.At(0, 0))
	assert.False(t, math.IsNaN(out.At(0, 1)))
}

func TestStructuredNotFitted(t *testing.T) {
	s := &Structured{}
	_, err := s.Transform([][]float64{{1}}, [][]string{{"a"}})
	assert.Error(t, err)
}

func TestStructuredFitTransform(t *testing.T) {
	s := &Structured{}
	out, err := s.FitTransform(
		[][]float64{{1}, {3}},
		[][]string{{"x"}, {"y"}},
	)
	assert.NoError(t, err)

	rows, cols := out.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
}

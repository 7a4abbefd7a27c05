package model

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const (
	actLinear = iota
	actReLU
	actSigmoid
)

const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEps   = 1e-8
)

// denseLayer is a fully connected layer with its own Adam state.
// W is row-major Out x In.
type denseLayer struct {
	In  int       `json:"in"`
	Out int       `json:"out"`
	Act int       `json:"act"`
	W   []float64 `json:"w"`
	B   []float64 `json:"b"`

	mw, vw []float64
	mb, vb []float64
	step   int
}

func newDenseLayer(rng *rand.Rand, in, out, act int) *denseLayer {
	l := &denseLayer{
		In:  in,
		Out: out,
		Act: act,
		W:   make([]float64, in*out),
		B:   make([]float64, out),
	}
	// He init for ReLU, Xavier otherwise
	scale := math.Sqrt(2 / float64(in))
	if act != actReLU {
		scale = math.Sqrt(1 / float64(in))
	}
	for i := range l.W {
		l.W[i] = rng.NormFloat64() * scale
	}
	return l
}

func (l *denseLayer) forward(x []float64) (z, a []float64) {
	z = make([]float64, l.Out)
	a = make([]float64, l.Out)
	for k := 0; k < l.Out; k++ {
		z[k] = floats.Dot(l.W[k*l.In:(k+1)*l.In], x) + l.B[k]
	}
	switch l.Act {
	case actReLU:
		for k, v := range z {
			if v > 0 {
				a[k] = v
			}
		}
	case actSigmoid:
		for k, v := range z {
			a[k] = sigmoid(v)
		}
	default:
		copy(a, z)
	}
	return z, a
}

// backward consumes the gradient w.r.t. the post-activation output,
// updates the layer parameters, and returns the gradient w.r.t. x.
func (l *denseLayer) backward(x, z, a, da []float64, lr float64) []float64 {
	dz := make([]float64, l.Out)
	switch l.Act {
	case actReLU:
		for k, v := range da {
			if z[k] > 0 {
				dz[k] = v
			}
		}
	case actSigmoid:
		for k, v := range da {
			dz[k] = v * a[k] * (1 - a[k])
		}
	default:
		copy(dz, da)
	}
	return l.backwardDz(x, dz, lr)
}

// backwardDz is backward with the gradient already taken w.r.t. the
// pre-activation. Used by the output layer where the sigmoid and the
// cross-entropy derivative collapse to p-y.
func (l *denseLayer) backwardDz(x, dz []float64, lr float64) []float64 {
	if l.mw == nil {
		l.mw = make([]float64, len(l.W))
		l.vw = make([]float64, len(l.W))
		l.mb = make([]float64, len(l.B))
		l.vb = make([]float64, len(l.B))
	}
	dx := make([]float64, l.In)
	l.step++
	for k := 0; k < l.Out; k++ {
		row := l.W[k*l.In : (k+1)*l.In]
		floats.AddScaled(dx, dz[k], row)
		for j := 0; j < l.In; j++ {
			i := k*l.In + j
			l.W[i] -= adamStep(&l.mw[i], &l.vw[i], dz[k]*x[j], lr, l.step)
		}
		l.B[k] -= adamStep(&l.mb[k], &l.vb[k], dz[k], lr, l.step)
	}
	return dx
}

func (l *denseLayer) snapshot() []float64 {
	s := make([]float64, len(l.W)+len(l.B))
	copy(s, l.W)
	copy(s[len(l.W):], l.B)
	return s
}

func (l *denseLayer) restore(s []float64) {
	copy(l.W, s[:len(l.W)])
	copy(l.B, s[len(l.W):])
}

// adamStep advances one Adam moment pair and returns the parameter delta.
func adamStep(m, v *float64, g, lr float64, t int) float64 {
	*m = adamBeta1**m + (1-adamBeta1)*g
	*v = adamBeta2**v + (1-adamBeta2)*g*g
	mh := *m / (1 - math.Pow(adamBeta1, float64(t)))
	vh := *v / (1 - math.Pow(adamBeta2, float64(t)))
	return lr * mh / (math.Sqrt(vh) + adamEps)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

package model

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Network is the two-branch binary classifier: a dense stack over the
// structured feature vector and an embedding+dense stack over the
// token sequence, concatenated into a shared head with a single
// sigmoid output.
type Network struct {
	Cfg     Config        `json:"cfg"`
	Emb     []float64     `json:"emb"` // VocabSize x EmbeddingDim, row-major
	SLayers []*denseLayer `json:"structured"`
	TLayers []*denseLayer `json:"text"`
	MLayers []*denseLayer `json:"merged"`
	Out     *denseLayer   `json:"out"`

	rng        *rand.Rand
	embM, embV []float64
	embStep    int
}

// New assembles a network from the config with seeded random weights.
func New(cfg Config) (*Network, error) {
	cfg = cfg.withDefaults()
	if cfg.StructuredInputs <= 0 {
		return nil, fmt.Errorf("structured input width required")
	}
	if cfg.VocabSize <= 0 || cfg.SeqLen <= 0 {
		return nil, fmt.Errorf("vocab size and sequence length required")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	n := &Network{
		Cfg: cfg,
		Emb: make([]float64, cfg.VocabSize*cfg.EmbeddingDim),
		rng: rng,
	}
	for i := range n.Emb {
		n.Emb[i] = rng.NormFloat64() * 0.05
	}

	in := cfg.StructuredInputs
	for _, u := range cfg.StructuredUnits {
		n.SLayers = append(n.SLayers, newDenseLayer(rng, in, u, actReLU))
		in = u
	}
	sOut := in

	in = cfg.EmbeddingDim
	for _, u := range cfg.TextUnits {
		n.TLayers = append(n.TLayers, newDenseLayer(rng, in, u, actReLU))
		in = u
	}
	tOut := in

	in = sOut + tOut
	for _, u := range cfg.MergedUnits {
		n.MLayers = append(n.MLayers, newDenseLayer(rng, in, u, actReLU))
		in = u
	}
	n.Out = newDenseLayer(rng, in, 1, actSigmoid)
	return n, nil
}

// Load restores a serialized network for inference.
func Load(b []byte) (*Network, error) {
	var n Network
	if err := json.Unmarshal(b, &n); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	return &n, nil
}

// Marshal serializes the network weights and config.
func (n *Network) Marshal() ([]byte, error) {
	return json.Marshal(n)
}

type branchCache struct {
	in    [][]float64 // input to each layer
	zs    [][]float64
	as    [][]float64 // pre-dropout activations
	masks [][]float64 // nil outside training
}

type sampleCache struct {
	ids    []int
	pooled []float64
	npool  int
	s, t   *branchCache
	m      *branchCache
	mIn    []float64 // concat, input to merged stack
	outIn  []float64
	outZ   []float64
	prob   float64
}

func (n *Network) forwardBranch(layers []*denseLayer, x []float64, train bool) ([]float64, *branchCache) {
	c := &branchCache{}
	h := x
	for _, l := range layers {
		c.in = append(c.in, h)
		z, a := l.forward(h)
		c.zs = append(c.zs, z)
		c.as = append(c.as, a)
		var mask []float64
		if train && n.Cfg.Dropout > 0 {
			mask = make([]float64, len(a))
			keep := 1 - n.Cfg.Dropout
			dropped := make([]float64, len(a))
			for k := range a {
				if n.rng.Float64() < keep {
					mask[k] = 1 / keep
				}
				dropped[k] = a[k] * mask[k]
			}
			a = dropped
		}
		c.masks = append(c.masks, mask)
		h = a
	}
	return h, c
}

func (n *Network) backwardBranch(layers []*denseLayer, c *branchCache, dh []float64, lr float64) []float64 {
	for i := len(layers) - 1; i >= 0; i-- {
		if c.masks[i] != nil {
			masked := make([]float64, len(dh))
			floats.MulTo(masked, dh, c.masks[i])
			dh = masked
		}
		dh = layers[i].backward(c.in[i], c.zs[i], c.as[i], dh, lr)
	}
	return dh
}

// embPool mean-pools embedding rows over non-pad positions. All-pad
// sequences pool to the zero vector.
func (n *Network) embPool(ids []int) ([]float64, int) {
	d := n.Cfg.EmbeddingDim
	pooled := make([]float64, d)
	count := 0
	for _, id := range ids {
		if id == 0 || id >= n.Cfg.VocabSize {
			continue
		}
		floats.Add(pooled, n.Emb[id*d:(id+1)*d])
		count++
	}
	if count > 0 {
		floats.Scale(1/float64(count), pooled)
	}
	return pooled, count
}

func (n *Network) forward(x []float64, ids []int, train bool) *sampleCache {
	c := &sampleCache{ids: ids}
	c.pooled, c.npool = n.embPool(ids)

	sOut, sc := n.forwardBranch(n.SLayers, x, train)
	c.s = sc
	tOut, tc := n.forwardBranch(n.TLayers, c.pooled, train)
	c.t = tc

	c.mIn = make([]float64, 0, len(sOut)+len(tOut))
	c.mIn = append(c.mIn, sOut...)
	c.mIn = append(c.mIn, tOut...)

	mOut, mc := n.forwardBranch(n.MLayers, c.mIn, train)
	c.m = mc
	c.outIn = mOut

	z, a := n.Out.forward(mOut)
	c.outZ = z
	c.prob = a[0]
	return c
}

// trainStep runs one forward/backward pass and applies Adam updates.
// Returns the sample loss.
func (n *Network) trainStep(x []float64, ids []int, y float64) float64 {
	lr := n.Cfg.LearningRate
	c := n.forward(x, ids, true)

	// sigmoid + binary cross-entropy collapse to p-y at the output
	dm := n.Out.backwardDz(c.outIn, []float64{c.prob - y}, lr)
	dConcat := n.backwardBranch(n.MLayers, c.m, dm, lr)

	sWidth := len(dConcat) - widthOf(n.TLayers, n.Cfg.EmbeddingDim)
	n.backwardBranch(n.SLayers, c.s, dConcat[:sWidth], lr)
	dPooled := n.backwardBranch(n.TLayers, c.t, dConcat[sWidth:], lr)
	n.updateEmbedding(c, dPooled, lr)

	return bce(c.prob, y)
}

func widthOf(layers []*denseLayer, in int) int {
	if len(layers) == 0 {
		return in
	}
	return layers[len(layers)-1].Out
}

func (n *Network) updateEmbedding(c *sampleCache, dPooled []float64, lr float64) {
	if c.npool == 0 {
		return
	}
	if n.embM == nil {
		n.embM = make([]float64, len(n.Emb))
		n.embV = make([]float64, len(n.Emb))
	}
	d := n.Cfg.EmbeddingDim
	n.embStep++
	scale := 1 / float64(c.npool)
	for _, id := range c.ids {
		if id == 0 || id >= n.Cfg.VocabSize {
			continue
		}
		for j := 0; j < d; j++ {
			i := id*d + j
			n.Emb[i] -= adamStep(&n.embM[i], &n.embV[i], dPooled[j]*scale, lr, n.embStep)
		}
	}
}

// PredictProba returns the repayment probability for each row.
func (n *Network) PredictProba(X [][]float64, seqs [][]int) ([]float64, error) {
	if len(X) != len(seqs) {
		return nil, fmt.Errorf("row count mismatch: %d structured vs %d text", len(X), len(seqs))
	}
	out := make([]float64, len(X))
	for i := range X {
		if len(X[i]) != n.Cfg.StructuredInputs {
			return nil, fmt.Errorf("row %d has width %d, want %d", i, len(X[i]), n.Cfg.StructuredInputs)
		}
		c := n.forward(X[i], seqs[i], false)
		out[i] = c.prob
	}
	return out, nil
}

// Predict thresholds probabilities at 0.5 into binary labels.
func (n *Network) Predict(X [][]float64, seqs [][]int) ([]int, error) {
	probs, err := n.PredictProba(X, seqs)
	if err != nil {
		return nil, err
	}
	return Threshold(probs), nil
}

// Threshold converts probabilities to binary labels at 0.5.
func Threshold(probs []float64) []int {
	out := make([]int, len(probs))
	for i, p := range probs {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

// Evaluate computes mean binary cross-entropy and accuracy.
func (n *Network) Evaluate(X [][]float64, seqs [][]int, y []float64) (loss, acc float64, err error) {
	probs, err := n.PredictProba(X, seqs)
	if err != nil {
		return 0, 0, err
	}
	if len(y) != len(probs) {
		return 0, 0, fmt.Errorf("label count mismatch: %d labels vs %d rows", len(y), len(probs))
	}
	hits := 0
	for i, p := range probs {
		loss += bce(p, y[i])
		if (p >= 0.5) == (y[i] >= 0.5) {
			hits++
		}
	}
	loss /= float64(len(probs))
	acc = float64(hits) / float64(len(probs))
	return loss, acc, nil
}

func (n *Network) snapshot() [][]float64 {
	s := [][]float64{append([]float64(nil), n.Emb...)}
	for _, l := range n.layers() {
		s = append(s, l.snapshot())
	}
	return s
}

func (n *Network) restore(s [][]float64) {
	copy(n.Emb, s[0])
	for i, l := range n.layers() {
		l.restore(s[i+1])
	}
}

func (n *Network) layers() []*denseLayer {
	all := make([]*denseLayer, 0, len(n.SLayers)+len(n.TLayers)+len(n.MLayers)+1)
	all = append(all, n.SLayers...)
	all = append(all, n.TLayers...)
	all = append(all, n.MLayers...)
	all = append(all, n.Out)
	return all
}

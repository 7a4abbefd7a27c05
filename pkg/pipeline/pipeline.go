/*
Package pipeline wires the credit-scoring steps end to end: feature
derivation, seeded train/test split, leak-free structured and text
encoding, model training, and evaluation. Every lookup table and
policy comes in through the config; nothing is embedded.
*/
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/mchmarny/credpulse/pkg/config"
	"github.com/mchmarny/credpulse/pkg/data"
	"github.com/mchmarny/credpulse/pkg/encode"
	"github.com/mchmarny/credpulse/pkg/features"
	"github.com/mchmarny/credpulse/pkg/model"
	"github.com/mchmarny/credpulse/pkg/search"
	"gonum.org/v1/gonum/mat"
)

// Row is one applicant after feature derivation: scaled-ready numeric
// values, categorical labels (including the derived age group), the
// raw purpose text, and the label.
type Row struct {
	Numeric     []float64
	Categorical []string
	Text        string
	Label       float64
}

// NumericWidth is the number of numeric feature columns per row:
// children count, car flag, and city population.
const NumericWidth = 3

// Derivation carries the explicit lookup tables feature derivation
// depends on. It is serialized with the model so prediction replays
// the exact same mapping.
type Derivation struct {
	Cities            map[string]int `json:"cities"`
	DefaultPopulation int            `json:"default_population"`
	AgeBounds         []int          `json:"age_bounds"`
	Genders           []string       `json:"genders"`
}

// Derive converts applicants into feature rows. City and age are
// replaced by city population and age group; gender is normalized
// into the accepted symbol set.
func (d Derivation) Derive(apps []data.Applicant) []Row {
	rows := make([]Row, len(apps))
	for i, a := range apps {
		car := 0.0
		if a.HasCar {
			car = 1
		}
		pop := features.CityPopulation(d.Cities, d.DefaultPopulation, a.City)
		rows[i] = Row{
			Numeric: []float64{float64(a.Children), car, float64(pop)},
			Categorical: []string{
				features.NormalizeGender(d.Genders, a.Gender),
				a.Marital,
				a.Employer,
				a.Position,
				a.Property,
				features.AgeGroup(d.AgeBounds, a.Age),
			},
			Text:  a.Purpose,
			Label: float64(a.Repaid),
		}
	}
	return rows
}

// Result is the outcome of a pipeline run.
type Result struct {
	Report       *model.Report  `json:"report"`
	SearchReport *search.Report `json:"search_report,omitempty"`
	TestLoss     float64        `json:"test_loss"`
	TestAccuracy float64        `json:"test_accuracy"`
	Predictions  []int          `json:"predictions"`
	Artifacts    *Artifacts     `json:"-"`
}

// Run executes the direct two-branch variant: derive, split, encode,
// train, and evaluate on the untouched test partition.
func Run(cfg *config.Config, apps []data.Applicant) (*Result, error) {
	enc, err := prepare(cfg, apps)
	if err != nil {
		return nil, err
	}

	mcfg := cfg.Model
	mcfg.StructuredInputs = enc.structured.Width()
	mcfg.VocabSize = enc.tokenizer.VocabSize()
	mcfg.SeqLen = enc.tokenizer.MaxLen

	net, report, err := model.Train(mcfg, enc.trainX, enc.trainSeqs, enc.trainY)
	if err != nil {
		return nil, fmt.Errorf("training model: %w", err)
	}

	return enc.finish(net, report, nil)
}

// RunSearch executes the architecture-search variant: the same
// derive/split/encode steps, with each trial delegated to the shared
// trainer and the best candidate evaluated on the test partition.
func RunSearch(cfg *config.Config, apps []data.Applicant) (*Result, error) {
	enc, err := prepare(cfg, apps)
	if err != nil {
		return nil, err
	}

	base := cfg.Model
	base.StructuredInputs = enc.structured.Width()
	base.VocabSize = enc.tokenizer.VocabSize()
	base.SeqLen = enc.tokenizer.MaxLen

	sc := cfg.Search
	space := search.Space{
		Trials: sc.Trials,
		Seed:   sc.Seed,
		Variance: search.Variance{
			"learning_rate":    search.LogRange{sc.LearningRate.Min, sc.LearningRate.Max},
			"dropout":          search.Range{sc.Dropout.Min, sc.Dropout.Max},
			"structured_units": search.IntRange{sc.StructuredUnits.Min, sc.StructuredUnits.Max},
			"text_units":       search.IntRange{sc.TextUnits.Min, sc.TextUnits.Max},
			"embedding_dim":    toChoice(sc.EmbeddingDims),
		},
		ModelFunc: func(p search.Params) model.Config {
			c := base
			c.LearningRate = p.Get("learning_rate", base.LearningRate)
			c.Dropout = p.Get("dropout", base.Dropout)
			su := int(p.Get("structured_units", 64))
			c.StructuredUnits = []int{su, maxInt(su/2, 4)}
			c.TextUnits = []int{int(p.Get("text_units", 32))}
			c.EmbeddingDim = int(p.Get("embedding_dim", float64(base.EmbeddingDim)))
			return c
		},
	}

	net, sreport, err := space.Search(enc.trainX, enc.trainSeqs, enc.trainY)
	if err != nil {
		return nil, fmt.Errorf("architecture search: %w", err)
	}

	return enc.finish(net, sreport.Best.Report, sreport)
}

// encoded holds the fitted encoders and the encoded partitions.
type encoded struct {
	derivation Derivation
	structured *encode.Structured
	tokenizer  *encode.Tokenizer

	trainX, testX       [][]float64
	trainSeqs, testSeqs [][]int
	trainY, testY       []float64
}

func prepare(cfg *config.Config, apps []data.Applicant) (*encoded, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if len(apps) < 3 {
		return nil, fmt.Errorf("at least 3 applicants required, got %d", len(apps))
	}

	d := Derivation{
		Cities:            cfg.Cities,
		DefaultPopulation: cfg.DefaultPopulation,
		AgeBounds:         cfg.AgeBounds,
		Genders:           cfg.Genders,
	}
	rows := d.Derive(apps)
	train, test := Split(rows, cfg.Split.TestFraction, cfg.Split.Seed)
	if len(test) == 0 {
		return nil, fmt.Errorf("test partition is empty, adjust split fraction")
	}
	slog.Debug("partitioned dataset", "train", len(train), "test", len(test))

	// all fit state comes from the training partition only
	enc := &encoded{derivation: d, structured: &encode.Structured{}}
	if err := enc.structured.Fit(numeric(train), categorical(train)); err != nil {
		return nil, fmt.Errorf("fitting structured encoder: %w", err)
	}

	enc.tokenizer = &encode.Tokenizer{
		MaxVocab: cfg.Text.MaxVocab,
		MaxLen:   cfg.Text.MaxLen,
	}
	enc.tokenizer.Fit(texts(train))

	trainM, err := enc.structured.Transform(numeric(train), categorical(train))
	if err != nil {
		return nil, fmt.Errorf("encoding train partition: %w", err)
	}
	testM, err := enc.structured.Transform(numeric(test), categorical(test))
	if err != nil {
		return nil, fmt.Errorf("encoding test partition: %w", err)
	}

	enc.trainX = matRows(trainM)
	enc.testX = matRows(testM)
	enc.trainSeqs = enc.tokenizer.Transform(texts(train))
	enc.testSeqs = enc.tokenizer.Transform(texts(test))
	enc.trainY = labels(train)
	enc.testY = labels(test)
	return enc, nil
}

func (e *encoded) finish(net *model.Network, report *model.Report, sreport *search.Report) (*Result, error) {
	loss, acc, err := net.Evaluate(e.testX, e.testSeqs, e.testY)
	if err != nil {
		return nil, fmt.Errorf("evaluating test partition: %w", err)
	}
	preds, err := net.Predict(e.testX, e.testSeqs)
	if err != nil {
		return nil, fmt.Errorf("predicting test partition: %w", err)
	}

	return &Result{
		Report:       report,
		SearchReport: sreport,
		TestLoss:     loss,
		TestAccuracy: acc,
		Predictions:  preds,
		Artifacts: &Artifacts{
			Derivation: e.derivation,
			Structured: e.structured,
			Tokenizer:  e.tokenizer,
			Network:    net,
		},
	}, nil
}

func numeric(rows []Row) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Numeric
	}
	return out
}

func categorical(rows []Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Categorical
	}
	return out
}

func texts(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Text
	}
	return out
}

func labels(rows []Row) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Label
	}
	return out
}

func matRows(m *mat.Dense) [][]float64 {
	n, _ := m.Dims()
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = m.RawRowView(i)
	}
	return out
}

func toChoice(vals []int) search.Choice {
	if len(vals) == 0 {
		return search.Choice{16}
	}
	c := make(search.Choice, len(vals))
	for i, v := range vals {
		c[i] = float64(v)
	}
	return c
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

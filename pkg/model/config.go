package model

const (
	defaultEmbeddingDim    = 16
	defaultDropout         = 0.3
	defaultLearningRate    = 0.001
	defaultEpochs          = 30
	defaultValidationSplit = 0.2
	defaultScoreHistory    = 5
)

// Config describes the two-branch network and its training run.
// Zero values fall back to the defaults above.
type Config struct {
	StructuredInputs int     `json:"structured_inputs" yaml:"structured_inputs"`
	VocabSize        int     `json:"vocab_size" yaml:"vocab_size"`
	SeqLen           int     `json:"seq_len" yaml:"seq_len"`
	EmbeddingDim     int     `json:"embedding_dim" yaml:"embedding_dim"`
	StructuredUnits  []int   `json:"structured_units" yaml:"structured_units"`
	TextUnits        []int   `json:"text_units" yaml:"text_units"`
	MergedUnits      []int   `json:"merged_units" yaml:"merged_units"`
	Dropout          float64 `json:"dropout" yaml:"dropout"`
	LearningRate     float64 `json:"learning_rate" yaml:"learning_rate"`
	Epochs           int     `json:"epochs" yaml:"epochs"`
	ValidationSplit  float64 `json:"validation_split" yaml:"validation_split"`
	ScoreHistory     int     `json:"score_history" yaml:"score_history"`
	Seed             int64   `json:"seed" yaml:"seed"`
}

func (c Config) withDefaults() Config {
	if c.EmbeddingDim == 0 {
		c.EmbeddingDim = defaultEmbeddingDim
	}
	if len(c.StructuredUnits) == 0 {
		c.StructuredUnits = []int{64, 32}
	}
	if len(c.TextUnits) == 0 {
		c.TextUnits = []int{32}
	}
	if len(c.MergedUnits) == 0 {
		c.MergedUnits = []int{16}
	}
	if c.Dropout == 0 {
		c.Dropout = defaultDropout
	}
	if c.LearningRate == 0 {
		c.LearningRate = defaultLearningRate
	}
	if c.Epochs == 0 {
		c.Epochs = defaultEpochs
	}
	if c.ValidationSplit == 0 {
		c.ValidationSplit = defaultValidationSplit
	}
	if c.ScoreHistory == 0 {
		c.ScoreHistory = defaultScoreHistory
	}
	return c
}

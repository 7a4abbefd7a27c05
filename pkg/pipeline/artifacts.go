package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/mchmarny/credpulse/pkg/data"
	"github.com/mchmarny/credpulse/pkg/encode"
	"github.com/mchmarny/credpulse/pkg/model"
)

// Artifacts bundles everything a later prediction needs: the
// derivation tables, the fitted encoders, and the trained network.
type Artifacts struct {
	Derivation Derivation         `json:"derivation"`
	Structured *encode.Structured `json:"structured"`
	Tokenizer  *encode.Tokenizer  `json:"tokenizer"`
	Network    *model.Network     `json:"network"`
}

// Marshal serializes the artifacts for storage.
func (a *Artifacts) Marshal() ([]byte, error) {
	return json.Marshal(a)
}

// LoadArtifacts restores serialized artifacts.
func LoadArtifacts(b []byte) (*Artifacts, error) {
	var a Artifacts
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("decoding artifacts: %w", err)
	}
	if a.Structured == nil || a.Tokenizer == nil || a.Network == nil {
		return nil, fmt.Errorf("artifacts incomplete")
	}
	return &a, nil
}

// Prediction is one scored applicant.
type Prediction struct {
	ID          int64   `json:"id,omitempty" yaml:"id,omitempty"`
	Probability float64 `json:"probability" yaml:"probability"`
	Label       int     `json:"label" yaml:"label"`
}

// Predict scores applicants with the stored encoders and network.
// Unknown cities, categories, and tokens degrade to their documented
// defaults; labels on the input records are ignored.
func (a *Artifacts) Predict(apps []data.Applicant) ([]Prediction, error) {
	if len(apps) == 0 {
		return nil, fmt.Errorf("no applicants to predict")
	}

	rows := a.Derivation.Derive(apps)
	m, err := a.Structured.Transform(numeric(rows), categorical(rows))
	if err != nil {
		return nil, fmt.Errorf("encoding applicants: %w", err)
	}

	probs, err := a.Network.PredictProba(matRows(m), a.Tokenizer.Transform(texts(rows)))
	if err != nil {
		return nil, fmt.Errorf("scoring applicants: %w", err)
	}

	out := make([]Prediction, len(probs))
	labels := model.Threshold(probs)
	for i, p := range probs {
		out[i] = Prediction{ID: apps[i].ID, Probability: p, Label: labels[i]}
	}
	return out, nil
}

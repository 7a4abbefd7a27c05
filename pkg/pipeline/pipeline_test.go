package pipeline

import (
	"testing"

	"github.com/mchmarny/credpulse/pkg/config"
	"github.com/mchmarny/credpulse/pkg/data"
	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Model.Epochs = 3
	cfg.Search.Trials = 2
	return cfg
}

func TestDeriveReplacesFields(t *testing.T) {
	d := Derivation{
		Cities:            map[string]int{"Moscow": 11920000},
		DefaultPopulation: 500000,
		AgeBounds:         []int{25, 30, 35, 40, 45},
		Genders:           []string{"M", "F"},
	}

	rows := d.Derive([]data.Applicant{
		{Age: 27, Gender: "female", Marital: "single", Children: 1, Employer: "X", Position: "Y", Property: "rented", HasCar: true, City: "Nowhere", Purpose: "a loan"},
	})

	assert.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, []float64{1, 1, 500000}, r.Numeric)
	assert.Equal(t, "M", r.Categorical[0]) // out-of-set gender coerced
	assert.Equal(t, "25-29", r.Categorical[5])
	assert.Equal(t, "a loan", r.Text)
	assert.Len(t, r.Categorical, 6)
}

func TestPrepareSampleSplitAndWidth(t *testing.T) {
	cfg := testConfig()

	enc, err := prepare(cfg, data.SampleApplicants)
	assert.NoError(t, err)

	// 12 rows at 0.2 -> 2 test rows
	assert.Len(t, enc.testX, 2)
	assert.Len(t, enc.trainX, 10)
	assert.Len(t, enc.testSeqs, 2)
	assert.Len(t, enc.testY, 2)

	// width = 3 numeric + cardinalities observed on train rows only
	expected := NumericWidth
	for _, v := range enc.structured.Vocab {
		expected += len(v)
	}
	assert.Equal(t, expected, enc.structured.Width())
	assert.Len(t, enc.trainX[0], expected)
	assert.Len(t, enc.testX[0], expected)

	// token sequences honor the configured fixed length
	for _, s := range enc.trainSeqs {
		assert.Len(t, s, cfg.Text.MaxLen)
	}
}

func TestPrepareValidation(t *testing.T) {
	cfg := testConfig()

	_, err := prepare(nil, data.SampleApplicants)
	assert.Error(t, err, "missing config")

	_, err = prepare(cfg, data.SampleApplicants[:2])
	assert.Error(t, err, "too few rows")

	bad := *cfg
	bad.Split.TestFraction = 0
	_, err = prepare(&bad, data.SampleApplicants)
	assert.Error(t, err, "empty test partition")
}

func TestRunEndToEnd(t *testing.T) {
	res, err := Run(testConfig(), data.SampleApplicants)
	assert.NoError(t, err)

	assert.NotNil(t, res.Report)
	assert.Nil(t, res.SearchReport)
	assert.NotNil(t, res.Artifacts)
	assert.Len(t, res.Predictions, 2)
	for _, p := range res.Predictions {
		assert.True(t, p == 0 || p == 1)
	}
	assert.GreaterOrEqual(t, res.TestAccuracy, 0.0)
	assert.LessOrEqual(t, res.TestAccuracy, 1.0)
}

func TestRunSearchEndToEnd(t *testing.T) {
	res, err := RunSearch(testConfig(), data.SampleApplicants)
	assert.NoError(t, err)

	assert.NotNil(t, res.SearchReport)
	assert.Len(t, res.SearchReport.Trials, 2)
	assert.NotNil(t, res.Artifacts)
	assert.Len(t, res.Predictions, 2)
}

func TestArtifactsRoundTrip(t *testing.T) {
	res, err := Run(testConfig(), data.SampleApplicants)
	assert.NoError(t, err)

	b, err := res.Artifacts.Marshal()
	assert.NoError(t, err)

	restored, err := LoadArtifacts(b)
	assert.NoError(t, err)

	want, err := res.Artifacts.Predict(data.SampleApplicants)
	assert.NoError(t, err)
	got, err := restored.Predict(data.SampleApplicants)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestArtifactsPredictUnknownValues(t *testing.T) {
	res, err := Run(testConfig(), data.SampleApplicants)
	assert.NoError(t, err)

	// unknown city, unseen employer, out-of-vocabulary purpose text
	preds, err := res.Artifacts.Predict([]data.Applicant{
		{Age: 99, Gender: "x", Marital: "widowed", Children: 9, Employer: "Unknown Corp", Position: "astronaut", Property: "yacht", City: "Atlantis", Purpose: "zzz qqq xyzzy", Repaid: -1},
	})
	assert.NoError(t, err)
	assert.Len(t, preds, 1)
	assert.GreaterOrEqual(t, preds[0].Probability, 0.0)
	assert.LessOrEqual(t, preds[0].Probability, 1.0)
	assert.True(t, preds[0].Label == 0 || preds[0].Label == 1)
}

func TestLoadArtifactsInvalid(t *testing.T) {
	_, err := LoadArtifacts([]byte("not json"))
	assert.Error(t, err)

	_, err = LoadArtifacts([]byte("{}"))
	assert.Error(t, err, "incomplete artifacts")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	c := Default()
	assert.NotEmpty(t, c.Cities)
	assert.Equal(t, 500000, c.DefaultPopulation)
	assert.Equal(t, []int{25, 30, 35, 40, 45}, c.AgeBounds)
	assert.Equal(t, []string{"M", "F"}, c.Genders)
	assert.Equal(t, 0.2, c.Split.TestFraction)
	assert.Positive(t, c.Text.MaxVocab)
	assert.Positive(t, c.Text.MaxLen)
	assert.Positive(t, c.Model.Epochs)
	assert.Positive(t, c.Search.Trials)
}

func TestReadOrCreateRoundTrip(t *testing.T) {
	dir := t.TempDir()

	// first call writes the default config
	c1, err := ReadOrCreate(dir)
	assert.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, configFileName))

	// second call reads it back unchanged
	c2, err := ReadOrCreate(dir)
	assert.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestSaveAndRead(t *testing.T) {
	dir := t.TempDir()

	c := Default()
	c.Split.Seed = 99
	c.Cities["Testville"] = 123

	assert.NoError(t, Save(dir, c))

	got, err := Read(filepath.Join(dir, configFileName))
	assert.NoError(t, err)
	assert.Equal(t, int64(99), got.Split.Seed)
	assert.Equal(t, 123, got.Cities["Testville"])
}

func TestSaveValidation(t *testing.T) {
	assert.Error(t, Save("", Default()))
	assert.Error(t, Save(t.TempDir(), nil))
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestReadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("cities: [not a map"), 0600))
	_, err := Read(path)
	assert.Error(t, err)
}

func TestReadOrCreateRequiresDir(t *testing.T) {
	_, err := ReadOrCreate("")
	assert.Error(t, err)
}

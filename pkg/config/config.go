package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/credpulse/pkg/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600
)

// Config is the explicit pipeline configuration: every lookup table
// and policy the feature derivation, encoding, split, and training
// steps depend on lives here rather than in embedded constants.
type Config struct {
	Cities            map[string]int `yaml:"cities"`
	DefaultPopulation int            `yaml:"default_population"`
	AgeBounds         []int          `yaml:"age_bounds"`
	Genders           []string       `yaml:"genders"`
	Split             Split          `yaml:"split"`
	Text              Text           `yaml:"text"`
	Model             model.Config   `yaml:"model"`
	Search            Search         `yaml:"search"`
}

// Split controls the train/test partition.
type Split struct {
	TestFraction float64 `yaml:"test_fraction"`
	Seed         int64   `yaml:"seed"`
}

// Text bounds the tokenizer vocabulary and sequence length.
type Text struct {
	MaxVocab int `yaml:"max_vocab"`
	MaxLen   int `yaml:"max_len"`
}

// Search configures the architecture search variant.
type Search struct {
	Trials          int       `yaml:"trials"`
	Seed            int64     `yaml:"seed"`
	LearningRate    MinMax    `yaml:"learning_rate"`
	Dropout         MinMax    `yaml:"dropout"`
	StructuredUnits IntMinMax `yaml:"structured_units"`
	TextUnits       IntMinMax `yaml:"text_units"`
	EmbeddingDims   []int     `yaml:"embedding_dims"`
}

// MinMax is an open float sampling range.
type MinMax struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// IntMinMax is a closed integer sampling range.
type IntMinMax struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		Cities: map[string]int{
			"Moscow":           11920000,
			"Saint Petersburg": 4991000,
			"Novosibirsk":      1584000,
			"Yekaterinburg":    1444000,
			"Kazan":            1217000,
			"Samara":           1173000,
			"Omsk":             1156000,
		},
		DefaultPopulation: 500000,
		AgeBounds:         []int{25, 30, 35, 40, 45},
		Genders:           []string{"M", "F"},
		Split: Split{
			TestFraction: 0.2,
			Seed:         42,
		},
		Text: Text{
			MaxVocab: 1000,
			MaxLen:   10,
		},
		Model: model.Config{
			EmbeddingDim:    16,
			StructuredUnits: []int{64, 32},
			TextUnits:       []int{32},
			MergedUnits:     []int{16},
			Dropout:         0.3,
			LearningRate:    0.001,
			Epochs:          30,
			ValidationSplit: 0.2,
			ScoreHistory:    5,
			Seed:            42,
		},
		Search: Search{
			Trials:          10,
			Seed:            42,
			LearningRate:    MinMax{Min: 0.0005, Max: 0.01},
			Dropout:         MinMax{Min: 0.1, Max: 0.5},
			StructuredUnits: IntMinMax{Min: 16, Max: 96},
			TextUnits:       IntMinMax{Min: 8, Max: 48},
			EmbeddingDims:   []int{8, 16, 32},
		},
	}
}

// Save writes the config into the given directory.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", configFileName)
	}
	return nil
}

// Read loads the config from an explicit file path.
func Read(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}
	return &c, nil
}

// ReadOrCreate reads the app config from a directory, writing the
// default config there first when none exists.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
		}
	}

	path := filepath.Join(dirPath, configFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(dirPath, Default()); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}
	return Read(path)
}

// GetOrCreateHomeDir returns the app directory for the current user.
// The created flag is true when the directory did not exist before.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get user home dir")
	}

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, errors.Wrapf(err, "failed to create dir: %s", dir)
		}
		created = true
	}
	return dir, created, nil
}

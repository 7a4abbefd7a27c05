package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testCities = map[string]int{
	"Moscow": 11920000,
	"Kazan":  1217000,
}

func TestCityPopulation(t *testing.T) {
	tests := map[string]int{
		"Moscow":     11920000,
		"Kazan":      1217000,
		" Kazan ":    1217000,
		"Atlantis":   PopulationDefault,
		"":           PopulationDefault,
		"moscow":     PopulationDefault, // lookup is exact-match
		"Balashikha": PopulationDefault,
	}

	for city, expected := range tests {
		val := CityPopulation(testCities, PopulationDefault, city)
		assert.Equal(t, expected, val, "city: %s", city)
	}
}

func TestCityPopulationCustomDefault(t *testing.T) {
	assert.Equal(t, 42000, CityPopulation(testCities, 42000, "Atlantis"))
	assert.Equal(t, PopulationDefault, CityPopulation(testCities, 0, "Atlantis"))
}

func TestAgeGroupBoundaries(t *testing.T) {
	bounds := []int{25, 30, 35, 40, 45}

	tests := map[int]string{
		0:   "under-25",
		18:  "under-25",
		24:  "under-25",
		25:  "25-29", // boundary opens the next bin
		29:  "25-29",
		30:  "30-34",
		44:  "40-44",
		45:  "45-plus",
		52:  "45-plus",
		100: "45-plus",
	}

	for age, expected := range tests {
		assert.Equal(t, expected, AgeGroup(bounds, age), "age: %d", age)
	}
}

func TestAgeGroupCoversFullDomain(t *testing.T) {
	bounds := []int{25, 30, 35, 40, 45}
	labels := AgeGroupLabels(bounds)
	assert.Len(t, labels, len(bounds)+1)

	// every age maps to exactly one known label, and consecutive
	// ages never skip a bucket
	prev := ""
	prevIdx := -1
	idx := map[string]int{}
	for i, l := range labels {
		idx[l] = i
	}
	for age := 0; age <= 120; age++ {
		g := AgeGroup(bounds, age)
		i, ok := idx[g]
		assert.True(t, ok, "age %d mapped to unknown label %s", age, g)
		if prev != "" && g != prev {
			assert.Equal(t, prevIdx+1, i, "age %d jumped from %s to %s", age, prev, g)
		}
		prev = g
		prevIdx = i
	}
}

func TestNormalizeGender(t *testing.T) {
	accepted := []string{"M", "F"}

	tests := map[string]string{
		"M":       "M",
		"F":       "F",
		"m":       "M",
		" f ":     "F",
		"male":    "M", // outside the set, coerced to first symbol
		"unknown": "M",
		"":        "M",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, NormalizeGender(accepted, input), "input: %q", input)
	}
}

package features

import (
	"fmt"
	"strings"
)

const (
	// PopulationDefault is the population assigned to cities
	// absent from the lookup table.
	PopulationDefault = 500000
)

// CityPopulation resolves a city name against the lookup table.
// Matching is exact after whitespace trimming; any unlisted city
// maps to defaultPop rather than raising an error.
func CityPopulation(table map[string]int, defaultPop int, city string) int {
	if defaultPop <= 0 {
		defaultPop = PopulationDefault
	}
	if p, ok := table[strings.TrimSpace(city)]; ok {
		return p
	}
	return defaultPop
}

// AgeGroup maps an age to a bucket label. Bounds are ascending upper
// boundaries, each bin left-inclusive/right-exclusive, with the final
// bin absorbing every age at or above the last boundary.
func AgeGroup(bounds []int, age int) string {
	labels := AgeGroupLabels(bounds)
	for i, b := range bounds {
		if age < b {
			return labels[i]
		}
	}
	return labels[len(labels)-1]
}

// AgeGroupLabels returns the ordered label set derived from bounds:
// one label below the first boundary, one per interval, and one
// open-ended label above the last boundary.
func AgeGroupLabels(bounds []int) []string {
	labels := make([]string, 0, len(bounds)+1)
	for i, b := range bounds {
		if i == 0 {
			labels = append(labels, fmt.Sprintf("under-%d", b))
			continue
		}
		labels = append(labels, fmt.Sprintf("%d-%d", bounds[i-1], b-1))
	}
	labels = append(labels, fmt.Sprintf("%d-plus", bounds[len(bounds)-1]))
	return labels
}

// NormalizeGender coerces a raw gender value into the accepted symbol
// set. Values outside the set degrade to the first accepted symbol,
// never to an error.
func NormalizeGender(accepted []string, g string) string {
	v := strings.ToUpper(strings.TrimSpace(g))
	for _, a := range accepted {
		if v == strings.ToUpper(a) {
			return a
		}
	}
	return accepted[0]
}

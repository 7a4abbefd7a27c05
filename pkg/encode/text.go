package encode

import (
	"sort"
	"strings"
	"unicode"
)

const (
	// PadIndex fills positions left of short sequences.
	PadIndex = 0
	// OOVIndex marks tokens absent from the fitted vocabulary.
	OOVIndex = 1

	reservedIndexes = 2
)

// Tokenizer maps documents to fixed-length integer index sequences.
// The vocabulary is built from training text only, bounded by MaxVocab
// and ordered by descending frequency. Sequences longer than MaxLen
// keep their trailing tokens; shorter ones are left-padded.
type Tokenizer struct {
	MaxVocab int            `json:"max_vocab"`
	MaxLen   int            `json:"max_len"`
	Index    map[string]int `json:"index"`
}

// Tokens lowercases a document and splits it on any non-letter,
// non-digit rune.
func Tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Fit builds the bounded frequency vocabulary. Ties in frequency
// break alphabetically so the index assignment is deterministic.
func (t *Tokenizer) Fit(texts []string) {
	freq := map[string]int{}
	for _, s := range texts {
		for _, tok := range Tokens(s) {
			freq[tok]++
		}
	}
	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	if t.MaxVocab > 0 && len(words) > t.MaxVocab {
		words = words[:t.MaxVocab]
	}
	t.Index = make(map[string]int, len(words))
	for i, w := range words {
		t.Index[w] = i + reservedIndexes
	}
}

// VocabSize returns the index space size including the pad and
// out-of-vocabulary sentinels.
func (t *Tokenizer) VocabSize() int {
	return len(t.Index) + reservedIndexes
}

// Transform encodes each document as exactly MaxLen indices. Unseen
// tokens map to OOVIndex rather than raising an error.
func (t *Tokenizer) Transform(texts []string) [][]int {
	out := make([][]int, len(texts))
	for i, s := range texts {
		out[i] = t.transformOne(s)
	}
	return out
}

func (t *Tokenizer) transformOne(s string) []int {
	toks := Tokens(s)
	ids := make([]int, 0, len(toks))
	for _, tok := range toks {
		if id, ok := t.Index[tok]; ok {
			ids = append(ids, id)
		} else {
			ids = append(ids, OOVIndex)
		}
	}
	// keep the sequence tail, pad on the left
	if len(ids) > t.MaxLen {
		ids = ids[len(ids)-t.MaxLen:]
	}
	if len(ids) < t.MaxLen {
		padded := make([]int, t.MaxLen-len(ids), t.MaxLen)
		ids = append(padded, ids...)
	}
	return ids
}

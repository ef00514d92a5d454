package match

import (
	"sort"
)

// Candidate is a known name scored against an unresolved one.
type Candidate struct {
	// Name is the candidate as it should be displayed, e.g. "geo.Point".
	Name string
	// Local is the unqualified part compared against the unresolved name.
	Local string
	// Score is the normalized similarity (0-1, higher is better).
	Score float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// Similarity thresholds for suggestions.
const (
	// DefaultMinScore is the minimum similarity for a name to be suggested.
	DefaultMinScore = 0.6
	// DefaultMaxSuggestions caps the number of suggestions per diagnostic.
	DefaultMaxSuggestions = 3
)

// RankCandidates scores every known name against want.
// known maps display name to local name. Result is sorted by score
// (descending), then display name.
func RankCandidates(want string, known map[string]string) CandidateList {
	candidates := make(CandidateList, 0, len(known))

	wantNorm := Normalize(want)
	wantStem := Stem(want)

	for display, local := range known {
		score := Similarity(wantNorm, Normalize(local))

		// Comparing stems catches "UserID" vs "User".
		if stemmed := Similarity(wantStem, Stem(local)); stemmed > score {
			score = stemmed
		}

		candidates = append(candidates, Candidate{Name: display, Local: local, Score: score})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to limit display names scoring at least DefaultMinScore.
func Suggest(want string, known map[string]string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	var out []string

	for _, c := range RankCandidates(want, known).AboveThreshold(DefaultMinScore).Top(limit) {
		out = append(out, c.Name)
	}

	return out
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns candidates with score at or above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

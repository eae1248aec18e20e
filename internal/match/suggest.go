package match

import (
	"cmp"
	"slices"
)

// DefaultMinScore is the similarity below which a name is not worth suggesting.
const DefaultMinScore = 0.5

// Candidate is a known name scored against a query.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is ordered by descending score, ties broken by name.
type CandidateList []Candidate

// Rank scores every name against query. Duplicate names are scored once.
func Rank(query string, names []string) CandidateList {
	seen := make(map[string]bool, len(names))
	list := make(CandidateList, 0, len(names))

	for _, n := range names {
		if seen[n] {
			continue
		}

		seen[n] = true
		list = append(list, Candidate{Name: n, Score: NameScore(query, n)})
	}

	slices.SortFunc(list, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return list
}

// AboveThreshold keeps candidates scoring at least minScore.
func (l CandidateList) AboveThreshold(minScore float64) CandidateList {
	out := make(CandidateList, 0, len(l))

	for _, c := range l {
		if c.Score >= minScore {
			out = append(out, c)
		}
	}

	return out
}

// Top returns at most n candidates.
func (l CandidateList) Top(n int) CandidateList {
	if n < 0 || n >= len(l) {
		return l
	}

	return l[:n]
}

// Names returns the candidate names in order.
func (l CandidateList) Names() []string {
	out := make([]string, len(l))
	for i, c := range l {
		out[i] = c.Name
	}

	return out
}

// Suggest returns up to n of names that look like query, best first.
func Suggest(query string, names []string, n int) []string {
	return Rank(query, names).AboveThreshold(DefaultMinScore).Top(n).Names()
}

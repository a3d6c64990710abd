package enrichment

import "strings"

type PairReason string

const (
	PairExactName PairReason = "exact_name"
	PairProbable  PairReason = "probable"
)

// DuplicatePair records one suspected duplicate relationship between two
// workflows in a working set.
type DuplicatePair struct {
	IDA    string     `json:"id_a"`
	NameA  string     `json:"name_a"`
	IDB    string     `json:"id_b"`
	NameB  string     `json:"name_b"`
	Reason PairReason `json:"reason"`
}

// Candidate is one classified workflow entering duplicate detection.
type Candidate struct {
	ID         string
	Name       string
	Enrichment Enrichment
}

// DetectDuplicates scans every unordered pair in the working set. The scan is
// quadratic; working sets are dashboard-sized, so a blocking key is not worth
// its complexity here. The returned map accumulates, per workflow id, the
// names it was paired against.
func DetectDuplicates(candidates []Candidate) ([]DuplicatePair, map[string][]string) {
	var pairs []DuplicatePair

	similar := make(map[string][]string)

	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]

			reason, ok := pairReason(a, b)
			if !ok {
				continue
			}

			pairs = append(pairs, DuplicatePair{
				IDA:    a.ID,
				NameA:  a.Name,
				IDB:    b.ID,
				NameB:  b.Name,
				Reason: reason,
			})

			similar[a.ID] = append(similar[a.ID], b.Name)
			similar[b.ID] = append(similar[b.ID], a.Name)
		}
	}

	return pairs, similar
}

func pairReason(a, b Candidate) (PairReason, bool) {
	if strings.EqualFold(a.Name, b.Name) {
		return PairExactName, true
	}

	if a.Enrichment.Domain != DomainUnknown &&
		a.Enrichment.Domain == b.Enrichment.Domain &&
		a.Enrichment.Output == b.Enrichment.Output &&
		firstWords(a.Name) == firstWords(b.Name) {
		return PairProbable, true
	}

	return "", false
}

// firstWords normalizes a name down to its first three lower-cased words.
func firstWords(name string) string {
	words := strings.Fields(strings.ToLower(name))
	if len(words) > 3 {
		words = words[:3]
	}

	return strings.Join(words, " ")
}

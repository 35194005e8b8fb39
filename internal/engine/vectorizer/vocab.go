package vectorizer

import "sort"

// termStat accumulates corpus statistics for one term.
type termStat struct {
	tf int // occurrences across the corpus
	df int // documents containing the term
}

// buildVocab counts terms over docs and keeps the maxFeatures most frequent
// ones (ties broken alphabetically). The returned terms are sorted
// alphabetically and dfs is aligned with them.
func buildVocab(docs [][]string, maxFeatures int) (terms []string, dfs []int) {
	stats := make(map[string]*termStat)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, tok := range doc {
			st, ok := stats[tok]
			if !ok {
				st = &termStat{}
				stats[tok] = st
			}
			st.tf++
			if !seen[tok] {
				st.df++
				seen[tok] = true
			}
		}
	}

	terms = make([]string, 0, len(stats))
	for term := range stats {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		a, b := stats[terms[i]], stats[terms[j]]
		if a.tf != b.tf {
			return a.tf > b.tf
		}
		return terms[i] < terms[j]
	})
	if maxFeatures > 0 && len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	dfs = make([]int, len(terms))
	for i, term := range terms {
		dfs[i] = stats[term].df
	}
	return terms, dfs
}

// indexTerms maps each term to its column.
func indexTerms(terms []string) map[string]int {
	idx := make(map[string]int, len(terms))
	for i, term := range terms {
		idx[term] = i
	}
	return idx
}

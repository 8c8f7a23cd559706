// Package stats aggregates per-post tallies into run-level summaries.
package stats

import (
	"fmt"
	"sort"
	"strings"
)

// Count generates a frequency map for a single post's category terms.
func Count(terms []string) map[string]int {
	frequencies := make(map[string]int)
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		frequencies[term]++
	}
	return frequencies
}

// Reduce aggregates a slice of frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for term, count := range counts {
			finalResults[term] += count
		}
	}

	return finalResults
}

type termCount struct {
	Term  string
	Count int
}

// TopN returns the n most frequent terms as "term (count)" strings, highest
// count first, ties broken alphabetically so output is stable.
func TopN(frequencies map[string]int, n int) []string {
	counts := make([]termCount, 0, len(frequencies))
	for k, v := range frequencies {
		counts = append(counts, termCount{k, v})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Term < counts[j].Term
	})

	limit := n
	if len(counts) < n {
		limit = len(counts)
	}

	topN := make([]string, limit)
	for i := 0; i < limit; i++ {
		topN[i] = fmt.Sprintf("%s (%d)", counts[i].Term, counts[i].Count)
	}

	return topN
}

package rag

import "sort"

// SortScored orders scored documents by descending score. Equal scores keep their
// input order.
func SortScored(docs []ScoredDocument) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Score > docs[j].Score
	})
}

// Top returns at most n leading entries. n <= 0 returns docs unchanged.
func Top(docs []ScoredDocument, n int) []ScoredDocument {
	if n > 0 && len(docs) > n {
		return docs[:n]
	}
	return docs
}

// applyOrder reorders candidates by order, a list of candidate positions. Positions
// out of range or repeated are ignored.
func applyOrder(candidates []ScoredDocument, order []int) []ScoredDocument {
	seen := make(map[int]bool, len(order))
	out := make([]ScoredDocument, 0, len(order))
	for _, pos := range order {
		if pos < 0 || pos >= len(candidates) || seen[pos] {
			continue
		}
		seen[pos] = true
		out = append(out, candidates[pos])
	}
	return out
}

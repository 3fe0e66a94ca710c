package compare

import "sort"

// RankByTANW returns indices ordered by final TANW, highest first; ties keep input order
func RankByTANW(results []ComparisonResult) []int {
	idx := make([]int, len(results))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return results[idx[a]].FinalTANW.GreaterThan(results[idx[b]].FinalTANW)
	})
	return idx
}

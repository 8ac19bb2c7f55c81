package services

import "sort"

// NextChunkIndex returns the smallest positive label not used in index.
//
// Labels are reused as chunks come and go so the numbers users match between
// the scatter plot and the chunk cards stay small in long sessions.
func NextChunkIndex(index map[string]int) int {
	used := make([]int, 0, len(index))
	for _, n := range index {
		used = append(used, n)
	}
	sort.Ints(used)

	if len(used) == 0 || used[0] > 1 {
		return 1
	}
	for i := 1; i < len(used); i++ {
		if used[i]-used[i-1] > 1 {
			return used[i-1] + 1
		}
	}
	return used[len(used)-1] + 1
}

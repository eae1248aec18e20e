package gen

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// topoSort returns node indices so that every node follows the nodes
// depsFn reports for it.
//
// When several nodes are ready the smallest index goes first, so the
// result only depends on the input order. A cycle is an error listing the
// nodes left unsorted.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, errors.Newf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k, _ := slices.BinarySearch(ready, j)
				ready = slices.Insert(ready, k, j)
			}
		}
	}

	if len(order) != n {
		var left []int

		for i := range n {
			if indeg[i] > 0 {
				left = append(left, i)
			}
		}

		return nil, errors.Newf("cycle detected among nodes %v", left)
	}

	return order, nil
}

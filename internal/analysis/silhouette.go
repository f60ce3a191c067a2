package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// distinctClusters counts the cluster ids that received at least one row.
func distinctClusters(labels []int) int {
	seen := make(map[int]struct{})
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}

// silhouette returns the mean silhouette coefficient over all rows, using
// Euclidean distance. ok is false when the score is undefined: fewer than two
// formed clusters, or as many clusters as rows.
func silhouette(x [][]float64, labels []int) (score float64, ok bool) {
	n := len(x)
	k := distinctClusters(labels)
	if k < 2 || k >= n {
		return 0, false
	}

	size := make(map[int]int)
	for _, l := range labels {
		size[l]++
	}

	var total float64
	for i := range x {
		if size[labels[i]] == 1 {
			continue
		}
		sum := make(map[int]float64)
		for j := range x {
			if i == j {
				continue
			}
			sum[labels[j]] += floats.Distance(x[i], x[j], 2)
		}
		a := sum[labels[i]] / float64(size[labels[i]]-1)
		b := math.Inf(1)
		for c, s := range sum {
			if c == labels[i] {
				continue
			}
			b = math.Min(b, s/float64(size[c]))
		}
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n), true
}

package analysis

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// kmeansRun is the outcome of one Lloyd run from one initialization.
type kmeansRun struct {
	labels  []int
	centers [][]float64
	inertia float64
	iters   int
}

// sqDist is the squared Euclidean distance between a and b.
func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

// nearest returns the index of the closest centre and its squared distance.
// Ties go to the lowest index.
func nearest(p []float64, centers [][]float64) (int, float64) {
	best, bestD := 0, math.Inf(1)
	for c, ctr := range centers {
		if d := sqDist(p, ctr); d < bestD {
			best, bestD = c, d
		}
	}
	return best, bestD
}

// tolerance scales tol by the mean per-column variance of x, so convergence
// does not depend on the feature scale.
func tolerance(x [][]float64, tol float64) float64 {
	if len(x) == 0 {
		return 0
	}
	d := len(x[0])
	col := make([]float64, len(x))
	var sum float64
	for j := 0; j < d; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		_, std := stat.PopMeanStdDev(col, nil)
		sum += std * std
	}
	return tol * sum / float64(d)
}

// kmeans runs nInit seeded k-means++ initializations followed by Lloyd
// iterations and keeps the run with the lowest inertia. The master rng seeded
// with seed drives every run, so identical input and seed give identical output.
func kmeans(x [][]float64, k, nInit, maxIter int, seed int64) kmeansRun {
	master := rand.New(rand.NewSource(seed))
	tol := tolerance(x, 1e-4)

	var best kmeansRun
	for run := 0; run < nInit; run++ {
		rng := rand.New(rand.NewSource(master.Int63()))
		centers := initPlusPlus(x, k, rng)
		r := lloyd(x, centers, maxIter, tol)
		if run == 0 || r.inertia < best.inertia {
			best = r
		}
	}
	return best
}

// initPlusPlus picks k starting centres with greedy k-means++: each new
// centre is the best of 2+ln(k) candidates sampled proportionally to their
// squared distance from the already chosen centres.
func initPlusPlus(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(x)
	centers := make([][]float64, 0, k)
	first := rng.Intn(n)
	centers = append(centers, append([]float64(nil), x[first]...))

	closest := make([]float64, n)
	for i := range x {
		closest[i] = sqDist(x[i], centers[0])
	}
	trials := 2 + int(math.Log(float64(k)))

	for len(centers) < k {
		potential := floats.Sum(closest)
		bestIdx, bestPot := -1, math.Inf(1)
		var bestClosest []float64
		for t := 0; t < trials; t++ {
			idx := sampleIndex(closest, potential, rng)
			cand := make([]float64, n)
			for i := range x {
				cand[i] = math.Min(closest[i], sqDist(x[i], x[idx]))
			}
			if pot := floats.Sum(cand); pot < bestPot {
				bestIdx, bestPot, bestClosest = idx, pot, cand
			}
		}
		centers = append(centers, append([]float64(nil), x[bestIdx]...))
		closest = bestClosest
	}
	return centers
}

// sampleIndex draws an index with probability weights[i]/total, or uniformly
// when every weight is zero.
func sampleIndex(weights []float64, total float64, rng *rand.Rand) int {
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	r := rng.Float64() * total
	var acc float64
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return len(weights) - 1
}

func lloyd(x [][]float64, centers [][]float64, maxIter int, tol float64) kmeansRun {
	n, k := len(x), len(centers)
	d := len(x[0])
	labels := make([]int, n)

	iters := 0
	for iters < maxIter {
		iters++
		for i, p := range x {
			labels[i], _ = nearest(p, centers)
		}

		next := make([][]float64, k)
		counts := make([]int, k)
		for c := range next {
			next[c] = make([]float64, d)
		}
		for i, p := range x {
			floats.Add(next[labels[i]], p)
			counts[labels[i]]++
		}
		for c := range next {
			if counts[c] > 0 {
				floats.Scale(1/float64(counts[c]), next[c])
			}
		}
		relocateEmpty(x, labels, centers, next, counts)

		var shift float64
		for c := range centers {
			shift += sqDist(centers[c], next[c])
		}
		centers = next
		if shift <= tol {
			break
		}
	}

	var inertia float64
	for i, p := range x {
		var dist float64
		labels[i], dist = nearest(p, centers)
		inertia += dist
	}
	return kmeansRun{labels: labels, centers: centers, inertia: inertia, iters: iters}
}

// relocateEmpty moves each empty cluster onto the point farthest from its
// assigned centre. Nothing moves when every point sits on its centre.
func relocateEmpty(x [][]float64, labels []int, old, next [][]float64, counts []int) {
	used := make(map[int]bool)
	for c := range next {
		if counts[c] > 0 {
			continue
		}
		far, farD := -1, 0.0
		for i, p := range x {
			if used[i] {
				continue
			}
			if dd := sqDist(p, old[labels[i]]); dd > farD {
				far, farD = i, dd
			}
		}
		if far < 0 {
			copy(next[c], old[c])
			continue
		}
		used[far] = true
		copy(next[c], x[far])
	}
}

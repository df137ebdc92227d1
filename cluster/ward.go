package cluster

import (
	"math"

	"github.com/luowanxu/Level-4-Project/geo"
)

// euclidean is the planar degree-space distance used for clustering. City
// trips span fractions of a degree, so the flat approximation is fine here.
func euclidean(a, b geo.Point) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// wardCluster groups points into k flat clusters by hierarchical
// agglomeration with Ward linkage, merging the closest pair until k
// clusters remain. Cluster-to-cluster distances follow the Lance-Williams
// update for Ward's criterion. Returns one label in [0, k) per point,
// numbered by each cluster's smallest member index.
func wardCluster(points []geo.Point, k int) []int {
	n := len(points)
	labels := make([]int, n)
	if n == 0 {
		return labels
	}
	if k < 1 {
		k = 1
	}
	if k >= n {
		for i := range labels {
			labels[i] = i
		}
		return labels
	}

	members := make([][]int, n)
	active := make([]bool, n)
	dist := make([][]float64, n)
	for i := range dist {
		members[i] = []int{i}
		active[i] = true
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := euclidean(points[i], points[j])
			dist[i][j], dist[j][i] = d, d
		}
	}

	for remaining := n; remaining > k; remaining-- {
		bi, bj := -1, -1
		best := math.MaxFloat64
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !active[j] {
					continue
				}
				if dist[i][j] < best {
					best = dist[i][j]
					bi, bj = i, j
				}
			}
		}

		na := float64(len(members[bi]))
		nb := float64(len(members[bj]))
		dab := dist[bi][bj]
		for t := 0; t < n; t++ {
			if !active[t] || t == bi || t == bj {
				continue
			}
			nt := float64(len(members[t]))
			d2 := ((na+nt)*dist[bi][t]*dist[bi][t] +
				(nb+nt)*dist[bj][t]*dist[bj][t] -
				nt*dab*dab) / (na + nb + nt)
			d := math.Sqrt(d2)
			dist[bi][t], dist[t][bi] = d, d
		}
		members[bi] = append(members[bi], members[bj]...)
		active[bj] = false
	}

	label := 0
	for i := 0; i < n; i++ {
		if !active[i] {
			continue
		}
		for _, m := range members[i] {
			labels[m] = label
		}
		label++
	}
	return labels
}

package analytics

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/turtacn/EnviroLens/internal/domain/dataset"
)

// Clustering parameters.
const (
	MinClusterStates = 3
	MaxClusters      = 5
	ClusterSeed      = 42
	ClusterRestarts  = 10
	MaxIterations    = 300
	ProfileTopN      = 5
)

// ClusterProfile describes one cluster.
type ClusterProfile struct {
	ID             int      `json:"cluster"`
	States         []string `json:"states"`
	TopCommodities []Total  `json:"top_commodities"`
}

// Clustering is the result of ClusterStates.
type Clustering struct {
	K           int              `json:"k"`
	Assignments map[string]int   `json:"assignments"`
	Profiles    []ClusterProfile `json:"profiles"`
	Inertia     float64          `json:"inertia"`
}

// ProductionMatrix is a state × commodity table of mean production per
// record.  Rows and columns are sorted; absent cells are zero.
type ProductionMatrix struct {
	States      []string
	Commodities []string
	Values      [][]float64
}

// BuildProductionMatrix averages production per (state, commodity).
func BuildProductionMatrix(ds *dataset.Dataset) ProductionMatrix {
	sums := make(map[string]map[string]float64)
	counts := make(map[string]map[string]int)
	for _, r := range records(ds) {
		if r.State == "" || r.Commodity == "" {
			continue
		}
		if sums[r.State] == nil {
			sums[r.State] = make(map[string]float64)
			counts[r.State] = make(map[string]int)
		}
		sums[r.State][r.Commodity] += r.Production
		counts[r.State][r.Commodity]++
	}

	m := ProductionMatrix{}
	commoditySet := make(map[string]struct{})
	for state, row := range sums {
		m.States = append(m.States, state)
		for c := range row {
			commoditySet[c] = struct{}{}
		}
	}
	for c := range commoditySet {
		m.Commodities = append(m.Commodities, c)
	}
	sort.Strings(m.States)
	sort.Strings(m.Commodities)

	m.Values = make([][]float64, len(m.States))
	for i, s := range m.States {
		m.Values[i] = make([]float64, len(m.Commodities))
		for j, c := range m.Commodities {
			if n := counts[s][c]; n > 0 {
				m.Values[i][j] = sums[s][c] / float64(n)
			}
		}
	}
	return m
}

// Standardize returns a copy of values with every column shifted to zero
// mean and scaled to unit population variance.  Constant columns become 0.
func Standardize(values [][]float64) [][]float64 {
	if len(values) == 0 {
		return nil
	}
	rows, cols := len(values), len(values[0])
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
	}
	column := make([]float64, rows)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			column[i] = values[i][j]
		}
		mean, std := stat.PopMeanStdDev(column, nil)
		if std == 0 || math.IsNaN(std) {
			continue
		}
		for i := 0; i < rows; i++ {
			out[i][j] = (values[i][j] - mean) / std
		}
	}
	return out
}

// ClusterStates groups states by standardized mean production per
// commodity.  It needs at least MinClusterStates states and always emits
// exactly k = min(MaxClusters, states−1) non-empty clusters.  Seeding is
// fixed, so repeated calls on the same dataset produce the same grouping.
// Cluster ids are numbered by the alphabetical order of each cluster's first
// member.
func ClusterStates(ds *dataset.Dataset) Outcome[*Clustering] {
	if missing := ds.MissingColumns(dataset.ColumnState, dataset.ColumnCommodity, dataset.ColumnProduction); len(missing) > 0 && ds.Len() > 0 {
		return Unavailable[*Clustering](ReasonMissingColumns, missingColumns(missing))
	}
	m := BuildProductionMatrix(ds)
	if len(m.States) < MinClusterStates {
		return Unavailable[*Clustering](ReasonTooFewStates,
			fmt.Sprintf("%d states, need at least %d", len(m.States), MinClusterStates))
	}

	k := len(m.States) - 1
	if k > MaxClusters {
		k = MaxClusters
	}
	points := Standardize(m.Values)
	labels, inertia := KMeans(points, k, ClusterSeed)

	return Available(buildClustering(m, labels, k, inertia))
}

func buildClustering(m ProductionMatrix, labels []int, k int, inertia float64) *Clustering {
	// Renumber clusters in order of first appearance over sorted states.
	remap := make(map[int]int, k)
	for _, l := range labels {
		if _, ok := remap[l]; !ok {
			remap[l] = len(remap)
		}
	}

	c := &Clustering{
		K:           k,
		Assignments: make(map[string]int, len(m.States)),
		Profiles:    make([]ClusterProfile, k),
		Inertia:     inertia,
	}
	members := make([][]int, k)
	for i, state := range m.States {
		id := remap[labels[i]]
		c.Assignments[state] = id
		members[id] = append(members[id], i)
	}

	for id := 0; id < k; id++ {
		p := ClusterProfile{ID: id, States: make([]string, 0, len(members[id]))}
		means := make([]Total, len(m.Commodities))
		for j, commodity := range m.Commodities {
			var sum float64
			for _, i := range members[id] {
				sum += m.Values[i][j]
			}
			means[j] = Total{Name: commodity}
			if len(members[id]) > 0 {
				means[j].Production = sum / float64(len(members[id]))
			}
		}
		for _, i := range members[id] {
			p.States = append(p.States, m.States[i])
		}
		sort.SliceStable(means, func(a, b int) bool { return means[a].Production > means[b].Production })
		if len(means) > ProfileTopN {
			means = means[:ProfileTopN]
		}
		p.TopCommodities = means
		c.Profiles[id] = p
	}
	return c
}

// ─────────────────────────────────────────────────────────────────────────────
// k-means
// ─────────────────────────────────────────────────────────────────────────────

// KMeans partitions points into k clusters with k-means++ seeding and
// Lloyd iterations, keeping the lowest-inertia run out of ClusterRestarts.
// It returns one label per point and the inertia (sum of squared distances
// to the assigned centroid).  Every label in [0, k) is used when
// len(points) ≥ k.
func KMeans(points [][]float64, k int, seed int64) ([]int, float64) {
	n := len(points)
	if n == 0 || k <= 0 {
		return nil, 0
	}
	if k > n {
		k = n
	}
	rng := rand.New(rand.NewSource(seed))

	var bestLabels []int
	bestInertia := math.Inf(1)
	for run := 0; run < ClusterRestarts; run++ {
		centers := seedPlusPlus(points, k, rng)
		labels, inertia := lloyd(points, centers)
		if inertia < bestInertia-1e-12 {
			bestInertia = inertia
			bestLabels = labels
		}
	}
	return bestLabels, bestInertia
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

// seedPlusPlus picks k initial centres: the first uniformly, each further
// one with probability proportional to its squared distance from the
// nearest centre already chosen.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	chosen := make([]bool, n)
	centers := make([][]float64, 0, k)

	first := rng.Intn(n)
	chosen[first] = true
	centers = append(centers, clonePoint(points[first]))

	dist := make([]float64, n)
	for len(centers) < k {
		var total float64
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centers {
				d = math.Min(d, sqDist(p, c))
			}
			dist[i] = d
			total += d
		}

		next := -1
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range dist {
				target -= d
				if target <= 0 && d > 0 {
					next = i
					break
				}
			}
		}
		if next < 0 {
			// Remaining points coincide with existing centres.
			candidates := make([]int, 0, n)
			for i := range points {
				if !chosen[i] {
					candidates = append(candidates, i)
				}
			}
			next = candidates[rng.Intn(len(candidates))]
		}
		chosen[next] = true
		centers = append(centers, clonePoint(points[next]))
	}
	return centers
}

// lloyd runs assignment/update steps until labels stop changing or
// MaxIterations is reached.  Empty clusters are refilled each round.
func lloyd(points [][]float64, centers [][]float64) ([]int, float64) {
	n, k := len(points), len(centers)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < MaxIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearest(p, centers)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if repairEmpty(points, centers, labels, k) {
			changed = true
		}
		updateCenters(points, centers, labels)
		if !changed {
			break
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += sqDist(p, centers[labels[i]])
	}
	return labels, inertia
}

func nearest(p []float64, centers [][]float64) int {
	best, bestD := 0, math.Inf(1)
	for c, centre := range centers {
		if d := sqDist(p, centre); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

// repairEmpty moves, for each empty cluster, the point farthest from its
// centre (taken from a cluster with more than one member) into the empty
// cluster.  It reports whether any label changed.
func repairEmpty(points [][]float64, centers [][]float64, labels []int, k int) bool {
	changed := false
	for {
		sizes := make([]int, k)
		for _, l := range labels {
			sizes[l]++
		}
		empty := -1
		for c, s := range sizes {
			if s == 0 {
				empty = c
				break
			}
		}
		if empty < 0 {
			return changed
		}

		donor, donorD := -1, -1.0
		for i, p := range points {
			if sizes[labels[i]] < 2 {
				continue
			}
			if d := sqDist(p, centers[labels[i]]); d > donorD {
				donor, donorD = i, d
			}
		}
		if donor < 0 {
			return changed
		}
		labels[donor] = empty
		centers[empty] = clonePoint(points[donor])
		changed = true
	}
}

func updateCenters(points [][]float64, centers [][]float64, labels []int) {
	dim := len(points[0])
	counts := make([]int, len(centers))
	sums := make([][]float64, len(centers))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		floats.Add(sums[labels[i]], p)
		counts[labels[i]]++
	}
	for c := range centers {
		if counts[c] == 0 {
			continue
		}
		floats.Scale(1/float64(counts[c]), sums[c])
		centers[c] = sums[c]
	}
}

func clonePoint(p []float64) []float64 {
	return append([]float64(nil), p...)
}

//Personal.AI order the ending

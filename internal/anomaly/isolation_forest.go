// Package anomaly implements an isolation forest outlier detector over small
// dense feature matrices.
package anomaly

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

const (
	DefaultTrees     = 100
	DefaultMaxSample = 256
	DefaultSeed      = 42
	// MaxContamination is the upper bound on the expected outlier fraction
	MaxContamination = 0.5
)

// eulerGamma is the Euler-Mascheroni constant used by the average path length
const eulerGamma = 0.5772156649015329

// Config controls how a forest is grown
type Config struct {
	Trees         int
	MaxSamples    int
	Contamination float64
	Seed          uint64
}

// DefaultConfig returns the configuration used for risk scoring
func DefaultConfig(contamination float64) Config {
	return Config{
		Trees:         DefaultTrees,
		MaxSamples:    DefaultMaxSample,
		Contamination: contamination,
		Seed:          DefaultSeed,
	}
}

// IsolationForest is a fitted model. It is immutable after Fit.
type IsolationForest struct {
	trees      []*node
	sampleSize int
	offset     float64
}

type node struct {
	feature int
	split   float64
	left    *node
	right   *node
	size    int // leaf only
}

func (n *node) leaf() bool { return n.left == nil }

// Fit grows a forest over rows and calibrates the outlier threshold so that
// roughly cfg.Contamination of the training rows are flagged.
func Fit(rows [][]float64, cfg Config) (*IsolationForest, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to fit")
	}
	width := len(rows[0])
	for i, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("row %d has %d features, expected %d", i, len(r), width)
		}
		for _, v := range r {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("row %d contains a non-finite value", i)
			}
		}
	}
	if cfg.Trees <= 0 {
		cfg.Trees = DefaultTrees
	}
	if cfg.MaxSamples <= 0 {
		cfg.MaxSamples = DefaultMaxSample
	}
	if cfg.Contamination <= 0 || cfg.Contamination > MaxContamination {
		return nil, fmt.Errorf("contamination must be in (0, %.1f], got %v", MaxContamination, cfg.Contamination)
	}

	sampleSize := min(cfg.MaxSamples, len(rows))
	heightLimit := int(math.Ceil(math.Log2(math.Max(float64(sampleSize), 2))))

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	f := &IsolationForest{sampleSize: sampleSize}

	for t := 0; t < cfg.Trees; t++ {
		idx := rng.Perm(len(rows))[:sampleSize]
		sample := make([][]float64, sampleSize)
		for i, j := range idx {
			sample[i] = rows[j]
		}
		f.trees = append(f.trees, grow(sample, 0, heightLimit, width, rng))
	}

	scores := f.ScoreSamples(rows)
	f.offset = percentile(scores, 100*cfg.Contamination)

	return f, nil
}

func grow(rows [][]float64, depth, limit, width int, rng *rand.Rand) *node {
	if depth >= limit || len(rows) <= 1 {
		return &node{size: len(rows)}
	}

	// Start at a random feature and move on to the next one while the
	// current one is constant within the node; a leaf only when all are.
	first := rng.IntN(width)
	feature := -1
	var lo, hi float64
	for k := 0; k < width; k++ {
		f := (first + k) % width
		lo, hi = featureRange(rows, f)
		if lo < hi {
			feature = f
			break
		}
	}
	if feature < 0 {
		return &node{size: len(rows)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right [][]float64
	for _, r := range rows {
		if r[feature] < split {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	return &node{
		feature: feature,
		split:   split,
		left:    grow(left, depth+1, limit, width, rng),
		right:   grow(right, depth+1, limit, width, rng),
	}
}

func featureRange(rows [][]float64, feature int) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		lo = math.Min(lo, r[feature])
		hi = math.Max(hi, r[feature])
	}
	return lo, hi
}

func pathLength(x []float64, n *node, depth int) float64 {
	for !n.leaf() {
		if x[n.feature] < n.split {
			n = n.left
		} else {
			n = n.right
		}
		depth++
	}
	return float64(depth) + averagePathLength(n.size)
}

// averagePathLength is c(n), the mean path length of an unsuccessful BST search
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
}

// ScoreSamples returns the negated anomaly score of each row; lower values
// are more anomalous. Scores lie in [-1, 0).
func (f *IsolationForest) ScoreSamples(rows [][]float64) []float64 {
	c := averagePathLength(f.sampleSize)
	if c == 0 {
		c = 1
	}
	out := make([]float64, len(rows))
	for i, r := range rows {
		var total float64
		for _, t := range f.trees {
			total += pathLength(r, t, 0)
		}
		mean := total / float64(len(f.trees))
		out[i] = -math.Pow(2, -mean/c)
	}
	return out
}

// Predict reports, per row, whether it is an outlier.
func (f *IsolationForest) Predict(rows [][]float64) []bool {
	scores := f.ScoreSamples(rows)
	out := make([]bool, len(rows))
	for i, s := range scores {
		out[i] = s < f.offset
	}
	return out
}

// percentile uses linear interpolation between closest ranks.
func percentile(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

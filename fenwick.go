package possim

// fenwick is a binary indexed tree over non-negative float weights,
// supporting O(log n) point updates and O(log n) weighted draws. It backs
// the selector so a single validator draw stays sub-linear even for pools
// of tens of thousands at hundreds of thousands of epochs.
type fenwick struct {
	tree []float64 // 1-indexed
	n    int
	cap2 int // smallest power of two ≥ n, for the descent
}

func newFenwick(n int) *fenwick {
	f := &fenwick{}
	f.reset(n)
	return f
}

// reset resizes the tree to n leaves and zeroes every weight.
func (f *fenwick) reset(n int) {
	if cap(f.tree) < n+1 {
		f.tree = make([]float64, n+1)
	} else {
		f.tree = f.tree[:n+1]
		for i := range f.tree {
			f.tree[i] = 0
		}
	}
	f.n = n
	f.cap2 = 1
	for f.cap2 < n {
		f.cap2 <<= 1
	}
}

// add adds delta to the weight at 0-based index i.
func (f *fenwick) add(i int, delta float64) {
	for j := i + 1; j <= f.n; j += j & (-j) {
		f.tree[j] += delta
	}
}

// prefix returns the sum of weights at indices [0, i].
func (f *fenwick) prefix(i int) float64 {
	var s float64
	for j := i + 1; j > 0; j -= j & (-j) {
		s += f.tree[j]
	}
	return s
}

// total returns the sum of all weights.
func (f *fenwick) total() float64 {
	return f.prefix(f.n - 1)
}

// find returns the smallest 0-based index whose prefix sum exceeds target,
// by descending the implicit tree. target must lie in [0, total()); weights
// of zero are never selected.
func (f *fenwick) find(target float64) int {
	idx := 0
	remaining := target
	for step := f.cap2; step > 0; step >>= 1 {
		next := idx + step
		if next <= f.n && f.tree[next] <= remaining {
			remaining -= f.tree[next]
			idx = next
		}
	}
	// idx is the count of leaves whose cumulative weight is ≤ target.
	if idx >= f.n {
		idx = f.n - 1
	}
	return idx
}

package virtual

// extents holds the effective height of every item by index and answers
// prefix sums in O(log n) with a Fenwick tree, so item tops never need a
// materialized prefix array.
type extents struct {
	values []float64
	// tree is 1-based; tree[0] is unused.
	tree []float64
}

func newExtents() *extents {
	return &extents{tree: []float64{0}}
}

func (e *extents) len() int {
	return len(e.values)
}

// reset rebuilds the tree from values in O(n).
func (e *extents) reset(values []float64) {
	e.values = values
	e.tree = make([]float64, len(values)+1)
	for i := 1; i <= len(values); i++ {
		e.tree[i] += values[i-1]
		if j := i + (i & -i); j <= len(values) {
			e.tree[j] += e.tree[i]
		}
	}
}

// push appends a value in O(log n).
func (e *extents) push(v float64) {
	e.values = append(e.values, v)
	n := len(e.values)
	// node n covers (n-lowbit(n), n]
	e.tree = append(e.tree, v+e.prefix(n-1)-e.prefix(n-(n&-n)))
}

func (e *extents) value(i int) float64 {
	if i < 0 || i >= len(e.values) {
		return 0
	}
	return e.values[i]
}

// set replaces the value at i and returns the delta applied.
func (e *extents) set(i int, v float64) float64 {
	if i < 0 || i >= len(e.values) {
		return 0
	}
	d := v - e.values[i]
	if d == 0 {
		return 0
	}
	e.values[i] = v
	for j := i + 1; j < len(e.tree); j += j & -j {
		e.tree[j] += d
	}
	return d
}

// prefix returns the sum of values[0:k].
func (e *extents) prefix(k int) float64 {
	k = min(max(k, 0), len(e.values))
	var s float64
	for i := k; i > 0; i -= i & -i {
		s += e.tree[i]
	}
	return s
}

func (e *extents) total() float64 {
	return e.prefix(len(e.values))
}

// lowerBound returns the smallest index i with prefix(i+1) > offset, or
// len(values) when every item ends at or before offset. Values must be
// non-negative.
func (e *extents) lowerBound(offset float64) int {
	n := len(e.values)
	step := 1
	for step<<1 <= n {
		step <<= 1
	}
	pos := 0
	rem := offset
	for ; step > 0; step >>= 1 {
		if next := pos + step; next <= n && e.tree[next] <= rem {
			pos = next
			rem -= e.tree[next]
		}
	}
	return pos
}

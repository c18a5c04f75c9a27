package util

// DisjointSet groups comparable keys into connected components. Find
// compresses paths, so every lookup returns the current representative
// no matter how many unions have redirected a key.
type DisjointSet[K comparable] struct {
	parent map[K]K
	order  []K
}

func NewDisjointSet[K comparable]() *DisjointSet[K] {
	return &DisjointSet[K]{parent: make(map[K]K)}
}

// Add registers x as a singleton if it is not known yet.
func (d *DisjointSet[K]) Add(x K) {
	if _, ok := d.parent[x]; !ok {
		d.parent[x] = x
		d.order = append(d.order, x)
	}
}

// Find returns the representative of x.
func (d *DisjointSet[K]) Find(x K) K {
	d.Add(x)
	if d.parent[x] != x {
		d.parent[x] = d.Find(d.parent[x])
	}
	return d.parent[x]
}

// Union joins the components of x and y and reports whether they were
// separate before.
func (d *DisjointSet[K]) Union(x, y K) bool {
	px, py := d.Find(x), d.Find(y)
	if px == py {
		return false
	}
	d.parent[px] = py
	return true
}

// Components returns every component with more than one member. Members
// and components are listed in the order keys were first added.
func (d *DisjointSet[K]) Components() [][]K {
	index := make(map[K]int)
	var result [][]K
	for _, x := range d.order {
		root := d.Find(x)
		i, ok := index[root]
		if !ok {
			i = len(result)
			index[root] = i
			result = append(result, nil)
		}
		result[i] = append(result[i], x)
	}

	out := result[:0]
	for _, group := range result {
		if len(group) > 1 {
			out = append(out, group)
		}
	}
	return out
}

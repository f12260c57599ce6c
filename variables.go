package frep

// Variables binds named free variables to values for evaluation.
// A Variables set is not safe for concurrent mutation; Evaluator snapshots
// the values it needs under UpdateVars.
type Variables struct {
	names map[string]int
	nodes []*node
	vals  []float64
}

// NewVariables returns an empty variable set.
func NewVariables() *Variables {
	return &Variables{names: make(map[string]int)}
}

// Add registers a new named free variable with an initial value and returns
// its tree. Adding the same name twice returns ErrVarExists.
func (v *Variables) Add(name string, value float64) (Tree, error) {
	if _, ok := v.names[name]; ok {
		return Tree{}, ErrVarExists
	}
	t := Var()
	v.names[name] = len(v.nodes)
	v.nodes = append(v.nodes, t.n)
	v.vals = append(v.vals, value)
	return t, nil
}

// Set updates the value of a named variable.
func (v *Variables) Set(name string, value float64) error {
	i, ok := v.names[name]
	if !ok {
		return ErrVarNotFound
	}
	v.vals[i] = value
	return nil
}

// Get returns the current value of a named variable.
func (v *Variables) Get(name string) (float64, error) {
	i, ok := v.names[name]
	if !ok {
		return 0, ErrVarNotFound
	}
	return v.vals[i], nil
}

// Len returns the number of variables in the set.
func (v *Variables) Len() int {
	if v == nil {
		return 0
	}
	return len(v.nodes)
}

// indexOf returns the slot of a free variable node, or -1.
func (v *Variables) indexOf(n *node) int {
	if v == nil {
		return -1
	}
	for i, vn := range v.nodes {
		if vn == n {
			return i
		}
	}
	return -1
}

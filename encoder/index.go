package encoder

import "github.com/pkg/errors"

// varState identifies one indicator variable of the encoding.
type varState struct {
	variable, state string
}

// varIndex allocates dense 1-based integer indices for indicator, parameter
// and selector variables. All classes share the same counter, so indices
// are globally unique and strictly increasing; they are never reused.
type varIndex struct {
	next    int
	count   int
	indices map[varState]int
}

func newVarIndex() *varIndex {
	return &varIndex{next: 1, indices: make(map[varState]int)}
}

// fresh allocates the next free index.
func (x *varIndex) fresh() int {
	idx := x.next
	x.next++
	x.count++
	return idx
}

// bind allocates a fresh index and records it for the (variable, state)
// pair.
func (x *varIndex) bind(variable, state string) int {
	idx := x.fresh()
	x.indices[varState{variable, state}] = idx
	return idx
}

// of returns the index bound to the (variable, state) pair.
func (x *varIndex) of(variable, state string) (int, error) {
	idx, ok := x.indices[varState{variable, state}]
	if !ok {
		return 0, errors.Wrapf(ErrNotIndexed, "%s=%s", variable, state)
	}
	return idx, nil
}

// Package bn defines the in-memory representation of a discrete Bayesian
// network and provides a parser and a writer for the BIF text format, as
// well as a generator of synthetic two-layer networks.
package bn

import (
	"github.com/pkg/errors"
)

// A Network is a discrete Bayesian network: a set of variables with finite
// domains, a DAG of dependencies given by per-variable parent lists, and one
// conditional probability table per variable.
type Network struct {
	Name string
	// Variables lists the variable names in declaration order.
	Variables []string
	// States maps each variable to its ordered domain.
	States map[string][]string
	// Parents maps each variable to its ordered list of parents. Variables
	// without parents map to an empty (or absent) list.
	Parents map[string][]string
	// Values maps each variable to its flattened CPT. The array is indexed
	// by the cartesian product of the parents' states followed by the
	// variable's own states, in row-major order with the variable itself
	// varying fastest.
	Values map[string][]float64
}

// Edge is a directed dependency edge from a parent variable to a child.
type Edge struct {
	From, To string
}

// Edges returns all dependency edges of the network, in declaration order of
// the child variable and, for each child, of its parents.
func (n *Network) Edges() []Edge {
	var edges []Edge
	for _, v := range n.Variables {
		for _, p := range n.Parents[v] {
			edges = append(edges, Edge{From: p, To: v})
		}
	}
	return edges
}

// Leaves returns the set of variables that are not a parent of any other
// variable.
func (n *Network) Leaves() map[string]bool {
	leaves := make(map[string]bool, len(n.Variables))
	for _, v := range n.Variables {
		leaves[v] = true
	}
	for _, v := range n.Variables {
		for _, p := range n.Parents[v] {
			delete(leaves, p)
		}
	}
	return leaves
}

// Scope returns the CPT scope of the given variable: its parents, in order,
// followed by the variable itself.
func (n *Network) Scope(v string) []string {
	scope := make([]string, 0, len(n.Parents[v])+1)
	scope = append(scope, n.Parents[v]...)
	return append(scope, v)
}

// TableSize returns the expected number of entries in the flattened CPT of
// the given variable.
func (n *Network) TableSize(v string) int {
	size := 1
	for _, s := range n.Scope(v) {
		size *= len(n.States[s])
	}
	return size
}

// Validate checks the structural invariants the encoder relies on: at least
// one variable, every domain of size at least 2, every parent declared, and
// every CPT of the exact expected length.
func (n *Network) Validate() error {
	if len(n.Variables) == 0 {
		return errors.New("network has no variables")
	}
	declared := make(map[string]bool, len(n.Variables))
	for _, v := range n.Variables {
		if declared[v] {
			return errors.Errorf("variable %q declared twice", v)
		}
		declared[v] = true
	}
	for _, v := range n.Variables {
		if len(n.States[v]) < 2 {
			return errors.Errorf("variable %q has %d states, need at least 2", v, len(n.States[v]))
		}
		for _, p := range n.Parents[v] {
			if !declared[p] {
				return errors.Errorf("variable %q has undeclared parent %q", v, p)
			}
		}
		if got, want := len(n.Values[v]), n.TableSize(v); got != want {
			return errors.Errorf("CPT of %q has %d values, want %d", v, got, want)
		}
	}
	return nil
}

package encoder

import (
	"sort"

	"github.com/pkg/errors"
)

// isIndependent reports whether varying scope[k] alone, everything else
// held at the given assignment, leaves the row's probability equal to p for
// every value of its domain.
func (e *Encoder) isIndependent(k int, assignment []int, scope []string, p float64) (bool, error) {
	probe := append([]int(nil), assignment...)
	for s := range e.net.States[scope[k]] {
		probe[k] = s
		c, err := e.coreClause(probe, scope, nil)
		if err != nil {
			return false, err
		}
		q, ok := e.table[c.key()]
		if !ok {
			return false, errors.Wrapf(ErrInconsistent, "row %v missing from probability table", c)
		}
		if q != p {
			return false, nil
		}
	}
	return true, nil
}

// isJointlyIndependent reports whether scope[k] stays independent while the
// already accepted variables range over every combination of their domains.
// This rejects candidates that are independent one by one but not jointly.
func (e *Encoder) isJointlyIndependent(k int, accepted []int, assignment []int, scope []string, p float64) (bool, error) {
	dims := make([]int, len(accepted))
	for i, vi := range accepted {
		dims[i] = len(e.net.States[scope[vi]])
	}
	probe := append([]int(nil), assignment...)
	for cnt := newCounter(dims); cnt.more(); cnt.advance() {
		for i, vi := range accepted {
			probe[vi] = cnt.digits[i]
		}
		ok, err := e.isIndependent(k, probe, scope, p)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// independentVariables finds a maximal-by-greedy set of scope variables
// whose value does not affect the probability of the given row. Candidates
// are accepted largest domain first (ties broken by name) since removing a
// larger domain collapses more rows; the order is a heuristic, not a
// guaranteed optimum.
func (e *Encoder) independentVariables(assignment []int, scope []string, p float64) (map[string]bool, error) {
	var candidates []int
	for k := range scope {
		ok, err := e.isIndependent(k, assignment, scope, p)
		if err != nil {
			return nil, err
		}
		if ok {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		di := len(e.net.States[scope[candidates[i]]])
		dj := len(e.net.States[scope[candidates[j]]])
		if di != dj {
			return di > dj
		}
		return scope[candidates[i]] < scope[candidates[j]]
	})

	accepted := []int{candidates[0]}
	for _, k := range candidates[1:] {
		ok, err := e.isJointlyIndependent(k, accepted, assignment, scope, p)
		if err != nil {
			return nil, err
		}
		if ok {
			accepted = append(accepted, k)
		}
	}

	set := make(map[string]bool, len(accepted))
	for _, k := range accepted {
		set[scope[k]] = true
	}
	return set, nil
}

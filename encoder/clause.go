package encoder

import (
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"
)

// A clause is a sequence of DIMACS literals. Core clauses hold their
// literals in canonical order: ascending variable index.
type clause []int

func (c clause) canonicalize() {
	sort.Slice(c, func(i, j int) bool {
		vi, vj := c[i], c[j]
		if vi < 0 {
			vi = -vi
		}
		if vj < 0 {
			vj = -vj
		}
		return vi < vj
	})
}

// key derives a compact byte-string form of the clause, usable as a map
// key. Canonicalized clauses with equal literals produce equal keys.
func (c clause) key() string {
	buf := make([]byte, 0, 2*len(c))
	for _, lit := range c {
		buf = binary.AppendVarint(buf, int64(lit))
	}
	return string(buf)
}

// coreClause builds the canonical clause identifying one row of a CPT: the
// negative indicator literal of every non-excluded scope variable at its
// assigned state. At least one variable of the scope must remain.
func (e *Encoder) coreClause(assignment []int, scope []string, excluded map[string]bool) (clause, error) {
	if len(excluded) >= len(scope) {
		return nil, errors.Wrapf(ErrInconsistent, "excluding %d of %d scope variables", len(excluded), len(scope))
	}
	c := make(clause, 0, len(scope)-len(excluded))
	for k, v := range scope {
		if excluded[v] {
			continue
		}
		idx, err := e.idx.of(v, e.net.States[v][assignment[k]])
		if err != nil {
			return nil, err
		}
		c = append(c, -idx)
	}
	c.canonicalize()
	return c, nil
}

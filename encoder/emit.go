package encoder

import (
	"strconv"

	"github.com/pkg/errors"
)

// writeClause writes the literals followed by the tail and counts the
// clause. The tail is either "0" or a selector terminator.
func (e *Encoder) writeClause(lits clause, tail string) {
	for _, lit := range lits {
		e.buf.WriteString(strconv.Itoa(lit))
		e.buf.WriteByte(' ')
	}
	e.buf.WriteString(tail)
	e.buf.WriteByte('\n')
	e.numClauses++
}

// hardTail returns the textual tail of a hard clause under the active
// selector strategy, allocating a fresh selector variable when required.
func (e *Encoder) hardTail() string {
	switch e.opts.Selector {
	case SelectorNone:
		return "0"
	case SelectorShared:
		return strconv.Itoa(e.sharedSelector) + " 0"
	case SelectorFresh:
		return strconv.Itoa(e.idx.fresh()) + " 0"
	default:
		panic("invalid selector strategy")
	}
}

func (e *Encoder) writeProbability(p float64) {
	e.buf.WriteString("c " + strconv.FormatFloat(p, 'g', -1, 64) + "\n")
}

// emitCPT writes the parameter clauses of one variable's CPT. Per-CPT state
// (the probability table and the shrunk-clause cache) is rebuilt from
// scratch.
func (e *Encoder) emitCPT(v string) error {
	scope := e.net.Scope(v)
	e.cache = make(map[string]struct{})
	if err := e.buildTable(scope, e.net.Values[v]); err != nil {
		return errors.Wrapf(err, "CPT of %s", v)
	}
	for cnt := newCounter(e.dims(scope)); cnt.more(); cnt.advance() {
		if err := e.emitRow(cnt.digits, scope); err != nil {
			return errors.Wrapf(err, "CPT of %s", v)
		}
	}
	return nil
}

func (e *Encoder) emitRow(assignment []int, scope []string) error {
	full, err := e.coreClause(assignment, scope, nil)
	if err != nil {
		return err
	}
	p, ok := e.table[full.key()]
	if !ok {
		return errors.Wrapf(ErrInconsistent, "row %v missing from probability table", full)
	}

	// A probability-1 row is a tautology and contributes nothing.
	if e.opts.Determinism && p == 1 {
		e.stats.Ones++
		return nil
	}

	var independent map[string]bool
	if e.opts.CSI && len(scope) > 1 {
		if independent, err = e.independentVariables(assignment, scope, p); err != nil {
			return err
		}
	}
	// The row's own variable can never be dropped from its own clause: it
	// is what the parameter variable conditions on.
	if len(independent) == len(scope) {
		self := scope[len(scope)-1]
		if !independent[self] {
			return errors.Wrapf(ErrInconsistent, "fully independent row lacks its own variable %s", self)
		}
		delete(independent, self)
	}
	if len(independent) >= len(scope) {
		return errors.Wrapf(ErrInconsistent, "independent set of size %d covers the whole scope", len(independent))
	}

	cl := full
	if len(independent) > 0 {
		e.stats.Shrinks++
		e.stats.IndependentVariables += len(independent)
		if cl, err = e.coreClause(assignment, scope, independent); err != nil {
			return err
		}
		key := cl.key()
		if _, dup := e.cache[key]; dup {
			// Independence detection guarantees the cached clause carries
			// the same probability, so the whole row collapses onto it.
			return nil
		}
		e.cache[key] = struct{}{}
	}

	e.writeProbability(p)
	if e.opts.Determinism && p == 0 {
		// Impossible row: a hard clause, no parameter variable.
		e.stats.Zeros++
		e.writeClause(cl, e.hardTail())
		return nil
	}
	paramVar := e.idx.fresh()
	e.writeClause(cl, strconv.Itoa(paramVar)+" 0")
	if e.opts.MinorClauses {
		for _, lit := range cl {
			e.writeClause(clause{-lit, -paramVar}, "0")
		}
	}
	return nil
}

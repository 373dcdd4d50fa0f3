package encoder

// emitIndicators writes the multi-valued-variable constraints over each
// variable's indicator literals: one at-least-one-state clause and, when
// indicator clauses are enabled, a pairwise at-most-one clause for every
// pair of distinct states. Leaf variables are skipped unless the target
// circuit type requires full coverage.
func (e *Encoder) emitIndicators() error {
	for _, v := range e.net.Variables {
		if e.leaves[v] {
			continue
		}
		states := e.net.States[v]
		lits := make(clause, 0, len(states))
		for _, s := range states {
			idx, err := e.idx.of(v, s)
			if err != nil {
				return err
			}
			lits = append(lits, idx)
		}
		e.writeClause(lits, e.hardTail())
		if !e.opts.IndicatorClauses {
			continue
		}
		for i := 0; i < len(lits)-1; i++ {
			for j := i + 1; j < len(lits); j++ {
				e.writeClause(clause{-lits[i], -lits[j]}, e.hardTail())
			}
		}
	}
	return nil
}

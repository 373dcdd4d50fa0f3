package encoder

import "github.com/pkg/errors"

// buildTable expands the flattened CPT values of a scope into the per-row
// probability map, keyed by the canonical core clause of each full
// assignment. The scope is the variable's parents followed by the variable
// itself; the flattened layout is row-major with the variable itself
// varying fastest.
func (e *Encoder) buildTable(scope []string, values []float64) error {
	dims := e.dims(scope)

	// Peel the combined dimension one scope variable at a time; each level
	// must divide evenly and the final remainder must be exactly one row.
	strides := make([]int, len(dims))
	dimension := len(values)
	for k, d := range dims {
		if dimension%d != 0 {
			return errors.Wrapf(ErrMalformedTable, "%d values not divisible by the %d states of %s", dimension, d, scope[k])
		}
		dimension /= d
		strides[k] = dimension
	}
	if dimension != 1 {
		return errors.Wrapf(ErrMalformedTable, "%d values left after expanding the full scope", dimension)
	}

	e.table = make(map[string]float64, len(values))
	for cnt := newCounter(dims); cnt.more(); cnt.advance() {
		offset := 0
		for k, digit := range cnt.digits {
			offset += digit * strides[k]
		}
		c, err := e.coreClause(cnt.digits, scope, nil)
		if err != nil {
			return err
		}
		key := c.key()
		if _, dup := e.table[key]; dup {
			return errors.Wrapf(ErrInconsistent, "duplicate probability key for clause %v", c)
		}
		e.table[key] = values[offset]
	}
	return nil
}

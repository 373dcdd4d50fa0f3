package encoder

import (
	"strings"

	"github.com/pkg/errors"
)

// SelectorStrategy controls how hard clauses are terminated, making them
// externally togglable by a downstream solver or not.
type SelectorStrategy int

const (
	// SelectorNone terminates hard clauses with a plain "0": they are
	// permanently hard.
	SelectorNone SelectorStrategy = iota
	// SelectorShared appends one selector variable, shared by every hard
	// clause of the encoding, so that all of them can be disabled at once.
	SelectorShared
	// SelectorFresh appends a freshly allocated selector variable to each
	// hard clause, enabling per-clause toggling.
	SelectorFresh
)

func (s SelectorStrategy) String() string {
	switch s {
	case SelectorNone:
		return "NONE"
	case SelectorShared:
		return "ONE"
	case SelectorFresh:
		return "NEW"
	default:
		return "UNKNOWN"
	}
}

// ParseSelectorStrategy parses the textual name of a selector strategy.
func ParseSelectorStrategy(name string) (SelectorStrategy, error) {
	switch strings.ToUpper(name) {
	case "NONE":
		return SelectorNone, nil
	case "ONE":
		return SelectorShared, nil
	case "NEW":
		return SelectorFresh, nil
	default:
		return 0, errors.Errorf("unknown selector strategy %q", name)
	}
}

// CircuitType identifies the circuit form the downstream compiler targets.
// Each type is a fixed bundle of encoding options.
type CircuitType int

const (
	// NWDNNF targets unconstrained (non-weak) DNNF circuits.
	NWDNNF CircuitType = iota
	// DDNNF targets deterministic DNNF circuits: every variable gets
	// constraint clauses, leaves included.
	DDNNF
	// SDDNNF targets structured-deterministic DNNF circuits: like DDNNF,
	// plus the decomposed minor clauses for every parameter clause.
	SDDNNF
)

func (ct CircuitType) String() string {
	switch ct {
	case NWDNNF:
		return "nwDNNF"
	case DDNNF:
		return "dDNNF"
	case SDDNNF:
		return "sdDNNF"
	default:
		return "UNKNOWN"
	}
}

// ParseCircuitType parses the textual name of a circuit type,
// case-insensitively.
func ParseCircuitType(name string) (CircuitType, error) {
	switch strings.ToLower(name) {
	case "nwdnnf":
		return NWDNNF, nil
	case "ddnnf":
		return DDNNF, nil
	case "sddnnf":
		return SDDNNF, nil
	default:
		return 0, errors.Errorf("unknown circuit type %q", name)
	}
}

// Options is the full set of behavior switches of the encoder, selected
// once at startup and injected into a new Encoder.
type Options struct {
	// Determinism elides probability-1 rows and turns probability-0 rows
	// into hard clauses.
	Determinism bool
	// IndicatorClauses emits the pairwise at-most-one clauses over each
	// constrained variable's indicators.
	IndicatorClauses bool
	// CSI enables context-specific-independence detection and clause
	// shrinking.
	CSI bool
	// MinorClauses decomposes each parameter clause into 2-literal clauses
	// pairing every body literal with the negated parameter variable.
	MinorClauses bool
	// LeafConstraints emits constraint clauses for leaf variables too.
	LeafConstraints bool
	// Selector is the hard-clause termination strategy.
	Selector SelectorStrategy
}

// Options returns the option bundle of the circuit type. Indicator clauses
// are always on; the bundles differ in leaf coverage and decomposition.
func (ct CircuitType) Options() Options {
	opts := Options{IndicatorClauses: true, Selector: SelectorNone}
	switch ct {
	case DDNNF:
		opts.LeafConstraints = true
	case SDDNNF:
		opts.LeafConstraints = true
		opts.MinorClauses = true
	}
	return opts
}

func (o Options) validate() error {
	if o.Selector < SelectorNone || o.Selector > SelectorFresh {
		return errors.Errorf("invalid selector strategy %d", int(o.Selector))
	}
	if o.MinorClauses {
		// Decomposition relies on every constraint being present and every
		// emitted clause carrying a parameter variable head.
		if !o.IndicatorClauses || !o.LeafConstraints {
			return errors.New("minor clauses require indicator clauses and leaf-variable constraints")
		}
		if o.Selector != SelectorNone {
			return errors.Errorf("minor clauses are incompatible with selector strategy %s", o.Selector)
		}
	}
	return nil
}

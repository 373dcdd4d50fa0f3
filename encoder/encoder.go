package encoder

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/crillab/bn2cnf/bn"
)

// Stats are the running totals of one encoding run.
type Stats struct {
	// Variables and Clauses are the totals written to the DIMACS header.
	Variables, Clauses int
	// Ones and Zeros count the rows elided by the determinism
	// optimization.
	Ones, Zeros int
	// Shrinks counts the rows reduced by context-specific independence;
	// IndependentVariables the total number of variables removed.
	Shrinks, IndependentVariables int
}

// An Encoder holds all mutable state of one encoding session: the variable
// index, the running counters and the per-CPT caches. A fresh session is
// established on every call to Encode, so one Encoder can produce several
// independent artifacts.
type Encoder struct {
	net  *bn.Network
	opts Options
	log  logrus.FieldLogger

	idx            *varIndex
	firstSelector  int
	sharedSelector int
	leaves         map[string]bool
	numClauses     int
	stats          Stats

	// per-CPT state, rebuilt by emitCPT
	table map[string]float64
	cache map[string]struct{}

	buf *bufio.Writer // staging output
}

// New validates the network and options and returns an Encoder for them.
// A nil logger falls back to the logrus standard logger.
func New(net *bn.Network, opts Options, log logrus.FieldLogger) (*Encoder, error) {
	if err := opts.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid options")
	}
	if err := net.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid network")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Encoder{net: net, opts: opts, log: log}, nil
}

// Stats returns the totals of the last encoding run.
func (e *Encoder) Stats() Stats {
	s := e.stats
	if e.idx != nil {
		s.Variables = e.idx.count
	}
	s.Clauses = e.numClauses
	return s
}

func (e *Encoder) reset() {
	e.idx = newVarIndex()
	e.firstSelector = 0
	e.sharedSelector = 0
	e.leaves = nil
	e.numClauses = 0
	e.stats = Stats{}
	e.table = nil
	e.cache = nil
	e.buf = nil
}

// Encode writes the CNF encoding of the network to w. The clause body is
// first streamed to a staging file while variables and clauses are counted;
// the staging file is removed on every exit path.
func (e *Encoder) Encode(w io.Writer) error {
	e.reset()

	staging, err := os.CreateTemp("", "bn2cnf-*.cnf")
	if err != nil {
		return errors.Wrap(err, "could not create staging file")
	}
	defer func() {
		staging.Close()
		os.Remove(staging.Name())
	}()

	if err := e.emitBody(staging); err != nil {
		return err
	}

	out := bufio.NewWriter(w)
	e.writeProlog(out)
	if _, err := staging.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "could not rewind staging file")
	}
	if _, err := io.Copy(out, staging); err != nil {
		return errors.Wrap(err, "could not copy staged clauses")
	}
	if err := out.Flush(); err != nil {
		return errors.Wrap(err, "could not write CNF output")
	}

	e.log.WithFields(logrus.Fields{
		"variables":   e.idx.count,
		"clauses":     e.numClauses,
		"ones":        e.stats.Ones,
		"zeros":       e.stats.Zeros,
		"shrinks":     e.stats.Shrinks,
		"independent": e.stats.IndependentVariables,
	}).Info("encoding finished")
	return nil
}

// emitBody runs phase 1: indicator allocation and all clause emission into
// the staging file.
func (e *Encoder) emitBody(staging *os.File) error {
	e.buf = bufio.NewWriter(staging)

	// All indicator variables first, in declaration order, so the legend
	// block of the final artifact is stable.
	for _, v := range e.net.Variables {
		for _, s := range e.net.States[v] {
			e.idx.bind(v, s)
		}
	}
	e.firstSelector = e.idx.next
	if e.opts.Selector == SelectorShared {
		e.sharedSelector = e.idx.fresh()
	}

	e.leaves = map[string]bool{}
	if !e.opts.LeafConstraints {
		e.leaves = e.net.Leaves()
		if len(e.leaves) > 0 {
			names := make([]string, 0, len(e.leaves))
			for v := range e.leaves {
				names = append(names, v)
			}
			sort.Strings(names)
			e.log.WithField("leaves", names).Debug("leaf variables left unconstrained")
		}
	}

	if err := e.emitIndicators(); err != nil {
		return err
	}
	for i, v := range e.net.Variables {
		e.log.Debugf("encoding CPT %s (%d/%d)", v, i+1, len(e.net.Variables))
		if err := e.emitCPT(v); err != nil {
			return err
		}
	}
	return errors.Wrap(e.buf.Flush(), "could not write staging file")
}

// writeProlog runs phase 2's head: the network name, the active options,
// the (variable, state) → index legend, the selector block start and the
// DIMACS header with the final counts.
func (e *Encoder) writeProlog(out *bufio.Writer) {
	out.WriteString("c " + e.net.Name + "\nc\n")
	out.WriteString("c Parameters:\n")
	if e.opts.Determinism {
		out.WriteString("c \tdeterminism\n")
	}
	if e.opts.MinorClauses {
		out.WriteString("c \tminor clauses\n")
	}
	if e.opts.IndicatorClauses {
		out.WriteString("c \tindicator clauses\n")
	}
	if e.opts.CSI {
		out.WriteString("c \tcontext-specific independence\n")
	}
	if e.opts.LeafConstraints {
		out.WriteString("c \tconstraint clauses for leaf variables\n")
	}
	out.WriteString("c \tselector variable type: " + e.opts.Selector.String() + "\nc\n")
	for _, v := range e.net.Variables {
		out.WriteString("c " + v + "\n")
		for _, s := range e.net.States[v] {
			idx, _ := e.idx.of(v, s)
			out.WriteString("c \t" + s + ": " + strconv.Itoa(idx) + "\n")
		}
	}
	out.WriteString("c selector variables: " + strconv.Itoa(e.firstSelector) + ", ...\nc\n")
	fmt.Fprintf(out, "p cnf %d %d\n", e.idx.count, e.numClauses)
}

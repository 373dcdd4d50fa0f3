// Package verify validates a produced CNF artifact: it recounts the
// variables and clauses found in the body against the DIMACS header and
// runs a satisfiability sanity check with the gini solver. A correct
// encoding of a network with at least one positive-probability assignment
// is always satisfiable.
package verify

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-air/gini"
	"github.com/pkg/errors"
)

// Result summarizes the checks run over one artifact.
type Result struct {
	// HeaderVars and HeaderClauses are the counts claimed by the "p cnf"
	// line.
	HeaderVars, HeaderClauses int
	// Clauses is the number of clauses found in the body; MaxVar the
	// highest variable index referenced by any literal.
	Clauses int
	MaxVar  int
	// Satisfiable reports the outcome of the solver run.
	Satisfiable bool
}

// File checks the artifact stored at path.
func File(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %q", path)
	}
	defer f.Close()
	return Check(f)
}

// Check reads a line-oriented DIMACS CNF, verifies that the header counts
// match the body, and reports whether the formula is satisfiable. Count
// mismatches are returned as errors: they mean the producer's counters and
// its emission events diverged.
func Check(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read CNF input")
	}

	res := &Result{}
	sawHeader := false
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] == "c" {
			continue
		}
		if fields[0] == "p" {
			if sawHeader {
				return nil, errors.New("duplicate header line")
			}
			if err := res.parseHeader(fields); err != nil {
				return nil, err
			}
			sawHeader = true
			continue
		}
		if !sawHeader {
			return nil, errors.Errorf("clause line %q before header", sc.Text())
		}
		if err := res.countClause(fields); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "could not scan CNF input")
	}
	if !sawHeader {
		return nil, errors.New("no header line found")
	}
	if res.Clauses != res.HeaderClauses {
		return nil, errors.Errorf("header claims %d clauses, body holds %d", res.HeaderClauses, res.Clauses)
	}
	if res.MaxVar > res.HeaderVars {
		return nil, errors.Errorf("header claims %d variables, body references %d", res.HeaderVars, res.MaxVar)
	}

	g, err := gini.NewDimacs(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "solver rejected the CNF")
	}
	res.Satisfiable = g.Solve() == 1
	return res, nil
}

func (res *Result) parseHeader(fields []string) error {
	if len(fields) != 4 || fields[1] != "cnf" {
		return errors.Errorf("invalid header %v", fields)
	}
	var err error
	if res.HeaderVars, err = strconv.Atoi(fields[2]); err != nil || res.HeaderVars < 0 {
		return errors.Errorf("invalid variable count %q", fields[2])
	}
	if res.HeaderClauses, err = strconv.Atoi(fields[3]); err != nil || res.HeaderClauses < 0 {
		return errors.Errorf("invalid clause count %q", fields[3])
	}
	return nil
}

func (res *Result) countClause(fields []string) error {
	if fields[len(fields)-1] != "0" {
		return errors.Errorf("clause %v lacks its 0 terminator", fields)
	}
	for _, raw := range fields[:len(fields)-1] {
		lit, err := strconv.Atoi(raw)
		if err != nil {
			return errors.Errorf("invalid literal %q", raw)
		}
		if lit == 0 {
			return errors.Errorf("null literal inside clause %v", fields)
		}
		if lit < 0 {
			lit = -lit
		}
		if lit > res.MaxVar {
			res.MaxVar = lit
		}
	}
	res.Clauses++
	return nil
}

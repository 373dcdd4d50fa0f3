package encoder

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/bn2cnf/bn"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// singleVar is a parentless 2-state variable A with P(true)=0.3.
func singleVar() *bn.Network {
	return &bn.Network{
		Name:      "single",
		Variables: []string{"A"},
		States:    map[string][]string{"A": {"true", "false"}},
		Parents:   map[string][]string{},
		Values:    map[string][]float64{"A": {0.3, 0.7}},
	}
}

// chain is B depending on A, with P(B|A) identical for both values of A.
func chain() *bn.Network {
	return &bn.Network{
		Name:      "chain",
		Variables: []string{"A", "B"},
		States: map[string][]string{
			"A": {"a0", "a1"},
			"B": {"b0", "b1"},
		},
		Parents: map[string][]string{"B": {"A"}},
		Values: map[string][]float64{
			"A": {0.5, 0.5},
			"B": {0.4, 0.6, 0.4, 0.6},
		},
	}
}

// newTestEncoder builds an encoder with all indicator variables bound and a
// discarding staging buffer, ready for driving single components.
func newTestEncoder(t *testing.T, net *bn.Network, opts Options) *Encoder {
	t.Helper()
	e, err := New(net, opts, quietLogger())
	require.NoError(t, err)
	e.reset()
	for _, v := range net.Variables {
		for _, s := range net.States[v] {
			e.idx.bind(v, s)
		}
	}
	e.buf = bufio.NewWriter(io.Discard)
	return e
}

func encode(t *testing.T, net *bn.Network, opts Options) (string, *Encoder) {
	t.Helper()
	e, err := New(net, opts, quietLogger())
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, e.Encode(&out))
	return out.String(), e
}

func TestEncodeSingleVariable(t *testing.T) {
	opts := DDNNF.Options() // constrain A even though it is a leaf
	got, e := encode(t, singleVar(), opts)

	const want = "c single\n" +
		"c\n" +
		"c Parameters:\n" +
		"c \tindicator clauses\n" +
		"c \tconstraint clauses for leaf variables\n" +
		"c \tselector variable type: NONE\n" +
		"c\n" +
		"c A\n" +
		"c \ttrue: 1\n" +
		"c \tfalse: 2\n" +
		"c selector variables: 3, ...\n" +
		"c\n" +
		"p cnf 4 4\n" +
		"1 2 0\n" +
		"-1 -2 0\n" +
		"c 0.3\n" +
		"-1 3 0\n" +
		"c 0.7\n" +
		"-2 4 0\n"
	assert.Equal(t, want, got)

	stats := e.Stats()
	assert.Equal(t, 4, stats.Variables)
	assert.Equal(t, 4, stats.Clauses)
	assert.Zero(t, stats.Ones)
	assert.Zero(t, stats.Shrinks)
}

func TestEncodeCSICollapsesEqualRows(t *testing.T) {
	opts := NWDNNF.Options()
	opts.CSI = true
	got, e := encode(t, chain(), opts)

	// every row of B's CPT sheds A; the two rows per B state collapse onto
	// one cached clause with one shared parameter variable
	body := got[strings.Index(got, "p cnf"):]
	const want = "p cnf 8 6\n" +
		"1 2 0\n" +
		"-1 -2 0\n" +
		"c 0.5\n" +
		"-1 5 0\n" +
		"c 0.5\n" +
		"-2 6 0\n" +
		"c 0.4\n" +
		"-3 7 0\n" +
		"c 0.6\n" +
		"-4 8 0\n"
	assert.Equal(t, want, body)

	stats := e.Stats()
	assert.Equal(t, 4, stats.Shrinks)
	assert.Equal(t, 4, stats.IndependentVariables)
	assert.Equal(t, 6, stats.Clauses)
}

func TestEncodeDeterminism(t *testing.T) {
	net := singleVar()
	net.Values["A"] = []float64{1, 0}
	opts := DDNNF.Options()
	opts.Determinism = true

	got, e := encode(t, net, opts)
	body := got[strings.Index(got, "p cnf"):]
	const want = "p cnf 2 3\n" +
		"1 2 0\n" +
		"-1 -2 0\n" +
		"c 0\n" +
		"-2 0\n"
	assert.Equal(t, want, body)

	stats := e.Stats()
	assert.Equal(t, 1, stats.Ones)
	assert.Equal(t, 1, stats.Zeros)
	// no parameter variable was allocated for either row
	assert.Equal(t, 2, stats.Variables)
}

func TestEncodeSelectorStrategies(t *testing.T) {
	net := singleVar()
	net.Values["A"] = []float64{1, 0}
	base := DDNNF.Options()
	base.Determinism = true

	t.Run("shared", func(t *testing.T) {
		opts := base
		opts.Selector = SelectorShared
		got, e := encode(t, net, opts)
		body := got[strings.Index(got, "p cnf"):]
		// variable 3 is the single shared selector
		const want = "p cnf 3 3\n" +
			"1 2 3 0\n" +
			"-1 -2 3 0\n" +
			"c 0\n" +
			"-2 3 0\n"
		assert.Equal(t, want, body)
		assert.Contains(t, got, "c selector variables: 3, ...\n")
		assert.Equal(t, 3, e.Stats().Variables)
	})

	t.Run("fresh", func(t *testing.T) {
		opts := base
		opts.Selector = SelectorFresh
		got, e := encode(t, net, opts)
		body := got[strings.Index(got, "p cnf"):]
		// every hard clause gets its own selector: 3, 4 and 5
		const want = "p cnf 5 3\n" +
			"1 2 3 0\n" +
			"-1 -2 4 0\n" +
			"c 0\n" +
			"-2 5 0\n"
		assert.Equal(t, want, body)
		assert.Equal(t, 5, e.Stats().Variables)
	})
}

func TestEncodeMinorClauses(t *testing.T) {
	opts := SDDNNF.Options()
	got, e := encode(t, chain(), opts)
	body := got[strings.Index(got, "p cnf"):]
	// B is a leaf but sdDNNF constrains it anyway; every parameter clause
	// is followed by one minor clause per body literal
	const want = "p cnf 10 20\n" +
		"1 2 0\n" +
		"-1 -2 0\n" +
		"3 4 0\n" +
		"-3 -4 0\n" +
		"c 0.5\n" +
		"-1 5 0\n" +
		"1 -5 0\n" +
		"c 0.5\n" +
		"-2 6 0\n" +
		"2 -6 0\n" +
		"c 0.4\n" +
		"-1 -3 7 0\n" +
		"1 -7 0\n" +
		"3 -7 0\n" +
		"c 0.6\n" +
		"-1 -4 8 0\n" +
		"1 -8 0\n" +
		"4 -8 0\n" +
		"c 0.4\n" +
		"-2 -3 9 0\n" +
		"2 -9 0\n" +
		"3 -9 0\n" +
		"c 0.6\n" +
		"-2 -4 10 0\n" +
		"2 -10 0\n" +
		"4 -10 0\n"
	assert.Equal(t, want, body)
	assert.Equal(t, 20, e.Stats().Clauses)
}

func TestEncodeLeafExemption(t *testing.T) {
	// under nwDNNF, leaf variable B gets no constraint clauses
	got, _ := encode(t, chain(), NWDNNF.Options())
	assert.NotContains(t, got, "3 4 0\n")
	assert.NotContains(t, got, "-3 -4 0\n")
	assert.Contains(t, got, "1 2 0\n")
}

func TestEncoderReuse(t *testing.T) {
	net := chain()
	opts := NWDNNF.Options()
	opts.CSI = true
	e, err := New(net, opts, quietLogger())
	require.NoError(t, err)

	var first, second bytes.Buffer
	require.NoError(t, e.Encode(&first))
	stats := e.Stats()
	require.NoError(t, e.Encode(&second))

	// no counter or cache leaks across runs
	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, stats, e.Stats())
}

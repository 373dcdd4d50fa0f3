package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitTypeBundles(t *testing.T) {
	for _, tc := range []struct {
		ct    CircuitType
		leafs bool
		minor bool
	}{
		{NWDNNF, false, false},
		{DDNNF, true, false},
		{SDDNNF, true, true},
	} {
		opts := tc.ct.Options()
		assert.True(t, opts.IndicatorClauses, "%s", tc.ct)
		assert.Equal(t, tc.leafs, opts.LeafConstraints, "%s", tc.ct)
		assert.Equal(t, tc.minor, opts.MinorClauses, "%s", tc.ct)
		assert.Equal(t, SelectorNone, opts.Selector, "%s", tc.ct)
		assert.NoError(t, opts.validate())
	}
}

func TestParseCircuitType(t *testing.T) {
	ct, err := ParseCircuitType("sdDNNF")
	require.NoError(t, err)
	assert.Equal(t, SDDNNF, ct)

	ct, err = ParseCircuitType("NWDNNF")
	require.NoError(t, err)
	assert.Equal(t, NWDNNF, ct)

	_, err = ParseCircuitType("cnf")
	assert.Error(t, err)
}

func TestParseSelectorStrategy(t *testing.T) {
	for name, want := range map[string]SelectorStrategy{
		"none": SelectorNone,
		"ONE":  SelectorShared,
		"new":  SelectorFresh,
	} {
		got, err := ParseSelectorStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSelectorStrategy("some")
	assert.Error(t, err)
}

func TestOptionsValidate(t *testing.T) {
	opts := SDDNNF.Options()
	opts.Selector = SelectorShared
	assert.Error(t, opts.validate(), "minor clauses need permanently hard constraints")

	opts = SDDNNF.Options()
	opts.LeafConstraints = false
	assert.Error(t, opts.validate())

	opts = NWDNNF.Options()
	opts.Selector = SelectorFresh
	assert.NoError(t, opts.validate())
}

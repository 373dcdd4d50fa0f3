package bn

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDense(t *testing.T) {
	net, err := Generate(GenerateConfig{
		TopLayerSize:    3,
		BottomLayerSize: 4,
		DomainSize:      2,
		Density:         100,
	})
	require.NoError(t, err)
	require.NoError(t, net.Validate())

	assert.Equal(t, "3_4_2_100", net.Name)
	assert.Len(t, net.Variables, 7)
	assert.Equal(t, "Disease_1", net.Variables[0])
	assert.Equal(t, "Symptom_4", net.Variables[6])
	assert.Equal(t, []string{"value_d_2_1", "value_d_2_2"}, net.States["Disease_2"])

	// fully dense: every symptom depends on every disease
	for _, s := range []string{"Symptom_1", "Symptom_2", "Symptom_3", "Symptom_4"} {
		assert.Equal(t, []string{"Disease_1", "Disease_2", "Disease_3"}, net.Parents[s])
		assert.Len(t, net.Values[s], 16)
	}
	assert.Len(t, net.Edges(), 12)

	// deterministic tables: first state certain, all others impossible
	for col := 0; col < 8; col++ {
		assert.Equal(t, 1.0, net.Values["Symptom_1"][col*2])
		assert.Equal(t, 0.0, net.Values["Symptom_1"][col*2+1])
	}
	assert.Equal(t, []float64{1, 0}, net.Values["Disease_3"])
}

func TestGenerateSparse(t *testing.T) {
	cfg := GenerateConfig{
		TopLayerSize:    6,
		BottomLayerSize: 6,
		DomainSize:      3,
		Density:         50,
		Seed:            42,
	}
	net, err := Generate(cfg)
	require.NoError(t, err)
	require.NoError(t, net.Validate())

	assert.Equal(t, "6_3_50_42", net.Name)
	for i := 1; i <= 6; i++ {
		parents := net.Parents[net.Variables[5+i]]
		assert.Len(t, parents, 3, "50%% of 6 diseases")
		assert.True(t, sortedUnique(parents), "parents must be sorted and distinct: %v", parents)
	}

	// same seed, same network
	again, err := Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, net, again)
}

func sortedUnique(names []string) bool {
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			return false
		}
	}
	return true
}

func TestGenerateErrors(t *testing.T) {
	for name, cfg := range map[string]GenerateConfig{
		"tiny top layer":  {TopLayerSize: 1, BottomLayerSize: 5, DomainSize: 2, Density: 100},
		"tiny domain":     {TopLayerSize: 5, BottomLayerSize: 5, DomainSize: 1, Density: 100},
		"zero density":    {TopLayerSize: 5, BottomLayerSize: 5, DomainSize: 2, Density: 0},
		"huge density":    {TopLayerSize: 5, BottomLayerSize: 5, DomainSize: 2, Density: 150},
		"too few edges":   {TopLayerSize: 5, BottomLayerSize: 5, DomainSize: 2, Density: 20},
		"uncovered layer": {TopLayerSize: 50, BottomLayerSize: 2, DomainSize: 2, Density: 10},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Generate(cfg)
			assert.Error(t, err)
		})
	}
}

func TestGenerateWritesParsableBIF(t *testing.T) {
	net, err := Generate(GenerateConfig{
		TopLayerSize:    3,
		BottomLayerSize: 3,
		DomainSize:      2,
		Density:         100,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, net))
	parsed, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, net, parsed)
}

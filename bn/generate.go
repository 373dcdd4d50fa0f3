package bn

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// GenerateConfig parameterizes the synthetic two-layer network generator: a
// top layer of independent "disease" variables and a bottom layer of
// "symptom" variables, each symptom depending on a random subset of the
// diseases.
type GenerateConfig struct {
	// TopLayerSize is the number of disease variables, at least 2.
	TopLayerSize int
	// BottomLayerSize is the number of symptom variables, at least 2.
	BottomLayerSize int
	// DomainSize is the domain size of every variable, at least 2.
	DomainSize int
	// Density is the percentage (0, 100] of diseases each symptom depends
	// on. At 100 the network is fully dense and Seed is irrelevant.
	Density int
	// Seed seeds the parent sampling for densities below 100.
	Seed int64
}

func (cfg GenerateConfig) validate() error {
	if cfg.TopLayerSize < 2 {
		return errors.Errorf("top layer size %d, need at least 2", cfg.TopLayerSize)
	}
	if cfg.BottomLayerSize < 2 {
		return errors.Errorf("bottom layer size %d, need at least 2", cfg.BottomLayerSize)
	}
	if cfg.DomainSize < 2 {
		return errors.Errorf("domain size %d, need at least 2", cfg.DomainSize)
	}
	if cfg.Density <= 0 || cfg.Density > 100 {
		return errors.Errorf("density %d%% out of range (0, 100]", cfg.Density)
	}
	return nil
}

// edgesPerSymptom returns the number of disease parents of each symptom.
func (cfg GenerateConfig) edgesPerSymptom() int {
	return cfg.TopLayerSize * cfg.Density / 100
}

// name derives the network name from the generation parameters.
func (cfg GenerateConfig) name() string {
	name := fmt.Sprintf("%d_", cfg.TopLayerSize)
	if cfg.TopLayerSize != cfg.BottomLayerSize {
		name += fmt.Sprintf("%d_", cfg.BottomLayerSize)
	}
	name += fmt.Sprintf("%d_%d", cfg.DomainSize, cfg.Density)
	if cfg.Density != 100 {
		name += fmt.Sprintf("_%d", cfg.Seed)
	}
	return name
}

// Generate builds a random two-layer disease/symptom network. Disease priors
// and symptom tables are deterministic: the first state of every variable
// has probability 1 and all others 0, so the resulting network exercises the
// determinism and independence optimizations of the encoder.
func Generate(cfg GenerateConfig) (*Network, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	edges := cfg.edgesPerSymptom()
	if edges < 2 {
		return nil, errors.Errorf("density %d%% yields %d edges per symptom, need at least 2", cfg.Density, edges)
	}
	if cfg.BottomLayerSize*edges <= cfg.TopLayerSize {
		return nil, errors.Errorf("%d symptoms with %d edges each cannot cover %d diseases",
			cfg.BottomLayerSize, edges, cfg.TopLayerSize)
	}

	net := &Network{
		Name:    cfg.name(),
		States:  make(map[string][]string),
		Parents: make(map[string][]string),
		Values:  make(map[string][]float64),
	}

	for i := 0; i < cfg.TopLayerSize; i++ {
		name := fmt.Sprintf("Disease_%d", i+1)
		net.Variables = append(net.Variables, name)
		net.States[name] = stateNames("value_d", i, cfg.DomainSize)
		net.Values[name] = deterministicColumn(cfg.DomainSize, 1)
	}
	for i := 0; i < cfg.BottomLayerSize; i++ {
		name := fmt.Sprintf("Symptom_%d", i+1)
		net.Variables = append(net.Variables, name)
		net.States[name] = stateNames("value_s", i, cfg.DomainSize)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	for i := 0; i < cfg.BottomLayerSize; i++ {
		name := fmt.Sprintf("Symptom_%d", i+1)
		picked := rng.Perm(cfg.TopLayerSize)[:edges]
		sort.Ints(picked)
		parents := make([]string, edges)
		for j, d := range picked {
			parents[j] = fmt.Sprintf("Disease_%d", d+1)
		}
		net.Parents[name] = parents

		cols := 1
		for range parents {
			cols *= cfg.DomainSize
		}
		net.Values[name] = deterministicColumn(cfg.DomainSize, cols)
	}
	return net, nil
}

func stateNames(prefix string, position, domain int) []string {
	states := make([]string, domain)
	for j := range states {
		states[j] = fmt.Sprintf("%s_%d_%d", prefix, position+1, j+1)
	}
	return states
}

// deterministicColumn builds cols CPT columns in which the first state has
// probability 1 and every other state probability 0.
func deterministicColumn(card, cols int) []float64 {
	values := make([]float64, card*cols)
	for col := 0; col < cols; col++ {
		values[col*card] = 1
	}
	return values
}

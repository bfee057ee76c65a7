package sim

import (
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey, population and configuration
// MUST produce identical reports.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemPopulation is the RNG subsystem for synthetic population generation.
	// Uses master seed directly so --seed alone reproduces a synthetic population.
	SubsystemPopulation = "population"

	// SubsystemSeed selects the initially infected agents.
	SubsystemSeed = "seed"

	// SubsystemSampler thins potential interactions into realized ones.
	SubsystemSampler = "sampler"

	// SubsystemDisease draws exposure outcomes, incubation, infection length and mortality.
	SubsystemDisease = "disease"

	// SubsystemTesting draws test submission and turnaround.
	SubsystemTesting = "testing"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
// Isolation means that, for example, changing the test rate does not shift the
// interaction sampling stream.
//
// Derivation formula:
//   - For SubsystemPopulation: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemPopulation {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// bernoulli draws a single trial with success probability p.
// Always consumes exactly one draw, so the stream position never depends on p.
func bernoulli(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

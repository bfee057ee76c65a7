package sim

import (
	"math/rand"
	"sort"
)

// RealizedInteraction is a contact that actually happens on a given day, at
// one representative minute of the pair's overlap.
type RealizedInteraction struct {
	A, B   int
	Minute int
	Type   ActivityType
}

// InteractionSampler thins the static potential-interaction set into one
// day's realized interactions. The potential set is only read, never
// mutated, so every day starts from the full set and state filtering alone
// shrinks it.
type InteractionSampler struct {
	graph       *ContactGraph
	probability float64
	distancing  DistancingConfig
}

// NewInteractionSampler creates a sampler over g. probability is the
// co-presence-to-interaction probability.
func NewInteractionSampler(g *ContactGraph, probability float64, distancing DistancingConfig) *InteractionSampler {
	return &InteractionSampler{graph: g, probability: probability, distancing: distancing}
}

// Sample returns today's realized interactions sorted by minute.
// agents is indexed like the graph; confirmed is the current confirmed-case
// count gating the distancing policy.
func (s *InteractionSampler) Sample(agents []*Agent, confirmed int, rng *rand.Rand) []RealizedInteraction {
	var out []RealizedInteraction
	for _, pi := range s.graph.Interactions {
		if agents[pi.A].State.IsIsolated() || agents[pi.B].State.IsIsolated() {
			continue
		}
		if !bernoulli(rng, s.probability) {
			continue
		}
		if !bernoulli(rng, s.distancing.KeepProbability(pi.Type, confirmed)) {
			continue
		}
		minute := pi.Overlap.Minute(rng.Intn(pi.Overlap.Len()))
		out = append(out, RealizedInteraction{A: pi.A, B: pi.B, Minute: minute, Type: pi.Type})
	}
	// sorted interactions by timestep
	sort.SliceStable(out, func(i, j int) bool { return out[i].Minute < out[j].Minute })
	return out
}

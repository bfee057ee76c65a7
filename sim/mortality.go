package sim

import (
	"math"
	"math/rand"
	"sort"
)

// MortalityModel decides at exposure time whether an agent's infection ends in death.
type MortalityModel struct {
	brackets []MortalityBracket // descending by threshold
	sexRatio map[Sex]float64
}

// NewMortalityModel builds a model from a validated MortalityConfig.
func NewMortalityModel(cfg MortalityConfig) *MortalityModel {
	brackets := append([]MortalityBracket(nil), cfg.Brackets...)
	sort.Slice(brackets, func(i, j int) bool { return brackets[i].Threshold > brackets[j].Threshold })
	ratio := make(map[Sex]float64, len(cfg.SexRatio))
	for k, v := range cfg.SexRatio {
		ratio[k] = v
	}
	return &MortalityModel{brackets: brackets, sexRatio: ratio}
}

// BaseProbability returns the age-bracket death probability: the bracket with
// the largest threshold strictly below age, or the lowest bracket when age
// does not exceed any threshold.
func (m *MortalityModel) BaseProbability(age int) float64 {
	if len(m.brackets) == 0 {
		return 0
	}
	for _, b := range m.brackets {
		if age > b.Threshold {
			return b.Probability
		}
	}
	return m.brackets[len(m.brackets)-1].Probability
}

// Probability returns the death probability for an agent of the given age and sex.
func (m *MortalityModel) Probability(age int, sex Sex) float64 {
	p := m.BaseProbability(age) * 2 * m.sexRatio[sex]
	return math.Min(1, math.Max(0, p))
}

// Draw samples the death outcome for one exposure. Consumes exactly one draw.
func (m *MortalityModel) Draw(rng *rand.Rand, age int, sex Sex) bool {
	return bernoulli(rng, m.Probability(age, sex))
}

package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMortalityModel_BaseProbability_Brackets(t *testing.T) {
	m := NewMortalityModel(DefaultConfig().Mortality)
	tests := []struct {
		age  int
		want float64
	}{
		{0, 0.0},
		{5, 0.0},
		{10, 0.0}, // thresholds are exclusive
		{11, 0.002},
		{45, 0.004},
		{50, 0.004},
		{51, 0.013},
		{79, 0.080},
		{80, 0.080},
		{81, 0.148},
		{104, 0.148},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, m.BaseProbability(tt.age), 1e-12, "age %d", tt.age)
	}
}

func TestMortalityModel_Probability_SexFactor(t *testing.T) {
	m := NewMortalityModel(DefaultConfig().Mortality)
	assert.InDelta(t, 0.148*2*0.636, m.Probability(90, SexMale), 1e-12)
	assert.InDelta(t, 0.148*2*0.364, m.Probability(90, SexFemale), 1e-12)
	assert.Greater(t, m.Probability(65, SexMale), m.Probability(65, SexFemale))
	assert.Zero(t, m.Probability(90, Sex("X")), "unknown sex has no weight")
}

func TestMortalityModel_Probability_Clamped(t *testing.T) {
	m := NewMortalityModel(MortalityConfig{
		Brackets: []MortalityBracket{{Threshold: 0, Probability: 0.9}},
		SexRatio: map[Sex]float64{SexMale: 1.0, SexFemale: 0.0},
	})
	assert.Equal(t, 1.0, m.Probability(30, SexMale))
	assert.True(t, m.Draw(rand.New(rand.NewSource(1)), 30, SexMale))
	assert.False(t, m.Draw(rand.New(rand.NewSource(1)), 30, SexFemale))
}

func TestMortalityModel_UnsortedInput(t *testing.T) {
	cfg := MortalityConfig{
		Brackets: []MortalityBracket{{Threshold: 0, Probability: 0.1}, {Threshold: 60, Probability: 0.3}},
		SexRatio: map[Sex]float64{SexMale: 0.5, SexFemale: 0.5},
	}
	m := NewMortalityModel(cfg)
	assert.InDelta(t, 0.1, m.BaseProbability(60), 1e-12)
	assert.InDelta(t, 0.3, m.BaseProbability(61), 1e-12)
	// the caller's slice order is untouched
	assert.Equal(t, 0, cfg.Brackets[0].Threshold)
}

func TestMortalityModel_Draw_Deterministic(t *testing.T) {
	m := NewMortalityModel(DefaultConfig().Mortality)
	r1 := rand.New(rand.NewSource(99))
	r2 := rand.New(rand.NewSource(99))
	for i := 0; i < 200; i++ {
		assert.Equal(t, m.Draw(r1, 85, SexMale), m.Draw(r2, 85, SexMale))
	}
}

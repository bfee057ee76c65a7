package sim

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate_JoinsEveryViolation(t *testing.T) {
	// GIVEN a config with several independent mistakes
	cfg := DefaultConfig()
	cfg.Transmission.Probability = 1.5
	cfg.InteractionProbability = -0.1
	cfg.Testing.TurnaroundMin = 5
	cfg.Testing.TurnaroundMax = 2
	cfg.Incubation.StdDev = 0
	cfg.InitialInfected = -1

	// WHEN validated
	err := cfg.Validate()

	// THEN one error reports all of them and wraps the sentinel
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	msg := err.Error()
	for _, want := range []string{
		"transmission.probability",
		"interaction_probability",
		"testing turnaround",
		"incubation std_dev",
		"initial_infected",
	} {
		assert.True(t, strings.Contains(msg, want), "missing %q in %q", want, msg)
	}
}

func TestConfig_Validate_RejectsBadFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"nan probability", func(c *Config) { c.Transmission.Probability = math.NaN() }, "transmission.probability"},
		{"reduction above one", func(c *Config) { c.Transmission.DistancingReduction = 2 }, "distancing_reduction"},
		{"unknown keep type", func(c *Config) { c.Distancing.Keep["X"] = 0.5 }, "unknown activity type"},
		{"keep above one", func(c *Config) { c.Distancing.Keep[ActivityWork] = 1.2 }, "distancing.keep[W]"},
		{"testing rate", func(c *Config) { c.Testing.Rate = -1 }, "testing.rate"},
		{"zero turnaround", func(c *Config) { c.Testing.TurnaroundMin = 0 }, "testing turnaround"},
		{"inverted support", func(c *Config) { c.InfectionLength.Min, c.InfectionLength.Max = 20, 10 }, "infection_length support"},
		{"infinite mean", func(c *Config) { c.Incubation.Mean = math.Inf(1) }, "incubation mean"},
		{"negative max days", func(c *Config) { c.MaxDays = -1 }, "max_days"},
		{"empty brackets", func(c *Config) { c.Mortality.Brackets = nil }, "mortality.brackets is empty"},
		{"duplicate threshold", func(c *Config) {
			c.Mortality.Brackets = append(c.Mortality.Brackets, MortalityBracket{Threshold: 80, Probability: 0.1})
		}, "duplicated"},
		{"missing sex", func(c *Config) { c.Mortality.SexRatio = map[Sex]float64{SexMale: 1.0} }, "missing \"female\""},
		{"ratio sum", func(c *Config) { c.Mortality.SexRatio[SexMale] = 0.7 }, "sums to"},
		{"death probability above one", func(c *Config) {
			c.Mortality.Brackets[0].Probability = 0.9
		}, "above 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTransmissionConfig_Effective(t *testing.T) {
	c := TransmissionConfig{Probability: 0.4, DistancingReduction: 0.5}
	assert.InDelta(t, 0.4, c.Effective(), 1e-12)
	c.SocialDistancing = true
	assert.InDelta(t, 0.2, c.Effective(), 1e-12)
}

func TestDistancingConfig_KeepProbability(t *testing.T) {
	d := DefaultConfig().Distancing

	// no confirmed case yet: nothing is thinned
	assert.Equal(t, 1.0, d.KeepProbability(ActivityWork, 0))
	// after the first confirmation the table applies
	assert.Equal(t, 0.5, d.KeepProbability(ActivityWork, 1))
	assert.Equal(t, 0.2, d.KeepProbability(ActivitySchool, 3))
	// types outside the table are kept
	delete(d.Keep, ActivityOther)
	assert.Equal(t, 1.0, d.KeepProbability(ActivityOther, 3))

	d.EnableAfterConfirmed = false
	assert.Equal(t, 1.0, d.KeepProbability(ActivityWork, 10))
}

package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every configuration error reported by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// TransmissionConfig groups the per-interaction infection parameters.
type TransmissionConfig struct {
	Probability         float64 `yaml:"probability"`          // chance an I–S interaction exposes the S party
	SocialDistancing    bool    `yaml:"social_distancing"`    // global distancing flag
	DistancingReduction float64 `yaml:"distancing_reduction"` // multiplier applied to Probability when SocialDistancing is set
}

// Effective returns the transmission probability after the distancing multiplier.
func (c TransmissionConfig) Effective() float64 {
	if c.SocialDistancing {
		return c.Probability * c.DistancingReduction
	}
	return c.Probability
}

// DistancingConfig is the per-activity-type policy applied by the interaction sampler.
type DistancingConfig struct {
	EnableAfterConfirmed bool                     `yaml:"enable_after_confirmed"` // apply Keep once the first case is confirmed
	Keep                 map[ActivityType]float64 `yaml:"keep"`                   // probability an interaction of that type still happens
}

// KeepProbability returns the keep probability for an activity type given the
// current confirmed-case count. Types missing from Keep are never thinned.
func (c DistancingConfig) KeepProbability(t ActivityType, confirmed int) float64 {
	if !c.EnableAfterConfirmed || confirmed == 0 {
		return 1.0
	}
	if p, ok := c.Keep[t]; ok {
		return p
	}
	return 1.0
}

// TestingConfig groups the testing and confirmation parameters for infectious agents.
type TestingConfig struct {
	Rate          float64 `yaml:"rate"`           // daily chance an untested infectious agent submits a test
	TurnaroundMin int     `yaml:"turnaround_min"` // days from submission to result, inclusive bounds
	TurnaroundMax int     `yaml:"turnaround_max"`
}

// DurationConfig parameterizes a discretized, truncated normal over whole days.
type DurationConfig struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
	Min    int     `yaml:"min"`
	Max    int     `yaml:"max"`
}

// MortalityBracket is one row of the age mortality table: agents strictly
// older than Threshold (and younger than the next bracket) die with Probability.
type MortalityBracket struct {
	Threshold   int     `yaml:"threshold"`
	Probability float64 `yaml:"probability"`
}

// MortalityConfig groups the age and sex mortality tables.
type MortalityConfig struct {
	Brackets []MortalityBracket `yaml:"brackets"`
	SexRatio map[Sex]float64    `yaml:"sex_ratio"` // share of deaths per sex, sums to 1.0
}

// Config is the full configuration surface of the engine.
type Config struct {
	Transmission           TransmissionConfig `yaml:"transmission"`
	InteractionProbability float64            `yaml:"interaction_probability"` // co-presence to interaction
	Distancing             DistancingConfig   `yaml:"distancing"`
	Testing                TestingConfig      `yaml:"testing"`
	Incubation             DurationConfig     `yaml:"incubation"`
	InfectionLength        DurationConfig     `yaml:"infection_length"`
	Mortality              MortalityConfig    `yaml:"mortality"`
	MaxDays                int                `yaml:"max_days"`
	InitialInfected        int                `yaml:"initial_infected"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
// Mortality figures are the early COVID-19 age and sex case fatality tables.
func DefaultConfig() Config {
	return Config{
		Transmission: TransmissionConfig{
			Probability:         0.05,
			SocialDistancing:    false,
			DistancingReduction: 0.5,
		},
		InteractionProbability: 0.6,
		Distancing: DistancingConfig{
			EnableAfterConfirmed: true,
			Keep: map[ActivityType]float64{
				ActivityHome:   1.0,
				ActivityWork:   0.5,
				ActivitySchool: 0.2,
				ActivityShop:   0.6,
				ActivityOther:  0.3,
			},
		},
		Testing:         TestingConfig{Rate: 0.3, TurnaroundMin: 1, TurnaroundMax: 4},
		Incubation:      DurationConfig{Mean: 8, StdDev: 3, Min: 2, Max: 13},
		InfectionLength: DurationConfig{Mean: 20, StdDev: 3, Min: 14, Max: 25},
		Mortality: MortalityConfig{
			Brackets: []MortalityBracket{
				{Threshold: 80, Probability: 0.148},
				{Threshold: 70, Probability: 0.080},
				{Threshold: 60, Probability: 0.036},
				{Threshold: 50, Probability: 0.013},
				{Threshold: 40, Probability: 0.004},
				{Threshold: 30, Probability: 0.002},
				{Threshold: 20, Probability: 0.002},
				{Threshold: 10, Probability: 0.002},
				{Threshold: 0, Probability: 0.0},
			},
			SexRatio: map[Sex]float64{SexMale: 0.636, SexFemale: 0.364},
		},
		MaxDays:         365,
		InitialInfected: 1,
	}
}

func validProb(p float64) bool { return p >= 0.0 && p <= 1.0 && !math.IsNaN(p) }

// Validate reports every out-of-range field at once, joined into a single
// error wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if !validProb(c.Transmission.Probability) {
		add("transmission.probability %v outside [0,1]", c.Transmission.Probability)
	}
	if !validProb(c.Transmission.DistancingReduction) {
		add("transmission.distancing_reduction %v outside [0,1]", c.Transmission.DistancingReduction)
	}
	if !validProb(c.InteractionProbability) {
		add("interaction_probability %v outside [0,1]", c.InteractionProbability)
	}
	for t, p := range c.Distancing.Keep {
		if !IsValidActivityType(t) {
			add("distancing.keep: unknown activity type %q", t)
		}
		if !validProb(p) {
			add("distancing.keep[%s] %v outside [0,1]", t, p)
		}
	}
	if !validProb(c.Testing.Rate) {
		add("testing.rate %v outside [0,1]", c.Testing.Rate)
	}
	if c.Testing.TurnaroundMin < 1 || c.Testing.TurnaroundMax < c.Testing.TurnaroundMin {
		add("testing turnaround [%d,%d] must satisfy 1 <= min <= max", c.Testing.TurnaroundMin, c.Testing.TurnaroundMax)
	}
	errs = append(errs, c.Incubation.validate("incubation")...)
	errs = append(errs, c.InfectionLength.validate("infection_length")...)
	errs = append(errs, c.Mortality.validate()...)
	if c.MaxDays < 0 {
		add("max_days %d is negative", c.MaxDays)
	}
	if c.InitialInfected < 0 {
		add("initial_infected %d is negative", c.InitialInfected)
	}

	return errors.Join(errs...)
}

func (d DurationConfig) validate(name string) []error {
	var errs []error
	if d.Min < 1 || d.Max < d.Min {
		errs = append(errs, fmt.Errorf("%w: %s support [%d,%d] must satisfy 1 <= min <= max", ErrInvalidConfig, name, d.Min, d.Max))
	}
	if !(d.StdDev > 0) || math.IsInf(d.StdDev, 0) {
		errs = append(errs, fmt.Errorf("%w: %s std_dev %v must be positive", ErrInvalidConfig, name, d.StdDev))
	}
	if math.IsNaN(d.Mean) || math.IsInf(d.Mean, 0) {
		errs = append(errs, fmt.Errorf("%w: %s mean %v must be finite", ErrInvalidConfig, name, d.Mean))
	}
	return errs
}

func (m MortalityConfig) validate() []error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if len(m.Brackets) == 0 {
		add("mortality.brackets is empty")
	}
	seen := make(map[int]bool, len(m.Brackets))
	maxProb := 0.0
	for _, b := range m.Brackets {
		if b.Threshold < 0 {
			add("mortality bracket threshold %d is negative", b.Threshold)
		}
		if seen[b.Threshold] {
			add("mortality bracket threshold %d is duplicated", b.Threshold)
		}
		seen[b.Threshold] = true
		if !validProb(b.Probability) {
			add("mortality bracket %d probability %v outside [0,1]", b.Threshold, b.Probability)
		}
		maxProb = math.Max(maxProb, b.Probability)
	}

	sum := 0.0
	maxRatio := 0.0
	for _, s := range []Sex{SexMale, SexFemale} {
		r, ok := m.SexRatio[s]
		if !ok {
			add("mortality.sex_ratio missing %q", s)
			continue
		}
		if !validProb(r) {
			add("mortality.sex_ratio[%s] %v outside [0,1]", s, r)
		}
		sum += r
		maxRatio = math.Max(maxRatio, r)
	}
	for s := range m.SexRatio {
		if !validSexes[s] {
			add("mortality.sex_ratio: unknown sex %q", s)
		}
	}
	if len(m.SexRatio) > 0 && math.Abs(sum-1.0) > 1e-9 {
		add("mortality.sex_ratio sums to %v, want 1.0", sum)
	}
	if maxProb*2*maxRatio > 1.0 {
		add("mortality table yields death probability %v above 1", maxProb*2*maxRatio)
	}
	return errs
}

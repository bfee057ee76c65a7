package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epinet-sim/epinet/sim/trace"
)

func newTestEpidemic(t *testing.T, pop *Population, cfg Config, tr *trace.SimulationTrace) *Epidemic {
	t.Helper()
	require.NoError(t, cfg.Validate())
	return NewEpidemic(pop.People, cfg, NewPartitionedRNG(NewSimulationKey(42)), tr)
}

// exposeWith exposes agent i and overrides its drawn episode parameters.
func exposeWith(e *Epidemic, i, incubation, length int, willDie bool) *Agent {
	a := e.Agents[i]
	e.expose(0, a, exposureSource{})
	a.IncubationPeriod = incubation
	a.InfectionLength = length
	a.WillDie = willDie
	return a
}

func TestEpidemic_IncubationEndsInInfectious(t *testing.T) {
	// GIVEN an agent exposed with a 3-day incubation
	e := newTestEpidemic(t, testTwoAgentPopulation(), DefaultConfig(), nil)
	a := exposeWith(e, 0, 3, 20, false)

	// WHEN days pass
	e.AdvanceDay(1)
	e.AdvanceDay(2)
	assert.Equal(t, StateExposed, a.State)
	e.AdvanceDay(3)

	// THEN the agent becomes infectious exactly on day 3 with a fresh state clock
	assert.Equal(t, StateInfectious, a.State)
	assert.Equal(t, 0, a.TimeInState)
	assert.Equal(t, 3, a.DaysSinceExposure)
	assert.False(t, a.TestSubmitted)
	cfg := DefaultConfig().Testing
	assert.GreaterOrEqual(t, a.TestTurnaround, cfg.TurnaroundMin)
	assert.LessOrEqual(t, a.TestTurnaround, cfg.TurnaroundMax)
}

func TestEpidemic_ResolutionTakesPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		willDie bool
		want    DiseaseState
	}{
		{"recovers", false, StateRecovered},
		{"dies", true, StateDead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN incubation and infection length end on the same day
			e := newTestEpidemic(t, testTwoAgentPopulation(), DefaultConfig(), nil)
			a := exposeWith(e, 0, 5, 5, tt.willDie)

			for day := 1; day <= 5; day++ {
				e.AdvanceDay(day)
			}

			// THEN the agent resolves instead of becoming infectious
			assert.Equal(t, tt.want, a.State)
			assert.True(t, a.State.IsTerminal())
		})
	}
}

func TestEpidemic_TestingLeadsToQuarantine(t *testing.T) {
	// GIVEN an infectious agent who always gets tested with a 2-day turnaround
	cfg := DefaultConfig()
	cfg.Testing = TestingConfig{Rate: 1.0, TurnaroundMin: 2, TurnaroundMax: 2}
	e := newTestEpidemic(t, testTwoAgentPopulation(), cfg, nil)
	a := exposeWith(e, 0, 1, 10, false)

	// day 1: incubation ends
	e.AdvanceDay(1)
	require.Equal(t, StateInfectious, a.State)
	assert.Equal(t, 2, a.TestTurnaround)

	// day 2: test submitted
	e.AdvanceDay(2)
	assert.True(t, a.TestSubmitted)
	assert.Equal(t, StateInfectious, a.State)

	// day 3: one day waiting
	e.AdvanceDay(3)
	assert.Equal(t, StateInfectious, a.State)
	assert.Equal(t, 0, e.Confirmed)

	// day 4: result arrives
	e.AdvanceDay(4)
	assert.Equal(t, StateQuarantined, a.State)
	assert.Equal(t, 1, e.Confirmed)

	// THEN quarantine still resolves on the infection-length clock
	for day := 5; day < 10; day++ {
		e.AdvanceDay(day)
		assert.Equal(t, StateQuarantined, a.State, "day %d", day)
	}
	e.AdvanceDay(10)
	assert.Equal(t, StateRecovered, a.State)
	assert.Equal(t, 1, e.Confirmed, "confirmed count never decreases")
}

func TestEpidemic_ZeroTestingRateNeverConfirms(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Testing.Rate = 0
	e := newTestEpidemic(t, testTwoAgentPopulation(), cfg, nil)
	a := exposeWith(e, 0, 1, 15, false)

	for day := 1; day <= 15; day++ {
		e.AdvanceDay(day)
		assert.NotEqual(t, StateQuarantined, a.State)
	}
	assert.Equal(t, StateRecovered, a.State)
	assert.Equal(t, 0, e.Confirmed)
}

func TestEpidemic_Transmit_OnlyInfectiousToSusceptible(t *testing.T) {
	tests := []struct {
		name  string
		a, b  DiseaseState
		wantB DiseaseState
		wantN int
	}{
		{"I to S", StateInfectious, StateSusceptible, StateExposed, 1},
		{"S to I reversed", StateSusceptible, StateInfectious, StateInfectious, 1},
		{"I with E", StateInfectious, StateExposed, StateExposed, 0},
		{"I with I", StateInfectious, StateInfectious, StateInfectious, 0},
		{"E with S", StateExposed, StateSusceptible, StateSusceptible, 0},
		{"S with S", StateSusceptible, StateSusceptible, StateSusceptible, 0},
		{"I with R", StateInfectious, StateRecovered, StateRecovered, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEpidemic(t, testTwoAgentPopulation(), testCertainConfig(), nil)
			e.Agents[0].State = tt.a
			e.Agents[1].State = tt.b

			n := e.Transmit(1, []RealizedInteraction{{A: 0, B: 1, Minute: 900, Type: ActivityWork}})

			assert.Equal(t, tt.wantN, n)
			assert.Equal(t, tt.wantB, e.Agents[1].State)
		})
	}
}

func TestEpidemic_Transmit_ZeroProbability(t *testing.T) {
	cfg := testCertainConfig()
	cfg.Transmission.Probability = 0
	e := newTestEpidemic(t, testTwoAgentPopulation(), cfg, nil)
	e.Agents[0].State = StateInfectious

	n := e.Transmit(1, []RealizedInteraction{{A: 0, B: 1, Minute: 900, Type: ActivityWork}})

	assert.Zero(t, n)
	assert.Equal(t, StateSusceptible, e.Agents[1].State)
}

func TestEpidemic_ExposureParametersFixedOnce(t *testing.T) {
	// GIVEN an exposed agent
	e := newTestEpidemic(t, testTwoAgentPopulation(), DefaultConfig(), nil)
	a := e.Agents[0]
	e.expose(0, a, exposureSource{})
	incubation, length, willDie := a.IncubationPeriod, a.InfectionLength, a.WillDie

	// THEN the drawn parameters respect the configured supports
	cfg := DefaultConfig()
	assert.GreaterOrEqual(t, incubation, cfg.Incubation.Min)
	assert.LessOrEqual(t, incubation, cfg.Incubation.Max)
	assert.GreaterOrEqual(t, length, cfg.InfectionLength.Min)
	assert.LessOrEqual(t, length, cfg.InfectionLength.Max)

	// WHEN exposed again
	e.expose(3, a, exposureSource{agent: e.Agents[1]})

	// THEN nothing is redrawn
	assert.Equal(t, incubation, a.IncubationPeriod)
	assert.Equal(t, length, a.InfectionLength)
	assert.Equal(t, willDie, a.WillDie)
	assert.Equal(t, 1, a.Exposures)
	assert.Equal(t, 1, e.Exposures)
}

func TestEpidemic_SeedPatientZero(t *testing.T) {
	e := newTestEpidemic(t, testTwoAgentPopulation(), DefaultConfig(), nil)

	idx, err := e.SeedPatientZero()
	require.NoError(t, err)
	assert.Equal(t, StateInfectious, e.Agents[idx].State)
	assert.Equal(t, 0, e.Agents[idx].DaysSinceExposure)

	idx2, err := e.SeedPatientZero()
	require.NoError(t, err)
	assert.NotEqual(t, idx, idx2, "seeding picks among susceptible agents only")

	_, err = e.SeedPatientZero()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEpidemic_Counts(t *testing.T) {
	e := newTestEpidemic(t, testTownPopulation(6, 1), DefaultConfig(), nil)
	e.Agents[0].State = StateExposed
	e.Agents[1].State = StateInfectious
	e.Agents[2].State = StateQuarantined
	e.Agents[3].State = StateDead
	e.Confirmed = 1

	c := e.Counts(7)

	assert.Equal(t, DayCounts{Day: 7, Susceptible: 2, Exposed: 1, Infectious: 1, Quarantined: 1, Dead: 1, Confirmed: 1}, c)
	assert.Equal(t, 3, c.Active())
	assert.Equal(t, 6, c.Total())
}

func TestEpidemic_TraceRecordsExposureContext(t *testing.T) {
	// GIVEN tracing is enabled
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelTransitions})
	e := newTestEpidemic(t, testTwoAgentPopulation(), testCertainConfig(), st)
	idx, err := e.SeedPatientZero()
	require.NoError(t, err)
	other := 1 - idx

	// WHEN the seed infects its co-worker
	e.Transmit(1, []RealizedInteraction{{A: 0, B: 1, Minute: 1234, Type: ActivityWork}})

	// THEN the trace holds the seed's S->E->I and the co-worker's exposure
	require.Len(t, st.Transitions, 3)
	assert.Equal(t, trace.CauseSeed, st.Transitions[0].Cause)
	assert.Equal(t, trace.CauseSeed, st.Transitions[1].Cause)
	assert.Equal(t, "I", st.Transitions[1].To)
	rec := st.Transitions[2]
	assert.Equal(t, trace.CauseExposure, rec.Cause)
	assert.Equal(t, string(e.Agents[other].ID), rec.AgentID)
	assert.Equal(t, string(e.Agents[idx].ID), rec.Source)
	assert.Equal(t, 1234, rec.Minute)
	assert.Equal(t, "W", rec.Context)
}

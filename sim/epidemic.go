package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/epinet-sim/epinet/sim/trace"
)

// Epidemic owns the per-agent disease state and advances it, either on
// elapsed time (AdvanceDay) or on transmission outcomes (Transmit).
//
// State graph:
//
//	S -> E -> I -> Q -> {R, D}
//	     |    |
//	     +----+-------> {R, D}
//
// The resolution to R or D happens once the infection length (measured from
// exposure) elapses, whatever sub-state the agent is in.
type Epidemic struct {
	Agents    []*Agent
	Confirmed int // confirmed cases so far; never decreases
	Exposures int // exposures so far, including seeded agents

	testing      TestingConfig
	transmission TransmissionConfig
	incubation   *DiscreteDistribution
	infection    *DiscreteDistribution
	mortality    *MortalityModel
	rng          *PartitionedRNG
	trace        *trace.SimulationTrace
}

// NewEpidemic creates one susceptible agent per person. cfg must be valid.
func NewEpidemic(people []Person, cfg Config, rng *PartitionedRNG, tr *trace.SimulationTrace) *Epidemic {
	agents := make([]*Agent, len(people))
	for i, p := range people {
		agents[i] = newAgent(p)
	}
	return &Epidemic{
		Agents:       agents,
		testing:      cfg.Testing,
		transmission: cfg.Transmission,
		incubation:   NewTruncatedNormal(cfg.Incubation),
		infection:    NewTruncatedNormal(cfg.InfectionLength),
		mortality:    NewMortalityModel(cfg.Mortality),
		rng:          rng,
		trace:        tr,
	}
}

// SeedPatientZero picks a susceptible agent uniformly at random, exposes it
// and immediately makes it infectious. Returns the agent index.
func (e *Epidemic) SeedPatientZero() (int, error) {
	candidates := make([]int, 0, len(e.Agents))
	for i, a := range e.Agents {
		if a.State == StateSusceptible {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return -1, fmt.Errorf("%w: no susceptible agent to seed", ErrInvalidConfig)
	}
	idx := candidates[e.rng.ForSubsystem(SubsystemSeed).Intn(len(candidates))]
	a := e.Agents[idx]
	e.expose(0, a, exposureSource{})
	e.becomeInfectious(0, a, trace.CauseSeed)
	logrus.Infof("Patient zero: %s (age %d, %s)", a.ID, a.Age, a.Sex)
	return idx, nil
}

// AdvanceDay applies the elapsed-time rules to every agent. It runs before
// the day's interactions are processed.
func (e *Epidemic) AdvanceDay(day int) {
	testingRNG := e.rng.ForSubsystem(SubsystemTesting)
	for _, a := range e.Agents {
		if !a.State.IsActive() {
			continue
		}
		a.TimeInState++
		a.DaysSinceExposure++

		if a.DaysSinceExposure >= a.InfectionLength {
			to := StateRecovered
			if a.WillDie {
				to = StateDead
			}
			e.move(day, a, to, trace.CauseResolved)
			continue
		}

		switch a.State {
		case StateExposed:
			if a.TimeInState == a.IncubationPeriod {
				e.becomeInfectious(day, a, trace.CauseIncubation)
			}
		case StateInfectious:
			if a.TestSubmitted {
				a.DaysSinceTest++
				if a.DaysSinceTest >= a.TestTurnaround {
					e.move(day, a, StateQuarantined, trace.CauseConfirmed)
					e.Confirmed++
				}
			} else if bernoulli(testingRNG, e.testing.Rate) {
				a.TestSubmitted = true
			}
		}
	}
}

// Transmit processes the day's realized interactions. An interaction between
// exactly one infectious and one susceptible agent exposes the susceptible one
// with the effective transmission probability. Returns the number of new exposures.
func (e *Epidemic) Transmit(day int, interactions []RealizedInteraction) int {
	diseaseRNG := e.rng.ForSubsystem(SubsystemDisease)
	p := e.transmission.Effective()
	exposed := 0
	for _, ri := range interactions {
		a, b := e.Agents[ri.A], e.Agents[ri.B]
		var src, dst *Agent
		switch {
		case a.State == StateInfectious && b.State == StateSusceptible:
			src, dst = a, b
		case b.State == StateInfectious && a.State == StateSusceptible:
			src, dst = b, a
		default:
			continue
		}
		if !bernoulli(diseaseRNG, p) {
			continue
		}
		e.expose(day, dst, exposureSource{agent: src, interaction: ri})
		exposed++
	}
	return exposed
}

type exposureSource struct {
	agent       *Agent
	interaction RealizedInteraction
}

// expose moves a susceptible agent to E and fixes its episode parameters.
func (e *Epidemic) expose(day int, a *Agent, src exposureSource) {
	if a.State != StateSusceptible {
		return
	}
	diseaseRNG := e.rng.ForSubsystem(SubsystemDisease)
	a.DaysSinceExposure = 0
	a.IncubationPeriod = e.incubation.Sample(diseaseRNG)
	a.InfectionLength = e.infection.Sample(diseaseRNG)
	a.WillDie = e.mortality.Draw(diseaseRNG, a.Age, a.Sex)
	a.Exposures++
	e.Exposures++

	if e.trace.Enabled() {
		rec := trace.TransitionRecord{Day: day, AgentID: string(a.ID), From: string(a.State), To: string(StateExposed), Cause: trace.CauseSeed}
		if src.agent != nil {
			rec.Cause = trace.CauseExposure
			rec.Source = string(src.agent.ID)
			rec.Minute = src.interaction.Minute
			rec.Context = string(src.interaction.Type)
		}
		e.trace.RecordTransition(rec)
	}
	a.transition(StateExposed)
}

// becomeInfectious moves an exposed agent to I and resets its testing state.
func (e *Epidemic) becomeInfectious(day int, a *Agent, cause string) {
	lo, hi := e.testing.TurnaroundMin, e.testing.TurnaroundMax
	a.TestSubmitted = false
	a.DaysSinceTest = 0
	a.TestTurnaround = lo + e.rng.ForSubsystem(SubsystemTesting).Intn(hi-lo+1)
	e.move(day, a, StateInfectious, cause)
}

func (e *Epidemic) move(day int, a *Agent, to DiseaseState, cause string) {
	if e.trace.Enabled() {
		e.trace.RecordTransition(trace.TransitionRecord{
			Day: day, AgentID: string(a.ID), From: string(a.State), To: string(to), Cause: cause,
		})
	}
	logrus.Tracef("[day %04d] %s: %s -> %s (%s)", day, a.ID, a.State, to, cause)
	a.transition(to)
}

// Counts returns the number of agents in each state.
func (e *Epidemic) Counts(day int) DayCounts {
	c := DayCounts{Day: day, Confirmed: e.Confirmed}
	for _, a := range e.Agents {
		switch a.State {
		case StateSusceptible:
			c.Susceptible++
		case StateExposed:
			c.Exposed++
		case StateInfectious:
			c.Infectious++
		case StateQuarantined:
			c.Quarantined++
		case StateRecovered:
			c.Recovered++
		case StateDead:
			c.Dead++
		}
	}
	return c
}

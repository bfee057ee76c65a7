// sim/simulator.go
package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/epinet-sim/epinet/sim/trace"
)

// ErrAlreadyRun is returned when RunContext is called on a simulator that has
// already produced a report. A Simulator owns mutable agent state and runs once.
var ErrAlreadyRun = errors.New("simulator has already run")

// Simulator is the explicit simulation context: it owns the agents, the
// immutable contact graph and the random source for the duration of one run.
type Simulator struct {
	Config   Config
	Graph    *ContactGraph
	Epidemic *Epidemic
	Sampler  *InteractionSampler
	RNG      *PartitionedRNG
	// PatientsZero are the agent indices seeded as infectious at day 0.
	PatientsZero []int

	trace  *trace.SimulationTrace
	report *Report
}

// Option customizes a Simulator at construction time.
type Option func(*Simulator)

// WithTrace records every state transition into st.
func WithTrace(st *trace.SimulationTrace) Option {
	return func(s *Simulator) {
		s.trace = st
	}
}

// NewSimulator validates the configuration and the population, builds the
// contact graph and seeds the initially infected agents. Every configuration
// and data contract error surfaces here, before the day loop.
func NewSimulator(pop *Population, cfg Config, key SimulationKey, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	graph, err := BuildContactGraph(pop)
	if err != nil {
		return nil, err
	}
	if cfg.InitialInfected > len(pop.People) {
		return nil, fmt.Errorf("%w: initial_infected %d exceeds population size %d",
			ErrInvalidConfig, cfg.InitialInfected, len(pop.People))
	}

	s := &Simulator{
		Config: cfg,
		Graph:  graph,
		RNG:    NewPartitionedRNG(key),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Epidemic = NewEpidemic(pop.People, cfg, s.RNG, s.trace)
	s.Sampler = NewInteractionSampler(graph, cfg.InteractionProbability, cfg.Distancing)

	for i := 0; i < cfg.InitialInfected; i++ {
		idx, err := s.Epidemic.SeedPatientZero()
		if err != nil {
			return nil, err
		}
		s.PatientsZero = append(s.PatientsZero, idx)
	}
	return s, nil
}

// Run executes up to maxDays days and returns the report.
func (s *Simulator) Run(maxDays int) *Report {
	report, err := s.RunContext(context.Background(), maxDays)
	if err != nil {
		logrus.Warnf("Simulation stopped early: %v", err)
	}
	return report
}

// RunContext executes the day loop. Each day it snapshots the state counts and
// stops if no agent is exposed, infectious or quarantined; otherwise it samples
// the day's interactions from the start-of-day states, advances the disease
// timers, then processes transmission.
//
// ctx is checked once per day boundary; on cancellation the partial report is
// returned together with ctx.Err(). maxDays <= 0 processes no day and reports
// a finished run.
func (s *Simulator) RunContext(ctx context.Context, maxDays int) (*Report, error) {
	if s.report != nil {
		return s.report, ErrAlreadyRun
	}
	report := &Report{
		Seed:           int64(s.RNG.Key()),
		PopulationSize: len(s.Epidemic.Agents),
		Initial:        s.Epidemic.Counts(0),
		History:        make([]DayCounts, 0),
	}
	s.report = report
	report.observe(report.Initial)

	if maxDays <= 0 {
		report.Finished = true
		report.TotalExposures = s.Epidemic.Exposures
		report.finalize()
		return report, nil
	}

	samplerRNG := s.RNG.ForSubsystem(SubsystemSampler)
	counts := report.Initial
	for day := 1; ; day++ {
		if counts.Active() == 0 {
			report.Finished = true
			logrus.Infof("[day %04d] No exposed, infectious or quarantined agents left", day-1)
			break
		}
		if day > maxDays {
			logrus.Infof("[day %04d] Day budget exhausted with %d active agents", maxDays, counts.Active())
			break
		}
		if err := ctx.Err(); err != nil {
			report.TotalExposures = s.Epidemic.Exposures
			report.finalize()
			return report, err
		}

		interactions := s.Sampler.Sample(s.Epidemic.Agents, s.Epidemic.Confirmed, samplerRNG)
		s.Epidemic.AdvanceDay(day)
		exposed := s.Epidemic.Transmit(day, interactions)

		counts = s.Epidemic.Counts(day)
		report.History = append(report.History, counts)
		report.Days = day
		report.observe(counts)

		logrus.Debugf("[day %04d] interactions=%d new_exposures=%d S=%d E=%d I=%d Q=%d R=%d D=%d",
			day, len(interactions), exposed, counts.Susceptible, counts.Exposed, counts.Infectious,
			counts.Quarantined, counts.Recovered, counts.Dead)
	}

	report.TotalExposures = s.Epidemic.Exposures
	report.finalize()
	logrus.Infof("Simulation ended after %d days (finished=%v)", report.Days, report.Finished)
	return report, nil
}

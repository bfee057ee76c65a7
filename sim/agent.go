// Defines the Agent struct that carries one person's mutable disease state.
// Agents are created from the provider's Person records and are mutated only
// by the Epidemic state machine.

package sim

import "fmt"

// DiseaseState is the SEIQRD compartment an agent currently occupies.
type DiseaseState string

const (
	StateSusceptible DiseaseState = "S"
	StateExposed     DiseaseState = "E"
	StateInfectious  DiseaseState = "I"
	StateQuarantined DiseaseState = "Q"
	StateRecovered   DiseaseState = "R"
	StateDead        DiseaseState = "D"
)

// DiseaseStates lists every state in lifecycle order.
var DiseaseStates = []DiseaseState{
	StateSusceptible, StateExposed, StateInfectious, StateQuarantined, StateRecovered, StateDead,
}

// IsTerminal reports whether the state has no outgoing transitions.
func (s DiseaseState) IsTerminal() bool {
	return s == StateRecovered || s == StateDead
}

// IsActive reports whether the agent is currently carrying the disease.
func (s DiseaseState) IsActive() bool {
	return s == StateExposed || s == StateInfectious || s == StateQuarantined
}

// IsIsolated reports whether the agent no longer takes part in interactions.
func (s DiseaseState) IsIsolated() bool {
	return s == StateQuarantined || s.IsTerminal()
}

// Agent is the engine's record of one person.
type Agent struct {
	ID  AgentID
	Age int
	Sex Sex

	State       DiseaseState
	TimeInState int // days since the last transition; reset to 0 on every transition

	// Set once at exposure, immutable for the rest of the episode.
	DaysSinceExposure int  // infection length is measured on this clock
	IncubationPeriod  int  // days spent in E before becoming infectious
	InfectionLength   int  // days from exposure until recovery or death
	WillDie           bool // outcome drawn from the mortality model

	// Testing, reset on entering I.
	TestSubmitted  bool
	DaysSinceTest  int
	TestTurnaround int

	Exposures int // number of times the agent has been exposed (0 or 1 without re-infection)
}

// newAgent creates a susceptible agent from a provider record.
func newAgent(p Person) *Agent {
	return &Agent{
		ID:    p.ID,
		Age:   p.Age,
		Sex:   p.Sex,
		State: StateSusceptible,
	}
}

// transition moves the agent to a new state and resets its state clock.
func (a *Agent) transition(to DiseaseState) {
	a.State = to
	a.TimeInState = 0
}

// This method returns a human-readable string representation of an Agent.
func (a Agent) String() string {
	return fmt.Sprintf("Agent: (ID: %s, State: %s, TimeInState: %d, Age: %d, Sex: %s)", a.ID, a.State, a.TimeInState, a.Age, a.Sex)
}

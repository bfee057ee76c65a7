// Package trace provides state-transition recording for epidemic runs.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// Transition causes.
const (
	CauseSeed       = "seed"       // initially infected agent
	CauseExposure   = "exposure"   // S -> E after an interaction with an infectious agent
	CauseIncubation = "incubation" // E -> I when the incubation period elapses
	CauseConfirmed  = "confirmed"  // I -> Q when a test result comes back
	CauseResolved   = "resolved"   // E/I/Q -> R/D when the infection length elapses
)

// TransitionRecord captures a single disease-state transition of one agent.
type TransitionRecord struct {
	Day     int
	AgentID string
	From    string
	To      string
	Cause   string
	Source  string // infecting agent for exposures, empty otherwise
	Minute  int    // minute of the infecting interaction, 0 otherwise
	Context string // activity type of the infecting interaction, empty otherwise
}

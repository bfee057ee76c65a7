// Tracks per-day compartment counts and the end-of-run summary report.

package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// DayCounts is a snapshot of how many agents occupy each state.
type DayCounts struct {
	Day         int `json:"day"`
	Susceptible int `json:"susceptible"`
	Exposed     int `json:"exposed"`
	Infectious  int `json:"infectious"`
	Quarantined int `json:"quarantined"`
	Recovered   int `json:"recovered"`
	Dead        int `json:"dead"`
	Confirmed   int `json:"confirmed"` // cumulative confirmed cases
}

// Active returns the number of agents currently carrying the disease (E+I+Q).
func (c DayCounts) Active() int {
	return c.Exposed + c.Infectious + c.Quarantined
}

// Total returns the number of agents counted; equals the population size.
func (c DayCounts) Total() int {
	return c.Susceptible + c.Active() + c.Recovered + c.Dead
}

// Ratio is a summary ratio that may be undefined (NaN) when its denominator is zero.
// It encodes as JSON null and prints as "undefined" in that case.
type Ratio float64

// NewRatio returns num/den, or an undefined Ratio when den is zero.
func NewRatio(num, den int) Ratio {
	if den == 0 {
		return Ratio(math.NaN())
	}
	return Ratio(float64(num) / float64(den))
}

// Defined reports whether the ratio has a value.
func (r Ratio) Defined() bool {
	return !math.IsNaN(float64(r))
}

func (r Ratio) String() string {
	if !r.Defined() {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", float64(r))
}

// MarshalJSON encodes an undefined ratio as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON decodes null as an undefined ratio.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}

// Report is the outcome of one simulation run.
type Report struct {
	RunID          string `json:"run_id,omitempty"` // assigned when the report is persisted
	Seed           int64  `json:"seed"`
	PopulationSize int    `json:"population_size"`
	Days           int    `json:"days"`     // days processed
	Finished       bool   `json:"finished"` // disease burned out within the budget
	PeakActive     int    `json:"peak_active"`
	PeakDay        int    `json:"peak_day"`
	ConfirmedCases int    `json:"confirmed_cases"`
	TotalExposures int    `json:"total_exposures"`

	CaseFatality       Ratio `json:"case_fatality"`       // D / (R + D)
	PopulationFatality Ratio `json:"population_fatality"` // D / N
	Recovery           Ratio `json:"recovery"`            // R / (R + D)
	NeverInfected      Ratio `json:"never_infected"`      // S / N

	Initial DayCounts   `json:"initial"`
	History []DayCounts `json:"history"` // counts after each processed day
}

// Final returns the counts at the end of the run.
func (r *Report) Final() DayCounts {
	if len(r.History) == 0 {
		return r.Initial
	}
	return r.History[len(r.History)-1]
}

// observe tracks the peak of concurrently active agents.
func (r *Report) observe(c DayCounts) {
	if c.Active() > r.PeakActive {
		r.PeakActive = c.Active()
		r.PeakDay = c.Day
	}
}

// finalize derives the summary ratios from the final counts.
func (r *Report) finalize() {
	final := r.Final()
	resolved := final.Recovered + final.Dead
	r.ConfirmedCases = final.Confirmed
	r.CaseFatality = NewRatio(final.Dead, resolved)
	r.PopulationFatality = NewRatio(final.Dead, r.PopulationSize)
	r.Recovery = NewRatio(final.Recovered, resolved)
	r.NeverInfected = NewRatio(final.Susceptible, r.PopulationSize)
}

// Print writes a human-readable summary of the report.
func (r *Report) Print(w io.Writer) {
	final := r.Final()
	fmt.Fprintln(w, "=== Simulation Report ===")
	if r.RunID != "" {
		fmt.Fprintf(w, "Run ID               : %s\n", r.RunID)
	}
	fmt.Fprintf(w, "Seed                 : %d\n", r.Seed)
	fmt.Fprintf(w, "Population           : %d\n", r.PopulationSize)
	fmt.Fprintf(w, "Days simulated       : %d\n", r.Days)
	fmt.Fprintf(w, "Finished (burnout)   : %v\n", r.Finished)
	fmt.Fprintf(w, "Peak active (E+I+Q)  : %d (day %d)\n", r.PeakActive, r.PeakDay)
	fmt.Fprintf(w, "Total exposures      : %d\n", r.TotalExposures)
	fmt.Fprintf(w, "Confirmed cases      : %d\n", r.ConfirmedCases)
	fmt.Fprintf(w, "Final S/E/I/Q/R/D    : %d/%d/%d/%d/%d/%d\n",
		final.Susceptible, final.Exposed, final.Infectious, final.Quarantined, final.Recovered, final.Dead)
	fmt.Fprintf(w, "Case fatality        : %s\n", r.CaseFatality)
	fmt.Fprintf(w, "Population fatality  : %s\n", r.PopulationFatality)
	fmt.Fprintf(w, "Recovery ratio       : %s\n", r.Recovery)
	fmt.Fprintf(w, "Never infected       : %s\n", r.NeverInfected)
}

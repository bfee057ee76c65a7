package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/epinet-sim/epinet/sim"
	"github.com/epinet-sim/epinet/sim/trace"
)

var historyColumns = []string{
	"day", "susceptible", "exposed", "infectious", "quarantined", "recovered", "dead", "confirmed",
}

var traceColumns = []string{"day", "agent", "from", "to", "cause", "source", "minute", "context"}

// WriteHistoryCSV writes the day-0 counts followed by every processed day.
func WriteHistoryCSV(w io.Writer, r *sim.Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(historyColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	days := append([]sim.DayCounts{r.Initial}, r.History...)
	for _, c := range days {
		row := []string{
			strconv.Itoa(c.Day),
			strconv.Itoa(c.Susceptible),
			strconv.Itoa(c.Exposed),
			strconv.Itoa(c.Infectious),
			strconv.Itoa(c.Quarantined),
			strconv.Itoa(c.Recovered),
			strconv.Itoa(c.Dead),
			strconv.Itoa(c.Confirmed),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for day %d: %w", c.Day, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTraceCSV writes one row per recorded transition.
func WriteTraceCSV(w io.Writer, st *trace.SimulationTrace) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(traceColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	if st != nil {
		for i, t := range st.Transitions {
			minute := ""
			if t.Cause == trace.CauseExposure {
				minute = strconv.Itoa(t.Minute)
			}
			row := []string{strconv.Itoa(t.Day), t.AgentID, t.From, t.To, t.Cause, t.Source, minute, t.Context}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("writing CSV row %d: %w", i, err)
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteReportJSON writes the report as indented JSON. Undefined ratios encode as null.
func WriteReportJSON(w io.Writer, r *sim.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// ExportFile creates path and hands it to write.
func ExportFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

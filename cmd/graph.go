package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/epinet-sim/epinet/sim"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build the contact graph and print its statistics",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		pop, err := loadPopulation(sim.NewSimulationKey(seed))
		if err != nil {
			logrus.Fatalf("Failed to load population: %v", err)
		}
		g, err := sim.BuildContactGraph(pop)
		if err != nil {
			logrus.Fatalf("Failed to build contact graph: %v", err)
		}
		printGraphStats(os.Stdout, g.Stats())
	},
}

func printGraphStats(w io.Writer, s sim.GraphStats) {
	fmt.Fprintln(w, "=== Contact Graph ===")
	fmt.Fprintf(w, "Agents                 : %d\n", s.Agents)
	fmt.Fprintf(w, "Visited locations      : %d\n", s.Locations)
	fmt.Fprintf(w, "Potential interactions : %d\n", s.PotentialInteractions)
	fmt.Fprintf(w, "Overlap minutes        : mean %.1f, std %.1f\n", s.MeanOverlapMinutes, s.StdDevOverlapMinutes)
	fmt.Fprintf(w, "Busiest location       : %s (%d agents)\n", s.BusiestLocation, s.BusiestOccupancy)
	fmt.Fprintln(w, "By activity type:")
	for _, t := range sim.ActivityTypes {
		fmt.Fprintf(w, "  %s : %d\n", t, s.ByType[t])
	}
	cats := make([]string, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)
	fmt.Fprintln(w, "By location category:")
	for _, c := range cats {
		fmt.Fprintf(w, "  %-6s : %d\n", c, s.ByCategory[sim.LocationCategory(c)])
	}
}

func init() {
	registerPopulationFlags(graphCmd)
	rootCmd.AddCommand(graphCmd)
}

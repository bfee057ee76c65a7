package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/epinet-sim/epinet/sim/results"
)

var runsDB string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List runs stored in a results database",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		store, err := results.Open(runsDB)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		defer store.Close()
		if err := listRuns(cmd.Context(), store, os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Print the report of a stored run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		store, err := results.Open(runsDB)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		defer store.Close()
		report, err := store.LoadRun(cmd.Context(), args[0])
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		report.Print(os.Stdout)
	},
}

func listRuns(ctx context.Context, store *results.Store, w io.Writer) error {
	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tLABEL\tSEED\tN\tDAYS\tFINISHED\tPEAK\tEXPOSURES\tCFR")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%v\t%d\t%d\t%s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Label, r.Seed, r.PopulationSize,
			r.Days, r.Finished, r.PeakActive, r.TotalExposures, r.CaseFatality)
	}
	return tw.Flush()
}

func init() {
	runsCmd.PersistentFlags().StringVar(&runsDB, "results-db", "epinet.db", "SQLite results database")
	runsCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

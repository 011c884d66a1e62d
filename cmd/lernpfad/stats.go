package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lernpfad/internal/cli"
	"github.com/at-ishikawa/lernpfad/internal/clock"
	"github.com/at-ishikawa/lernpfad/internal/engagement"
	"github.com/at-ishikawa/lernpfad/internal/service"
	"github.com/at-ishikawa/lernpfad/internal/statistics"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <learner-id>",
		Short: "Show the learner's progress report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			learnerID, err := parseID(args[0], "learner id")
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			clk := clock.System{}

			// Roll the daily counters over first so the report reflects today.
			ledger := engagement.NewLedger(engagementPolicy(cfg))
			engagements := service.NewEngagementService(db, ledger, clk)
			if _, err := engagements.Refresh(cmd.Context(), learnerID); err != nil {
				return err
			}

			reporter := statistics.NewReporter(db, clk)
			report, err := reporter.Report(cmd.Context(), learnerID)
			if err != nil {
				return err
			}
			cli.RenderProgress(os.Stdout, report)

			wait, ok, err := reporter.NextReviewIn(cmd.Context(), learnerID)
			if err != nil {
				return err
			}
			if ok {
				if wait <= 0 {
					fmt.Println("Reviews are waiting for you now.")
				} else {
					fmt.Printf("Next review in %s.\n", wait.Round(time.Minute))
				}
			}
			return nil
		},
	}
}

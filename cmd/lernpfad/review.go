package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lernpfad/internal/cli"
	"github.com/at-ishikawa/lernpfad/internal/clock"
	"github.com/at-ishikawa/lernpfad/internal/review"
	"github.com/at-ishikawa/lernpfad/internal/service"
	"github.com/at-ishikawa/lernpfad/internal/statistics"
)

func newReviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "review <learner-id>",
		Short: "Review the vocabulary items that are due right now",
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
			scheduler := review.NewScheduler(reviewPolicy(cfg))
			reviews := service.NewReviewService(db, scheduler, newDictionaryClient(cfg), clk)

			reviewCLI := cli.NewReviewCLI(reviews, learnerID)
			if err := reviewCLI.Run(cmd.Context(), reviewCLI); err != nil {
				return err
			}

			reporter := statistics.NewReporter(db, clk)
			wait, ok, err := reporter.NextReviewIn(cmd.Context(), learnerID)
			if err != nil {
				return err
			}
			if ok && wait > 0 {
				fmt.Printf("Next word comes up in %s.\n", wait.Round(time.Minute))
			}
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lernpfad/internal/assets"
	"github.com/at-ishikawa/lernpfad/internal/cli"
	"github.com/at-ishikawa/lernpfad/internal/clock"
	"github.com/at-ishikawa/lernpfad/internal/placement"
	"github.com/at-ishikawa/lernpfad/internal/service"
)

func newPlacementCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "placement <learner-id>",
		Short: "Run the adaptive placement test and store the resulting level",
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

			bankContents, err := assets.ReadQuestionBank(cfg.Placement.QuestionBank)
			if err != nil {
				return err
			}
			bank, err := placement.ParseBank(bankContents)
			if err != nil {
				return err
			}
			engine := placement.NewEngine(bank, placementPolicy(cfg))
			learners := service.NewLearnerService(db, clock.System{})

			placementCLI, err := cli.NewPlacementCLI(engine, learners, learnerID)
			if err != nil {
				return err
			}

			fmt.Println("Placement test started. Answer each question with the option number.")
			return placementCLI.Run(cmd.Context(), placementCLI)
		},
	}
}

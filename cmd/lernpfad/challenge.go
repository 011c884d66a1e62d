package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lernpfad/internal/clock"
	"github.com/at-ishikawa/lernpfad/internal/engagement"
	"github.com/at-ishikawa/lernpfad/internal/service"
)

func newChallengeCommand() *cobra.Command {
	challengeCommand := &cobra.Command{
		Use:   "challenge",
		Short: "Manage daily challenge slots",
	}
	challengeCommand.AddCommand(newChallengeClaimCommand())
	return challengeCommand
}

func newChallengeClaimCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <learner-id>",
		Short: "Claim one of today's challenge slots",
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

			ledger := engagement.NewLedger(engagementPolicy(cfg))
			engagements := service.NewEngagementService(db, ledger, clock.System{})
			claim, err := engagements.ClaimChallengeSlot(cmd.Context(), learnerID)
			if err != nil {
				if engagement.IsQuotaExceededError(err) {
					return fmt.Errorf("no challenge slots left for today, come back tomorrow")
				}
				return err
			}
			fmt.Printf("Challenge slot granted for %s. Token: %s. %d slot(s) left today.\n",
				claim.Day, claim.Token, claim.Remaining)
			return nil
		},
	}
}

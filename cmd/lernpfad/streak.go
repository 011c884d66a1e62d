package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lernpfad/internal/clock"
	"github.com/at-ishikawa/lernpfad/internal/engagement"
	"github.com/at-ishikawa/lernpfad/internal/service"
)

func newStreakCommand() *cobra.Command {
	streakCommand := &cobra.Command{
		Use:   "streak",
		Short: "Record daily activity and manage streak freezes",
	}
	streakCommand.AddCommand(
		newStreakRecordCommand(),
		newStreakFreezeCommand(),
	)
	return streakCommand
}

func newStreakRecordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "record <learner-id> <messages>",
		Short: "Credit practice messages against today's goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			learnerID, err := parseID(args[0], "learner id")
			if err != nil {
				return err
			}
			messages, err := strconv.Atoi(args[1])
			if err != nil || messages < 1 {
				return fmt.Errorf("messages must be a positive number, got %q", args[1])
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
			result, err := engagements.RecordActivity(cmd.Context(), learnerID, messages)
			if err != nil {
				return err
			}

			switch {
			case result.GoalJustReached && result.FreezeBridged:
				fmt.Printf("Goal reached! Your freeze kept the streak alive: %d days.\n", result.Streak)
			case result.GoalJustReached && result.StreakReset:
				fmt.Printf("Goal reached! A new streak begins: day %d.\n", result.Streak)
			case result.GoalJustReached:
				fmt.Printf("Goal reached! Streak: %d days.\n", result.Streak)
			case result.GoalReached:
				fmt.Println("Goal already reached today. Keep practicing!")
			default:
				fmt.Println("Progress recorded. Keep going to reach today's goal.")
			}
			if result.Milestone != nil {
				fmt.Printf("🏆 %s! +%d XP", result.Milestone.Title, result.Milestone.XP)
				if result.Milestone.Freeze > 0 {
					fmt.Printf(" and +%d streak freeze", result.Milestone.Freeze)
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func newStreakFreezeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "freeze <learner-id>",
		Short: "Spend a freeze token to protect the streak",
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
			result, err := engagements.UseFreeze(cmd.Context(), learnerID)
			if err != nil {
				if engagement.IsNoFreezeAvailableError(err) {
					return fmt.Errorf("no freeze tokens left")
				}
				if engagement.IsFreezeAlreadyUsedError(err) {
					return fmt.Errorf("a freeze was already used today")
				}
				return err
			}
			fmt.Printf("Freeze applied to %s. %d token(s) left.\n", result.CoveredDay, result.Remaining)
			return nil
		},
	}
}

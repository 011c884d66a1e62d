package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lernpfad/internal/clock"
	"github.com/at-ishikawa/lernpfad/internal/service"
)

func newLearnerCommand() *cobra.Command {
	learnerCommand := &cobra.Command{
		Use:   "learner",
		Short: "Manage learner records",
	}
	learnerCommand.AddCommand(
		newLearnerRegisterCommand(),
		newLearnerSetGoalCommand(),
		newLearnerSetTimezoneCommand(),
	)
	return learnerCommand
}

func newLearnerRegisterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register <learner-id> <username> [first-name]",
		Short: "Register a new learner with the starting defaults",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			learnerID, err := parseID(args[0], "learner id")
			if err != nil {
				return err
			}
			firstName := ""
			if len(args) > 2 {
				firstName = args[2]
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

			learners := service.NewLearnerService(db, clock.System{})
			l, err := learners.Register(cmd.Context(), learnerID, args[1], firstName)
			if err != nil {
				return err
			}
			fmt.Printf("Registered %s (id %d) at level %s with a daily goal of %d messages.\n",
				l.Username, l.ID, l.Level, l.DailyGoal)
			return nil
		},
	}
}

func newLearnerSetGoalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-goal <learner-id> <messages-per-day>",
		Short: "Change the learner's daily message goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			learnerID, err := parseID(args[0], "learner id")
			if err != nil {
				return err
			}
			goal, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("daily goal must be a number, got %q", args[1])
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

			learners := service.NewLearnerService(db, clock.System{})
			if err := learners.SetDailyGoal(cmd.Context(), learnerID, goal); err != nil {
				return err
			}
			fmt.Printf("Daily goal set to %d messages.\n", goal)
			return nil
		},
	}
}

func newLearnerSetTimezoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-timezone <learner-id> <offset-minutes>",
		Short: "Change the learner's day boundary, in minutes east of UTC",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			learnerID, err := parseID(args[0], "learner id")
			if err != nil {
				return err
			}
			offset, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("timezone offset must be a number of minutes, got %q", args[1])
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

			learners := service.NewLearnerService(db, clock.System{})
			if err := learners.SetTimezoneOffset(cmd.Context(), learnerID, offset); err != nil {
				return err
			}
			fmt.Printf("Timezone offset set to %+d minutes.\n", offset)
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lernpfad/internal/clock"
	"github.com/at-ishikawa/lernpfad/internal/config"
	"github.com/at-ishikawa/lernpfad/internal/review"
	"github.com/at-ishikawa/lernpfad/internal/service"
)

func newVocabCommand() *cobra.Command {
	vocabCommand := &cobra.Command{
		Use:   "vocab",
		Short: "Manage the vocabulary queue",
	}
	vocabCommand.AddCommand(
		newVocabAddCommand(),
		newVocabResetCommand(),
		newVocabToggleLearnedCommand(),
	)
	return vocabCommand
}

func newReviewService(cfg *config.Config) (*service.ReviewService, func(), error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	scheduler := review.NewScheduler(reviewPolicy(cfg))
	reviews := service.NewReviewService(db, scheduler, newDictionaryClient(cfg), clock.System{})
	return reviews, func() { _ = db.Close() }, nil
}

func newVocabAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <learner-id> <term> [translation]",
		Short: "Add a word to the review queue, due immediately",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			learnerID, err := parseID(args[0], "learner id")
			if err != nil {
				return err
			}
			translation := ""
			if len(args) > 2 {
				translation = args[2]
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reviews, closeDB, err := newReviewService(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			item, err := reviews.AddFavorite(cmd.Context(), learnerID, args[1], translation)
			if err != nil {
				return err
			}
			if item.Translation == "" {
				fmt.Printf("Added %q to the queue with no translation yet.\n", item.Term)
				return nil
			}
			fmt.Printf("Added %q (%s) to the queue.\n", item.Term, item.Translation)
			return nil
		},
	}
}

func newVocabResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <item-id>",
		Short: "Put an item back at the start of its schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0], "item id")
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reviews, closeDB, err := newReviewService(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			item, err := reviews.Reset(cmd.Context(), itemID)
			if err != nil {
				return err
			}
			fmt.Printf("%q is back at the start and due now.\n", item.Term)
			return nil
		},
	}
}

func newVocabToggleLearnedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-learned <item-id>",
		Short: "Flip an item's learned flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0], "item id")
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reviews, closeDB, err := newReviewService(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			item, err := reviews.ToggleLearned(cmd.Context(), itemID)
			if err != nil {
				return err
			}
			if item.Learned {
				fmt.Printf("%q is now marked as learned.\n", item.Term)
				return nil
			}
			fmt.Printf("%q is back in the review rotation.\n", item.Term)
			return nil
		},
	}
}

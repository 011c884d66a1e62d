package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/at-ishikawa/lernpfad/internal/learner"
	"github.com/at-ishikawa/lernpfad/internal/review"
)

// reviewQueuePageSize is how many due items one fetch pulls in.
const reviewQueuePageSize = 20

// ReviewQueue serves due vocabulary items and applies graded reviews.
type ReviewQueue interface {
	DueItems(ctx context.Context, learnerID int64, limit, offset int) ([]learner.VocabularyItem, error)
	Review(ctx context.Context, itemID int64, grade review.Grade) (*learner.VocabularyItem, error)
}

// ReviewCLI runs one flashcard-style review session over the due queue.
type ReviewCLI struct {
	*InteractiveCLI
	queue     ReviewQueue
	learnerID int64
	items     []learner.VocabularyItem
	fetched   bool
	reviewed  int
}

func NewReviewCLI(queue ReviewQueue, learnerID int64) *ReviewCLI {
	return &ReviewCLI{
		InteractiveCLI: newInteractiveCLI(),
		queue:          queue,
		learnerID:      learnerID,
	}
}

func (cli *ReviewCLI) Session(ctx context.Context) error {
	if len(cli.items) == 0 {
		items, err := cli.queue.DueItems(ctx, cli.learnerID, reviewQueuePageSize, 0)
		if err != nil {
			return fmt.Errorf("queue.DueItems > %w", err)
		}
		if len(items) == 0 {
			if !cli.fetched {
				fmt.Fprintln(cli.stdoutWriter, "Nothing is due for review right now.")
			} else {
				fmt.Fprintf(cli.stdoutWriter, "\nDone! Reviewed %d words.\n", cli.reviewed)
			}
			return errEnd
		}
		cli.fetched = true
		cli.items = items
	}

	item := cli.items[0]
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "\n%s", item.Term)
	fmt.Fprint(cli.stdoutWriter, "  (press enter to reveal) ")
	if _, err := cli.readLine(); err != nil {
		return err
	}

	if item.Translation != "" {
		_, _ = cli.italic.Fprintln(cli.stdoutWriter, item.Translation)
	} else {
		fmt.Fprintln(cli.stdoutWriter, "(no translation stored)")
	}

	grade, err := cli.readGrade()
	if err != nil {
		return err
	}
	if grade == 0 {
		// Invalid input; re-ask the same card on the next loop.
		return nil
	}

	updated, err := cli.queue.Review(ctx, item.ID, grade)
	if err != nil {
		return fmt.Errorf("queue.Review > %w", err)
	}

	switch grade {
	case review.GradeAgain:
		_, _ = cli.red.Fprintln(cli.stdoutWriter, "Back to the start. It will come up again shortly.")
	default:
		_, _ = cli.green.Fprintf(cli.stdoutWriter, "Next review: %s\n", updated.Due.Format("2006-01-02 15:04"))
		if updated.Learned {
			_, _ = cli.bold.Fprintln(cli.stdoutWriter, "🎉 Marked as learned!")
		}
	}

	cli.items = cli.items[1:]
	cli.reviewed++
	return nil
}

// readGrade prompts for a recall grade and returns 0 on invalid input.
func (cli *ReviewCLI) readGrade() (review.Grade, error) {
	fmt.Fprint(cli.stdoutWriter, "How well did you remember? 1) again 2) hard 3) good 4) easy: ")
	input, err := cli.readLine()
	if err != nil {
		return 0, err
	}
	raw, err := strconv.Atoi(input)
	if err != nil {
		fmt.Fprintln(cli.stdoutWriter, "Please answer with 1, 2, 3 or 4.")
		return 0, nil
	}
	grade, err := review.ParseGrade(raw)
	if err != nil {
		fmt.Fprintln(cli.stdoutWriter, "Please answer with 1, 2, 3 or 4.")
		return 0, nil
	}
	return grade, nil
}

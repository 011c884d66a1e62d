package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/at-ishikawa/lernpfad/internal/learner"
	"github.com/at-ishikawa/lernpfad/internal/placement"
)

// PlacementApplier persists a concluded placement result.
type PlacementApplier interface {
	ApplyPlacement(ctx context.Context, learnerID int64, result placement.Result) (*learner.Learner, error)
}

// PlacementCLI walks one learner through an adaptive placement test.
type PlacementCLI struct {
	*InteractiveCLI
	engine    *placement.Engine
	session   *placement.Session
	applier   PlacementApplier
	learnerID int64
}

func NewPlacementCLI(engine *placement.Engine, applier PlacementApplier, learnerID int64) (*PlacementCLI, error) {
	session, err := engine.StartSession()
	if err != nil {
		return nil, fmt.Errorf("engine.StartSession > %w", err)
	}
	return &PlacementCLI{
		InteractiveCLI: newInteractiveCLI(),
		engine:         engine,
		session:        session,
		applier:        applier,
		learnerID:      learnerID,
	}, nil
}

func (cli *PlacementCLI) Session(ctx context.Context) error {
	question, err := cli.engine.CurrentQuestion(cli.session)
	if err != nil {
		return fmt.Errorf("engine.CurrentQuestion > %w", err)
	}

	progress := cli.session.BlockProgress()
	fmt.Fprintf(cli.stdoutWriter, "\n[%s] Question %d of %d\n",
		cli.session.CurrentLevel(), progress.Total+1, cli.engine.BlockSize(cli.session.CurrentLevel()))
	_, _ = cli.bold.Fprintln(cli.stdoutWriter, question.Prompt)
	for i, option := range question.Options {
		fmt.Fprintf(cli.stdoutWriter, "  %d) %s\n", i+1, option)
	}
	fmt.Fprint(cli.stdoutWriter, "Your answer: ")

	input, err := cli.readLine()
	if err != nil {
		return err
	}
	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > len(question.Options) {
		fmt.Fprintf(cli.stdoutWriter, "Please answer with a number between 1 and %d.\n", len(question.Options))
		return nil
	}

	update, err := cli.engine.SubmitAnswer(cli.session, question.ID, choice-1)
	if err != nil {
		return fmt.Errorf("engine.SubmitAnswer > %w", err)
	}

	if update.Correct {
		fmt.Fprint(cli.stdoutWriter, "✅ ")
		_, _ = cli.green.Fprintln(cli.stdoutWriter, "Correct!")
	} else {
		fmt.Fprint(cli.stdoutWriter, "❌ ")
		_, _ = cli.red.Fprintf(cli.stdoutWriter, "Wrong. The answer was %d) %s\n",
			update.CorrectIndex+1, question.Options[update.CorrectIndex])
	}

	if !update.BlockComplete {
		return nil
	}
	return cli.evaluateBlock(ctx)
}

func (cli *PlacementCLI) evaluateBlock(ctx context.Context) error {
	outcome, err := cli.engine.EvaluateBlock(cli.session)
	if err != nil {
		return fmt.Errorf("engine.EvaluateBlock > %w", err)
	}

	fmt.Fprintf(cli.stdoutWriter, "\nBlock score: %d/%d\n", outcome.Score.Correct, outcome.Score.Total)
	if outcome.Decision == placement.DecisionPromoted {
		fmt.Fprintf(cli.stdoutWriter, "Moving up to %s.\n", outcome.Level)
		return nil
	}

	result, err := cli.engine.Finalize(cli.session)
	if err != nil {
		return fmt.Errorf("engine.Finalize > %w", err)
	}
	if _, err := cli.applier.ApplyPlacement(ctx, cli.learnerID, result); err != nil {
		return fmt.Errorf("applier.ApplyPlacement > %w", err)
	}

	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "\nYour level: %s\n", result.Level)
	fmt.Fprintf(cli.stdoutWriter, "Answered %d questions, %d correct.\n",
		result.TotalAnswered, result.TotalCorrect)
	return errEnd
}

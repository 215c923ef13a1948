package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/flashdeck/internal/session"
	"github.com/spf13/cobra"
)

func newStudyCmd(opts *rootOptions) *cobra.Command {
	var filter deckFilter

	cmd := &cobra.Command{
		Use:   "study",
		Short: "Study a shuffled deck on the terminal",
		Long: "Study a shuffled deck on the terminal. Press enter to reveal the\n" +
			"answer, then answer y or n. End of input abandons the session.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				if err := app.cards.Wait(ctx); err != nil {
					return err
				}

				err := app.engine.Start(filter.apply(cmd, app))
				if errors.Is(err, session.ErrEmptyDeck) {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), "no cards to study")
					return err
				}
				if err != nil {
					return err
				}

				return studyLoop(ctx, app.engine, cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}

	filter.bind(cmd)
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "fixed shuffle seed (0 draws a random one)")

	return cmd
}

// studyLoop drives an in-progress session from line input until it
// completes or the input ends.
func studyLoop(ctx context.Context, engine *session.Engine, in io.Reader, out io.Writer) error {
	lines := bufio.NewScanner(in)

	for engine.State() == session.StateInProgress {
		card, _ := engine.Current()
		pos, total := engine.Position()

		fmt.Fprintf(out, "\n[%d/%d] %s\n", pos+1, total, card.Front)
		fmt.Fprint(out, "enter to reveal> ")
		if !lines.Scan() {
			return abandon(out, lines.Err())
		}

		engine.Flip()
		fmt.Fprintf(out, "%s\n", card.Back)

		correct, ok := askCorrect(lines, out)
		if !ok {
			return abandon(out, lines.Err())
		}

		if err := engine.Answer(ctx, correct); err != nil {
			return err
		}
	}

	finished, _ := engine.Session()
	_, err := fmt.Fprintf(out, "\nsession complete: %d/%d correct (%d%%) in %d min\n",
		finished.CorrectAnswers, finished.TotalCards, engine.Accuracy(), engine.DurationMinutes())
	return err
}

// askCorrect prompts until the answer is y or n.
func askCorrect(lines *bufio.Scanner, out io.Writer) (correct, ok bool) {
	for {
		fmt.Fprint(out, "correct? [y/n]> ")
		if !lines.Scan() {
			return false, false
		}
		switch strings.ToLower(strings.TrimSpace(lines.Text())) {
		case "y", "yes":
			return true, true
		case "n", "no":
			return false, true
		}
	}
}

func abandon(out io.Writer, err error) error {
	if err != nil {
		return fmt.Errorf("failed to read answer: %w", err)
	}
	_, err = fmt.Fprintln(out, "\nsession abandoned")
	return err
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/spf13/cobra"
)

func newCardCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage flashcards",
	}
	cmd.AddCommand(newCardAddCmd(opts), newCardListCmd(opts))
	return cmd
}

func newCardAddCmd(opts *rootOptions) *cobra.Command {
	var (
		draft      domain.FlashcardDraft
		difficulty string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a flashcard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft.Difficulty = domain.Difficulty(difficulty)
			return opts.run(cmd, func(_ context.Context, app *application) error {
				card, err := app.cards.CreateFlashcard(draft)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), card)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", card.ID)
				return err
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&draft.Front, "front", "", "question side")
	f.StringVar(&draft.Back, "back", "", "answer side")
	f.StringVar(&draft.Category, "category", "", "category (default general)")
	f.StringVar(&difficulty, "difficulty", "", "easy, medium or hard (default medium)")
	f.BoolVar(&draft.IsLatex, "latex", false, "render both sides as LaTeX")
	f.StringVar(&draft.FolderID, "folder", "", "folder id")
	f.BoolVar(&asJSON, "json", false, "print the card as JSON")
	_ = cmd.MarkFlagRequired("front")
	_ = cmd.MarkFlagRequired("back")

	return cmd
}

// deckFilter selects cards by folder and category. An explicitly empty
// folder selects unfiled cards.
type deckFilter struct {
	folder    string
	hasFolder bool
	category  string
}

func (f *deckFilter) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.folder, "folder", "", "only cards in this folder (empty for unfiled)")
	cmd.Flags().StringVar(&f.category, "category", "", "only cards in this category")
}

func (f *deckFilter) apply(cmd *cobra.Command, app *application) []domain.Flashcard {
	var cards []domain.Flashcard
	if cmd.Flags().Changed("folder") {
		cards = app.cards.FlashcardsInFolder(f.folder)
	} else {
		cards = app.cards.Flashcards()
	}

	if f.category == "" {
		return cards
	}
	filtered := cards[:0]
	for _, c := range cards {
		if c.Category == f.category {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func newCardListCmd(opts *rootOptions) *cobra.Command {
	var (
		filter deckFilter
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List flashcards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				if err := app.cards.Wait(ctx); err != nil {
					return err
				}

				cards := filter.apply(cmd, app)
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), cards)
				}
				return writeCardTable(cmd.OutOrStdout(), cards)
			})
		},
	}

	filter.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the cards as JSON")

	return cmd
}

func writeCardTable(out io.Writer, cards []domain.Flashcard) error {
	if len(cards) == 0 {
		_, err := fmt.Fprintln(out, "no flashcards")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tDIFFICULTY\tSCORE\tFRONT")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%s\n",
			c.ID, c.Category, c.Difficulty, c.CorrectCount, c.Answered(), truncate(c.Front, 40))
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

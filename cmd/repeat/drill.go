package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/service/card_review"
	"github.com/spf13/cobra"
)

func newDrillCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "drill <paths...>",
		Short: "Review the cards that are due",
		Long: `Register the cards under the given paths, then review those that are due.

Each card shows its prompt; press Enter to reveal the answer, then grade
yourself with p (pass) or f (fail). The session ends when nothing is due
or on Ctrl-D / Ctrl-C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _, err := c.register(cmd, args)
			if err != nil {
				return err
			}
			for _, s := range result.Skipped {
				c.printWarning("%s: %v", s.Path, s.Err)
			}

			p := c.newPrompter()
			defer func() { _ = p.Close() }()

			ids := make([]uuid.UUID, len(result.Cards))
			for i, card := range result.Cards {
				ids[i] = card.ID
			}

			reviewed, err := c.drill(cmd, p, ids)
			if errors.Is(err, errPromptDone) {
				fmt.Fprintln(c.out)
				c.printSuccess("Stopped after %d reviews", reviewed)
				return nil
			}
			return err
		},
	}
}

// drill reviews the due cards among ids until none is left and returns how
// many were reviewed.
func (c *cli) drill(cmd *cobra.Command, p prompter, ids []uuid.UUID) (int, error) {
	ctx := cmd.Context()
	reviewed := 0

	for {
		card, err := c.reviews.GetNextCardAmong(ctx, domain.LocalUserID, ids)
		if errors.Is(err, card_review.ErrNoCardsDue) {
			c.printSuccess("No cards due, %d reviewed", reviewed)
			return reviewed, c.printNextDue(cmd)
		}
		if err != nil {
			return reviewed, err
		}

		fmt.Fprintf(c.out, "\n%s\n%s\n", c.colorize(colorBold, card.SourcePath), card.Content.Prompt())
		if _, err := p.Prompt("[Enter] to reveal "); err != nil {
			return reviewed, err
		}
		fmt.Fprintln(c.out, c.colorize(colorCyan, card.Content.Reveal()))

		outcome, err := c.readOutcome(p)
		if err != nil {
			return reviewed, err
		}

		perf, err := c.reviews.SubmitAnswer(ctx, domain.LocalUserID, card.ID, outcome)
		if err != nil {
			return reviewed, err
		}
		reviewed++

		color := colorGreen
		if outcome == domain.ReviewOutcomeFail {
			color = colorRed
		}
		fmt.Fprintf(c.out, "%s, next review in %d days (%s)\n",
			c.colorize(color, outcome.Label()), perf.IntervalDays, formatDue(perf.DueDate))
	}
}

// readOutcome prompts until the answer is p(ass) or f(ail).
func (c *cli) readOutcome(p prompter) (domain.ReviewOutcome, error) {
	for {
		line, err := p.Prompt("(p)ass or (f)ail? ")
		if err != nil {
			return "", err
		}
		outcome, err := domain.ParseReviewOutcome(line)
		if err == nil {
			return outcome, nil
		}
		c.printWarning("answer p or f")
	}
}

func (c *cli) printNextDue(cmd *cobra.Command) error {
	stats, err := c.reviews.GetStats(cmd.Context(), domain.LocalUserID)
	if err != nil {
		return err
	}
	if stats.NextDueAt != nil {
		c.printStatus(c.out, "Next due", "%s", formatDue(*stats.NextDueAt))
	}
	return nil
}

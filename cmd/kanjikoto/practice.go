package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/conorfennell/kanjikoto/internal/domain"
	"github.com/conorfennell/kanjikoto/internal/tui"
)

func newPracticeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "practice",
		Short: "Drill a session of cards from a lesson",
		Long: `Drill a session of cards from a lesson. Phrases that are due come first,
topped up with resting ones. Press q to abandon a session; nothing is saved
unless every card is passed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("practice needs an interactive terminal")
			}
			ctx := cmd.Context()
			lesson, err := pickLesson(cmd, a)
			if err != nil {
				return err
			}

			svc := a.service()
			cards, err := svc.SelectSession(ctx, lesson.ID)
			if errors.Is(err, domain.ErrEmptyPool) {
				return fmt.Errorf("lesson #%d %q has no phrases to practice", lesson.ID, lesson.Title)
			}
			if err != nil {
				return err
			}
			d, err := svc.StartSession(cards)
			if err != nil {
				return err
			}

			m, err := tui.Run(ctx, svc, d, lesson.Title)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case m.Err() != nil:
				return m.Err()
			case m.Abandoned():
				fmt.Fprintln(out, "Session abandoned, nothing recorded.")
			case m.Completed():
				s := m.Stats()
				color.New(color.FgGreen).Fprintf(out, "Session complete: %d cards passed in %d answers.\n", s.Passed, s.Total())
			}
			return nil
		},
	}
}

// pickLesson returns the lesson named by --lesson, or the first lesson.
func pickLesson(cmd *cobra.Command, a *app) (*domain.Lesson, error) {
	if a.cfg.Lesson != 0 {
		return a.db.GetLesson(cmd.Context(), a.cfg.Lesson)
	}
	lessons, err := a.db.GetAllLessons(cmd.Context())
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return nil, errors.New("no lessons yet; add a source and run: kanjikoto sync")
	}
	return &lessons[0], nil
}

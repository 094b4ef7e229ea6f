package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conorfennell/kanjikoto/internal/parser"
	"github.com/conorfennell/kanjikoto/internal/readiness"
	"github.com/conorfennell/kanjikoto/internal/sync"
)

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Read every source and update the stored lessons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(a.cfg.ReposDir, 0o755); err != nil {
				return fmt.Errorf("failed to create repos directory: %w", err)
			}
			report, err := sync.Run(cmd.Context(), a.db, a.cfg.ReposDir, a.nower.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "synced %d sources: %d new, %d changed, %d unchanged, %d removed\n",
				report.Sources, report.Inserted, report.Updated, report.Unchanged, report.Deleted)
			printErrors(cmd, report.Errors)
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a lesson file as a new lesson without tracking its source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !parser.Supported(args[0]) {
				return fmt.Errorf("%s: unsupported lesson format", args[0])
			}
			res, err := parser.ParseFile(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = res.Title
			}
			if title == "" {
				return errors.New("the file has no title; pass one with --title")
			}
			id, err := a.db.InsertLesson(cmd.Context(), title, res.Phrases)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "imported lesson #%d %q with %d phrases\n",
				id, title, len(res.Phrases))
			printErrors(cmd, res.Errors)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "lesson title, overriding the one in the file")
	return cmd
}

func newLessonsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lessons",
		Short: "List stored lessons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lessons, err := a.db.GetAllLessons(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(lessons) == 0 {
				fmt.Fprintln(out, "No lessons yet. Add a source and run: kanjikoto sync")
				return nil
			}
			for _, l := range lessons {
				fmt.Fprintf(out, "#%d %s\n", l.ID, l.Title)
			}
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how many phrases are ready and learned in each lesson",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lessons, err := a.db.GetAllLessons(ctx)
			if err != nil {
				return err
			}
			svc := a.service()
			ready := color.New(color.FgYellow)
			learned := color.New(color.FgGreen)
			out := cmd.OutOrStdout()
			for _, l := range lessons {
				if a.cfg.Lesson != 0 && l.ID != a.cfg.Lesson {
					continue
				}
				status, err := svc.ComputeStatus(ctx, l.ID)
				if err != nil {
					return err
				}
				readySessions, learnedSessions := status.Sessions(svc.SessionSize)
				fmt.Fprintf(out, "#%d %s  ", l.ID, l.Title)
				ready.Fprintf(out, "ready %d (%d sessions)", status.Ready, readySessions)
				fmt.Fprint(out, "  ")
				learned.Fprintf(out, "learned %d (%d sessions)", status.Learned, learnedSessions)
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func newPhrasesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "phrases",
		Short: "List the phrases of a lesson and whether each is due today",
		Long: `List the phrases of the lesson named by --lesson (the first lesson when
unset). A phrase is due when it was never passed, was last passed before
today's 3am cutover, or was edited after its last pass.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lesson, err := pickLesson(cmd, a)
			if err != nil {
				return err
			}
			phrases, err := a.service().ListItems(ctx, lesson.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "#%d %s\n", lesson.ID, lesson.Title)
			if len(phrases) == 0 {
				fmt.Fprintln(out, "This lesson has no phrases.")
				return nil
			}

			now := a.nower.Now()
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("#", "Prompt", "Reading", "Meaning", "State")
			for i, p := range phrases {
				state := "resting"
				if readiness.PhraseIsDue(p, now) {
					state = "due"
				}
				t.Row(strconv.Itoa(i+1), p.Prompt, p.Reading, p.Translation, state)
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
}

func printErrors(cmd *cobra.Command, errs []error) {
	if len(errs) == 0 {
		return
	}
	warn := color.New(color.FgRed)
	out := cmd.ErrOrStderr()
	warn.Fprintf(out, "%d problems:\n", len(errs))
	for _, err := range errs {
		fmt.Fprintf(out, "  - %v\n", err)
	}
}

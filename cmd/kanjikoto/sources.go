package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conorfennell/kanjikoto/internal/domain"
)

func newSourcesCmd(a *app) *cobra.Command {
	sources := &cobra.Command{
		Use:   "sources",
		Short: "Manage the folders and git repositories lessons are read from",
	}

	add := &cobra.Command{
		Use:   "add <path-or-git-url>",
		Short: "Add a lesson source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, typ := args[0], domain.SourceLocal
			if isGitURL(path) {
				typ = domain.SourceGit
			} else {
				abs, err := filepath.Abs(path)
				if err != nil {
					return err
				}
				path = abs
			}
			if existing, err := a.db.FindSourceByPath(cmd.Context(), path); err != nil {
				return err
			} else if existing != nil {
				return fmt.Errorf("source %s is already added as #%d", path, existing.ID)
			}
			id, err := a.db.InsertSource(cmd.Context(), path, typ)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "added %s source #%d: %s\n", typ, id, path)
			return nil
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List lesson sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := a.db.GetAllSources(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sources) == 0 {
				fmt.Fprintln(out, "No sources configured. Add one with: kanjikoto sources add <path/or/url.git>")
				return nil
			}
			dim := color.New(color.Faint)
			for _, s := range sources {
				scanned := "never synced"
				if s.LastScanned.Valid {
					scanned = "synced " + s.LastScanned.Time.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(out, "#%d %-5s %s ", s.ID, s.Type, s.Path)
				dim.Fprintln(out, scanned)
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a lesson source; its lesson and progress are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid source id %q", args[0])
			}
			if err := a.db.DeleteSource(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed source #%d\n", id)
			return nil
		},
	}

	sources.AddCommand(add, ls, rm)
	return sources
}

func isGitURL(s string) bool {
	for _, prefix := range []string{"https://", "http://", "ssh://", "git://", "git@", "file://"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/kanjikoto/internal/config"
	"github.com/conorfennell/kanjikoto/internal/logging"
	"github.com/conorfennell/kanjikoto/internal/practice"
	"github.com/conorfennell/kanjikoto/internal/storage"
)

type nower interface {
	Now() time.Time
}

// app is the state shared by subcommands once flags are parsed.
type app struct {
	cfg   *config.Config
	db    *storage.DB
	nower nower
}

func (a *app) service() *practice.Service {
	svc := practice.NewService(a.db, a.cfg.SessionSize, a.cfg.Seed)
	svc.Nower = a.nower
	return svc
}

func newRootCmd(clock nower) *cobra.Command {
	a := &app{nower: clock}

	root := &cobra.Command{
		Use:   "kanjikoto",
		Short: "Practice Japanese vocabulary from lesson files",
		Long: `kanjikoto imports vocabulary lessons from local folders or git repositories
and drills them in short sessions. A phrase passed today rests until 3am
tomorrow, then comes back into the practice pool.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if _, err := logging.Setup(cfg.LogLevel, os.Stderr); err != nil {
				return err
			}
			cmd.SetContext(logging.WithContext(cmd.Context()))

			db, err := storage.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			a.cfg, a.db = cfg, db
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.db == nil {
				return nil
			}
			return a.db.Close()
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newSourcesCmd(a),
		newSyncCmd(a),
		newImportCmd(a),
		newLessonsCmd(a),
		newPhrasesCmd(a),
		newStatusCmd(a),
		newPracticeCmd(a),
	)
	return root
}

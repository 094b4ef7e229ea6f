// Package sync reconciles the stored lessons with their sources on disk or
// in git repositories.
package sync

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/conorfennell/kanjikoto/internal/domain"
	"github.com/conorfennell/kanjikoto/internal/gitsource"
	"github.com/conorfennell/kanjikoto/internal/parser"
	"github.com/conorfennell/kanjikoto/internal/storage"
)

// Report summarizes a sync run. Errors holds every per-file and per-phrase
// problem; a source with errors is still reconciled with what did parse.
type Report struct {
	Sources   int
	Inserted  int
	Updated   int
	Unchanged int
	Deleted   int
	Errors    []error
}

func (r *Report) add(res storage.UpsertResult) {
	switch res {
	case storage.Inserted:
		r.Inserted++
	case storage.Updated:
		r.Updated++
	default:
		r.Unchanged++
	}
}

// Run reconciles every configured source. Git sources are cloned or pulled
// into reposDir first. Only a failure to list sources aborts the run.
func Run(ctx context.Context, db *storage.DB, reposDir string, now time.Time) (Report, error) {
	var report Report
	sources, err := db.GetAllSources(ctx)
	if err != nil {
		return report, err
	}
	if len(sources) == 0 {
		log.Ctx(ctx).Info().Msg("no-sources-configured")
		return report, nil
	}

	for _, source := range sources {
		logger := log.Ctx(ctx).With().Int64("source", source.ID).Str("type", source.Type).
			Str("path", source.Path).Logger()
		logger.Info().Msg("sync-source")

		dir := source.Path
		if source.Type == domain.SourceGit {
			dir, err = checkout(ctx, reposDir, source.Path)
			if err != nil {
				logger.Error().Err(err).Msg("git-sync-failed")
				report.Errors = append(report.Errors, err)
				continue
			}
		}
		if err := Reconcile(ctx, db, source, dir, now, &report); err != nil {
			logger.Error().Err(err).Msg("reconcile-failed")
			report.Errors = append(report.Errors, err)
			continue
		}
		report.Sources++
	}
	log.Ctx(ctx).Info().Int("sources", report.Sources).Int("inserted", report.Inserted).
		Int("updated", report.Updated).Int("deleted", report.Deleted).
		Int("errors", len(report.Errors)).Msg("sync-complete")
	return report, nil
}

func checkout(ctx context.Context, reposDir, url string) (string, error) {
	dir, err := gitsource.LocalPath(reposDir, url)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return "", fmt.Errorf("failed to create repos directory: %w", err)
	}
	if err := gitsource.Sync(ctx, url, dir); err != nil {
		return "", err
	}
	return dir, nil
}

// Reconcile parses every supported lesson file below dir into the single
// lesson owned by source. Phrases whose prompt no longer appears are deleted
// unless a file failed to parse or held a malformed item, in which case
// nothing is deleted: a malformed item has no prompt to keep it by.
func Reconcile(ctx context.Context, db *storage.DB, source domain.Source, dir string, now time.Time, report *Report) error {
	var (
		title   string
		phrases []domain.NewPhrase
		broken  bool
	)
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !parser.Supported(d.Name()) {
			return nil
		}
		res, err := parser.ParseFile(path)
		if err != nil {
			broken = true
			report.Errors = append(report.Errors, err)
			return nil
		}
		if title == "" {
			title = res.Title
		}
		phrases = append(phrases, res.Phrases...)
		if len(res.Errors) > 0 {
			broken = true
			report.Errors = append(report.Errors, res.Errors...)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("error walking %s: %w", dir, walkErr)
	}
	if title == "" {
		title = lessonTitle(dir)
	}

	lessonID, err := db.UpsertLessonForSource(ctx, source.ID, title)
	if err != nil {
		return err
	}

	keep := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		keep[p.Prompt] = true
		res, err := db.UpsertPhrase(ctx, lessonID, p, now)
		if err != nil {
			report.Errors = append(report.Errors, err)
			continue
		}
		report.add(res)
	}

	if !broken {
		n, err := db.DeletePhrasesNotIn(ctx, lessonID, keep)
		if err != nil {
			return err
		}
		report.Deleted += n
	}
	return db.UpdateSourceLastScanned(ctx, source.ID, now)
}

func lessonTitle(path string) string {
	base := filepath.Base(filepath.Clean(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

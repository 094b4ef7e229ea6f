// Package gitsource keeps local checkouts of git lesson repositories.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog/log"
)

// Sync clones url into localPath when it is missing, or pulls the latest
// changes when a checkout is already there.
func Sync(ctx context.Context, url, localPath string) error {
	logger := log.Ctx(ctx).With().Str("url", url).Str("path", localPath).Logger()

	_, err := os.Stat(localPath)
	switch {
	case os.IsNotExist(err):
		logger.Info().Msg("git-clone")
		_, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{URL: url})
		if err != nil {
			return fmt.Errorf("failed to clone repo %s: %w", url, err)
		}
	case err == nil:
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}
		err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			logger.Debug().Msg("git-up-to-date")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
		logger.Info().Msg("git-pulled")
	default:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}
	return nil
}

// LocalPath maps a repository URL to a directory under baseDir. Both
// http(s) URLs and scp-style addresses (git@host:owner/repo.git) are
// accepted; file URLs map to their path below baseDir.
func LocalPath(baseDir, repoURL string) (string, error) {
	u, err := url.Parse(repoURL)
	if err == nil {
		switch u.Scheme {
		case "http", "https", "ssh", "git":
			return join(baseDir, u.Host, u.Path)
		case "file":
			return join(baseDir, "local", u.Path)
		}
	}

	user, rest, ok := strings.Cut(repoURL, "@")
	if ok && user != "" {
		host, path, ok := strings.Cut(rest, ":")
		if ok && host != "" && path != "" {
			return join(baseDir, host, path)
		}
	}
	return "", fmt.Errorf("could not parse git URL: %s", repoURL)
}

func join(baseDir, host, path string) (string, error) {
	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	if path == "" {
		return "", fmt.Errorf("git URL has no repository path")
	}
	clean := filepath.Join(baseDir, host, filepath.FromSlash(path))
	if !strings.HasPrefix(clean, filepath.Clean(baseDir)+string(filepath.Separator)) {
		return "", fmt.Errorf("git URL escapes the repos directory: %s", path)
	}
	return clean, nil
}

package gitsource

import (
	"path/filepath"
	"testing"
)

func TestLocalPath(t *testing.T) {
	testCases := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "https",
			url:  "https://github.com/conorfennell/kanji-lessons.git",
			want: filepath.Join("repos", "github.com", "conorfennell", "kanji-lessons"),
		},
		{
			name: "https without suffix",
			url:  "https://example.com/decks/n3",
			want: filepath.Join("repos", "example.com", "decks", "n3"),
		},
		{
			name: "scp style",
			url:  "git@github.com:conorfennell/kanji-lessons.git",
			want: filepath.Join("repos", "github.com", "conorfennell", "kanji-lessons"),
		},
		{
			name: "file url",
			url:  "file:///srv/git/lessons.git",
			want: filepath.Join("repos", "local", "srv", "git", "lessons"),
		},
		{
			name:    "not a url",
			url:     "lessons",
			wantErr: true,
		},
		{
			name:    "no repository path",
			url:     "https://github.com/",
			wantErr: true,
		},
		{
			name:    "escapes base dir",
			url:     "https://github.com/../../etc",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LocalPath("repos", tc.url)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got path %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

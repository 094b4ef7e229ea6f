// Package furigana splits words written with inline readings, such as
// "必要（ひつよう）な", into the written form and its full reading.
package furigana

import (
	"strings"

	"github.com/conorfennell/kanjikoto/internal/domain"
)

const (
	openParen  = "（"
	closeParen = "）"
)

// Word is a parsed furigana string.
type Word struct {
	Prompt  string
	Reading string
}

// Parse splits furi into its written form and reading. Text outside
// parentheses reads as itself; an empty reading also falls back to the text
// it annotates. A segment holding more than one opening parenthesis is
// malformed.
func Parse(furi string) (Word, error) {
	var prompt, reading strings.Builder
	for _, segment := range strings.Split(furi, closeParen) {
		parts := strings.Split(segment, openParen)
		switch len(parts) {
		case 1:
			prompt.WriteString(parts[0])
			reading.WriteString(parts[0])
		case 2:
			prompt.WriteString(parts[0])
			if strings.TrimSpace(parts[1]) == "" {
				reading.WriteString(parts[0])
			} else {
				reading.WriteString(parts[1])
			}
		default:
			return Word{}, &domain.MalformedContentError{
				Text:   furi,
				Reason: "nested reading in segment " + segment,
			}
		}
	}
	w := Word{Prompt: strings.TrimSpace(prompt.String()), Reading: strings.TrimSpace(reading.String())}
	if w.Prompt == "" {
		return Word{}, &domain.MalformedContentError{Text: furi, Reason: "empty word"}
	}
	return w, nil
}

// Meanings splits a comma separated meaning list, dropping empty entries.
func Meanings(s string) []string {
	var out []string
	for _, m := range strings.Split(s, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

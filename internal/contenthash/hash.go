package contenthash

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/kanjikoto/internal/domain"
)

// Normalize joins a phrase's prompt, reading and translation after trimming
// each and normalizing line endings. Translations are lowercased; prompts and
// readings are kept as written since case carries no meaning in kana.
func Normalize(p domain.NewPhrase) string {
	clean := func(part string) string {
		part = strings.ReplaceAll(part, "\r\n", "\n")
		return strings.TrimSpace(part)
	}

	// Joined with a newline so "ab"+"c" and "a"+"bc" hash differently.
	return strings.Join([]string{
		clean(p.Prompt),
		clean(p.Reading),
		strings.ToLower(clean(p.Translation)),
	}, "\n")
}

// Hash returns the SHA-256 of the normalized phrase as a hex string. A change
// in hash means the phrase content was edited.
func Hash(p domain.NewPhrase) string {
	sum := sha256.Sum256([]byte(Normalize(p)))
	return fmt.Sprintf("%x", sum)
}

package contenthash

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/conorfennell/kanjikoto/internal/domain"
)

func TestNormalize(t *testing.T) {
	p := domain.NewPhrase{
		Prompt:      "  必要 \r\n",
		Reading:     "ひつよう",
		Translation: " Necessary ",
	}
	expected := "必要\nひつよう\nnecessary"
	if got := Normalize(p); got != expected {
		t.Errorf("Expected normalized string to be '%s', but got '%s'", expected, got)
	}
}

func TestHash(t *testing.T) {
	t.Run("matches sha256 of normalized content", func(t *testing.T) {
		p := domain.NewPhrase{Prompt: "嫌", Reading: "いや", Translation: "unpleasant"}
		expected := fmt.Sprintf("%x", sha256.Sum256([]byte("嫌\nいや\nunpleasant")))
		if got := Hash(p); got != expected {
			t.Errorf("Expected hash '%s', but got '%s'", expected, got)
		}
	})

	t.Run("translation case and whitespace are ignored", func(t *testing.T) {
		p1 := domain.NewPhrase{Prompt: "嫌", Reading: "いや", Translation: "Unpleasant "}
		p2 := domain.NewPhrase{Prompt: "嫌", Reading: "いや", Translation: "unpleasant"}
		if Hash(p1) != Hash(p2) {
			t.Error("Expected hashes to be the same after normalization, but they were different.")
		}
	})

	t.Run("edited reading changes the hash", func(t *testing.T) {
		p1 := domain.NewPhrase{Prompt: "今日", Reading: "きょう", Translation: "today"}
		p2 := domain.NewPhrase{Prompt: "今日", Reading: "こんにち", Translation: "today"}
		if Hash(p1) == Hash(p2) {
			t.Error("Expected hashes for different readings to be different")
		}
	})

	t.Run("fields do not run together", func(t *testing.T) {
		p1 := domain.NewPhrase{Prompt: "ab", Reading: "c"}
		p2 := domain.NewPhrase{Prompt: "a", Reading: "bc"}
		if Hash(p1) == Hash(p2) {
			t.Error("Expected field boundaries to affect the hash")
		}
	})
}

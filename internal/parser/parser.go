// Package parser reads lesson files into phrases.
//
// A malformed item never aborts a read: it is left out of the result and
// reported in Result.Errors alongside the phrases that did parse.
package parser

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/kanjikoto/internal/domain"
	"github.com/conorfennell/kanjikoto/internal/furigana"
)

const (
	wordPrefix    = "W:"
	readingPrefix = "R:"
	meaningPrefix = "M:"
	titlePrefix   = "# "
)

type state int

const (
	seeking state = iota
	readingWord
	readingReading
	readingMeaning
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Result is everything read from one lesson file.
type Result struct {
	Title   string
	Phrases []domain.NewPhrase
	Errors  []error
}

// Supported reports whether name has an extension ParseFile understands.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".csv", ".toml":
		return true
	}
	return false
}

// ParseFile reads the lesson file at path, choosing a format by extension.
func ParseFile(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(file, path)
	case ".toml":
		return ParseTOML(file, path)
	default:
		return Parse(file, path)
	}
}

// item is a phrase as written in a lesson file, before furigana is resolved.
type item struct {
	line    int
	word    string
	reading string
	meaning string
}

// build resolves an item into a phrase. An explicit reading takes precedence
// over the one carried in the word's furigana.
func (it item) build(source string) (domain.NewPhrase, error) {
	w, err := furigana.Parse(it.word)
	if err != nil {
		var mce *domain.MalformedContentError
		if errors.As(err, &mce) {
			mce.Source, mce.Line = source, it.line
		}
		return domain.NewPhrase{}, err
	}
	p := domain.NewPhrase{
		Prompt:      w.Prompt,
		Reading:     w.Reading,
		Translation: strings.Join(furigana.Meanings(strings.ReplaceAll(it.meaning, "\n", ",")), ", "),
	}
	if r := strings.TrimSpace(it.reading); r != "" {
		p.Reading = r
	}
	if err := validate.Struct(p); err != nil {
		return domain.NewPhrase{}, &domain.MalformedContentError{
			Source: source,
			Line:   it.line,
			Text:   it.word,
			Reason: err.Error(),
		}
	}
	return p, nil
}

// Parse reads the line-based lesson format:
//
//	# Lesson title
//	W: 必要（ひつよう）
//	M: necessary, needed
//	---
//
// An optional "R:" line overrides the reading. Meanings may continue over
// several lines.
func Parse(r io.Reader, source string) (Result, error) {
	scanner := bufio.NewScanner(r)
	var res Result
	var current item
	var block []string
	currentState := seeking
	lineNo := 0

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.Join(block, "\n")
		switch currentState {
		case readingWord:
			current.word = content
		case readingReading:
			current.reading = content
		case readingMeaning:
			current.meaning = content
		}
		block = nil
	}

	finishItem := func() {
		flushBlock()
		if current.word != "" {
			p, err := current.build(source)
			if err != nil {
				res.Errors = append(res.Errors, err)
			} else {
				res.Phrases = append(res.Phrases, p)
			}
		}
		current = item{}
		currentState = seeking
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if line == "---" {
			finishItem()
			continue
		}
		if res.Title == "" && currentState == seeking && strings.HasPrefix(line, titlePrefix) {
			res.Title = strings.TrimSpace(line[len(titlePrefix):])
			continue
		}

		var next state
		var prefix string
		switch {
		case strings.HasPrefix(line, wordPrefix):
			next, prefix = readingWord, wordPrefix
		case strings.HasPrefix(line, readingPrefix):
			next, prefix = readingReading, readingPrefix
		case strings.HasPrefix(line, meaningPrefix):
			next, prefix = readingMeaning, meaningPrefix
		default:
			if currentState != seeking && strings.TrimSpace(line) != "" {
				block = append(block, strings.TrimSpace(line))
			}
			continue
		}

		if next == readingWord {
			if currentState != seeking { // a new word always starts a new item
				finishItem()
			}
			current.line = lineNo
		} else {
			flushBlock()
		}
		currentState = next
		block = append(block, strings.TrimSpace(line[len(prefix):]))
	}

	finishItem()

	if err := scanner.Err(); err != nil {
		return Result{}, err
	}
	return res, nil
}

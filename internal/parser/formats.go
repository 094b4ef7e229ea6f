package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// ParseCSV reads a spreadsheet export with a Chapter,Word,Meaning header.
// Column order does not matter; Chapter is optional.
func ParseCSV(r io.Reader, source string) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("reading csv header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	wordCol, okWord := cols["word"]
	meaningCol, okMeaning := cols["meaning"]
	if !okWord || !okMeaning {
		return Result{}, fmt.Errorf("%s: csv header must contain Word and Meaning, got %v", source, header)
	}

	var res Result
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("%s:%d: %w", source, line, err))
			continue
		}
		it := item{line: line}
		if wordCol < len(record) {
			it.word = record[wordCol]
		}
		if meaningCol < len(record) {
			it.meaning = record[meaningCol]
		}
		p, err := it.build(source)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		res.Phrases = append(res.Phrases, p)
	}
	return res, nil
}

type tomlLesson struct {
	Title   string       `toml:"title"`
	Phrases []tomlPhrase `toml:"phrase"`
}

type tomlPhrase struct {
	Word    string `toml:"word"`
	Reading string `toml:"reading"`
	Meaning string `toml:"meaning"`
}

// ParseTOML reads a lesson written as
//
//	title = "Chapter 1"
//
//	[[phrase]]
//	word = "必要（ひつよう）"
//	meaning = "necessary"
func ParseTOML(r io.Reader, source string) (Result, error) {
	var lesson tomlLesson
	if _, err := toml.NewDecoder(r).Decode(&lesson); err != nil {
		return Result{}, fmt.Errorf("error parsing %s: %w", source, err)
	}

	res := Result{Title: strings.TrimSpace(lesson.Title)}
	for i, tp := range lesson.Phrases {
		// TOML carries no per-table line numbers; report the phrase index.
		it := item{line: i + 1, word: tp.Word, reading: tp.Reading, meaning: tp.Meaning}
		p, err := it.build(source)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		res.Phrases = append(res.Phrases, p)
	}
	return res, nil
}

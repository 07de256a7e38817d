// Package lexicon holds the set of words known to be spelled correctly.
// Words found here are never rewritten by the spelling pass.
package lexicon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// WordColumn is the CSV header naming the column that holds the words.
const WordColumn = "word"

// DataSourceError reports a lexicon file that could not be read.
// It is recoverable: callers fall back to an empty Lexicon.
type DataSourceError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lexicon %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("lexicon %s: %s", e.Path, e.Reason)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// Lexicon is an immutable set of lowercase words.
type Lexicon struct {
	words map[string]struct{}
}

// New builds a Lexicon from words. Values are trimmed and lowercased; empty
// values are dropped.
func New(words ...string) *Lexicon {
	l := &Lexicon{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		l.add(w)
	}
	return l
}

func (l *Lexicon) add(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return
	}
	l.words[word] = struct{}{}
}

// Contains reports whether word is in the lexicon, ignoring case.
func (l *Lexicon) Contains(word string) bool {
	if l == nil {
		return false
	}
	_, ok := l.words[strings.ToLower(word)]
	return ok
}

// Len returns the number of distinct words.
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.words)
}

// Load reads a CSV file whose header row contains a "word" column.
func Load(path string) (*Lexicon, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DataSourceError{Path: path, Reason: "opening file", Err: err}
	}
	defer file.Close()

	lex, err := Read(file)
	if err != nil {
		var dsErr *DataSourceError
		if errors.As(err, &dsErr) {
			dsErr.Path = path
			return nil, dsErr
		}
		return nil, &DataSourceError{Path: path, Reason: "reading csv", Err: err}
	}
	return lex, nil
}

// Read parses lexicon CSV from r.
func Read(r io.Reader) (*Lexicon, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &DataSourceError{Reason: "missing header row"}
	}
	if err != nil {
		return nil, err
	}

	column := -1
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		if strings.TrimSpace(name) == WordColumn {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, &DataSourceError{Reason: fmt.Sprintf("csv must contain a %q column", WordColumn)}
	}

	lex := New()
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if column < len(record) {
			lex.add(record[column])
		}
	}
	return lex, nil
}

// LoadOrEmpty loads the lexicon at path, logging and returning an empty
// Lexicon when it cannot be read.
func LoadOrEmpty(path string, logger *slog.Logger) *Lexicon {
	lex, err := Load(path)
	if err != nil {
		if logger != nil {
			logger.Warn("lexicon unavailable, continuing without it", "path", path, "error", err)
		}
		return New()
	}
	if logger != nil {
		logger.Info("lexicon loaded", "path", path, "words", lex.Len())
	}
	return lex
}

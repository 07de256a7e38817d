// Package senses answers whether a word has at least one lexical sense in
// a WordNet database. It reads the plain-text index.<pos> and <pos>.exc
// files of a WordNet dict directory and applies the standard morphological
// detachment rules so inflected forms resolve to their base lemma.
package senses

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"
)

// POS is a WordNet part of speech.
type POS string

const (
	Noun      POS = "noun"
	Verb      POS = "verb"
	Adjective POS = "adj"
	Adverb    POS = "adv"
)

// AllPOS lists the parts of speech searched by HasSense.
var AllPOS = []POS{Noun, Verb, Adjective, Adverb}

type rule struct{ suffix, ending string }

// Detachment rules from the WordNet morph(7) documentation
var detachments = map[POS][]rule{
	Noun: {
		{"s", ""}, {"ses", "s"}, {"xes", "x"}, {"zes", "z"},
		{"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"ies", "y"},
	},
	Verb: {
		{"s", ""}, {"ies", "y"}, {"es", "e"}, {"es", ""},
		{"ed", "e"}, {"ed", ""}, {"ing", "e"}, {"ing", ""},
	},
	Adjective: {
		{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"},
	},
}

// Index is a read-only lemma index. Safe for concurrent reads.
type Index struct {
	lemmas     map[POS]map[string]struct{}
	exceptions map[POS]map[string][]string
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	idx := &Index{
		lemmas:     make(map[POS]map[string]struct{}),
		exceptions: make(map[POS]map[string][]string),
	}
	for _, pos := range AllPOS {
		idx.lemmas[pos] = make(map[string]struct{})
		idx.exceptions[pos] = make(map[string][]string)
	}
	return idx
}

// AddLemma records lemma under pos.
func (idx *Index) AddLemma(pos POS, lemma string) {
	if m, ok := idx.lemmas[pos]; ok && lemma != "" {
		m[normalizeLemma(lemma)] = struct{}{}
	}
}

// AddException maps an irregular inflection to its base forms.
func (idx *Index) AddException(pos POS, inflected string, bases ...string) {
	m, ok := idx.exceptions[pos]
	if !ok || inflected == "" {
		return
	}
	key := normalizeLemma(inflected)
	for _, b := range bases {
		m[key] = append(m[key], normalizeLemma(b))
	}
}

// Len returns the number of lemmas across all parts of speech.
func (idx *Index) Len() int {
	n := 0
	for _, m := range idx.lemmas {
		n += len(m)
	}
	return n
}

// Load reads index.<pos> and the optional <pos>.exc files from dir.
// At least one index file must be present.
func Load(dir string) (*Index, error) {
	idx := NewIndex()
	found := 0
	for _, pos := range AllPOS {
		ok, err := readMapped(filepath.Join(dir, "index."+string(pos)), func(r io.Reader) error {
			return idx.readIndex(pos, r)
		})
		if err != nil {
			return nil, err
		}
		if ok {
			found++
		}

		if _, err := readMapped(filepath.Join(dir, string(pos)+".exc"), func(r io.Reader) error {
			return idx.readExceptions(pos, r)
		}); err != nil {
			return nil, err
		}
	}
	if found == 0 {
		return nil, fmt.Errorf("no wordnet index files in %s", dir)
	}
	return idx, nil
}

// readMapped memory-maps path and hands its contents to fn. A missing or
// empty file is not an error and reports false.
func readMapped(path string, fn func(io.Reader) error) (bool, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return false, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return false, fmt.Errorf("mapping %s: %w", path, err)
	}
	defer data.Unmap()

	if err := fn(bytes.NewReader(data)); err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return true, nil
}

// readIndex parses index.<pos> lines: the lemma is the first field.
// License header lines start with a space.
func (idx *Index) readIndex(pos POS, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == ' ' {
			continue
		}
		if i := strings.IndexByte(line, ' '); i > 0 {
			idx.AddLemma(pos, line[:i])
		}
	}
	return scanner.Err()
}

// readExceptions parses "<inflected> <base> [<base>...]" lines.
func (idx *Index) readExceptions(pos POS, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		idx.AddException(pos, fields[0], fields[1:]...)
	}
	return scanner.Err()
}

// HasSense reports whether word, or a base form of it, is a lemma of any
// part of speech.
func (idx *Index) HasSense(word string) bool {
	if idx == nil {
		return false
	}
	word = normalizeLemma(word)
	if word == "" {
		return false
	}
	for _, pos := range AllPOS {
		if len(idx.Morphy(word, pos)) > 0 {
			return true
		}
	}
	return false
}

// Morphy returns the base forms of word found in the index for pos.
func (idx *Index) Morphy(word string, pos POS) []string {
	lemmas := idx.lemmas[pos]
	if len(lemmas) == 0 {
		return nil
	}
	word = normalizeLemma(word)

	var out []string
	seen := make(map[string]bool)
	add := func(form string) {
		if _, ok := lemmas[form]; ok && !seen[form] {
			seen[form] = true
			out = append(out, form)
		}
	}

	add(word)
	for _, base := range idx.exceptions[pos][word] {
		add(base)
	}
	for _, r := range detachments[pos] {
		if !strings.HasSuffix(word, r.suffix) {
			continue
		}
		if base := strings.TrimSuffix(word, r.suffix) + r.ending; base != "" {
			add(base)
		}
	}
	return out
}

func normalizeLemma(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

package symspell

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// SymSpell implements the Symmetric Delete spelling correction algorithm.
// It pre-computes all possible deletions within max edit distance for O(1) lookup.
//
// A SymSpell is filled once at startup and only read afterwards; concurrent
// Lookup calls are safe as long as no AddTerm runs at the same time.
type SymSpell struct {
	// dictionary maps terms to their frequencies
	dictionary map[string]int64

	// order records insertion rank, used to keep tie-breaking deterministic
	order map[string]int

	// deletes maps delete variants of term prefixes to their original terms
	deletes map[string][]string

	// maxLength is the longest term in runes; longer inputs can exit early
	maxLength int

	// config holds algorithm parameters
	config *Config
}

// New creates a new SymSpell instance with the given configuration.
func New(config *Config) *SymSpell {
	if config == nil {
		config = DefaultConfig()
	}
	return &SymSpell{
		dictionary: make(map[string]int64),
		order:      make(map[string]int),
		deletes:    make(map[string][]string),
		config:     config,
	}
}

// Config returns the parameters the index was built with.
func (s *SymSpell) Config() Config {
	return *s.config
}

// AddTerm adds a term to the dictionary with its frequency and indexes all
// delete variants of its prefix. Adding a term that is already present adds
// the frequency to the stored count (saturating) and reports false.
func (s *SymSpell) AddTerm(term string, frequency int64) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || frequency < 0 {
		return false
	}
	if prev, ok := s.dictionary[term]; ok {
		s.dictionary[term] = addSaturating(prev, frequency)
		return false
	}
	if utf8.RuneCountInString(term) < s.config.MinTermLength || frequency < s.config.MinFrequency {
		return false
	}

	s.dictionary[term] = frequency
	s.order[term] = len(s.order)
	if n := utf8.RuneCountInString(term); n > s.maxLength {
		s.maxLength = n
	}

	for key := range s.indexKeys(term) {
		s.deletes[key] = append(s.deletes[key], term)
	}
	return true
}

// Insert adds one term outside the bulk load, typically a domain word with a
// fixed high frequency so it outranks rarer dictionary matches.
func (s *SymSpell) Insert(term string, frequency int64) {
	s.AddTerm(term, frequency)
}

// AddTerms adds multiple terms to the dictionary.
func (s *SymSpell) AddTerms(entries []DictionaryEntry) {
	for _, entry := range entries {
		s.AddTerm(entry.Term, entry.Frequency)
	}
}

// Contains checks if a term exists exactly in the dictionary.
func (s *SymSpell) Contains(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	_, ok := s.dictionary[term]
	return ok
}

// Frequency returns the stored count for term.
func (s *SymSpell) Frequency(term string) (int64, bool) {
	freq, ok := s.dictionary[strings.ToLower(strings.TrimSpace(term))]
	return freq, ok
}

// Lookup finds spelling suggestions for the input term within maxDistance.
// Returns suggestions sorted by edit distance (ascending), then frequency
// (descending), then insertion order. maxDistance is capped at the
// configured MaxEditDistance.
func (s *SymSpell) Lookup(input string, maxDistance int) []Suggestion {
	input = strings.ToLower(strings.TrimSpace(input))
	if len(input) == 0 {
		return nil
	}

	// Cap at configured max
	if maxDistance > s.config.MaxEditDistance {
		maxDistance = s.config.MaxEditDistance
	}
	if maxDistance < 0 {
		maxDistance = 0
	}

	inputLen := utf8.RuneCountInString(input)
	if inputLen-maxDistance > s.maxLength {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []Suggestion

	if freq, ok := s.dictionary[input]; ok {
		seen[input] = true
		candidates = append(candidates, Suggestion{Term: input, Distance: 0, Frequency: freq})
	}

	if maxDistance > 0 {
		prefix := s.prefix(input)
		keys := s.generateDeletes(prefix, maxDistance)
		keys[prefix] = struct{}{}

		for key := range keys {
			for _, term := range s.deletes[key] {
				if seen[term] {
					continue
				}
				seen[term] = true

				dist := s.editDistance(input, term, maxDistance)
				if dist < 0 {
					continue
				}
				candidates = append(candidates, Suggestion{
					Term:      term,
					Distance:  dist,
					Frequency: s.dictionary[term],
				})
			}
		}
	}

	s.sortSuggestions(candidates)
	return candidates
}

// LookupClosest returns only the suggestions at the smallest edit distance
// found, ordered by frequency.
func (s *SymSpell) LookupClosest(input string, maxDistance int) []Suggestion {
	suggestions := s.Lookup(input, maxDistance)
	if len(suggestions) == 0 {
		return nil
	}
	end := 1
	for end < len(suggestions) && suggestions[end].Distance == suggestions[0].Distance {
		end++
	}
	return suggestions[:end]
}

// LookupBest returns the single best suggestion, or nil if none found.
func (s *SymSpell) LookupBest(input string, maxDistance int) *Suggestion {
	suggestions := s.LookupClosest(input, maxDistance)
	if len(suggestions) == 0 {
		return nil
	}
	return &suggestions[0]
}

func (s *SymSpell) sortSuggestions(candidates []Suggestion) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		if candidates[i].Frequency != candidates[j].Frequency {
			return candidates[i].Frequency > candidates[j].Frequency
		}
		return s.order[candidates[i].Term] < s.order[candidates[j].Term]
	})
}

// prefix truncates term to PrefixLength runes.
func (s *SymSpell) prefix(term string) string {
	if utf8.RuneCountInString(term) <= s.config.PrefixLength {
		return term
	}
	return string([]rune(term)[:s.config.PrefixLength])
}

// indexKeys returns the prefix of term and all its delete variants.
func (s *SymSpell) indexKeys(term string) map[string]struct{} {
	prefix := s.prefix(term)
	keys := s.generateDeletes(prefix, s.config.MaxEditDistance)
	keys[prefix] = struct{}{}
	return keys
}

// generateDeletes generates all delete variants of a term within maxDistance.
// The term itself is not included.
func (s *SymSpell) generateDeletes(term string, maxDistance int) map[string]struct{} {
	deletes := make(map[string]struct{})
	if maxDistance <= 0 || len(term) == 0 {
		return deletes
	}
	generateDeletesRecursive([]rune(term), maxDistance, deletes)
	return deletes
}

func generateDeletesRecursive(term []rune, distance int, deletes map[string]struct{}) {
	if distance <= 0 || len(term) == 0 {
		return
	}

	buf := make([]rune, len(term)-1)
	for i := range term {
		copy(buf, term[:i])
		copy(buf[i:], term[i+1:])
		del := string(buf)
		if _, ok := deletes[del]; ok {
			continue
		}
		deletes[del] = struct{}{}
		generateDeletesRecursive([]rune(del), distance-1, deletes)
	}
}

// editDistance calculates the optimal string alignment Damerau-Levenshtein
// distance between two strings.
// Returns -1 if distance exceeds maxDistance.
func (s *SymSpell) editDistance(a, b string, maxDistance int) int {
	lenA, lenB := utf8.RuneCountInString(a), utf8.RuneCountInString(b)

	// Quick length check
	if abs(lenA-lenB) > maxDistance {
		return -1
	}

	dist := edlib.OSADamerauLevenshteinDistance(a, b)
	if dist > maxDistance {
		return -1
	}
	return dist
}

// Stats returns statistics about the dictionary.
func (s *SymSpell) Stats() DictionaryStats {
	stats := DictionaryStats{
		TermCount:     len(s.dictionary),
		DeleteCount:   len(s.deletes),
		MaxTermLength: s.maxLength,
	}

	for _, freq := range s.dictionary {
		stats.TotalFrequency = addSaturating(stats.TotalFrequency, freq)
		if freq > stats.MaxFrequency {
			stats.MaxFrequency = freq
		}
	}

	return stats
}

// Helper functions

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func addSaturating(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

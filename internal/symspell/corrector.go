package symspell

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WordSet is an exact-match collection of known-correct words.
type WordSet interface {
	Contains(word string) bool
}

// SenseOracle reports whether a word has a known lexical sense.
type SenseOracle interface {
	HasSense(word string) bool
}

// Corrector picks one correction per word. Words known to the lexicon are
// returned untouched; otherwise the closest, most frequent dictionary term
// wins, rewritten in the input's case pattern. Unknown words with no
// candidate come back unchanged.
//
// A Corrector holds only read-only state and is safe for concurrent use.
type Corrector struct {
	symspell *SymSpell
	lexicon  WordSet
	oracle   SenseOracle
	config   *Config
}

// CorrectorOption customises a Corrector.
type CorrectorOption func(*Corrector)

// WithSenseOracle keeps words the oracle recognises even when the lexicon does not.
func WithSenseOracle(oracle SenseOracle) CorrectorOption {
	return func(c *Corrector) { c.oracle = oracle }
}

// WithMaxEditDistance overrides the lookup bound (capped by the index).
func WithMaxEditDistance(n int) CorrectorOption {
	return func(c *Corrector) {
		cfg := *c.config
		cfg.MaxEditDistance = n
		c.config = &cfg
	}
}

// NewCorrector wires an index and a lexicon into a Corrector. lexicon may be nil.
func NewCorrector(index *SymSpell, lexicon WordSet, opts ...CorrectorOption) *Corrector {
	cfg := DefaultConfig()
	if index != nil {
		c := index.Config()
		cfg = &c
	}
	c := &Corrector{
		symspell: index,
		lexicon:  lexicon,
		config:   cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Correct returns the best spelling for word.
func (c *Corrector) Correct(word string) string {
	return c.CorrectToken(word).Corrected
}

// CorrectToken corrects a single token and returns the correction result.
func (c *Corrector) CorrectToken(token string) CorrectionResult {
	unchanged := CorrectionResult{Original: token, Corrected: token}
	if c == nil || c.symspell == nil || token == "" {
		unchanged.Reason = ReasonSkipped
		return unchanged
	}

	lower := strings.ToLower(token)

	// Exact matches are never rewritten
	if c.lexicon != nil && c.lexicon.Contains(lower) {
		unchanged.Reason = ReasonLexicon
		return unchanged
	}
	if c.oracle != nil && c.oracle.HasSense(lower) {
		unchanged.Reason = ReasonSense
		return unchanged
	}

	suggestion := c.symspell.LookupBest(lower, c.config.MaxEditDistance)
	if suggestion == nil {
		unchanged.Reason = ReasonNoMatch
		return unchanged
	}
	if suggestion.Distance == 0 {
		unchanged.Reason = ReasonDictionary
		return unchanged
	}

	confidence := 0.0
	if c.config.MaxEditDistance > 0 {
		confidence = 1.0 - float64(suggestion.Distance)/float64(c.config.MaxEditDistance)
	}

	return CorrectionResult{
		Original:     token,
		Corrected:    MatchCase(token, suggestion.Term),
		Distance:     suggestion.Distance,
		WasCorrected: true,
		Confidence:   confidence,
		Reason:       ReasonSuggestion,
	}
}

// LookupSuggestions returns all suggestions for a token (for debugging/CLI).
func (c *Corrector) LookupSuggestions(token string, maxResults int) []Suggestion {
	if c == nil || c.symspell == nil {
		return nil
	}

	suggestions := c.symspell.Lookup(token, c.config.MaxEditDistance)
	if maxResults > 0 && len(suggestions) > maxResults {
		return suggestions[:maxResults]
	}
	return suggestions
}

// Stats returns dictionary statistics.
func (c *Corrector) Stats() DictionaryStats {
	if c == nil || c.symspell == nil {
		return DictionaryStats{}
	}
	return c.symspell.Stats()
}

// MatchCase rewrites replacement in the case pattern of original: UPPER,
// Title or lower. Mixed patterns leave replacement as stored.
func MatchCase(original, replacement string) string {
	switch {
	case isUpper(original) && utf8.RuneCountInString(original) > 1:
		return strings.ToUpper(replacement)
	case isTitle(original):
		return title(replacement)
	default:
		return replacement
	}
}

func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isTitle(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(r) {
		return false
	}
	rest := s[size:]
	return strings.ToLower(rest) == rest
}

func title(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

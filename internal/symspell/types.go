// Package symspell implements the Symmetric Delete spelling correction
// algorithm used by the spelling pass of the text pipeline.
//
// SymSpell pre-computes a "delete dictionary": every dictionary term is
// indexed under all strings obtained by deleting up to MaxEditDistance
// characters from its first PrefixLength characters. A lookup generates the
// same deletions for the input word, so candidate retrieval is a handful of
// map reads; candidates are then confirmed with a true Damerau-Levenshtein
// distance.
package symspell

import "fmt"

// Config holds SymSpell configuration parameters.
type Config struct {
	// MaxEditDistance is the maximum Damerau-Levenshtein distance for corrections.
	// Default: 4
	MaxEditDistance int

	// PrefixLength is the number of leading characters used to build deletion keys.
	// Must be greater than MaxEditDistance.
	// Default: 7
	PrefixLength int

	// MinTermLength is the minimum term length accepted into the dictionary.
	// Default: 1
	MinTermLength int

	// MinFrequency is the minimum frequency for a term to be included in dictionary.
	// Default: 0 (include all terms)
	MinFrequency int64
}

// DefaultConfig returns the configuration the correction service runs with.
func DefaultConfig() *Config {
	return &Config{
		MaxEditDistance: 4,
		PrefixLength:    7,
		MinTermLength:   1,
		MinFrequency:    0,
	}
}

// Validate reports a ConfigError when the parameters cannot produce a usable index.
func (c *Config) Validate() error {
	switch {
	case c.MaxEditDistance < 0:
		return &ConfigError{Reason: "max edit distance cannot be negative"}
	case c.PrefixLength < 1:
		return &ConfigError{Reason: "prefix length cannot be less than 1"}
	case c.PrefixLength <= c.MaxEditDistance:
		return &ConfigError{Reason: fmt.Sprintf("prefix length %d must be greater than max edit distance %d",
			c.PrefixLength, c.MaxEditDistance)}
	case c.MinFrequency < 0:
		return &ConfigError{Reason: "minimum frequency cannot be negative"}
	}
	return nil
}

// Suggestion represents a spelling correction suggestion.
type Suggestion struct {
	// Term is the suggested correct spelling.
	Term string

	// Distance is the edit distance from the input to this suggestion.
	Distance int

	// Frequency is the occurrence count in the dictionary.
	// Higher frequency terms are preferred when distances are equal.
	Frequency int64
}

// CorrectionResult tracks what was corrected for audit and explainability.
type CorrectionResult struct {
	// Original is the input token before correction.
	Original string

	// Corrected is the token after correction (same as Original if no correction).
	Corrected string

	// Distance is the edit distance (0 if no correction needed).
	Distance int

	// WasCorrected indicates whether a correction was applied.
	WasCorrected bool

	// Confidence is a score from 0-1 indicating correction confidence.
	// Calculated as 1 - (distance / maxEditDistance).
	Confidence float64

	// Reason names the rule that decided the outcome.
	Reason Reason
}

// Reason names the rule that decided a CorrectionResult.
type Reason string

const (
	ReasonLexicon    Reason = "lexicon"
	ReasonSense      Reason = "sense"
	ReasonDictionary Reason = "dictionary"
	ReasonSuggestion Reason = "suggestion"
	ReasonNoMatch    Reason = "no_match"
	ReasonSkipped    Reason = "skipped"
)

// DictionaryEntry represents a term with its frequency for dictionary building.
type DictionaryEntry struct {
	Term      string
	Frequency int64
}

// DictionaryStats holds statistics about the built dictionary.
type DictionaryStats struct {
	// TermCount is the number of unique terms in the dictionary.
	TermCount int

	// DeleteCount is the number of entries in the delete dictionary.
	DeleteCount int

	// TotalFrequency is the sum of all term frequencies.
	TotalFrequency int64

	// MaxFrequency is the highest frequency term.
	MaxFrequency int64

	// MaxTermLength is the longest term in characters.
	MaxTermLength int

	// BuildTimeMs is the time taken to build the dictionary in milliseconds.
	BuildTimeMs int64
}

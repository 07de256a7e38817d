// Package grammar applies grammar corrections reported by an external
// checking engine.
package grammar

import (
	"context"
	"sort"
	"unicode/utf16"
)

// Match is one issue reported by a grammar engine. Offset and Length count
// UTF-16 code units, the unit LanguageTool reports positions in.
type Match struct {
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
	Message      string   `json:"message"`
	RuleID       string   `json:"rule_id"`
	Replacements []string `json:"replacements"`
}

// Engine checks and corrects text.
type Engine interface {
	// Check returns the issues found in text.
	Check(ctx context.Context, text string) ([]Match, error)
	// Correct returns text with the first replacement of every applicable match applied.
	Correct(ctx context.Context, text string) (string, error)
}

// ApplyMatches rewrites text with the first replacement of each match.
// Matches without replacements, with out-of-range spans, or overlapping an
// earlier match are skipped.
func ApplyMatches(text string, matches []Match) string {
	if len(matches) == 0 {
		return text
	}

	units := utf16.Encode([]rune(text))

	ordered := make([]Match, 0, len(matches))
	for _, m := range matches {
		if len(m.Replacements) == 0 || m.Offset < 0 || m.Length < 0 || m.Offset+m.Length > len(units) {
			continue
		}
		ordered = append(ordered, m)
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Offset < ordered[j].Offset })

	applied := ordered[:0]
	end := -1
	for _, m := range ordered {
		if m.Offset < end {
			continue
		}
		applied = append(applied, m)
		end = m.Offset + m.Length
	}
	if len(applied) == 0 {
		return text
	}

	// Right to left so earlier offsets stay valid
	for i := len(applied) - 1; i >= 0; i-- {
		m := applied[i]
		repl := utf16.Encode([]rune(m.Replacements[0]))
		out := make([]uint16, 0, len(units)-m.Length+len(repl))
		out = append(out, units[:m.Offset]...)
		out = append(out, repl...)
		out = append(out, units[m.Offset+m.Length:]...)
		units = out
	}
	return string(utf16.Decode(units))
}

// Noop is an Engine that reports nothing and returns text unchanged.
type Noop struct{}

// Check implements Engine.
func (Noop) Check(context.Context, string) ([]Match, error) { return nil, nil }

// Correct implements Engine.
func (Noop) Correct(_ context.Context, text string) (string, error) { return text, nil }

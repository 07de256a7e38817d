// Package normalize splits text into word and punctuation tokens and
// joins them back with canonical spacing.
//
// Tokenization is lossy by contract: whitespace runs, line breaks and any
// character that is neither a word character nor one of . , ! ? ; are
// dropped. Reassemble writes single spaces between words and none before
// punctuation.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// Kind classifies a token.
type Kind int

const (
	// Word is a run of letters, digits or underscores.
	Word Kind = iota
	// Punct is one of the preserved punctuation marks.
	Punct
)

func (k Kind) String() string {
	if k == Punct {
		return "punct"
	}
	return "word"
}

// Token is one unit of tokenized text.
type Token struct {
	Text string
	Kind Kind
}

// Punctuation lists the marks kept by the tokenizer.
const Punctuation = ".,!?;"

// Word characters follow the Unicode definition of \w
var reToken = regexp.MustCompile(`[\p{L}\p{N}_]+|[.,!?;]`)

// Tokenize splits text into words and punctuation marks, in order.
func Tokenize(text string) []Token {
	matches := reToken.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	tokens := make([]Token, len(matches))
	for i, m := range matches {
		kind := Word
		if IsPunct(m) {
			kind = Punct
		}
		tokens[i] = Token{Text: m, Kind: kind}
	}
	return tokens
}

// IsPunct reports whether s is a single preserved punctuation mark.
func IsPunct(s string) bool {
	return len(s) == 1 && strings.ContainsRune(Punctuation, rune(s[0]))
}

// IsAlpha reports whether s is non-empty and made only of letters.
// Only such tokens are sent for spelling correction.
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Reassemble joins tokens: no space before the first token or before
// punctuation, a single space before every other token.
func Reassemble(tokens []Token) string {
	var sb strings.Builder
	for i, tok := range tokens {
		if i > 0 && tok.Kind != Punct {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

// Texts returns the token texts.
func Texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}

package normalize

// WordCorrector returns the preferred spelling of a single word.
type WordCorrector interface {
	Correct(word string) string
}

// WordCorrectorFunc adapts a function to WordCorrector.
type WordCorrectorFunc func(word string) string

// Correct calls f(word).
func (f WordCorrectorFunc) Correct(word string) string { return f(word) }

// CorrectTokens passes every alphabetic word token through c and returns the
// new token list with the number of tokens whose text changed. Digits,
// mixed alphanumerics and punctuation pass through untouched.
func CorrectTokens(tokens []Token, c WordCorrector) ([]Token, int) {
	out := make([]Token, len(tokens))
	changed := 0
	for i, tok := range tokens {
		out[i] = tok
		if c == nil || tok.Kind != Word || !IsAlpha(tok.Text) {
			continue
		}
		if fixed := c.Correct(tok.Text); fixed != tok.Text {
			out[i].Text = fixed
			changed++
		}
	}
	return out, changed
}

// CorrectSpelling tokenizes text, corrects its words and reassembles it.
func CorrectSpelling(text string, c WordCorrector) string {
	tokens, _ := CorrectTokens(Tokenize(text), c)
	return Reassemble(tokens)
}

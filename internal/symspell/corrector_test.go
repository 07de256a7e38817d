package symspell

import "testing"

type wordSet map[string]bool

func (w wordSet) Contains(word string) bool { return w[word] }

type senseSet map[string]bool

func (s senseSet) HasSense(word string) bool { return s[word] }

func buildTestCorrector(opts ...CorrectorOption) *Corrector {
	index := BuildFromEntries([]DictionaryEntry{
		{Term: "spelling", Frequency: 5000},
		{Term: "house", Frequency: 9000},
		{Term: "hello", Frequency: 7000},
		{Term: "the", Frequency: 100000},
	}, DefaultConfig())
	lexicon := wordSet{"hello": true, "teh": true, "world": true}
	return NewCorrector(index, lexicon, opts...)
}

func TestCorrectorCorrect(t *testing.T) {
	corrector := buildTestCorrector()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lexicon word unchanged", input: "hello", want: "hello"},
		{name: "lexicon word keeps casing", input: "HeLLo", want: "HeLLo"},
		{name: "lexicon wins over dictionary", input: "teh", want: "teh"},
		{name: "dictionary exact match", input: "house", want: "house"},
		{name: "dictionary exact match keeps casing", input: "HoUse", want: "HoUse"},
		{name: "lowercase correction", input: "speling", want: "spelling"},
		{name: "title case restored", input: "Speling", want: "Spelling"},
		{name: "upper case restored", input: "SPELING", want: "SPELLING"},
		{name: "unknown word fails open", input: "qqqqqqqqqqqq", want: "qqqqqqqqqqqq"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := corrector.Correct(tt.input); got != tt.want {
				t.Errorf("Correct(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCorrectorCorrectToken(t *testing.T) {
	corrector := buildTestCorrector()

	result := corrector.CorrectToken("hous")
	if !result.WasCorrected || result.Corrected != "house" {
		t.Fatalf("CorrectToken(hous) = %+v, want correction to house", result)
	}
	if result.Distance != 1 || result.Reason != ReasonSuggestion {
		t.Errorf("CorrectToken(hous) = %+v, want distance 1 by suggestion", result)
	}
	if result.Confidence != 0.75 {
		t.Errorf("Confidence = %v, want 0.75", result.Confidence)
	}

	if got := corrector.CorrectToken("world").Reason; got != ReasonLexicon {
		t.Errorf("CorrectToken(world).Reason = %q, want %q", got, ReasonLexicon)
	}
	if got := corrector.CorrectToken("zzzzzzzzzzzz").Reason; got != ReasonNoMatch {
		t.Errorf("CorrectToken(zzzzzzzzzzzz).Reason = %q, want %q", got, ReasonNoMatch)
	}
}

func TestCorrectorIdempotent(t *testing.T) {
	corrector := buildTestCorrector()

	for _, word := range []string{"speling", "Hous", "THE", "teh", "xyzzyxyzzy"} {
		once := corrector.Correct(word)
		if twice := corrector.Correct(once); twice != once {
			t.Errorf("Correct(Correct(%q)) = %q, want %q", word, twice, once)
		}
	}
}

func TestCorrectorSenseOracle(t *testing.T) {
	without := buildTestCorrector()
	if got := without.Correct("hous"); got != "house" {
		t.Fatalf("Correct(hous) without oracle = %q, want house", got)
	}

	with := buildTestCorrector(WithSenseOracle(senseSet{"hous": true}))
	if got := with.Correct("Hous"); got != "Hous" {
		t.Errorf("Correct(Hous) with oracle = %q, want Hous", got)
	}
	if got := with.CorrectToken("hous").Reason; got != ReasonSense {
		t.Errorf("CorrectToken(hous).Reason = %q, want %q", got, ReasonSense)
	}
}

func TestCorrectorMaxEditDistance(t *testing.T) {
	corrector := buildTestCorrector(WithMaxEditDistance(1))

	if got := corrector.Correct("spelng"); got != "spelng" {
		t.Errorf("Correct(spelng) with distance 1 = %q, want unchanged", got)
	}
	if got := corrector.Correct("speling"); got != "spelling" {
		t.Errorf("Correct(speling) with distance 1 = %q, want spelling", got)
	}
}

func TestCorrectorNilIndex(t *testing.T) {
	corrector := NewCorrector(nil, nil)

	result := corrector.CorrectToken("anything")
	if result.Corrected != "anything" || result.Reason != ReasonSkipped {
		t.Errorf("CorrectToken with nil index = %+v, want skipped", result)
	}
}

func TestMatchCase(t *testing.T) {
	tests := []struct {
		original    string
		replacement string
		want        string
	}{
		{"speling", "spelling", "spelling"},
		{"Speling", "spelling", "Spelling"},
		{"SPELING", "spelling", "SPELLING"},
		{"I", "a", "A"},
		{"sPeLing", "spelling", "spelling"},
		{"Ñandu", "ñandú", "Ñandú"},
	}

	for _, tt := range tests {
		if got := MatchCase(tt.original, tt.replacement); got != tt.want {
			t.Errorf("MatchCase(%q, %q) = %q, want %q", tt.original, tt.replacement, got, tt.want)
		}
	}
}

func TestCorrectorLookupSuggestions(t *testing.T) {
	corrector := buildTestCorrector()

	suggestions := corrector.LookupSuggestions("hous", 1)
	if len(suggestions) != 1 || suggestions[0].Term != "house" {
		t.Errorf("LookupSuggestions(hous, 1) = %v, want [house]", suggestions)
	}
	if stats := corrector.Stats(); stats.TermCount != 4 {
		t.Errorf("Stats().TermCount = %d, want 4", stats.TermCount)
	}
}

package grammar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMatches(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		matches []Match
		want    string
	}{
		{
			name: "no matches",
			text: "Fine text.",
			want: "Fine text.",
		},
		{
			name: "single replacement",
			text: "He go home.",
			matches: []Match{
				{Offset: 3, Length: 2, Replacements: []string{"goes", "went"}},
			},
			want: "He goes home.",
		},
		{
			name: "replacements shift later offsets",
			text: "i has a apple",
			matches: []Match{
				{Offset: 0, Length: 1, Replacements: []string{"I"}},
				{Offset: 2, Length: 3, Replacements: []string{"have"}},
				{Offset: 6, Length: 1, Replacements: []string{"an"}},
			},
			want: "I have an apple",
		},
		{
			name: "unordered input",
			text: "a b c",
			matches: []Match{
				{Offset: 4, Length: 1, Replacements: []string{"C"}},
				{Offset: 0, Length: 1, Replacements: []string{"A"}},
			},
			want: "A b C",
		},
		{
			name: "match without replacement skipped",
			text: "keep this",
			matches: []Match{
				{Offset: 0, Length: 4, Message: "style"},
			},
			want: "keep this",
		},
		{
			name: "overlapping match skipped",
			text: "the the cat",
			matches: []Match{
				{Offset: 0, Length: 7, Replacements: []string{"the"}},
				{Offset: 4, Length: 3, Replacements: []string{"a"}},
			},
			want: "the cat",
		},
		{
			name: "out of range skipped",
			text: "short",
			matches: []Match{
				{Offset: 3, Length: 10, Replacements: []string{"x"}},
			},
			want: "short",
		},
		{
			name: "offsets count utf16 units",
			text: "😀 teh end",
			matches: []Match{
				{Offset: 3, Length: 3, Replacements: []string{"the"}},
			},
			want: "😀 the end",
		},
		{
			name: "deletion",
			text: "a  b",
			matches: []Match{
				{Offset: 1, Length: 1, Replacements: []string{""}},
			},
			want: "a b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyMatches(tt.text, tt.matches))
		})
	}
}

func TestNoop(t *testing.T) {
	var engine Engine = Noop{}

	matches, err := engine.Check(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, matches)

	out, err := engine.Correct(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "anything", out)
}

const checkResponse = `{
  "software": {"name": "LanguageTool"},
  "matches": [
    {
      "message": "Possible agreement error.",
      "offset": 2,
      "length": 4,
      "replacements": [{"value": "like"}, {"value": "liked"}],
      "rule": {"id": "AGREEMENT"}
    },
    {
      "message": "Consider a shorter alternative.",
      "offset": 0,
      "length": 1,
      "replacements": [],
      "rule": {"id": "STYLE"}
    }
  ]
}`

func TestLanguageToolCorrect(t *testing.T) {
	var gotText, gotLang, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, r.ParseForm())
		gotText = r.PostForm.Get("text")
		gotLang = r.PostForm.Get("language")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, checkResponse)
	}))
	defer srv.Close()

	lt := NewLanguageTool(srv.URL+"/v2/", WithLanguage("en-GB"))

	matches, err := lt.Check(context.Background(), "I likes it")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "/v2/check", gotPath)
	assert.Equal(t, "I likes it", gotText)
	assert.Equal(t, "en-GB", gotLang)
	assert.Equal(t, Match{
		Offset:       2,
		Length:       4,
		Message:      "Possible agreement error.",
		RuleID:       "AGREEMENT",
		Replacements: []string{"like", "liked"},
	}, matches[0])
	assert.Empty(t, matches[1].Replacements)

	out, err := lt.Correct(context.Background(), "I liks it")
	require.NoError(t, err)
	assert.Equal(t, "I like it", out)
}

func TestLanguageToolErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	lt := NewLanguageTool(srv.URL)
	_, err := lt.Correct(context.Background(), "text")
	require.Error(t, err)

	var engineErr *EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, http.StatusTooManyRequests, engineErr.StatusCode)
	assert.Equal(t, "too many requests", engineErr.Body)
}

func TestLanguageToolBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer srv.Close()

	_, err := NewLanguageTool(srv.URL).Check(context.Background(), "text")
	assert.Error(t, err)
}

func TestLanguageToolUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewLanguageTool(url).Correct(context.Background(), "text")
	assert.Error(t, err)
}

func TestLanguageToolTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	lt := NewLanguageTool(srv.URL, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	_, err := lt.Check(context.Background(), "text")
	assert.Error(t, err)
}

func TestLanguageToolRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"matches": []}`)
	}))
	defer srv.Close()

	lt := NewLanguageTool(srv.URL, WithRateLimit(0.001, 1))

	_, err := lt.Check(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = lt.Check(ctx, "second")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

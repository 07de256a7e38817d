package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/textfix/internal/symspell"
)

// Suggester looks up spelling candidates for one word.
type Suggester interface {
	CorrectToken(token string) symspell.CorrectionResult
	LookupSuggestions(token string, maxResults int) []symspell.Suggestion
}

// SearchHandler handles dictionary lookup endpoints
type SearchHandler struct {
	Corrector Suggester
}

// SuggestionResult is one candidate in a lookup response.
type SuggestionResult struct {
	Term      string `json:"term"`
	Distance  int    `json:"distance"`
	Frequency int64  `json:"frequency"`
}

// SuggestResponse is the body of GET /api/suggest.
type SuggestResponse struct {
	Word        string             `json:"word"`
	Correction  string             `json:"correction"`
	Reason      string             `json:"reason"`
	Suggestions []SuggestionResult `json:"suggestions"`
}

// Suggest lists ranked candidates for ?word= and the correction the
// pipeline would choose
func (h *SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	word := strings.TrimSpace(query.Get("word"))
	if word == "" {
		writeError(w, http.StatusBadRequest, MsgNoWord)
		return
	}
	if h.Corrector == nil {
		writeError(w, http.StatusServiceUnavailable, MsgUnavailable)
		return
	}

	// Parse limit parameter
	limit := parseIntParam(query.Get("limit"), 10)
	if limit > 100 {
		limit = 100 // Maximum limit
	}

	result := h.Corrector.CorrectToken(word)
	resp := SuggestResponse{
		Word:        word,
		Correction:  result.Corrected,
		Reason:      string(result.Reason),
		Suggestions: []SuggestionResult{},
	}
	for _, s := range h.Corrector.LookupSuggestions(word, limit) {
		resp.Suggestions = append(resp.Suggestions, SuggestionResult{
			Term:      s.Term,
			Distance:  s.Distance,
			Frequency: s.Frequency,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func parseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	if val, err := strconv.Atoi(s); err == nil && val > 0 {
		return val
	}
	return defaultVal
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textfix/internal/symspell"
)

type fakePipeline struct {
	got []string
	err error
}

func (f *fakePipeline) CorrectText(_ context.Context, text string) (string, error) {
	f.got = append(f.got, text)
	if f.err != nil {
		return "", f.err
	}
	return strings.ToUpper(text), nil
}

type fakeStats struct{ stats symspell.DictionaryStats }

func (f fakeStats) Stats() symspell.DictionaryStats { return f.stats }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHome(t *testing.T) {
	h := &APIHandler{}
	rec := httptest.NewRecorder()
	h.Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"message": MsgRunning}, decode(t, rec))
}

func TestCorrect(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		pipeErr    error
		wantStatus int
		wantBody   map[string]interface{}
		wantInput  []string
	}{
		{
			name:       "success trims input",
			body:       `{"text": "  hello wrld  "}`,
			wantStatus: http.StatusOK,
			wantBody:   map[string]interface{}{"corrected_text": "HELLO WRLD"},
			wantInput:  []string{"hello wrld"},
		},
		{
			name:       "missing text field",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"error": MsgNoText},
		},
		{
			name:       "null text",
			body:       `{"text": null}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"error": MsgNoText},
		},
		{
			name:       "empty body",
			body:       ``,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"error": MsgNoText},
		},
		{
			name:       "invalid json",
			body:       `{"text": `,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"error": MsgNoText},
		},
		{
			name:       "text is not a string",
			body:       `{"text": 42}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"error": MsgNoText},
		},
		{
			name:       "whitespace only",
			body:       `{"text": "  \n\t "}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"error": MsgEmptyText},
		},
		{
			name:       "pipeline failure is hidden",
			body:       `{"text": "hello"}`,
			pipeErr:    errors.New("languagetool: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]interface{}{"error": MsgInternal},
			wantInput:  []string{"hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipe := &fakePipeline{err: tt.pipeErr}
			h := &APIHandler{Pipeline: pipe, Logger: quietLogger()}

			req := httptest.NewRequest(http.MethodPost, "/correct", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.Correct(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, decode(t, rec))
			assert.Equal(t, tt.wantInput, pipe.got)
		})
	}
}

func TestCorrectBodyTooLarge(t *testing.T) {
	pipe := &fakePipeline{}
	h := &APIHandler{Pipeline: pipe, Logger: quietLogger()}

	big := `{"text": "` + strings.Repeat("a", MaxBodyBytes) + `"}`
	rec := httptest.NewRecorder()
	h.Correct(rec, httptest.NewRequest(http.MethodPost, "/correct", strings.NewReader(big)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, pipe.got)
}

func TestHealthAndStats(t *testing.T) {
	h := &APIHandler{
		Stats:       fakeStats{symspell.DictionaryStats{TermCount: 12, DeleteCount: 99, MaxFrequency: 7}},
		LexiconSize: 3,
	}

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"status": "ok", "terms": 12.0, "lexicon": 3.0}, decode(t, rec))

	rec = httptest.NewRecorder()
	h.GetStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	body := decode(t, rec)
	assert.Equal(t, 12.0, body["terms"])
	assert.Equal(t, 99.0, body["deletes"])
	assert.Equal(t, 3.0, body["lexicon"])

	rec = httptest.NewRecorder()
	(&APIHandler{}).GetStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSuggest(t *testing.T) {
	index := symspell.BuildFromEntries([]symspell.DictionaryEntry{
		{Term: "house", Frequency: 9000},
		{Term: "horse", Frequency: 3000},
	}, symspell.DefaultConfig())
	h := &SearchHandler{Corrector: symspell.NewCorrector(index, nil)}

	rec := httptest.NewRecorder()
	h.Suggest(rec, httptest.NewRequest(http.MethodGet, "/api/suggest?word=Hose&limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SuggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hose", resp.Word)
	assert.Equal(t, "House", resp.Correction)
	assert.Equal(t, string(symspell.ReasonSuggestion), resp.Reason)
	assert.Equal(t, []SuggestionResult{{Term: "house", Distance: 1, Frequency: 9000}}, resp.Suggestions)

	rec = httptest.NewRecorder()
	h.Suggest(rec, httptest.NewRequest(http.MethodGet, "/api/suggest", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]interface{}{"error": MsgNoWord}, decode(t, rec))
}

func TestParseIntParam(t *testing.T) {
	assert.Equal(t, 5, parseIntParam("", 5))
	assert.Equal(t, 7, parseIntParam("7", 5))
	assert.Equal(t, 5, parseIntParam("-1", 5))
	assert.Equal(t, 5, parseIntParam("x", 5))
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/textfix/internal/symspell"
)

// Client-facing messages
const (
	MsgRunning     = "Text correction server is running!"
	MsgNoText      = "No text provided"
	MsgEmptyText   = "Text is empty"
	MsgInternal    = "An error occurred while processing the request."
	MsgNoWord      = "Word required"
	MsgUnavailable = "Dictionary not loaded"
)

// MaxBodyBytes caps the size of a correction request.
const MaxBodyBytes = 1 << 20

// TextCorrector runs the correction pipeline.
type TextCorrector interface {
	CorrectText(ctx context.Context, text string) (string, error)
}

// StatsProvider reports index and lexicon sizes.
type StatsProvider interface {
	Stats() symspell.DictionaryStats
}

// APIHandler handles the correction endpoints
type APIHandler struct {
	Pipeline    TextCorrector
	Stats       StatsProvider
	LexiconSize int
	Logger      *slog.Logger
}

// CorrectRequest is the body of POST /correct.
type CorrectRequest struct {
	Text *string `json:"text"`
}

// CorrectResponse is the success body of POST /correct.
type CorrectResponse struct {
	CorrectedText string `json:"corrected_text"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Terms   int    `json:"terms"`
	Lexicon int    `json:"lexicon"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	Terms          int   `json:"terms"`
	Deletes        int   `json:"deletes"`
	TotalFrequency int64 `json:"total_frequency"`
	MaxFrequency   int64 `json:"max_frequency"`
	MaxTermLength  int   `json:"max_term_length"`
	BuildTimeMs    int64 `json:"build_time_ms"`
	Lexicon        int   `json:"lexicon"`
}

// Home confirms the server is up
func (h *APIHandler) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": MsgRunning})
}

// Correct runs the spelling and grammar passes over the posted text
func (h *APIHandler) Correct(w http.ResponseWriter, r *http.Request) {
	var req CorrectRequest
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			h.logger().Debug("invalid correction request", "error", err)
		}
		writeError(w, http.StatusBadRequest, MsgNoText)
		return
	}
	if req.Text == nil {
		writeError(w, http.StatusBadRequest, MsgNoText)
		return
	}

	text := strings.TrimSpace(*req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, MsgEmptyText)
		return
	}

	corrected, err := h.Pipeline.CorrectText(r.Context(), text)
	if err != nil {
		h.logger().Error("correction failed", "error", err, "length", len(text))
		writeError(w, http.StatusInternalServerError, MsgInternal)
		return
	}

	writeJSON(w, http.StatusOK, CorrectResponse{CorrectedText: corrected})
}

// Health reports readiness and dictionary sizes
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Lexicon: h.LexiconSize}
	if h.Stats != nil {
		resp.Terms = h.Stats.Stats().TermCount
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetStats returns spelling index statistics
func (h *APIHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if h.Stats == nil {
		writeError(w, http.StatusServiceUnavailable, MsgUnavailable)
		return
	}
	stats := h.Stats.Stats()
	writeJSON(w, http.StatusOK, StatsResponse{
		Terms:          stats.TermCount,
		Deletes:        stats.DeleteCount,
		TotalFrequency: stats.TotalFrequency,
		MaxFrequency:   stats.MaxFrequency,
		MaxTermLength:  stats.MaxTermLength,
		BuildTimeMs:    stats.BuildTimeMs,
		Lexicon:        h.LexiconSize,
	})
}

func (h *APIHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

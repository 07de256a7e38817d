// Package pipeline runs the two correction passes over a paragraph:
// per-word spelling correction, then grammar correction of the result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/textfix/internal/grammar"
	"github.com/textfix/internal/normalize"
	"github.com/textfix/internal/observability"
)

// DefaultGrammarTimeout bounds the grammar pass.
const DefaultGrammarTimeout = 10 * time.Second

// Result is the outcome of one pipeline run.
type Result struct {
	Original       string
	Spelled        string
	Corrected      string
	WordsChanged   int
	GrammarMatches int
	Duration       time.Duration
}

// Pipeline is safe for concurrent use when its speller and engine are.
type Pipeline struct {
	speller normalize.WordCorrector
	engine  grammar.Engine
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithGrammarTimeout bounds each grammar call. Zero disables the bound.
func WithGrammarTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics records spelling and grammar metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New creates a pipeline. A nil engine skips the grammar pass.
func New(speller normalize.WordCorrector, engine grammar.Engine, opts ...Option) *Pipeline {
	if engine == nil {
		engine = grammar.Noop{}
	}
	p := &Pipeline{
		speller: speller,
		engine:  engine,
		timeout: DefaultGrammarTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CorrectSpelling runs only the spelling pass.
func (p *Pipeline) CorrectSpelling(text string) string {
	return normalize.CorrectSpelling(text, p.speller)
}

// CorrectText runs both passes and returns the final text.
func (p *Pipeline) CorrectText(ctx context.Context, text string) (string, error) {
	res, err := p.Process(ctx, text)
	if err != nil {
		return "", err
	}
	return res.Corrected, nil
}

// Process runs both passes and reports the intermediate text. The grammar
// engine sees the spelling pass output; its errors are returned as is,
// wrapped, with no retry.
func (p *Pipeline) Process(ctx context.Context, text string) (Result, error) {
	start := time.Now()
	res := Result{Original: text}

	tokens, changed := normalize.CorrectTokens(normalize.Tokenize(text), p.speller)
	res.Spelled = normalize.Reassemble(tokens)
	res.WordsChanged = changed
	if p.metrics != nil {
		p.metrics.WordsCorrected.Add(float64(changed))
	}

	gctx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		gctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	grammarStart := time.Now()
	matches, err := p.engine.Check(gctx, res.Spelled)
	if p.metrics != nil {
		p.metrics.GrammarDuration.Observe(time.Since(grammarStart).Seconds())
	}
	if err != nil {
		if p.metrics != nil {
			p.metrics.GrammarErrors.Inc()
		}
		return res, fmt.Errorf("grammar check: %w", err)
	}

	res.Corrected = grammar.ApplyMatches(res.Spelled, matches)
	res.GrammarMatches = len(matches)
	res.Duration = time.Since(start)

	p.logger.Debug("text corrected",
		"words_changed", res.WordsChanged,
		"grammar_matches", res.GrammarMatches,
		"duration_ms", res.Duration.Milliseconds())
	return res, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/textfix/internal/config"
	"github.com/textfix/internal/customdict"
	"github.com/textfix/internal/db"
	"github.com/textfix/internal/debug"
	"github.com/textfix/internal/grammar"
	"github.com/textfix/internal/lexicon"
	"github.com/textfix/internal/senses"
	"github.com/textfix/internal/symspell"
)

// resources are the read-only structures built once at startup.
type resources struct {
	lexicon   *lexicon.Lexicon
	index     *symspell.SymSpell
	stats     symspell.DictionaryStats
	oracle    *senses.Index
	corrector *symspell.Corrector
}

// loadResources reads every data source concurrently and builds the
// spelling index. Only a missing or unusable frequency dictionary is fatal.
func loadResources(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*resources, error) {
	verbose := logger.Enabled(ctx, slog.LevelDebug)
	debug.Header(logger, verbose, "load dictionaries")
	defer debug.Footer(logger, verbose, "load dictionaries")
	done := debug.Timing(logger, true, "load dictionaries")
	defer done()
	debug.Output(logger, verbose, "lexicon=%q frequency=%q dsn_set=%t wordnet=%q redis=%q",
		cfg.Dictionary.LexiconPath, cfg.Dictionary.FrequencyPath, cfg.Dictionary.FrequencyDSN != "",
		cfg.Dictionary.WordNetDir, cfg.Redis.Addr)

	var (
		lex         *lexicon.Lexicon
		entries     []symspell.DictionaryEntry
		oracle      *senses.Index
		customTerms []string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lex = lexicon.LoadOrEmpty(cfg.Dictionary.LexiconPath, logger)
		return nil
	})

	g.Go(func() error {
		var err error
		entries, err = loadFrequencies(gctx, cfg, logger)
		return err
	})

	if cfg.Dictionary.WordNetDir != "" {
		g.Go(func() error {
			idx, err := senses.Load(cfg.Dictionary.WordNetDir)
			if err != nil {
				logger.Warn("wordnet unavailable, continuing without it", "dir", cfg.Dictionary.WordNetDir, "error", err)
				return nil
			}
			logger.Info("wordnet loaded", "dir", cfg.Dictionary.WordNetDir, "lemmas", idx.Len())
			oracle = idx
			return nil
		})
	}

	if cfg.Redis.Addr != "" {
		g.Go(func() error {
			terms, err := loadCustomTerms(gctx, cfg.Redis)
			if err != nil {
				logger.Warn("custom terms unavailable, continuing without them", "addr", cfg.Redis.Addr, "error", err)
				return nil
			}
			logger.Info("custom terms loaded", "count", len(terms))
			customTerms = terms
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	symCfg := symspell.DefaultConfig()
	symCfg.MaxEditDistance = cfg.Dictionary.MaxEditDistance
	symCfg.PrefixLength = cfg.Dictionary.PrefixLength

	domain := symspell.DomainEntries(symspell.DefaultDomainTerms, symspell.DomainTermFrequency)
	domain = append(domain, symspell.DomainEntries(customTerms, symspell.DomainTermFrequency)...)

	index, stats, err := symspell.Build(symCfg, entries, domain)
	if err != nil {
		return nil, err
	}
	logger.Info("spelling index built",
		"terms", stats.TermCount,
		"deletes", stats.DeleteCount,
		"build_ms", stats.BuildTimeMs)

	var opts []symspell.CorrectorOption
	if oracle != nil {
		opts = append(opts, symspell.WithSenseOracle(oracle))
	}

	return &resources{
		lexicon:   lex,
		index:     index,
		stats:     stats,
		oracle:    oracle,
		corrector: symspell.NewCorrector(index, lex, opts...),
	}, nil
}

// loadFrequencies reads the frequency table from Postgres when a DSN is
// configured, otherwise from the frequency file.
func loadFrequencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]symspell.DictionaryEntry, error) {
	if cfg.Dictionary.FrequencyDSN == "" {
		entries, err := symspell.LoadFrequencyFile(cfg.Dictionary.FrequencyPath)
		if err != nil {
			return nil, err
		}
		logger.Info("frequency dictionary loaded", "path", cfg.Dictionary.FrequencyPath, "entries", len(entries))
		return entries, nil
	}

	conn, err := db.NewConnection(ctx, cfg.Dictionary.FrequencyDSN)
	if err != nil {
		return nil, &symspell.ConfigError{Path: cfg.Dictionary.FrequencyTable, Reason: "connecting to frequency database", Err: err}
	}
	defer conn.Close()

	builder := symspell.NewDictionaryBuilder(conn.DB, symspell.DefaultConfig(), cfg.Dictionary.FrequencyTable)
	entries, err := builder.LoadEntries(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("frequency dictionary loaded", "table", cfg.Dictionary.FrequencyTable, "entries", len(entries))
	return entries, nil
}

func newRedisClient(rc config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})
}

func loadCustomTerms(ctx context.Context, rc config.RedisConfig) ([]string, error) {
	client := newRedisClient(rc)
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return customdict.NewWithKey(client, rc.Key).All(ctx)
}

// newGrammarEngine returns the LanguageTool client, or a pass-through
// engine when grammar correction is disabled.
func newGrammarEngine(gc config.GrammarConfig) grammar.Engine {
	if !gc.Enabled {
		return grammar.Noop{}
	}
	timeout := gc.Timeout
	if timeout <= 0 {
		timeout = grammar.DefaultTimeout
	}
	return grammar.NewLanguageTool(gc.URL,
		grammar.WithLanguage(gc.Language),
		grammar.WithRateLimit(gc.RateLimit, gc.Burst),
		grammar.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
}

func describeEngine(gc config.GrammarConfig) string {
	if !gc.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("languagetool %s (%s)", gc.URL, gc.Language)
}

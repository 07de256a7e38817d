package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/textfix/internal/config"
	"github.com/textfix/internal/customdict"
	"github.com/textfix/internal/observability"
	"github.com/textfix/internal/pipeline"
	"github.com/textfix/internal/web"
)

// app carries what every subcommand shares.
type app struct {
	configFile string
	overrides  overrides
	cfg        *config.Config
	logger     *slog.Logger
	stderr     io.Writer
}

// overrides are flag values applied on top of the loaded configuration.
type overrides struct {
	lexicon   string
	frequency string
	wordnet   string
	noGrammar bool
	logLevel  string
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr}

	// Create root command
	rootCmd := &cobra.Command{
		Use:           "textfix",
		Short:         "Spelling and grammar correction service",
		Long:          `Corrects the spelling of each word against a frequency dictionary, then applies grammar corrections from a LanguageTool server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "YAML configuration file")
	flags.StringVar(&a.overrides.lexicon, "lexicon", "", "lexicon CSV path (overrides LEXICON_PATH)")
	flags.StringVar(&a.overrides.frequency, "frequency", "", "frequency dictionary path (overrides FREQUENCY_PATH)")
	flags.StringVar(&a.overrides.wordnet, "wordnet", "", "WordNet dict directory (overrides WORDNET_DIR)")
	flags.BoolVar(&a.overrides.noGrammar, "no-grammar", false, "skip the grammar pass")
	flags.StringVar(&a.overrides.logLevel, "log-level", "", "debug, info, warn or error")

	// Add subcommands
	rootCmd.AddCommand(a.createServeCmd())
	rootCmd.AddCommand(a.createCorrectCmd())
	rootCmd.AddCommand(a.createLookupCmd())
	rootCmd.AddCommand(a.createStatsCmd())
	rootCmd.AddCommand(a.createTermsCmd())

	return rootCmd
}

// load reads .env, the config file and the environment, then applies flags.
func (a *app) load() error {
	if err := config.LoadEnv(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := config.Load(a.configFile)
	if err != nil {
		a.reportError(err)
		return err
	}

	if a.overrides.lexicon != "" {
		cfg.Dictionary.LexiconPath = a.overrides.lexicon
	}
	if a.overrides.frequency != "" {
		cfg.Dictionary.FrequencyPath = a.overrides.frequency
		cfg.Dictionary.FrequencyDSN = ""
	}
	if a.overrides.wordnet != "" {
		cfg.Dictionary.WordNetDir = a.overrides.wordnet
	}
	if a.overrides.noGrammar {
		cfg.Grammar.Enabled = false
	}
	if a.overrides.logLevel != "" {
		cfg.Log.Level = a.overrides.logLevel
	}

	a.cfg = cfg
	a.logger = cfg.Log.NewLogger(a.stderr)
	slog.SetDefault(a.logger)
	return nil
}

// reportError logs err before the process exits non-zero.
func (a *app) reportError(err error) {
	logger := a.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(a.stderr, nil))
	}
	logger.Error("fatal", "error", err)
}

// createServeCmd creates the HTTP server command
func (a *app) createServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP correction server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if host != "" {
				a.cfg.Server.Host = host
			}
			if port != 0 {
				a.cfg.Server.Port = port
			}

			res, err := loadResources(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				a.reportError(err)
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := observability.NewMetrics(reg)
			metrics.DictionaryTerms.Set(float64(res.stats.TermCount))
			metrics.LexiconWords.Set(float64(res.lexicon.Len()))

			pipe := pipeline.New(res.corrector, newGrammarEngine(a.cfg.Grammar),
				pipeline.WithGrammarTimeout(a.cfg.Grammar.Timeout),
				pipeline.WithLogger(a.logger),
				pipeline.WithMetrics(metrics))

			webConfig := web.DefaultConfig()
			webConfig.Server.Host = a.cfg.Server.Host
			webConfig.Server.Port = a.cfg.Server.Port
			webConfig.Auth.APIKey = a.cfg.Server.APIKey

			server, err := web.NewServer(webConfig, web.Services{
				Pipeline:    pipe,
				Corrector:   res.corrector,
				Stats:       res.corrector,
				LexiconSize: res.lexicon.Len(),
				Metrics:     metrics,
				Gatherer:    reg,
			}, a.logger)
			if err != nil {
				a.reportError(err)
				return err
			}

			a.logger.Info("server configured",
				"addr", server.Addr(),
				"grammar", describeEngine(a.cfg.Grammar),
				"lexicon_words", res.lexicon.Len(),
				"wordnet", res.oracle != nil)

			if err := server.Start(); err != nil {
				a.reportError(err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides WEB_HOST)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides WEB_PORT)")
	return cmd
}

// createCorrectCmd corrects text from arguments or stdin
func (a *app) createCorrectCmd() *cobra.Command {
	var spellingOnly bool

	cmd := &cobra.Command{
		Use:   "correct [text...]",
		Short: "Correct text given as arguments or on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(bufio.NewReader(cmd.InOrStdin()))
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = string(data)
			}
			text = strings.TrimSpace(text)
			if text == "" {
				return fmt.Errorf("no text provided")
			}

			res, err := loadResources(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}

			pipe := pipeline.New(res.corrector, newGrammarEngine(a.cfg.Grammar),
				pipeline.WithGrammarTimeout(a.cfg.Grammar.Timeout),
				pipeline.WithLogger(a.logger))

			if spellingOnly {
				fmt.Fprintln(cmd.OutOrStdout(), pipe.CorrectSpelling(text))
				return nil
			}

			out, err := pipe.CorrectText(cmd.Context(), text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&spellingOnly, "spelling-only", false, "print the spelling pass output only")
	return cmd
}

// createLookupCmd shows ranked candidates for words
func (a *app) createLookupCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "lookup [word...]",
		Short: "Show spelling candidates for words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadResources(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, word := range args {
				result := res.corrector.CorrectToken(word)
				fmt.Fprintf(w, "%s\t-> %s\t(%s)\n", word, result.Corrected, result.Reason)
				for _, s := range res.corrector.LookupSuggestions(word, limit) {
					fmt.Fprintf(w, "\t%s\td=%d\tfreq=%d\n", s.Term, s.Distance, s.Frequency)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "maximum suggestions per word")
	return cmd
}

// createStatsCmd prints dictionary statistics
func (a *app) createStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print dictionary statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadResources(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Lexicon words:     %d\n", res.lexicon.Len())
			fmt.Fprintf(out, "Dictionary terms:  %d\n", res.stats.TermCount)
			fmt.Fprintf(out, "Delete entries:    %d\n", res.stats.DeleteCount)
			fmt.Fprintf(out, "Max frequency:     %d\n", res.stats.MaxFrequency)
			fmt.Fprintf(out, "Longest term:      %d\n", res.stats.MaxTermLength)
			fmt.Fprintf(out, "Build time:        %dms\n", res.stats.BuildTimeMs)
			if res.oracle != nil {
				fmt.Fprintf(out, "WordNet lemmas:    %d\n", res.oracle.Len())
			}
			return nil
		},
	}
}

// createTermsCmd manages the Redis domain-term set
func (a *app) createTermsCmd() *cobra.Command {
	termsCmd := &cobra.Command{
		Use:   "terms",
		Short: "Manage custom domain terms stored in Redis",
	}

	withDict := func(run func(ctx context.Context, dict *customdict.CustomDict, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if a.cfg.Redis.Addr == "" {
				return fmt.Errorf("REDIS_ADDR is not configured")
			}
			client := newRedisClient(a.cfg.Redis)
			defer client.Close()
			return run(cmd.Context(), customdict.NewWithKey(client, a.cfg.Redis.Key), args)
		}
	}

	termsCmd.AddCommand(&cobra.Command{
		Use:   "add [word...]",
		Short: "Add domain terms",
		Args:  cobra.MinimumNArgs(1),
		RunE: withDict(func(ctx context.Context, dict *customdict.CustomDict, args []string) error {
			n, err := dict.Add(ctx, args...)
			if err != nil {
				return err
			}
			fmt.Fprintf(termsCmd.OutOrStdout(), "added %d term(s)\n", n)
			return nil
		}),
	})

	termsCmd.AddCommand(&cobra.Command{
		Use:   "remove [word...]",
		Short: "Remove domain terms",
		Args:  cobra.MinimumNArgs(1),
		RunE: withDict(func(ctx context.Context, dict *customdict.CustomDict, args []string) error {
			n, err := dict.Remove(ctx, args...)
			if err != nil {
				return err
			}
			fmt.Fprintf(termsCmd.OutOrStdout(), "removed %d term(s)\n", n)
			return nil
		}),
	})

	termsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List domain terms",
		RunE: withDict(func(ctx context.Context, dict *customdict.CustomDict, args []string) error {
			words, err := dict.All(ctx)
			if err != nil {
				return err
			}
			for _, w := range words {
				fmt.Fprintln(termsCmd.OutOrStdout(), w)
			}
			return nil
		}),
	})

	return termsCmd
}

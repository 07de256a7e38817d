package symspell

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/edsrzf/mmap-go"
)

// DefaultDomainTerms are common words seeded with DomainTermFrequency so they
// win ties against rarer dictionary entries at the same edit distance.
var DefaultDomainTerms = []string{"machine", "learning", "not", "like", "do"}

// DomainTermFrequency is the weight injected for domain terms.
const DomainTermFrequency int64 = 100000

// LoadFrequencyFile reads a frequency table of (term, count) lines.
// Columns are separated by whitespace or a comma; lines whose count does not
// parse are skipped. A missing, unreadable or entry-less file is a ConfigError.
func LoadFrequencyFile(path string) ([]DictionaryEntry, error) {
	if path == "" {
		return nil, &ConfigError{Reason: "frequency dictionary path cannot be empty"}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "opening frequency dictionary", Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "reading frequency dictionary", Err: err}
	}
	if info.Size() == 0 {
		return nil, &ConfigError{Path: path, Reason: "frequency dictionary is empty"}
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "mapping frequency dictionary", Err: err}
	}
	defer data.Unmap()

	entries, err := ParseFrequencies(bytes.NewReader(data))
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
			return nil, cfgErr
		}
		return nil, &ConfigError{Path: path, Reason: "parsing frequency dictionary", Err: err}
	}
	return entries, nil
}

// ParseFrequencies parses (term, count) lines from r.
func ParseFrequencies(r io.Reader) ([]DictionaryEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var entries []DictionaryEntry
	for scanner.Scan() {
		fields := strings.FieldsFunc(scanner.Text(), func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		if len(fields) < 2 {
			continue // Skip invalid lines
		}
		count, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || count < 0 {
			continue // Skip invalid counts, including a header row
		}
		entries = append(entries, DictionaryEntry{Term: fields[0], Frequency: count})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &ConfigError{Reason: "frequency dictionary has no valid entries"}
	}
	return entries, nil
}

// DictionaryBuilder loads frequency entries from a Postgres table.
type DictionaryBuilder struct {
	db     *sql.DB
	config *Config
	table  string
}

// NewDictionaryBuilder creates a new dictionary builder reading from table
// (default "word_frequency") with columns term and count.
func NewDictionaryBuilder(db *sql.DB, config *Config, table string) *DictionaryBuilder {
	if config == nil {
		config = DefaultConfig()
	}
	if table == "" {
		table = "word_frequency"
	}
	return &DictionaryBuilder{
		db:     db,
		config: config,
		table:  table,
	}
}

// query returns the extraction statement for the configured table.
func (b *DictionaryBuilder) query() string {
	return fmt.Sprintf(`
		SELECT LOWER(TRIM(term)) AS term, SUM(count) AS freq
		FROM %s
		WHERE term IS NOT NULL AND TRIM(term) != '' AND count >= $1
		GROUP BY 1
		ORDER BY freq DESC
	`, quoteIdentifier(b.table))
}

// LoadEntries extracts all terms and frequencies. Failures are ConfigErrors
// since the service cannot run without its frequency dictionary.
func (b *DictionaryBuilder) LoadEntries(ctx context.Context) ([]DictionaryEntry, error) {
	rows, err := b.db.QueryContext(ctx, b.query(), b.config.MinFrequency)
	if err != nil {
		return nil, &ConfigError{Path: b.table, Reason: "querying frequency table", Err: err}
	}
	defer rows.Close()

	var entries []DictionaryEntry
	for rows.Next() {
		var entry DictionaryEntry
		if err := rows.Scan(&entry.Term, &entry.Frequency); err != nil {
			return nil, &ConfigError{Path: b.table, Reason: "scanning frequency row", Err: err}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &ConfigError{Path: b.table, Reason: "reading frequency table", Err: err}
	}
	if len(entries) == 0 {
		return nil, &ConfigError{Path: b.table, Reason: "frequency table has no entries"}
	}
	return entries, nil
}

// quoteIdentifier quotes a possibly schema-qualified table name.
func quoteIdentifier(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}

// DomainEntries weights terms with DomainTermFrequency.
func DomainEntries(terms []string, frequency int64) []DictionaryEntry {
	entries := make([]DictionaryEntry, 0, len(terms))
	for _, term := range terms {
		if strings.TrimSpace(term) == "" {
			continue
		}
		entries = append(entries, DictionaryEntry{Term: term, Frequency: frequency})
	}
	return entries
}

// BuildFromEntries builds a dictionary from pre-provided entries.
func BuildFromEntries(entries []DictionaryEntry, config *Config) *SymSpell {
	if config == nil {
		config = DefaultConfig()
	}
	symspell := New(config)
	symspell.AddTerms(entries)
	return symspell
}

// Build validates config, indexes the bulk entries and then inserts the
// domain entries one by one.
func Build(config *Config, entries []DictionaryEntry, domain []DictionaryEntry) (*SymSpell, DictionaryStats, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, DictionaryStats{}, err
	}

	startTime := time.Now()
	symspell := BuildFromEntries(entries, config)
	for _, entry := range domain {
		symspell.Insert(entry.Term, entry.Frequency)
	}

	stats := symspell.Stats()
	stats.BuildTimeMs = time.Since(startTime).Milliseconds()
	return symspell, stats, nil
}

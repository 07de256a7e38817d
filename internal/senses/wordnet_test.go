package senses

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const indexNoun = `  1 This software and database is being provided to you, the LICENSEE, by
  2 Princeton University under the following license.
box n 3 2 @ ~ 3 0 02883344 13771404 13772125
church n 3 3 @ ~ + 3 2 08081668 04014297 01227190
man n 11 5 @ ~ #m + %p 11 8 10287213 10289039
ice_cream n 1 2 @ ~ 1 1 07614500
`

const indexVerb = `run v 41 4 @ ~ $ + 41 28 01926311 01925708
be v 13 4 @ ~ $ + 13 11 02604760 02616386
`

const indexAdj = `big a 13 4 ! & ^ = 13 8 01382086 01384438
`

const verbExc = `ran run
was be
`

func writeWordNet(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.noun": indexNoun,
		"index.verb": indexVerb,
		"index.adj":  indexAdj,
		"index.adv":  "",
		"verb.exc":   verbExc,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	idx, err := Load(writeWordNet(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if idx.Len() != 7 {
		t.Errorf("Len() = %d, want 7", idx.Len())
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load() on a directory without index files should fail")
	}
}

func TestHasSense(t *testing.T) {
	idx, err := Load(writeWordNet(t))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		word string
		want bool
	}{
		{"church", true},
		{"Church", true},
		{"churches", true}, // ches -> ch
		{"boxes", true},    // xes -> x
		{"men", true},      // men -> man
		{"running", false}, // ing -> "" gives runn
		{"runs", true},
		{"ran", true}, // exception list
		{"was", true},
		{"bigger", false}, // doubled consonant is not a detachment rule
		{"big", true},
		{"ice cream", true},
		{"licensee", false},
		{"chruch", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := idx.HasSense(tt.word); got != tt.want {
				t.Errorf("HasSense(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestMorphy(t *testing.T) {
	idx := NewIndex()
	idx.AddLemma(Verb, "use")
	idx.AddLemma(Verb, "us")
	idx.AddLemma(Noun, "use")

	if got := idx.Morphy("uses", Verb); !reflect.DeepEqual(got, []string{"use", "us"}) {
		t.Errorf("Morphy(uses, verb) = %v, want [use us]", got)
	}
	if got := idx.Morphy("used", Verb); !reflect.DeepEqual(got, []string{"use", "us"}) {
		t.Errorf("Morphy(used, verb) = %v, want [use us]", got)
	}
	if got := idx.Morphy("used", Adverb); got != nil {
		t.Errorf("Morphy(used, adv) = %v, want nil", got)
	}
}

func TestNilIndex(t *testing.T) {
	var idx *Index
	if idx.HasSense("anything") {
		t.Error("nil Index should report no senses")
	}
}

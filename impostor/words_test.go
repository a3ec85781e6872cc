/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	want := []string{"General", "Animals", "Movies", "Objects", "Sports", "Food", "Technology"}
	if got := c.Names(); !slices.Equal(got, want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}

	for _, name := range want {
		pairs, ok := c.Pairs(name)
		if !ok || len(pairs) == 0 {
			t.Errorf("category %s is empty", name)
		}

		for _, p := range pairs {
			if strings.EqualFold(p.Word, p.Hint) {
				t.Errorf("%s: word and hint are the same (%q)", name, p.Word)
			}
		}
	}
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "no categories",
			yaml: "categories: []\n",
			want: ErrEmptyCatalog,
		},
		{
			name: "category without pairs",
			yaml: "categories:\n  - name: Empty\n    pairs: []\n",
			want: ErrEmptyCategory,
		},
		{
			name: "pair without hint",
			yaml: "categories:\n  - name: Half\n    pairs:\n      - {word: Beach}\n",
		},
		{
			name: "unnamed category",
			yaml: "categories:\n  - pairs:\n      - {word: Beach, hint: Sand}\n",
		},
		{
			name: "duplicate category",
			yaml: "categories:\n  - name: A\n    pairs: [{word: x, hint: y}]\n  - name: A\n    pairs: [{word: x, hint: y}]\n",
		},
		{
			name: "not yaml",
			yaml: "categories: [\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog(strings.NewReader(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCatalogResolve(t *testing.T) {
	c := testCatalog(t)

	if got := c.Resolve("Food"); got != "Food" {
		t.Errorf("Resolve(Food) = %q", got)
	}
	if got := c.Resolve("Unknown"); got != DefaultCategory {
		t.Errorf("Resolve(Unknown) = %q, want %q", got, DefaultCategory)
	}

	noGeneral, err := ParseCatalog(strings.NewReader("categories:\n  - name: Food\n    pairs: [{word: Pizza, hint: Oven}]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := noGeneral.Resolve("Unknown"); got != "Food" {
		t.Errorf("Resolve without a default category = %q, want Food", got)
	}
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	if err != nil || len(c.Names()) == 0 {
		t.Fatalf("LoadCatalog(\"\") = %v, %v", c, err)
	}

	path := filepath.Join(t.TempDir(), "words.yaml")
	if err := os.WriteFile(path, []byte(testWords), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err = LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if got := c.Names(); !slices.Equal(got, []string{"General", "Food"}) {
		t.Errorf("categories = %v", got)
	}

	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
}

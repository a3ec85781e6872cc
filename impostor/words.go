/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"
)

//go:embed words.yaml
var defaultWords []byte

// DefaultCategory is used when a room asks for a category the catalogue
// does not know about.
const DefaultCategory = "General"

var (
	ErrEmptyCatalog  = errors.New("word catalogue has no categories")
	ErrEmptyCategory = errors.New("category has no word pairs")
)

// WordPair is one round's secret: civilians get Word, impostors get Hint.
type WordPair struct {
	Word string `mapstructure:"word"`
	Hint string `mapstructure:"hint"`
}

type category struct {
	Name  string     `mapstructure:"name"`
	Pairs []WordPair `mapstructure:"pairs"`
}

// Catalog holds the word pairs for every category, in file order.
type Catalog struct {
	names []string
	pairs map[string][]WordPair
}

// DefaultCatalog returns the catalogue compiled into the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(bytes.NewReader(defaultWords))
	if err != nil {
		panic("embedded word catalogue is invalid: " + err.Error())
	}

	return c
}

// LoadCatalog reads a YAML catalogue from path, or returns the embedded
// one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening word catalogue: %w", err)
	}
	defer f.Close()

	return ParseCatalog(f)
}

// ParseCatalog decodes a YAML catalogue of the form
//
//	categories:
//	  - name: General
//	    pairs:
//	      - {word: Beach, hint: Sand}
func ParseCatalog(r io.Reader) (*Catalog, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("reading word catalogue: %w", err)
	}

	var cats []category
	if err := v.UnmarshalKey("categories", &cats); err != nil {
		return nil, fmt.Errorf("decoding word catalogue: %w", err)
	}

	if len(cats) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		names: make([]string, 0, len(cats)),
		pairs: make(map[string][]WordPair, len(cats)),
	}

	for _, cat := range cats {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, errors.New("word catalogue has a category without a name")
		}

		if _, dup := c.pairs[name]; dup {
			return nil, fmt.Errorf("duplicate category %q", name)
		}

		pairs := make([]WordPair, 0, len(cat.Pairs))
		for _, p := range cat.Pairs {
			p.Word = strings.TrimSpace(p.Word)
			p.Hint = strings.TrimSpace(p.Hint)
			if p.Word == "" || p.Hint == "" {
				return nil, fmt.Errorf("category %q: word pair needs both a word and a hint", name)
			}
			pairs = append(pairs, p)
		}

		if len(pairs) == 0 {
			return nil, fmt.Errorf("category %q: %w", name, ErrEmptyCategory)
		}

		c.names = append(c.names, name)
		c.pairs[name] = pairs
	}

	return c, nil
}

// Names lists the categories in catalogue order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Pairs returns the word pairs of a category.
func (c *Catalog) Pairs(name string) ([]WordPair, bool) {
	p, ok := c.pairs[name]

	return p, ok
}

// Resolve maps a requested category onto one the catalogue has, falling
// back to DefaultCategory (or the first category) for unknown names.
func (c *Catalog) Resolve(name string) string {
	if _, ok := c.pairs[name]; ok {
		return name
	}

	if _, ok := c.pairs[DefaultCategory]; ok {
		return DefaultCategory
	}

	return c.names[0]
}

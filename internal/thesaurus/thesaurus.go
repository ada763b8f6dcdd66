// Package thesaurus provides the synonym lookup used to score reviews against
// vibes. Synonym lists are plain YAML so they can be edited without a rebuild;
// a default list is embedded in the binary.
package thesaurus

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed words.yaml
var defaultWords []byte

// Thesaurus maps lowercase words to their synonym lists.
// It is immutable after construction and safe for concurrent use.
type Thesaurus struct {
	words map[string][]string
}

// Default returns the Thesaurus built from the embedded word list.
func Default() (*Thesaurus, error) {
	t, err := Load(bytes.NewReader(defaultWords))
	if err != nil {
		return nil, fmt.Errorf("thesaurus.Default: %w", err)
	}
	return t, nil
}

// LoadFile reads a YAML word list from path.
func LoadFile(path string) (*Thesaurus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("thesaurus.LoadFile: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("thesaurus.LoadFile: %s: %w", path, err)
	}
	return t, nil
}

// Load parses a YAML document of the form `word: [synonym, ...]`.
// Keys are lowercased; a word listed twice has its synonyms merged.
func Load(r io.Reader) (*Thesaurus, error) {
	var raw map[string][]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	words := make(map[string][]string, len(raw))
	for word, syns := range raw {
		key := strings.ToLower(strings.TrimSpace(word))
		if key == "" {
			continue
		}
		words[key] = append(words[key], syns...)
	}
	return &Thesaurus{words: words}, nil
}

// Synonyms returns the synonym list for word, including the word itself.
// Unknown words yield an empty list and no error.
func (t *Thesaurus) Synonyms(ctx context.Context, word string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := strings.ToLower(strings.TrimSpace(word))
	syns, ok := t.words[key]
	if !ok {
		return []string{}, nil
	}

	out := make([]string, 0, len(syns)+1)
	out = append(out, key)
	out = append(out, syns...)
	return out, nil
}

// Len returns the number of words with synonym lists.
func (t *Thesaurus) Len() int {
	return len(t.words)
}

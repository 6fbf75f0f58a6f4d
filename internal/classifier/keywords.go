package classifier

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultKeywords []byte

// Keywords holds the three lookup tables the classifier matches against.
// Entries are stored lowercased.
type Keywords struct {
	Version  int      `yaml:"version"`
	Risk     []string `yaml:"risk"`
	Negative []string `yaml:"negative"`
	Positive []string `yaml:"positive"`
}

// DefaultKeywords returns the tables shipped with the binary
func DefaultKeywords() Keywords {
	kw, err := ParseKeywords(defaultKeywords)
	if err != nil {
		// the embedded document is covered by tests
		panic(fmt.Sprintf("embedded keywords: %v", err))
	}
	return kw
}

// LoadKeywords reads a keyword document from disk
func LoadKeywords(path string) (Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, fmt.Errorf("read keywords: %w", err)
	}
	kw, err := ParseKeywords(data)
	if err != nil {
		return Keywords{}, fmt.Errorf("%s: %w", path, err)
	}
	return kw, nil
}

// ParseKeywords decodes and normalizes a YAML keyword document
func ParseKeywords(data []byte) (Keywords, error) {
	var kw Keywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return Keywords{}, fmt.Errorf("parse keywords: %w", err)
	}
	if kw.Version < 1 {
		return Keywords{}, fmt.Errorf("parse keywords: version must be >= 1, got %d", kw.Version)
	}

	kw.Risk = normalize(kw.Risk)
	kw.Negative = normalize(kw.Negative)
	kw.Positive = normalize(kw.Positive)

	if err := kw.checkDisjoint(); err != nil {
		return Keywords{}, err
	}
	return kw, nil
}

func (kw Keywords) checkDisjoint() error {
	seen := make(map[string]string)
	tables := []struct {
		name  string
		words []string
	}{
		{"risk", kw.Risk},
		{"negative", kw.Negative},
		{"positive", kw.Positive},
	}
	for _, t := range tables {
		for _, w := range t.words {
			if other, ok := seen[w]; ok && other != t.name {
				return fmt.Errorf("keyword %q appears in both %s and %s tables", w, other, t.name)
			}
			seen[w] = t.name
		}
	}
	return nil
}

// normalize lowercases and trims entries, dropping blanks and duplicates
func normalize(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

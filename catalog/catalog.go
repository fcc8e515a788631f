// Package catalog holds the curated list of models used as the candidate pool for
// alternatives and recommendations.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelsYAML []byte

// Entry is one curated model
type Entry struct {
	ID       string   `yaml:"id" json:"id"`
	Family   string   `yaml:"family" json:"family"`
	Params   float64  `yaml:"params" json:"params"`
	UseCases []string `yaml:"use_cases" json:"useCases"`
}

type document struct {
	Models []Entry `yaml:"models"`
}

var entries []Entry

func init() {
	var err error
	entries, err = parse(modelsYAML)
	if err != nil {
		panic(err)
	}
}

func parse(data []byte) ([]Entry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse model catalog: %w", err)
	}
	seen := make(map[string]bool, len(doc.Models))
	for _, e := range doc.Models {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog entry with empty id")
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate catalog entry %s", e.ID)
		}
		seen[e.ID] = true
	}
	return doc.Models, nil
}

// Entries returns a copy of the catalog in file order
func Entries() []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.UseCases = slices.Clone(e.UseCases)
		out[i] = e
	}
	return out
}

// IDs returns the curated model ids in file order
func IDs() []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// Lookup finds an entry by id, ignoring case
func Lookup(id string) (Entry, bool) {
	for _, e := range entries {
		if strings.EqualFold(e.ID, id) {
			return e, true
		}
	}
	return Entry{}, false
}

// ForUseCase returns the ids tagged with the given use case
func ForUseCase(useCase string) []string {
	var ids []string
	for _, e := range entries {
		if slices.Contains(e.UseCases, useCase) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Suggest returns up to n catalog ids that fuzzily match query, closest first.
// Family matches that the fuzzy pass missed are appended after the ranked ones.
func Suggest(query string, n int) []string {
	query = strings.TrimSpace(query)
	if query == "" || n <= 0 {
		return nil
	}

	ranks := fuzzy.RankFindFold(query, IDs())
	sort.Sort(ranks)

	var out []string
	seen := map[string]bool{}
	for _, r := range ranks {
		out = append(out, r.Target)
		seen[r.Target] = true
	}

	term := strings.ToLower(query)
	for _, e := range entries {
		if !seen[e.ID] && strings.Contains(term, e.Family) {
			out = append(out, e.ID)
			seen[e.ID] = true
		}
	}

	if len(out) > n {
		out = out[:n]
	}
	return out
}

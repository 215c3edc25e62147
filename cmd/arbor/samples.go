package main

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/arbor/internal/datasource"
)

//go:embed samples/*.json
var sampleFS embed.FS

// sampleNames lists the embedded sample datasets, sorted for a stable
// picker order.
func sampleNames() []string {
	entries, err := sampleFS.ReadDir("samples")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

// sampleTitle turns a sample file name into a picker label.
func sampleTitle(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// loadSample parses an embedded sample dataset.
func loadSample(name string) (*datasource.RawNode, error) {
	data, err := sampleFS.ReadFile("samples/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown sample %q", name)
	}
	return datasource.ParseJSON(data)
}

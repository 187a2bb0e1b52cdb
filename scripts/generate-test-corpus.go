//go:build ignore

// Package main generates a synthetic city-services corpus for benchmarking.
// Usage: go run scripts/generate-test-corpus.go -docs 1000 -output testdata/bench
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

var (
	numDocs   = flag.Int("docs", 1000, "Number of documents to generate")
	docsPer   = flag.Int("per-file", 100, "Documents per corpus file")
	outputDir = flag.String("output", "testdata/bench", "Output directory")
	seed      = flag.Int64("seed", 42, "Random seed for reproducibility")
)

type document struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	SourceURL string `json:"source_url"`
	Category  string `json:"category"`
}

var services = []struct {
	name     string
	category string
}{
	{"Trash Collection", "sanitation"},
	{"Recycling Drop-off", "sanitation"},
	{"Residential Parking Permit", "transport"},
	{"Street Cleaning Schedule", "transport"},
	{"Public Library", "culture"},
	{"Community Pool", "recreation"},
	{"Dog Registration", "permits"},
	{"Building Permit", "permits"},
	{"Property Tax Payment", "finance"},
	{"Voter Registration", "civic"},
	{"Snow Removal", "sanitation"},
	{"Tree Trimming Request", "parks"},
}

var neighborhoods = []string{
	"Downtown", "Riverside", "Oak Hill", "Northgate", "Elm Park",
	"Harborview", "Westfield", "Cedar Grove",
}

var sentences = []string{
	"Service is available %s through %s from %dam to %dpm.",
	"Residents of %s can apply online or visit the service desk at city hall.",
	"Bring a valid photo ID and proof of residency in %s.",
	"Requests are typically processed within %d business days.",
	"The %s office is closed on public holidays.",
	"A fee of %d dollars applies for expedited processing.",
	"Schedule changes for the %s area are announced one week in advance.",
	"Call 311 for questions about %s services.",
}

var days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "creating output dir: %v\n", err)
		os.Exit(1)
	}

	fileIdx := 0
	for written := 0; written < *numDocs; {
		n := *docsPer
		if remaining := *numDocs - written; remaining < n {
			n = remaining
		}
		docs := make([]document, 0, n)
		for i := 0; i < n; i++ {
			docs = append(docs, generateDoc(rng, written+i))
		}

		path := filepath.Join(*outputDir, fmt.Sprintf("corpus-%04d.json", fileIdx))
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshaling: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "writing %s: %v\n", path, err)
			os.Exit(1)
		}

		written += n
		fileIdx++
	}

	fmt.Printf("Generated %d documents in %d files under %s\n", *numDocs, fileIdx, *outputDir)
}

func generateDoc(rng *rand.Rand, n int) document {
	svc := services[rng.Intn(len(services))]
	hood := neighborhoods[rng.Intn(len(neighborhoods))]

	content := fmt.Sprintf("%s in %s. ", svc.name, hood)
	for i := 0; i < 3+rng.Intn(4); i++ {
		content += fillSentence(rng, sentences[rng.Intn(len(sentences))], hood) + " "
	}

	return document{
		ID:        fmt.Sprintf("doc-%06d", n),
		Title:     fmt.Sprintf("%s (%s)", svc.name, hood),
		Content:   content,
		SourceURL: fmt.Sprintf("https://city.example.gov/services/%06d", n),
		Category:  svc.category,
	}
}

// fillSentence substitutes template verbs with plausible values. The
// templates mix string and int verbs, so substitution is positional.
func fillSentence(rng *rand.Rand, tmpl, hood string) string {
	args := []any{}
	for i := 0; i < len(tmpl)-1; i++ {
		if tmpl[i] != '%' {
			continue
		}
		switch tmpl[i+1] {
		case 's':
			if len(args) == 0 {
				args = append(args, hood)
			} else {
				args = append(args, days[rng.Intn(len(days))])
			}
		case 'd':
			args = append(args, 1+rng.Intn(14))
		}
	}
	return fmt.Sprintf(tmpl, args...)
}

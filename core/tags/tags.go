package tags

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Kind classifies a tag against the vocabularies.
type Kind int

const (
	Unknown Kind = iota
	Location
	Category
)

var (
	// "Plassering" is the marker the vocabulary file uses for location tags.
	locationLineRe = regexp.MustCompile(`^([a-zA-Z0-9]+)\s+:\s+Plassering:`)
	categoryLineRe = regexp.MustCompile(`^([a-zA-Z0-9]+)\s+`)
)

// Resolver classifies tags as location tags, category tags, or unknown.
type Resolver struct {
	locations  map[string]struct{}
	categories map[string]struct{}
}

// NewResolver builds a Resolver from explicit vocabularies.
func NewResolver(locations, categories []string) *Resolver {
	r := &Resolver{
		locations:  make(map[string]struct{}, len(locations)),
		categories: make(map[string]struct{}, len(categories)),
	}
	for _, tag := range locations {
		r.locations[tag] = struct{}{}
	}
	for _, tag := range categories {
		r.categories[tag] = struct{}{}
	}
	return r
}

// Load reads the vocabulary file. A line on the form "NAME : Plassering: ..."
// declares a location tag, any other "NAME ..." line declares a category tag.
// Blank lines are skipped; a line matching neither form is an error.
func Load(path string) (*Resolver, error) {
	if path == "" {
		return nil, fmt.Errorf("no tag vocabulary file configured")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tag vocabulary: %w", err)
	}
	defer f.Close()

	var locations, categories []string

	scanner := bufio.NewScanner(f)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := locationLineRe.FindStringSubmatch(line); m != nil {
			locations = append(locations, m[1])
			continue
		}
		if m := categoryLineRe.FindStringSubmatch(line); m != nil {
			categories = append(categories, m[1])
			continue
		}
		return nil, fmt.Errorf("%s: wrong format on line %d: %q", path, lineNumber, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading tag vocabulary: %w", err)
	}

	return NewResolver(locations, categories), nil
}

// Classify returns the Kind of the given tag.
func (r *Resolver) Classify(tag string) Kind {
	if _, ok := r.locations[tag]; ok {
		return Location
	}
	if _, ok := r.categories[tag]; ok {
		return Category
	}
	return Unknown
}

// IsLocation reports whether tag is a valid location tag.
func (r *Resolver) IsLocation(tag string) bool {
	return r.Classify(tag) == Location
}

// IsCategory reports whether tag is a valid category tag.
func (r *Resolver) IsCategory(tag string) bool {
	return r.Classify(tag) == Category
}

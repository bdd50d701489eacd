// Package config provides configuration structures for the fuzzy search service.
// It defines per-collection match settings and the server configuration.
package config

import (
	"strconv"
	"strings"
)

const (
	// DefaultMaxResults is the result cap used when a collection does not set one.
	DefaultMaxResults = 100
	// DefaultParallelThreshold is the candidate count from which matching is sharded across workers.
	DefaultParallelThreshold = 1000
)

// CollectionSettings contains the match defaults of one candidate collection.
// Individual match queries may override SmartCase and MaxResults.
type CollectionSettings struct {
	Name              string `json:"name" yaml:"name"`                             // Unique name for the collection
	SmartCase         bool   `json:"smart_case" yaml:"smart_case"`                 // Uppercase query letters must match exactly
	MaxResults        int    `json:"max_results" yaml:"max_results"`               // Default result cap (e.g., 100)
	ParallelThreshold int    `json:"parallel_threshold" yaml:"parallel_threshold"` // Collections smaller than this are matched on the calling goroutine
}

// Validate returns a list of problems with the settings. An empty list means they are valid.
func (settings *CollectionSettings) Validate() []string {
	var problems []string

	if strings.TrimSpace(settings.Name) == "" {
		problems = append(problems, "Collection name cannot be empty or whitespace-only")
	} else if strings.TrimSpace(settings.Name) != settings.Name {
		problems = append(problems, "Collection name cannot have leading or trailing whitespace")
	}
	if strings.ContainsAny(settings.Name, "/?#") {
		problems = append(problems, "Collection name cannot contain '/', '?' or '#'")
	}
	if settings.MaxResults < 0 {
		problems = append(problems, "max_results cannot be negative (got "+strconv.Itoa(settings.MaxResults)+")")
	}
	if settings.ParallelThreshold < 0 {
		problems = append(problems, "parallel_threshold cannot be negative (got "+strconv.Itoa(settings.ParallelThreshold)+")")
	}

	return problems
}

// ApplyDefaults applies default values to the collection settings
func (settings *CollectionSettings) ApplyDefaults() {
	if settings.MaxResults == 0 {
		settings.MaxResults = DefaultMaxResults
	}
	if settings.ParallelThreshold == 0 {
		settings.ParallelThreshold = DefaultParallelThreshold
	}
}

// Package api provides validation utilities for API request handling.
package api

import (
	"fmt"
	"strings"

	"github.com/gcbaptista/go-fuzzy-search/config"
)

// MaxCandidateLength is the longest candidate text accepted over HTTP.
const MaxCandidateLength = 4096

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateCollectionName validates a collection name parameter
func ValidateCollectionName(name string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if name == "" {
		result.AddError("name", "Collection name is required")
		return result
	}

	if strings.TrimSpace(name) != name {
		result.AddError("name", "Collection name cannot have leading or trailing whitespace")
		return result
	}

	return result
}

// ValidateCollectionSettings validates collection settings for creation
func ValidateCollectionSettings(settings *config.CollectionSettings) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if settings == nil {
		result.AddError("settings", "Collection settings are required")
		return result
	}

	if settings.Name == "" {
		result.AddError("name", "Collection name is required")
		return result
	}

	for _, problem := range settings.Validate() {
		result.AddError("settings", problem)
	}

	return result
}

// ValidateCandidates validates a candidate list before it replaces a snapshot.
// An empty list is valid and clears the collection.
func ValidateCandidates(texts []string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	for i, text := range texts {
		if len(text) > MaxCandidateLength {
			result.AddError(fmt.Sprintf("candidates[%d]", i),
				fmt.Sprintf("Candidate is %d bytes long, the limit is %d", len(text), MaxCandidateLength))
		}
	}

	return result
}

// ValidateMatchRequest validates the optional overrides of a match request
func ValidateMatchRequest(req *MatchRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if req.MaxResults != nil && *req.MaxResults < 0 {
		result.AddError("max_results", fmt.Sprintf("max_results cannot be negative (got %d)", *req.MaxResults))
	}

	return result
}

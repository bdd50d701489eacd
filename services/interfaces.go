package services

import (
	"context"
	"time"

	"github.com/gcbaptista/go-fuzzy-search/config"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

// HitResult represents a single matched candidate in the match results,
// including the matched byte offsets and the spans they form.
type HitResult struct {
	CandidateID int          `json:"candidate_id"`
	Text        string       `json:"text"`
	Score       float64      `json:"score"`
	Positions   []int        `json:"positions"` // Byte offsets of matched characters
	Ranges      []model.Span `json:"ranges"`    // Contiguous matched byte ranges, [start, end)
}

// MatchResult is the response to a single match query.
type MatchResult struct {
	Hits       []HitResult `json:"hits"`
	Total      int         `json:"total"`
	Candidates int         `json:"candidates"` // Size of the snapshot that was searched
	Cancelled  bool        `json:"cancelled"`  // True when the call was cut short and hits may be partial
	Took       int64       `json:"took"`       // milliseconds
	QueryId    string      `json:"query_id"`   // unique UUID for this match query
}

// MatchQuery describes one match call against a collection.
type MatchQuery struct {
	QueryString string
	SmartCase   *bool  // Optional: override the collection's smart case setting
	MaxResults  *int   // Optional: override the collection's result cap
	SessionID   string // Optional: a newer query with the same session cancels this one
	Synchronous bool   // Force matching on the calling goroutine
}

// CollectionStats summarizes a collection.
type CollectionStats struct {
	Name           string    `json:"name"`
	CandidateCount int       `json:"candidate_count"`
	Version        uint64    `json:"version"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CandidateLoader replaces the candidate snapshot of a collection
type CandidateLoader interface {
	SetCandidates(candidates []model.Candidate) uint64
}

// Matcher defines match operations on a collection
type Matcher interface {
	Match(ctx context.Context, query MatchQuery) (MatchResult, error)
}

// CollectionAccessor combines candidate loading and matching for one collection
type CollectionAccessor interface {
	CandidateLoader
	Matcher
	Settings() config.CollectionSettings
	Stats() CollectionStats
}

// CollectionManager manages the lifecycle of collections
type CollectionManager interface {
	CreateCollection(settings config.CollectionSettings) error
	GetCollection(name string) (CollectionAccessor, error)
	DeleteCollection(name string) error
	ListCollections() []string
	UpdateCollectionSettings(name string, settings config.CollectionSettings) error
	RenameCollection(oldName, newName string) error
}

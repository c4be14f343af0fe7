package models

import "time"

const (
	MaxTitleLen   = 60
	MaxSummaryLen = 145
	MaxNumberLen  = 45
)

// Document is the aggregate root of the registry: one normative act
// (resolution, ordinance) with its classification and relations.
type Document struct {
	ID            int            `json:"id"`
	Title         string         `json:"title"`
	Summary       string         `json:"summary"`
	Number        string         `json:"number"`
	Active        bool           `json:"active"`
	CreatedAt     time.Time      `json:"created_at"`
	Type          CatalogEntry   `json:"type"`
	Status        CatalogEntry   `json:"status"`
	Sector        CatalogEntry   `json:"sector"`
	ExecutingUnit *CatalogEntry  `json:"executing_unit,omitempty"`
	Keywords      []CatalogEntry `json:"keywords"`
	References    []DocumentRef  `json:"references"`
	ReferencedBy  []DocumentRef  `json:"referenced_by"`
	Attachments   []Attachment   `json:"attachments"`
}

// DocumentRef is a lightweight handle to a related document, used for
// both directions of the reference graph.
type DocumentRef struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Number string `json:"number"`
}

// DocumentSummary is the row shape returned by search. It carries the
// resolved catalog names so listings never touch the relation tables.
type DocumentSummary struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Number     string    `json:"number"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	TypeName   string    `json:"type"`
	StatusName string    `json:"status"`
	SectorName string    `json:"sector"`
}

// DocumentCommand carries the raw identifiers for a create or update.
// Catalog ids are resolved by the lifecycle service before any write.
type DocumentCommand struct {
	Title           string
	Summary         string
	Number          string
	Active          bool
	TypeID          int
	StatusID        int
	SectorID        int
	ExecutingUnitID *int
	KeywordIDs      []int
	ReferenceIDs    []int
}

// SearchFilter holds every optional predicate of document search.
// A zero field contributes nothing to the final query.
type SearchFilter struct {
	SearchTerm   string
	TitleTerm    string
	NumberTerm   string
	ExcludeTerms string
	TypeID       int
	SectorID     int
	StatusID     int
	DateFrom     *time.Time
	DateTo       *time.Time
	Limit        int
	Offset       int
}

// Page wraps one page of search results with the unpaginated total.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

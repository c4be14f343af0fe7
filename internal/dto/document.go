package dto

import (
	"io"
	"time"

	"digesto/internal/models"
)

// DocumentRequest is the transport shape of a create or update command.
type DocumentRequest struct {
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	Number          string `json:"number"`
	Active          *bool  `json:"active,omitempty"`
	TypeID          int    `json:"type_id"`
	StatusID        int    `json:"status_id"`
	SectorID        int    `json:"sector_id"`
	ExecutingUnitID *int   `json:"executing_unit_id,omitempty"`
	KeywordIDs      []int  `json:"keyword_ids"`
	ReferenceIDs    []int  `json:"reference_ids"`
}

// ToCommand maps the request onto the service command. A missing active
// flag defaults to true: new documents start active.
func (r DocumentRequest) ToCommand() models.DocumentCommand {
	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return models.DocumentCommand{
		Title:           r.Title,
		Summary:         r.Summary,
		Number:          r.Number,
		Active:          active,
		TypeID:          r.TypeID,
		StatusID:        r.StatusID,
		SectorID:        r.SectorID,
		ExecutingUnitID: r.ExecutingUnitID,
		KeywordIDs:      r.KeywordIDs,
		ReferenceIDs:    r.ReferenceIDs,
	}
}

// UploadFile is one attachment payload handed to the lifecycle service.
type UploadFile struct {
	Name    string
	Content io.Reader
}

// SearchRequest carries the raw query parameters of document search.
type SearchRequest struct {
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

func (r SearchRequest) ToFilter() models.SearchFilter {
	return models.SearchFilter{
		SearchTerm:   r.SearchTerm,
		TitleTerm:    r.TitleTerm,
		NumberTerm:   r.NumberTerm,
		ExcludeTerms: r.ExcludeTerms,
		TypeID:       r.TypeID,
		SectorID:     r.SectorID,
		StatusID:     r.StatusID,
		DateFrom:     r.DateFrom,
		DateTo:       r.DateTo,
		Limit:        r.Limit,
		Offset:       r.Offset,
	}
}

package entities

import (
	"database/sql"
	"time"
)

type Document struct {
	ID              int           `db:"id"`
	Title           string        `db:"title"`
	Summary         string        `db:"summary"`
	Number          string        `db:"number"`
	Active          bool          `db:"active"`
	CreatedAt       time.Time     `db:"created_at"`
	TypeID          int           `db:"type_id"`
	TypeName        string        `db:"type_name"`
	StatusID        int           `db:"status_id"`
	StatusName      string        `db:"status_name"`
	SectorID        int           `db:"sector_id"`
	SectorName      string        `db:"sector_name"`
	ExecutingUnitID sql.NullInt64 `db:"executing_unit_id"`
	ExecutingUnit   sql.NullString `db:"executing_unit_name"`
}

type DocumentSummary struct {
	ID         int       `db:"id"`
	Title      string    `db:"title"`
	Summary    string    `db:"summary"`
	Number     string    `db:"number"`
	Active     bool      `db:"active"`
	CreatedAt  time.Time `db:"created_at"`
	TypeName   string    `db:"type_name"`
	StatusName string    `db:"status_name"`
	SectorName string    `db:"sector_name"`
}

type DocumentRef struct {
	ID     int    `db:"id"`
	Title  string `db:"title"`
	Number string `db:"number"`
}

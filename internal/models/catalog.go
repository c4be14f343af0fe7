package models

// CatalogKind names one of the simple lookup tables a document is
// classified by.
type CatalogKind string

const (
	CatalogStatus        CatalogKind = "status"
	CatalogSector        CatalogKind = "sector"
	CatalogDocumentType  CatalogKind = "document_type"
	CatalogKeyword       CatalogKind = "keyword"
	CatalogExecutingUnit CatalogKind = "executing_unit"
)

// CatalogEntry is a row of any catalog table: a named record with an
// optional description and a name-uniqueness constraint.
type CatalogEntry struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Valid reports whether k names a known catalog table.
func (k CatalogKind) Valid() bool {
	switch k {
	case CatalogStatus, CatalogSector, CatalogDocumentType, CatalogKeyword, CatalogExecutingUnit:
		return true
	}
	return false
}

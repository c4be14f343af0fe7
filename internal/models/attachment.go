package models

// Attachment is one physical file owned by exactly one document. Path is
// relative to the storage root and already sharded by document id.
type Attachment struct {
	ID         int    `json:"id"`
	DocumentID int    `json:"document_id"`
	Name       string `json:"name"`
	Path       string `json:"path"`
}

package entities

type Attachment struct {
	ID         int    `db:"id"`
	DocumentID int    `db:"document_id"`
	Name       string `db:"name"`
	Path       string `db:"path"`
}

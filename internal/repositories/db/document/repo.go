package documentrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"digesto/internal/entities"
	"digesto/internal/models"
	auditrepo "digesto/internal/repositories/db/audit"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "documentRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// CreateDocument persists a new aggregate in one transaction: uniqueness
// checks, document row, edge sets and the audit record become visible
// together or not at all. The unique indexes on title and number remain
// the authoritative backstop against concurrent creators.
func (r *repository) CreateDocument(ctx context.Context, doc *models.Document, keywordIDs, referenceIDs []int, rec *models.AuditRecord) (int, error) {
	op := pkg + "CreateDocument"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if err := checkUnique(ctx, tx, "title", doc.Title, 0); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := checkUnique(ctx, tx, "number", doc.Number, 0); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var id int

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO documents (title, summary, number, active, created_at, type_id, status_id, sector_id, executing_unit_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		doc.Title, doc.Summary, doc.Number, doc.Active, doc.CreatedAt,
		doc.Type.ID, doc.Status.ID, doc.Sector.ID, unitID(doc)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapUnique(err))
	}

	if err := replaceEdges(ctx, tx, "document_keywords", "document_id", "keyword_id", id, keywordIDs); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := replaceEdges(ctx, tx, "document_references", "origin_id", "target_id", id, referenceIDs); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	rec.DocumentID = &id
	rec.DocumentNumber = doc.Number

	if err := auditrepo.Append(ctx, tx, rec); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapUnique(err))
	}

	return id, nil
}

// UpdateDocument overwrites the simple fields and replaces both edge sets
// wholesale: old keyword and reference edges are cleared, the new sets
// inserted. All of it, plus the audit record, in one transaction.
func (r *repository) UpdateDocument(ctx context.Context, doc *models.Document, keywordIDs, referenceIDs []int, rec *models.AuditRecord) error {
	op := pkg + "UpdateDocument"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	// Locate and lock the row first: an unknown id is NotFound even
	// when the new title or number would also collide.
	var existingID int

	err = tx.GetContext(ctx, &existingID,
		`SELECT id FROM documents WHERE id = $1 FOR UPDATE`, doc.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, models.NewNotFound("document", doc.ID))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := checkUnique(ctx, tx, "title", doc.Title, doc.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := checkUnique(ctx, tx, "number", doc.Number, doc.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE documents
		SET title = $1, summary = $2, number = $3, active = $4,
			type_id = $5, status_id = $6, sector_id = $7, executing_unit_id = $8
		WHERE id = $9`,
		doc.Title, doc.Summary, doc.Number, doc.Active,
		doc.Type.ID, doc.Status.ID, doc.Sector.ID, unitID(doc), doc.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapUnique(err))
	}

	if err := replaceEdges(ctx, tx, "document_keywords", "document_id", "keyword_id", doc.ID, keywordIDs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := replaceEdges(ctx, tx, "document_references", "origin_id", "target_id", doc.ID, referenceIDs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rec.DocumentID = &doc.ID
	rec.DocumentNumber = doc.Number

	if err := auditrepo.Append(ctx, tx, rec); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, mapUnique(err))
	}

	return nil
}

// DeleteDocument appends the audit record first, then removes attachment
// rows and the document row. Outgoing reference and keyword edges cascade
// with the row; incoming edges disappear because their origin side owns
// them. Physical blobs are the caller's concern.
func (r *repository) DeleteDocument(ctx context.Context, id int, number string, rec *models.AuditRecord) error {
	op := pkg + "DeleteDocument"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	// The FK nulls out when the row goes; the number snapshot keeps the
	// record naming the document afterwards.
	rec.DocumentID = &id
	rec.DocumentNumber = number

	if err := auditrepo.Append(ctx, tx, rec); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM attachments WHERE document_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s: %w", op, models.NewNotFound("document", id))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DocumentByID loads the full aggregate: the row with its resolved
// catalogs, both directions of the reference graph, keywords and
// attachment metadata. Every related set is fetched explicitly.
func (r *repository) DocumentByID(ctx context.Context, id int) (*models.Document, error) {
	op := pkg + "DocumentByID"

	row := entities.Document{}

	err := r.db.GetContext(ctx, &row,
		`SELECT
			d.id AS id,
			d.title AS title,
			d.summary AS summary,
			d.number AS number,
			d.active AS active,
			d.created_at AS created_at,
			d.type_id AS type_id,
			t.name AS type_name,
			d.status_id AS status_id,
			s.name AS status_name,
			d.sector_id AS sector_id,
			se.name AS sector_name,
			d.executing_unit_id AS executing_unit_id,
			eu.name AS executing_unit_name
		FROM documents d
		INNER JOIN document_types t ON d.type_id = t.id
		INNER JOIN statuses s ON d.status_id = s.id
		INNER JOIN sectors se ON d.sector_id = se.id
		LEFT JOIN executing_units eu ON d.executing_unit_id = eu.id
		WHERE d.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.NewNotFound("document", id))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	doc := &models.Document{
		ID:        row.ID,
		Title:     row.Title,
		Summary:   row.Summary,
		Number:    row.Number,
		Active:    row.Active,
		CreatedAt: row.CreatedAt,
		Type:      models.CatalogEntry{ID: row.TypeID, Name: row.TypeName},
		Status:    models.CatalogEntry{ID: row.StatusID, Name: row.StatusName},
		Sector:    models.CatalogEntry{ID: row.SectorID, Name: row.SectorName},
	}

	if row.ExecutingUnitID.Valid {
		doc.ExecutingUnit = &models.CatalogEntry{
			ID:   int(row.ExecutingUnitID.Int64),
			Name: row.ExecutingUnit.String,
		}
	}

	if doc.Keywords, err = r.keywordsFor(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if doc.References, err = r.referencesFor(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if doc.ReferencedBy, err = r.referencedByFor(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if doc.Attachments, err = r.attachmentsFor(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc, nil
}

func (r *repository) keywordsFor(ctx context.Context, docID int) ([]models.CatalogEntry, error) {
	rows := make([]entities.CatalogEntry, 0)

	err := r.db.SelectContext(ctx, &rows,
		`SELECT k.id AS id, k.name AS name, k.description AS description
		FROM document_keywords dk
		INNER JOIN keywords k ON dk.keyword_id = k.id
		WHERE dk.document_id = $1
		ORDER BY k.name`,
		docID)
	if err != nil {
		return nil, err
	}

	keywords := make([]models.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		keywords = append(keywords, models.CatalogEntry{ID: row.ID, Name: row.Name, Description: row.Description})
	}

	return keywords, nil
}

func (r *repository) referencesFor(ctx context.Context, docID int) ([]models.DocumentRef, error) {
	rows := make([]entities.DocumentRef, 0)

	err := r.db.SelectContext(ctx, &rows,
		`SELECT d.id AS id, d.title AS title, d.number AS number
		FROM document_references dr
		INNER JOIN documents d ON dr.target_id = d.id
		WHERE dr.origin_id = $1
		ORDER BY d.id`,
		docID)
	if err != nil {
		return nil, err
	}

	return toRefs(rows), nil
}

// referencedByFor is the derived inverse view of the reference relation:
// documents whose outgoing set contains docID. It is never stored, only
// queried, so the two directions cannot drift apart.
func (r *repository) referencedByFor(ctx context.Context, docID int) ([]models.DocumentRef, error) {
	rows := make([]entities.DocumentRef, 0)

	err := r.db.SelectContext(ctx, &rows,
		`SELECT d.id AS id, d.title AS title, d.number AS number
		FROM document_references dr
		INNER JOIN documents d ON dr.origin_id = d.id
		WHERE dr.target_id = $1
		ORDER BY d.id`,
		docID)
	if err != nil {
		return nil, err
	}

	return toRefs(rows), nil
}

func (r *repository) attachmentsFor(ctx context.Context, docID int) ([]models.Attachment, error) {
	rows := make([]entities.Attachment, 0)

	err := r.db.SelectContext(ctx, &rows,
		`SELECT a.id AS id, a.document_id AS document_id, a.name AS name, a.path AS path
		FROM attachments a
		WHERE a.document_id = $1
		ORDER BY a.id`,
		docID)
	if err != nil {
		return nil, err
	}

	attachments := make([]models.Attachment, 0, len(rows))
	for _, row := range rows {
		attachments = append(attachments, models.Attachment{
			ID:         row.ID,
			DocumentID: row.DocumentID,
			Name:       row.Name,
			Path:       row.Path,
		})
	}

	return attachments, nil
}

// ExistingIDs filters candidate reference targets down to documents that
// actually exist. Unknown ids are dropped, not an error.
func (r *repository) ExistingIDs(ctx context.Context, ids []int) ([]int, error) {
	op := pkg + "ExistingIDs"

	existing := make([]int, 0, len(ids))

	if len(ids) == 0 {
		return existing, nil
	}

	q, args, err := sqlx.In(`SELECT id FROM documents WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = r.db.SelectContext(ctx, &existing, r.db.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return existing, nil
}

// checkUnique is the friendly early rejection: it reports which field and
// value collide before the write reaches the unique index.
func checkUnique(ctx context.Context, tx *sqlx.Tx, column, value string, excludeID int) error {
	var existing int

	err := tx.GetContext(ctx, &existing,
		fmt.Sprintf(`SELECT id FROM documents WHERE %s = $1`, column), value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	if existing != excludeID {
		return models.NewDuplicate(column, value)
	}

	return nil
}

// replaceEdges clears and re-inserts one side of a many-to-many relation.
// Replacement, not merge: the new set is exactly what the caller passed.
func replaceEdges(ctx context.Context, tx *sqlx.Tx, table, ownCol, otherCol string, ownID int, otherIDs []int) error {
	_, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, ownCol), ownID)
	if err != nil {
		return err
	}

	for _, otherID := range otherIDs {
		_, err = tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`, table, ownCol, otherCol),
			ownID, otherID)
		if err != nil {
			return err
		}
	}

	return nil
}

func toRefs(rows []entities.DocumentRef) []models.DocumentRef {
	refs := make([]models.DocumentRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, models.DocumentRef{ID: row.ID, Title: row.Title, Number: row.Number})
	}
	return refs
}

func unitID(doc *models.Document) any {
	if doc.ExecutingUnit == nil {
		return nil
	}
	return doc.ExecutingUnit.ID
}

func mapUnique(err error) error {
	if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
		return &models.UniqueConstraintError{
			Constraint: pgErr.Constraint,
			Err:        models.ErrUNIQUEConstraintFailed,
		}
	}
	return err
}

package catalogrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"digesto/internal/entities"
	"digesto/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "catalogRepo/"

type table struct {
	name string
	// docColumn is the documents column referencing this catalog, empty
	// when documents reference it through a join table instead.
	docColumn string
}

var tables = map[models.CatalogKind]table{
	models.CatalogStatus:        {name: "statuses", docColumn: "status_id"},
	models.CatalogSector:        {name: "sectors", docColumn: "sector_id"},
	models.CatalogDocumentType:  {name: "document_types", docColumn: "type_id"},
	models.CatalogKeyword:       {name: "keywords"},
	models.CatalogExecutingUnit: {name: "executing_units", docColumn: "executing_unit_id"},
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) ByID(ctx context.Context, kind models.CatalogKind, id int) (*models.CatalogEntry, error) {
	op := pkg + "ByID"

	t, err := tableFor(kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	row := entities.CatalogEntry{}

	err = r.db.GetContext(ctx, &row,
		fmt.Sprintf(`SELECT id, name, description FROM %s WHERE id = $1`, t.name), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.NewNotFound(string(kind), id))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.CatalogEntry{ID: row.ID, Name: row.Name, Description: row.Description}, nil
}

// ByIDs resolves a batch of catalog ids. Ids that do not exist are
// silently dropped, never an error: multi-valued classification is
// optional content, not identity-critical.
func (r *repository) ByIDs(ctx context.Context, kind models.CatalogKind, ids []int) ([]models.CatalogEntry, error) {
	op := pkg + "ByIDs"

	entries := make([]models.CatalogEntry, 0, len(ids))

	if len(ids) == 0 {
		return entries, nil
	}

	t, err := tableFor(kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q, args, err := sqlx.In(
		fmt.Sprintf(`SELECT id, name, description FROM %s WHERE id IN (?) ORDER BY id`, t.name), ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows := make([]entities.CatalogEntry, 0, len(ids))

	err = r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, row := range rows {
		entries = append(entries, models.CatalogEntry{ID: row.ID, Name: row.Name, Description: row.Description})
	}

	return entries, nil
}

func (r *repository) List(ctx context.Context, kind models.CatalogKind) ([]models.CatalogEntry, error) {
	op := pkg + "List"

	t, err := tableFor(kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows := make([]entities.CatalogEntry, 0)

	err = r.db.SelectContext(ctx, &rows,
		fmt.Sprintf(`SELECT id, name, description FROM %s ORDER BY name`, t.name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entries := make([]models.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.CatalogEntry{ID: row.ID, Name: row.Name, Description: row.Description})
	}

	return entries, nil
}

func (r *repository) Create(ctx context.Context, kind models.CatalogKind, entry *models.CatalogEntry) (int, error) {
	op := pkg + "Create"

	t, err := tableFor(kind)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var id int

	err = r.db.QueryRowxContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (name, description) VALUES ($1, $2) RETURNING id`, t.name),
		entry.Name, entry.Description).Scan(&id)
	if err != nil {
		if uniqueViolated(err) != nil {
			return 0, fmt.Errorf("%s: %w", op, models.NewDuplicate("name", entry.Name))
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *repository) Update(ctx context.Context, kind models.CatalogKind, entry *models.CatalogEntry) error {
	op := pkg + "Update"

	t, err := tableFor(kind)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET name = $1, description = $2 WHERE id = $3`, t.name),
		entry.Name, entry.Description, entry.ID)
	if err != nil {
		if uniqueViolated(err) != nil {
			return fmt.Errorf("%s: %w", op, models.NewDuplicate("name", entry.Name))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s: %w", op, models.NewNotFound(string(kind), entry.ID))
	}

	return nil
}

// Delete removes a catalog row. Kinds referenced directly from documents
// are guarded: a row still in use is refused, not cascaded. Keyword edges
// live in a join table and disappear with the row.
func (r *repository) Delete(ctx context.Context, kind models.CatalogKind, id int) error {
	op := pkg + "Delete"

	t, err := tableFor(kind)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if t.docColumn != "" {
		var inUse bool

		err = r.db.GetContext(ctx, &inUse,
			fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM documents WHERE %s = $1)`, t.docColumn), id)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if inUse {
			return fmt.Errorf("%s: %w", op, models.ErrCatalogInUse)
		}
	}

	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.name), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s: %w", op, models.NewNotFound(string(kind), id))
	}

	return nil
}

func tableFor(kind models.CatalogKind) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return table{}, models.ErrInvalidParams
	}
	return t, nil
}

func uniqueViolated(err error) *models.UniqueConstraintError {
	if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
		return &models.UniqueConstraintError{
			Constraint: pgErr.Constraint,
			Err:        models.ErrUNIQUEConstraintFailed,
		}
	}
	return nil
}

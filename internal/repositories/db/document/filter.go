package documentrepo

import (
	"context"
	"fmt"
	"time"

	"digesto/internal/entities"
	"digesto/internal/models"
	"digesto/internal/query"
)

// searchColumns are the fields free-text search and exclusion look at.
var searchColumns = []string{"d.title", "d.summary", "d.number", "t.name"}

// searchPredicate composes every optional filter into one predicate.
// Free text: each word must appear in at least one field (AND across
// words, OR across fields per word). Exclusion: a document is dropped
// when any excluded word matches any field. Absent filters contribute
// nothing.
func searchPredicate(f models.SearchFilter) query.Predicate {
	parts := make([]query.Predicate, 0)

	for _, word := range query.Words(f.SearchTerm) {
		parts = append(parts, anyColumnContains(word))
	}

	for _, word := range query.Words(f.ExcludeTerms) {
		parts = append(parts, query.Not(anyColumnContains(word)))
	}

	for _, word := range query.Words(f.TitleTerm) {
		parts = append(parts, query.Contains("d.title", word))
	}

	if f.NumberTerm != "" {
		parts = append(parts, query.Contains("d.number", f.NumberTerm))
	}

	if f.TypeID != 0 {
		parts = append(parts, query.Eq("d.type_id", f.TypeID))
	}
	if f.SectorID != 0 {
		parts = append(parts, query.Eq("d.sector_id", f.SectorID))
	}
	if f.StatusID != 0 {
		parts = append(parts, query.Eq("d.status_id", f.StatusID))
	}

	switch {
	case f.DateFrom != nil && f.DateTo != nil:
		parts = append(parts, query.Between("d.created_at::date", day(*f.DateFrom), day(*f.DateTo)))
	case f.DateFrom != nil:
		// Matches that exact calendar day only. Carried over from the
		// source system as-is; see DESIGN.md before changing.
		parts = append(parts, query.SameDay("d.created_at", day(*f.DateFrom)))
	case f.DateTo != nil:
		parts = append(parts, query.AtMost("d.created_at::date", day(*f.DateTo)))
	}

	if len(parts) == 0 {
		return query.True()
	}

	return query.And(parts...)
}

// day truncates a bound to its calendar day; created_at is a timestamp,
// so date filters compare against its ::date projection.
func day(t time.Time) string {
	return t.Format("2006-01-02")
}

func anyColumnContains(word string) query.Predicate {
	ors := make([]query.Predicate, 0, len(searchColumns))
	for _, col := range searchColumns {
		ors = append(ors, query.Contains(col, word))
	}
	return query.Or(ors...)
}

const searchFrom = `FROM documents d
	INNER JOIN document_types t ON d.type_id = t.id
	INNER JOIN statuses s ON d.status_id = s.id
	INNER JOIN sectors se ON d.sector_id = se.id`

// Search returns one page of lightweight summaries plus the unpaginated
// total, ordered by creation date descending.
func (r *repository) Search(ctx context.Context, f models.SearchFilter) (*models.Page[models.DocumentSummary], error) {
	op := pkg + "Search"

	where, args := query.ToSQL(searchPredicate(f), 1)

	var total int

	err := r.db.GetContext(ctx, &total,
		fmt.Sprintf(`SELECT COUNT(*) %s WHERE %s`, searchFrom, where), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	limitArgs := append(args, f.Limit, f.Offset)

	rows := make([]entities.DocumentSummary, 0)

	err = r.db.SelectContext(ctx, &rows,
		fmt.Sprintf(`SELECT
			d.id AS id,
			d.title AS title,
			d.summary AS summary,
			d.number AS number,
			d.active AS active,
			d.created_at AS created_at,
			t.name AS type_name,
			s.name AS status_name,
			se.name AS sector_name
		%s
		WHERE %s
		ORDER BY d.created_at DESC, d.id DESC
		LIMIT $%d OFFSET $%d`, searchFrom, where, len(args)+1, len(args)+2),
		limitArgs...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]models.DocumentSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.DocumentSummary{
			ID:         row.ID,
			Title:      row.Title,
			Summary:    row.Summary,
			Number:     row.Number,
			Active:     row.Active,
			CreatedAt:  row.CreatedAt,
			TypeName:   row.TypeName,
			StatusName: row.StatusName,
			SectorName: row.SectorName,
		})
	}

	return &models.Page[models.DocumentSummary]{Items: items, Total: total}, nil
}

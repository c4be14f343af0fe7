// Package query is a small typed predicate builder. Filters are composed
// as a tree of tagged variants and rendered once into a SQL condition
// with positional placeholders, so composition logic stays testable
// without a database.
package query

import (
	"fmt"
	"strings"
)

// Predicate is one node of a filter tree.
type Predicate interface {
	sql(b *builder) string
}

type builder struct {
	args []any
	next int
}

func (b *builder) placeholder(arg any) string {
	b.args = append(b.args, arg)
	n := b.next
	b.next++
	return fmt.Sprintf("$%d", n)
}

// ToSQL renders the predicate tree into a SQL condition and its argument
// list. firstArg is the number of the first positional placeholder, so a
// caller can prepend its own arguments.
func ToSQL(p Predicate, firstArg int) (string, []any) {
	b := &builder{next: firstArg}
	return p.sql(b), b.args
}

type truePredicate struct{}

func (truePredicate) sql(*builder) string { return "TRUE" }

// True is the neutral predicate: an absent filter contributes it.
func True() Predicate { return truePredicate{} }

type containsPredicate struct {
	col  string
	term string
}

// likeEscaper neutralizes LIKE metacharacters so a term containing
// % or _ matches the literal substring, not a pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (p containsPredicate) sql(b *builder) string {
	term := likeEscaper.Replace(strings.ToLower(p.term))
	return fmt.Sprintf("lower(%s) LIKE %s", p.col, b.placeholder("%"+term+"%"))
}

// Contains matches a case-insensitive substring of the column.
func Contains(col, term string) Predicate {
	return containsPredicate{col: col, term: term}
}

type eqPredicate struct {
	col   string
	value any
}

func (p eqPredicate) sql(b *builder) string {
	return fmt.Sprintf("%s = %s", p.col, b.placeholder(p.value))
}

// Eq matches the column exactly.
func Eq(col string, value any) Predicate {
	return eqPredicate{col: col, value: value}
}

type sameDayPredicate struct {
	col   string
	value any
}

func (p sameDayPredicate) sql(b *builder) string {
	return fmt.Sprintf("%s::date = %s", p.col, b.placeholder(p.value))
}

// SameDay matches a timestamp column at calendar-day granularity.
func SameDay(col string, value any) Predicate {
	return sameDayPredicate{col: col, value: value}
}

type atMostPredicate struct {
	col   string
	value any
}

func (p atMostPredicate) sql(b *builder) string {
	return fmt.Sprintf("%s <= %s", p.col, b.placeholder(p.value))
}

// AtMost is an inclusive upper bound on the column.
func AtMost(col string, value any) Predicate {
	return atMostPredicate{col: col, value: value}
}

type betweenPredicate struct {
	col      string
	from, to any
}

func (p betweenPredicate) sql(b *builder) string {
	return fmt.Sprintf("%s BETWEEN %s AND %s", p.col, b.placeholder(p.from), b.placeholder(p.to))
}

// Between is an inclusive range on the column.
func Between(col string, from, to any) Predicate {
	return betweenPredicate{col: col, from: from, to: to}
}

type notPredicate struct {
	inner Predicate
}

func (p notPredicate) sql(b *builder) string {
	return fmt.Sprintf("NOT (%s)", p.inner.sql(b))
}

// Not negates a predicate group.
func Not(p Predicate) Predicate { return notPredicate{inner: p} }

type andPredicate struct {
	parts []Predicate
}

func (p andPredicate) sql(b *builder) string {
	return join(b, p.parts, " AND ")
}

// And combines predicates; all must hold. Empty input renders as TRUE.
func And(parts ...Predicate) Predicate { return andPredicate{parts: parts} }

type orPredicate struct {
	parts []Predicate
}

func (p orPredicate) sql(b *builder) string {
	return join(b, p.parts, " OR ")
}

// Or combines predicates; at least one must hold. Empty input renders as TRUE.
func Or(parts ...Predicate) Predicate { return orPredicate{parts: parts} }

func join(b *builder, parts []Predicate, sep string) string {
	if len(parts) == 0 {
		return "TRUE"
	}
	if len(parts) == 1 {
		return parts[0].sql(b)
	}

	rendered := make([]string, 0, len(parts))
	for _, p := range parts {
		rendered = append(rendered, p.sql(b))
	}

	return "(" + strings.Join(rendered, sep) + ")"
}

// Words tokenizes a free-text term the way search expects it: split on
// whitespace, lower-cased, empty tokens dropped.
func Words(term string) []string {
	fields := strings.Fields(strings.ToLower(term))
	return fields
}

package repository

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// psql is the shared Squirrel statement builder configured for PostgreSQL dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// orderBy appends ORDER BY terms for the requested sort fields ("-field" sorts
// descending). Fields missing from allowed are dropped. When nothing valid
// remains, fallback is used instead.
func orderBy(qb sq.SelectBuilder, sorts []string, allowed map[string]bool, fallback ...string) sq.SelectBuilder {
	var terms []string
	for _, sort := range sorts {
		field, dir := sort, "ASC"
		if strings.HasPrefix(sort, "-") {
			field, dir = sort[1:], "DESC"
		}
		if !allowed[field] {
			continue
		}
		terms = append(terms, field+" "+dir)
	}
	if len(terms) == 0 {
		terms = fallback
	}
	return qb.OrderBy(terms...)
}

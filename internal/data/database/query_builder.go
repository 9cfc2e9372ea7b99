package database

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConditionType is the comparison applied by a Condition.
type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	GreaterThanOrEqual ConditionType = ">="
	In                 ConditionType = "IN"
	Any                ConditionType = "ANY"
	defaultLimit                     = -1
	defaultOffset                    = -1
)

// Condition is one predicate of the WHERE clause. Field names are sanitized; values are bound.
type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

// WhereCond builds a Condition.
func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Field: field, Type: condType, Value: value}
}

// OrderTerm is one ORDER BY column with its direction.
type OrderTerm struct {
	Column    string
	Direction string
}

// ListQueryOptions describes a paginated SELECT or COUNT against one table or view.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    []OrderTerm
	Limit      int
	Offset     int
}

// ListQueryOption mutates ListQueryOptions.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions creates options for table with the given modifiers applied.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  defaultLimit,
		Offset: defaultOffset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Columns = cols
	}
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = append(o.Conditions, cond)
	}
}

// WithConditions appends several conditions.
func WithConditions(conds ...Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = append(o.Conditions, conds...)
	}
}

// WithOrderBy appends an ordering column. Later calls break ties of earlier ones.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = append(o.OrderBy, OrderTerm{Column: column, Direction: direction})
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly turns the query into SELECT COUNT(*), ignoring ordering and paging.
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) {
		o.CountOnly = true
	}
}

// sanitizeIdentifier quotes plain or qualified ("table.column") identifiers.
func sanitizeIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// BuildListQuery constructs a SQL query string and arguments from options.
//
//	query, args := BuildListQuery(NewListQueryOptions("alert_views",
//		WithColumns("id", "title"),
//		WithCondition(WhereCond("user_id", Equal, "u1")),
//		WithOrderBy("created_at", "DESC"),
//		WithOrderBy("id", "ASC"),
//		WithLimit(10),
//		WithOffset(20),
//	))
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	query.WriteString(buildSelectClause(options))
	query.WriteString("FROM ")
	query.WriteString(sanitizeIdentifier(options.Table))

	where, args := buildWhereClause(options.Conditions)
	if where != "" {
		query.WriteString(" ")
		query.WriteString(where)
	}
	if options.CountOnly {
		return query.String(), args
	}

	if len(options.OrderBy) > 0 {
		terms := make([]string, 0, len(options.OrderBy))
		for _, t := range options.OrderBy {
			term := sanitizeIdentifier(t.Column)
			if dir := strings.ToUpper(t.Direction); dir == "ASC" || dir == "DESC" {
				term += " " + dir
			}
			terms = append(terms, term)
		}
		query.WriteString(" ORDER BY ")
		query.WriteString(strings.Join(terms, ", "))
	}
	if options.Limit != defaultLimit {
		args = append(args, options.Limit)
		fmt.Fprintf(&query, " LIMIT $%d", len(args))
	}
	if options.Offset != defaultOffset {
		args = append(args, options.Offset)
		fmt.Fprintf(&query, " OFFSET $%d", len(args))
	}
	return query.String(), args
}

func buildSelectClause(options *ListQueryOptions) string {
	if options.CountOnly {
		return "SELECT COUNT(*) "
	}
	if len(options.Columns) == 0 {
		return "SELECT * "
	}
	cols := make([]string, len(options.Columns))
	for i, c := range options.Columns {
		cols[i] = sanitizeIdentifier(c)
	}
	return "SELECT " + strings.Join(cols, ", ") + " "
}

func buildWhereClause(conds []Condition) (string, []any) {
	parts := make([]string, 0, len(conds))
	args := []any{}
	for _, c := range conds {
		if c.Field == "" {
			continue
		}
		field := sanitizeIdentifier(c.Field)
		switch c.Type {
		case In, Any:
			rv := reflect.ValueOf(c.Value)
			if rv.Kind() != reflect.Slice || rv.Len() == 0 {
				continue
			}
			placeholders := make([]string, rv.Len())
			for i := range rv.Len() {
				args = append(args, rv.Index(i).Interface())
				placeholders[i] = fmt.Sprintf("$%d", len(args))
			}
			if c.Type == In {
				parts = append(parts, fmt.Sprintf("%s IN (%s)", field, strings.Join(placeholders, ", ")))
			} else {
				parts = append(parts, fmt.Sprintf("%s = ANY (ARRAY[%s])", field, strings.Join(placeholders, ", ")))
			}
		case Equal, NotEqual, GreaterThan, LessThan, LessThanOrEqual, GreaterThanOrEqual:
			args = append(args, c.Value)
			parts = append(parts, fmt.Sprintf("%s %s $%d", field, c.Type, len(args)))
		}
	}
	if len(parts) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(parts, " AND "), args
}

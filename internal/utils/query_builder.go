package utils

import (
	"fmt"
	"strings"
	"time"
)

// Condition is one predicate of a dynamic WHERE clause. When AnyOf is set
// the condition renders as an OR of AND-groups and Field/Operator are ignored.
type Condition struct {
	Field    string      // Column name
	Operator string      // =, !=, >, <, >=, <=, IN, IS_NULL, IS_NOT_NULL
	Value    interface{} // single value, or []interface{} for IN
	AnyOf    [][]Condition
}

// QueryBuilder appends ANDed conditions and an ORDER BY to a template query.
type QueryBuilder struct {
	TemplateQuery string
	Conditions    []Condition
	OrderBy       []string // Example: []string{"start_at DESC"}
}

// BuildQueryDynamicFilter creates a dynamic query with parameterized placeholders
func (qb *QueryBuilder) BuildQueryDynamicFilter() (string, []interface{}, error) {
	if qb.TemplateQuery == "" {
		return "", nil, fmt.Errorf("template query is required")
	}

	query := qb.TemplateQuery
	args := []interface{}{}
	paramIndex := 1

	if len(qb.Conditions) > 0 {
		where, err := renderConditions(qb.Conditions, "AND", &args, &paramIndex)
		if err != nil {
			return "", nil, err
		}
		query += " WHERE " + where
	}

	if len(qb.OrderBy) > 0 {
		orders := make([]string, 0, len(qb.OrderBy))
		for _, order := range qb.OrderBy {
			parts := strings.Fields(order)
			switch len(parts) {
			case 1:
				orders = append(orders, parts[0]+" ASC")
			case 2:
				dir := strings.ToUpper(parts[1])
				if dir != "ASC" && dir != "DESC" {
					return "", nil, fmt.Errorf("invalid order direction: %s (must be ASC or DESC)", parts[1])
				}
				orders = append(orders, parts[0]+" "+dir)
			default:
				return "", nil, fmt.Errorf("invalid order clause: %q", order)
			}
		}
		query += " ORDER BY " + strings.Join(orders, ", ")
	}

	return query, args, nil
}

func renderConditions(conds []Condition, logic string, args *[]interface{}, paramIndex *int) (string, error) {
	parts := make([]string, 0, len(conds))
	for _, cond := range conds {
		part, err := renderCondition(cond, args, paramIndex)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " "+logic+" "), nil
}

func renderCondition(cond Condition, args *[]interface{}, paramIndex *int) (string, error) {
	if len(cond.AnyOf) > 0 {
		groups := make([]string, 0, len(cond.AnyOf))
		for _, group := range cond.AnyOf {
			g, err := renderConditions(group, "AND", args, paramIndex)
			if err != nil {
				return "", err
			}
			groups = append(groups, "("+g+")")
		}
		return "(" + strings.Join(groups, " OR ") + ")", nil
	}

	switch strings.ToUpper(cond.Operator) {
	case "=", "!=", ">", "<", ">=", "<=":
		s := fmt.Sprintf("%s %s $%d", cond.Field, cond.Operator, *paramIndex)
		*args = append(*args, cond.Value)
		*paramIndex++
		return s, nil

	case "IN":
		values, ok := cond.Value.([]interface{})
		if !ok || len(values) == 0 {
			return "", fmt.Errorf("IN operator requires a non-empty []interface{} value for field %s", cond.Field)
		}
		placeholders := make([]string, 0, len(values))
		for _, val := range values {
			placeholders = append(placeholders, fmt.Sprintf("$%d", *paramIndex))
			*args = append(*args, val)
			*paramIndex++
		}
		return fmt.Sprintf("%s IN (%s)", cond.Field, strings.Join(placeholders, ", ")), nil

	case "IS_NULL":
		return fmt.Sprintf("%s IS NULL", cond.Field), nil

	case "IS_NOT_NULL":
		return fmt.Sprintf("%s IS NOT NULL", cond.Field), nil
	}
	return "", fmt.Errorf("unsupported operator: %s", cond.Operator)
}

// UpdateBuilder collects SET clauses for a partial UPDATE.
type UpdateBuilder struct {
	setClauses []string
	args       []interface{}
}

func (b *UpdateBuilder) Set(column string, value interface{}) {
	b.args = append(b.args, value)
	b.setClauses = append(b.setClauses, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// SetExpr binds value into expr, where %s marks the placeholder,
// e.g. SetExpr("polygon", "ST_GeomFromText(%s)", wkt).
func (b *UpdateBuilder) SetExpr(column, expr string, value interface{}) {
	b.args = append(b.args, value)
	b.setClauses = append(b.setClauses, fmt.Sprintf("%s = "+expr, column, fmt.Sprintf("$%d", len(b.args))))
}

func (b *UpdateBuilder) SetNull(column string) {
	b.setClauses = append(b.setClauses, column+" = NULL")
}

func (b *UpdateBuilder) Len() int {
	return len(b.setClauses)
}

// Build renders "UPDATE table SET ..., updated_at = $n WHERE w1 = $n+1 AND ..."
// followed by the RETURNING list when given.
func (b *UpdateBuilder) Build(table string, now time.Time, where []Condition, returning string) (*QueryBuildResult, error) {
	if len(b.setClauses) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args := append([]interface{}{}, b.args...)
	args = append(args, now)
	setClauses := append(append([]string{}, b.setClauses...), fmt.Sprintf("updated_at = $%d", len(args)))

	paramIndex := len(args) + 1
	whereClause, err := renderConditions(where, "AND", &args, &paramIndex)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(setClauses, ", "), whereClause)
	if returning != "" {
		query += " RETURNING " + returning
	}
	return &QueryBuildResult{Query: query, Args: args}, nil
}

type QueryBuildResult struct {
	Query string
	Args  []interface{}
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQueryDynamicFilter_AndConditionsWithOrder(t *testing.T) {
	qb := QueryBuilder{
		TemplateQuery: "SELECT * FROM grazing_events",
		Conditions: []Condition{
			{Field: "farm_id", Operator: "=", Value: "farm-1"},
			{Field: "deleted_at", Operator: "IS_NULL"},
			{Field: "status", Operator: "IN", Value: []interface{}{"active", "done"}},
		},
		OrderBy: []string{"start_at desc"},
	}

	query, args, err := qb.BuildQueryDynamicFilter()

	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM grazing_events WHERE farm_id = $1 AND deleted_at IS NULL AND status IN ($2, $3) ORDER BY start_at DESC",
		query)
	assert.Equal(t, []interface{}{"farm-1", "active", "done"}, args)
}

func TestBuildQueryDynamicFilter_AnyOfGroups(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	qb := QueryBuilder{
		TemplateQuery: "SELECT id FROM grazing_events",
		Conditions: []Condition{
			{Field: "farm_id", Operator: "=", Value: "farm-1"},
			{AnyOf: [][]Condition{
				{{Field: "end_at", Operator: ">=", Value: from}},
				{{Field: "end_at", Operator: "IS_NULL"}},
			}},
		},
	}

	query, args, err := qb.BuildQueryDynamicFilter()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM grazing_events WHERE farm_id = $1 AND ((end_at >= $2) OR (end_at IS NULL))", query)
	assert.Len(t, args, 2)
}

func TestBuildQueryDynamicFilter_Errors(t *testing.T) {
	_, _, err := (&QueryBuilder{}).BuildQueryDynamicFilter()
	assert.Error(t, err)

	_, _, err = (&QueryBuilder{
		TemplateQuery: "SELECT 1",
		Conditions:    []Condition{{Field: "x", Operator: "LIKE", Value: "a"}},
	}).BuildQueryDynamicFilter()
	assert.Error(t, err)

	_, _, err = (&QueryBuilder{TemplateQuery: "SELECT 1", OrderBy: []string{"x sideways"}}).BuildQueryDynamicFilter()
	assert.Error(t, err)
}

func TestUpdateBuilder_Build(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var b UpdateBuilder
	b.Set("name", "Norte")
	b.SetNull("description")
	b.SetExpr("polygon", "ST_GeomFromText(%s)", "SRID=4326;POLYGON((0 0,1 0,1 1,0 0))")

	result, err := b.Build("paddocks", now, []Condition{
		{Field: "id", Operator: "=", Value: "p-1"},
		{Field: "deleted_at", Operator: "IS_NULL"},
	}, "id")

	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE paddocks SET name = $1, description = NULL, polygon = ST_GeomFromText($2), updated_at = $3 WHERE id = $4 AND deleted_at IS NULL RETURNING id",
		result.Query)
	assert.Equal(t, []interface{}{"Norte", "SRID=4326;POLYGON((0 0,1 0,1 1,0 0))", now, "p-1"}, result.Args)
}

func TestUpdateBuilder_EmptyFails(t *testing.T) {
	var b UpdateBuilder

	_, err := b.Build("paddocks", time.Now(), nil, "")

	assert.EqualError(t, err, "no fields to update")
}

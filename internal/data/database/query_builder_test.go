package database

import (
	"reflect"
	"testing"
)

func TestBuildListQuery_BasicSelect(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("alerts"))

	expected := `SELECT * FROM "alerts"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_WithQualifiedColumns(t *testing.T) {
	query, _ := BuildListQuery(NewListQueryOptions("alert_views",
		WithColumns("alert_views.id", "title"),
	))

	expected := `SELECT "alert_views"."id", "title" FROM "alert_views"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
}

func TestBuildListQuery_CountOnlyIgnoresPaging(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("alerts",
		WithCountOnly(),
		WithCondition(WhereCond("user_id", Equal, "u1")),
		WithOrderBy("created_at", "DESC"),
		WithLimit(10),
		WithOffset(20),
	))

	expected := `SELECT COUNT(*) FROM "alerts" WHERE "user_id" = $1`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if !reflect.DeepEqual(args, []any{"u1"}) {
		t.Errorf("unexpected args %v", args)
	}
}

func TestBuildListQuery_OrderingTieBreakAndPaging(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("alert_views",
		WithColumns("id"),
		WithConditions(
			WhereCond("status", Equal, "ACTIVE"),
			WhereCond("device_id", Equal, "d1"),
		),
		WithOrderBy("created_at", "desc"),
		WithOrderBy("id", "ASC"),
		WithLimit(10),
		WithOffset(0),
	))

	expected := `SELECT "id" FROM "alert_views" WHERE "status" = $1 AND "device_id" = $2 ORDER BY "created_at" DESC, "id" ASC LIMIT $3 OFFSET $4`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if !reflect.DeepEqual(args, []any{"ACTIVE", "d1", 10, 0}) {
		t.Errorf("unexpected args %v", args)
	}
}

func TestBuildListQuery_InAndAny(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("alerts",
		WithCondition(WhereCond("severity", In, []string{"HIGH", "CRITICAL"})),
		WithCondition(WhereCond("id", Any, []string{"a1"})),
		WithCondition(WhereCond("status", In, []string{})),
	))

	expected := `SELECT * FROM "alerts" WHERE "severity" IN ($1, $2) AND "id" = ANY (ARRAY[$3])`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 3 {
		t.Errorf("Expected 3 args, got %d", len(args))
	}
}

func TestBuildListQuery_InvalidDirectionDropped(t *testing.T) {
	query, _ := BuildListQuery(NewListQueryOptions("alerts",
		WithOrderBy("created_at", "DESC; DROP TABLE alerts"),
	))

	expected := `SELECT * FROM "alerts" ORDER BY "created_at"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
}

func TestBuildListQuery_SQLInjectionPrevention(t *testing.T) {
	query, _ := BuildListQuery(NewListQueryOptions(`alerts"; DROP TABLE alerts; --`,
		WithCondition(WhereCond(`title" OR 1=1 --`, Equal, "x")),
	))

	expected := `SELECT * FROM "alerts""; DROP TABLE alerts; --" WHERE "title"" OR 1=1 --" = $1`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
}

func TestBuildListQuery_Nil(t *testing.T) {
	query, args := BuildListQuery(nil)
	if query != "" || args != nil {
		t.Errorf("expected empty result, got %q %v", query, args)
	}
}

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
	"github.com/target/fleet-alerts/internal/domain/model"
	"github.com/target/fleet-alerts/internal/migrate"
)

func samplePage() *model.AlertListResult {
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.AlertListResult{
		Alerts: []*model.Alert{
			{ID: "a1", DeviceID: "d1", UserID: "u1", Title: "Low Battery", Severity: model.AlertSeverityHigh, Status: model.AlertStatusActive, CreatedAt: created},
			{ID: "a2", DeviceID: "d2", UserID: "u2", Title: "Offline", Severity: model.AlertSeverityLow, Status: model.AlertStatusResolved, CreatedAt: created},
		},
		Pagination: model.NewPagination(2, 1, 10),
	}
}

func TestPrintUsageListsEveryCommand(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))

	out := buf.String()
	for name := range commands() {
		assert.Contains(t, out, name)
	}
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("alerts-list")), bytes.Index(buf.Bytes(), []byte("session-issue")))
}

func TestParseAlertsListFlags(t *testing.T) {
	opts, params, err := parseAlertsListFlags([]string{"--status", "active", "--limit", "5", "--query", "alerts[].id"})
	require.NoError(t, err)
	require.NotNil(t, params.Status)
	assert.Equal(t, model.AlertStatusActive, *params.Status)
	assert.Equal(t, 5, params.Limit)
	assert.Equal(t, "alerts[].id", opts.Expr)

	_, _, err = parseAlertsListFlags([]string{"--limit", "101"})
	require.Error(t, err)

	_, _, err = parseAlertsListFlags([]string{"--query", "alerts[?"})
	require.Error(t, err)
}

func TestApplyQuery(t *testing.T) {
	out, err := applyQuery(samplePage(), "alerts[?status=='ACTIVE'].id")
	require.NoError(t, err)
	assert.Equal(t, []any{"a1"}, out)

	out, err = applyQuery(samplePage(), "pagination.total")
	require.NoError(t, err)
	assert.Equal(t, float64(2), out)
}

func TestPrintAlertTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printAlertTable(&buf, samplePage()))

	out := buf.String()
	assert.Contains(t, out, "Low Battery")
	assert.Contains(t, out, "RESOLVED")
	assert.Contains(t, out, "Page 1 of 1 (2 total)")
}

func TestParseAlertsResolveFlags(t *testing.T) {
	opts, err := parseAlertsResolveFlags([]string{"--id", " a1 ", "--notes", "replaced battery"})
	require.NoError(t, err)
	assert.Equal(t, "a1", opts.ID)
	assert.Equal(t, "replaced battery", opts.Notes)

	_, err = parseAlertsResolveFlags(nil)
	require.Error(t, err)
}

func TestParseDeviceUpsertFlags(t *testing.T) {
	opts, err := parseDeviceUpsertFlags([]string{"--id", "d9", "--user", "u9", "--name", " Porch Light ", "--type", "light"})
	require.NoError(t, err)
	assert.Equal(t, model.UpsertDeviceRequest{ID: "d9", UserID: "u9", Name: "Porch Light", Type: "light"}, opts.Request)

	_, err = parseDeviceUpsertFlags([]string{"--id", "bad id!", "--user", "u9", "--name", "x", "--type", "y"})
	require.Error(t, err)
}

func TestParseSessionIssueFlags(t *testing.T) {
	opts, err := parseSessionIssueFlags([]string{"--user", "u1", "--role", "ADMIN"}, 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, opts.Role)
	assert.Equal(t, 2*time.Hour, opts.TTL)

	tests := [][]string{
		{},
		{"--user", "u1", "--role", "owner"},
		{"--user", "u1", "--ttl", "0s"},
	}
	for _, args := range tests {
		_, err := parseSessionIssueFlags(args, time.Hour)
		require.Error(t, err, args)
	}
}

func TestParseSessionRevokeFlags(t *testing.T) {
	opts, err := parseSessionRevokeFlags([]string{"--id", " s-123 "})
	require.NoError(t, err)
	assert.Equal(t, "s-123", opts.SessionID)
	assert.Equal(t, defaultCommandTimeout, opts.Timeout)

	_, err = parseSessionRevokeFlags(nil)
	require.Error(t, err)
}

func TestParseMigrateFlags(t *testing.T) {
	opts, err := parseMigrateFlags([]string{"--status"})
	require.NoError(t, err)
	assert.True(t, opts.Status)
	assert.Equal(t, defaultMigrationTimeout, opts.Timeout)

	_, err = parseMigrateFlags([]string{"--timeout", "0s"})
	require.Error(t, err)
}

func TestPrintMigrationStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printMigrationStatus(&buf, []migrate.Migration{
		{Version: "000001_init", Applied: true},
		{Version: "000002_indexes", Applied: false},
	}))
	assert.Contains(t, buf.String(), "000001_init")
	assert.Contains(t, buf.String(), "false")
}

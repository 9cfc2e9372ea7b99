package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/target/fleet-alerts/internal/errors"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
	details := apperrors.GetDetails(err)
	fields := make([]string, len(details))
	for i, d := range details {
		fields[i] = d.Field
	}
	return fields
}

func TestParseAlertStatus(t *testing.T) {
	s, ok := ParseAlertStatus(" acknowledged ")
	assert.True(t, ok)
	assert.Equal(t, AlertStatusAcknowledged, s)

	_, ok = ParseAlertStatus("closed")
	assert.False(t, ok)
}

func TestParseAlertSeverity(t *testing.T) {
	s, ok := ParseAlertSeverity("critical")
	assert.True(t, ok)
	assert.Equal(t, AlertSeverityCritical, s)

	_, ok = ParseAlertSeverity("urgent")
	assert.False(t, ok)
}

func TestAlertStatus_Transitions(t *testing.T) {
	assert.True(t, AlertStatusActive.CanAcknowledge())
	assert.False(t, AlertStatusAcknowledged.CanAcknowledge())
	assert.False(t, AlertStatusResolved.CanAcknowledge())

	assert.True(t, AlertStatusActive.CanResolve())
	assert.True(t, AlertStatusAcknowledged.CanResolve())
	assert.False(t, AlertStatusResolved.CanResolve())

	assert.Equal(t, "Alert is already acknowledged", AlertStatusAcknowledged.AcknowledgeConflict())
	assert.Equal(t, "Cannot acknowledge a resolved alert", AlertStatusResolved.AcknowledgeConflict())
	assert.Equal(t, "Alert is already resolved", AlertStatusResolved.ResolveConflict())
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("d1"))
	assert.True(t, ValidIdentifier("6f1c2b8e-4d2a-4bb5-9a61-0d3f5e7a9c10"))
	assert.False(t, ValidIdentifier(""))
	assert.False(t, ValidIdentifier("-leading-dash"))
	assert.False(t, ValidIdentifier("has space"))
	assert.False(t, ValidIdentifier(strings.Repeat("a", MaxIdentifierLength+1)))
}

func TestCreateAlertRequest_Validate(t *testing.T) {
	t.Run("valid after normalize", func(t *testing.T) {
		req := CreateAlertRequest{DeviceID: " d1 ", Title: " Low Battery ", Message: "15%", Severity: "high"}
		req.Normalize()
		require.NoError(t, req.Validate())
		assert.Equal(t, "d1", req.DeviceID)
		assert.Equal(t, "Low Battery", req.Title)
		assert.Equal(t, AlertSeverityHigh, req.Severity)
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		req := CreateAlertRequest{DeviceID: "bad id", Title: "", Message: "", Severity: "urgent"}
		req.Normalize()
		assert.Equal(t, []string{"deviceId", "title", "message", "severity"}, fieldsOf(t, req.Validate()))
	})

	t.Run("length bounds", func(t *testing.T) {
		req := CreateAlertRequest{
			DeviceID: "d1",
			Title:    strings.Repeat("t", MaxAlertTitleLength+1),
			Message:  strings.Repeat("m", MaxAlertMessageLength+1),
			Severity: AlertSeverityLow,
		}
		assert.Equal(t, []string{"title", "message"}, fieldsOf(t, req.Validate()))

		req.Title = strings.Repeat("t", MaxAlertTitleLength)
		req.Message = strings.Repeat("m", MaxAlertMessageLength)
		assert.NoError(t, req.Validate())
	})

	t.Run("missing severity", func(t *testing.T) {
		req := CreateAlertRequest{DeviceID: "d1", Title: "x", Message: "y"}
		err := req.Validate()
		assert.Equal(t, []string{"severity"}, fieldsOf(t, err))
		assert.Equal(t, "severity is required", apperrors.GetDetails(err)[0].Message)
	})
}

func TestResolveAlertRequest(t *testing.T) {
	blank := "   "
	req := ResolveAlertRequest{ResolutionNotes: &blank}
	req.Normalize()
	assert.Nil(t, req.ResolutionNotes)
	assert.NoError(t, req.Validate())

	long := strings.Repeat("n", MaxResolutionNotes+1)
	req = ResolveAlertRequest{ResolutionNotes: &long}
	assert.Equal(t, []string{"resolutionNotes"}, fieldsOf(t, req.Validate()))

	ok := strings.Repeat("n", MaxResolutionNotes)
	req = ResolveAlertRequest{ResolutionNotes: &ok}
	assert.NoError(t, req.Validate())
}

func TestBulkAcknowledgeRequest_Validate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		req := BulkAcknowledgeRequest{}
		assert.Equal(t, []string{"alertIds"}, fieldsOf(t, req.Validate()))
	})

	t.Run("too many", func(t *testing.T) {
		ids := make([]string, MaxBulkAlertIDs+1)
		for i := range ids {
			ids[i] = "a" + strings.Repeat("x", i%5) + string(rune('a'+i%26)) + strings.Repeat("1", i/26)
		}
		req := BulkAcknowledgeRequest{AlertIDs: ids}
		assert.Contains(t, fieldsOf(t, req.Validate()), "alertIds")
	})

	t.Run("exactly fifty unique", func(t *testing.T) {
		ids := make([]string, MaxBulkAlertIDs)
		for i := range ids {
			ids[i] = "alert-" + string(rune('a'+i%26)) + strings.Repeat("z", i/26)
		}
		req := BulkAcknowledgeRequest{AlertIDs: ids}
		assert.NoError(t, req.Validate())
	})

	t.Run("duplicates and malformed ids reported per index", func(t *testing.T) {
		req := BulkAcknowledgeRequest{AlertIDs: []string{"a1", " a1 ", "", "a2"}}
		req.Normalize()
		assert.Equal(t, []string{"alertIds[1]", "alertIds[2]"}, fieldsOf(t, req.Validate()))
	})

	t.Run("normalize leaves the caller's ids untouched", func(t *testing.T) {
		ids := []string{" a1 ", "a2\t"}
		req := BulkAcknowledgeRequest{AlertIDs: ids}
		req.Normalize()
		assert.Equal(t, []string{"a1", "a2"}, req.AlertIDs)
		assert.Equal(t, []string{" a1 ", "a2\t"}, ids)

		empty := BulkAcknowledgeRequest{}
		empty.Normalize()
		assert.Nil(t, empty.AlertIDs)
	})
}

func TestUpsertDeviceRequest_Validate(t *testing.T) {
	req := UpsertDeviceRequest{ID: "d1", UserID: "u1", Name: "Thermostat", Type: "sensor"}
	assert.NoError(t, req.Validate())

	req = UpsertDeviceRequest{}
	assert.Equal(t, []string{"id", "userId", "name", "type"}, fieldsOf(t, req.Validate()))
}

func TestNewAlertEvent(t *testing.T) {
	a := &Alert{ID: "a1", DeviceID: "d1", UserID: "u1", Title: "Low Battery", Severity: AlertSeverityHigh, Status: AlertStatusActive}
	ev := NewAlertEvent(AlertEventCreated, a, "u1")
	assert.Equal(t, AlertEventCreated, ev.Type)
	assert.Equal(t, "a1", ev.AlertID)
	assert.Equal(t, AlertStatusActive, ev.Status)
	assert.Equal(t, "u1", ev.ActorID)
}

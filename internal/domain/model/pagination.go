//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"math"
	"strconv"
	"strings"
)

// List paging bounds. Limits above MaxListLimit are rejected, never clamped.
const (
	DefaultListPage  = 1
	DefaultListLimit = 10
	MaxListLimit     = 100
	// MaxListPage keeps (page-1)*limit within int for every accepted limit.
	MaxListPage = math.MaxInt/MaxListLimit + 1
)

// AlertListQuery holds raw, untrusted list parameters as received from a caller.
type AlertListQuery struct {
	Status   string
	Severity string
	DeviceID string
	Page     string
	Limit    string
}

// AlertListParams holds validated list filters and paging.
type AlertListParams struct {
	Status   *AlertStatus
	Severity *AlertSeverity
	DeviceID *string
	Page     int
	Limit    int
}

// Offset returns the number of rows to skip for the requested page.
func (p AlertListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Validate checks typed params built in code (CLI, tests).
func (p AlertListParams) Validate() error {
	var fe fieldErrors
	if p.Status != nil && !p.Status.Valid() {
		fe.add("status", "%s", oneOfMessage("status", AlertStatuses()))
	}
	if p.Severity != nil && !p.Severity.Valid() {
		fe.add("severity", "%s", oneOfMessage("severity", AlertSeverities()))
	}
	if p.DeviceID != nil && !ValidIdentifier(*p.DeviceID) {
		fe.add("deviceId", "deviceId must be a valid identifier")
	}
	if p.Page < 1 || p.Page > MaxListPage {
		fe.add("page", "page must be between 1 and %d", MaxListPage)
	}
	if p.Limit < 1 || p.Limit > MaxListLimit {
		fe.add("limit", "limit must be between 1 and %d", MaxListLimit)
	}
	return fe.err()
}

// ParseAlertListQuery converts raw parameters into AlertListParams, reporting every invalid field.
func ParseAlertListQuery(q AlertListQuery) (AlertListParams, error) {
	var fe fieldErrors
	params := AlertListParams{Page: DefaultListPage, Limit: DefaultListLimit}

	if v := strings.TrimSpace(q.Status); v != "" {
		if s, ok := ParseAlertStatus(v); ok {
			params.Status = &s
		} else {
			fe.add("status", "%s", oneOfMessage("status", AlertStatuses()))
		}
	}
	if v := strings.TrimSpace(q.Severity); v != "" {
		if s, ok := ParseAlertSeverity(v); ok {
			params.Severity = &s
		} else {
			fe.add("severity", "%s", oneOfMessage("severity", AlertSeverities()))
		}
	}
	if v := strings.TrimSpace(q.DeviceID); v != "" {
		if ValidIdentifier(v) {
			params.DeviceID = &v
		} else {
			fe.add("deviceId", "deviceId must be a valid identifier")
		}
	}
	if v := strings.TrimSpace(q.Page); v != "" {
		n, err := strconv.Atoi(v)
		switch {
		case err != nil || n < 1:
			fe.add("page", "page must be a positive integer")
		case n > MaxListPage:
			fe.add("page", "page must be between 1 and %d", MaxListPage)
		default:
			params.Page = n
		}
	}
	if v := strings.TrimSpace(q.Limit); v != "" {
		n, err := strconv.Atoi(v)
		switch {
		case err != nil || n < 1:
			fe.add("limit", "limit must be a positive integer")
		case n > MaxListLimit:
			fe.add("limit", "limit must be between 1 and %d", MaxListLimit)
		default:
			params.Limit = n
		}
	}

	if err := fe.err(); err != nil {
		return AlertListParams{}, err
	}
	return params, nil
}

// Pagination is the stable envelope returned with every list page.
type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination computes the envelope for a page. An empty result has zero pages
// and neither a next nor a previous page.
func NewPagination(total, page, limit int) Pagination {
	p := Pagination{Total: total, Page: page, Limit: limit}
	if total <= 0 || limit <= 0 {
		return p
	}
	p.TotalPages = (total + limit - 1) / limit
	p.HasNext = page < p.TotalPages
	p.HasPrev = page > 1
	return p
}

// AlertListResult is one page of alerts plus its envelope.
type AlertListResult struct {
	Alerts     []*Alert   `json:"alerts"`
	Pagination Pagination `json:"pagination"`
}

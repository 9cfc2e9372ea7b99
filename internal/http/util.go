package httpx

import (
	"net/http"

	"github.com/target/fleet-alerts/internal/domain/model"
)

// alertListQueryFromRequest copies the raw list parameters from the query string.
func alertListQueryFromRequest(r *http.Request) model.AlertListQuery {
	q := r.URL.Query()
	return model.AlertListQuery{
		Status:   q.Get("status"),
		Severity: q.Get("severity"),
		DeviceID: q.Get("deviceId"),
		Page:     q.Get("page"),
		Limit:    q.Get("limit"),
	}
}

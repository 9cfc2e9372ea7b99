// Package memstore is an in-process implementation of the alert and device
// repositories. It applies the same conditional-transition and open-duplicate
// rules as the Postgres store and backs service and handler tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/target/fleet-alerts/internal/core"
	"github.com/target/fleet-alerts/internal/domain/model"
	apperrors "github.com/target/fleet-alerts/internal/errors"
)

// Store holds devices and alerts behind a single mutex.
type Store struct {
	mu      sync.RWMutex
	devices map[string]model.Device
	alerts  map[string]model.Alert
	// FailWith, when set, is returned (as a store error) by every call.
	FailWith error
	// NewID overrides alert id generation.
	NewID func() string
}

// New returns an empty store.
func New() *Store {
	return &Store{
		devices: make(map[string]model.Device),
		alerts:  make(map[string]model.Alert),
		NewID:   uuid.NewString,
	}
}

// Alerts returns an AlertRepository view of the store.
func (s *Store) Alerts() core.AlertRepository { return alertRepo{s} }

// Devices returns a DeviceRepository view of the store.
func (s *Store) Devices() core.DeviceRepository { return deviceRepo{s} }

// PutDevice registers a device directly.
func (s *Store) PutDevice(d model.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[d.ID] = d
}

// PutAlert stores an alert as-is, bypassing lifecycle rules.
func (s *Store) PutAlert(a model.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Device = nil
	s.alerts[a.ID] = a
}

// AllAlerts returns a copy of every stored alert ordered by id.
func (s *Store) AllAlerts() []model.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) fail() error {
	if s.FailWith != nil {
		return apperrors.Store(s.FailWith)
	}
	return nil
}

// view copies a stored alert and attaches the device projection. Callers hold the lock.
func (s *Store) view(a model.Alert) *model.Alert {
	out := a
	if d, ok := s.devices[a.DeviceID]; ok {
		out.Device = d.Summary()
	}
	return &out
}

type deviceRepo struct{ s *Store }

func (r deviceRepo) GetByID(_ context.Context, id string) (*model.Device, error) {
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.devices[id]
	if !ok {
		return nil, apperrors.NotFound("Device not found")
	}
	return &d, nil
}

func (r deviceRepo) Upsert(_ context.Context, req model.UpsertDeviceRequest) (*model.Device, error) {
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.devices[req.ID]
	if !ok {
		d = model.Device{ID: req.ID, CreatedAt: time.Now().UTC()}
	}
	d.UserID, d.Name, d.Type = req.UserID, req.Name, req.Type
	r.s.devices[d.ID] = d
	return &d, nil
}

type alertRepo struct{ s *Store }

func (r alertRepo) GetByID(_ context.Context, id string) (*model.Alert, error) {
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.alerts[id]
	if !ok {
		return nil, apperrors.NotFound("Alert not found")
	}
	return r.s.view(a), nil
}

func (r alertRepo) FindOpenDuplicate(_ context.Context, deviceID, title string) (*model.Alert, error) {
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if a := r.s.openDuplicate(deviceID, title); a != nil {
		return r.s.view(*a), nil
	}
	return nil, nil
}

func (s *Store) openDuplicate(deviceID, title string) *model.Alert {
	for _, a := range s.alerts {
		if a.DeviceID == deviceID && a.Title == title && a.IsOpen() {
			return &a
		}
	}
	return nil
}

func (r alertRepo) Create(_ context.Context, params core.CreateAlertParams) (*model.Alert, error) {
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req := params.Request
	if _, ok := r.s.devices[req.DeviceID]; !ok {
		return nil, apperrors.NotFound("Device not found")
	}
	if r.s.openDuplicate(req.DeviceID, req.Title) != nil {
		return nil, apperrors.Duplicate("An open alert with this title already exists for the device.")
	}

	at := params.At.UTC()
	a := model.Alert{
		ID:        r.s.NewID(),
		DeviceID:  req.DeviceID,
		UserID:    params.UserID,
		Title:     req.Title,
		Message:   req.Message,
		Severity:  req.Severity,
		Status:    model.AlertStatusActive,
		CreatedAt: at,
		UpdatedAt: at,
	}
	r.s.alerts[a.ID] = a
	return r.s.view(a), nil
}

func matches(a model.Alert, f core.AlertListFilter) bool {
	switch {
	case f.UserID != nil && a.UserID != *f.UserID:
		return false
	case f.Status != nil && a.Status != *f.Status:
		return false
	case f.Severity != nil && a.Severity != *f.Severity:
		return false
	case f.DeviceID != nil && a.DeviceID != *f.DeviceID:
		return false
	}
	return true
}

func (r alertRepo) List(_ context.Context, f core.AlertListFilter) ([]*model.Alert, error) {
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var hits []model.Alert
	for _, a := range r.s.alerts {
		if matches(a, f) {
			hits = append(hits, a)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if !hits[i].CreatedAt.Equal(hits[j].CreatedAt) {
			return hits[i].CreatedAt.After(hits[j].CreatedAt)
		}
		return hits[i].ID < hits[j].ID
	})

	start := min(max(f.Offset, 0), len(hits))
	end := len(hits)
	if f.Limit > 0 {
		end = min(start+f.Limit, len(hits))
	}
	out := make([]*model.Alert, 0, end-start)
	for _, a := range hits[start:end] {
		out = append(out, r.s.view(a))
	}
	return out, nil
}

func (r alertRepo) Count(_ context.Context, f core.AlertListFilter) (int, error) {
	if err := r.s.fail(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, a := range r.s.alerts {
		if matches(a, f) {
			n++
		}
	}
	return n, nil
}

// transition applies mutate when allowed(status) holds, all under the write lock.
func (r alertRepo) transition(id string, allowed func(model.AlertStatus) bool, mutate func(*model.Alert)) (core.TransitionResult, error) {
	if err := r.s.fail(); err != nil {
		return core.TransitionResult{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.alerts[id]
	if !ok {
		return core.TransitionResult{}, apperrors.NotFound("Alert not found")
	}
	if !allowed(a.Status) {
		return core.TransitionResult{Alert: r.s.view(a), Current: a.Status}, nil
	}
	mutate(&a)
	r.s.alerts[id] = a
	return core.TransitionResult{Alert: r.s.view(a), Applied: true, Current: a.Status}, nil
}

func (r alertRepo) TryAcknowledge(_ context.Context, id string, at time.Time) (core.TransitionResult, error) {
	at = at.UTC()
	return r.transition(id, model.AlertStatus.CanAcknowledge, func(a *model.Alert) {
		a.Status = model.AlertStatusAcknowledged
		a.AcknowledgedAt = &at
		a.UpdatedAt = at
	})
}

func (r alertRepo) TryResolve(_ context.Context, p core.ResolveParams) (core.TransitionResult, error) {
	at := p.At.UTC()
	return r.transition(p.ID, model.AlertStatus.CanResolve, func(a *model.Alert) {
		a.Status = model.AlertStatusResolved
		a.ResolvedAt = &at
		a.UpdatedAt = at
		if p.Notes != nil {
			notes := *p.Notes
			a.ResolutionNotes = &notes
		}
	})
}

func (r alertRepo) BulkAcknowledge(_ context.Context, p core.BulkAcknowledgeParams) ([]*model.Alert, error) {
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	matched := 0
	for _, id := range p.IDs {
		a, ok := r.s.alerts[id]
		if !ok || a.Status != model.AlertStatusActive {
			continue
		}
		if p.OwnerID != nil && a.UserID != *p.OwnerID {
			continue
		}
		matched++
	}
	if matched != len(p.IDs) {
		return nil, fmt.Errorf("%w: matched %d of %d", core.ErrBulkPreconditionFailed, matched, len(p.IDs))
	}

	at := p.At.UTC()
	out := make([]*model.Alert, 0, len(p.IDs))
	for _, id := range p.IDs {
		a := r.s.alerts[id]
		a.Status = model.AlertStatusAcknowledged
		a.AcknowledgedAt = &at
		a.UpdatedAt = at
		r.s.alerts[id] = a
		out = append(out, r.s.view(a))
	}
	return out, nil
}

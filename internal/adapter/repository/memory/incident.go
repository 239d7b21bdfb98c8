package memory

import (
	"context"
	"sort"
	"time"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
)

// IncidentRepo implements ports.IncidentRepository.

type IncidentRepo struct{ s *Store }

func (s *Store) Incidents() *IncidentRepo { return &IncidentRepo{s: s} }

func copyIncident(i *domain.Incident) *domain.Incident {
	cp := *i
	cp.AssignedTo = append([]int64(nil), i.AssignedTo...)
	return &cp
}

func (r *IncidentRepo) GetByID(_ context.Context, incidentID int64) (*domain.Incident, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i, ok := r.s.incidents[incidentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyIncident(i), nil
}

func (r *IncidentRepo) List(_ context.Context, status domain.IncidentStatus, limit int) ([]domain.Incident, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var incidents []domain.Incident
	for _, i := range r.s.incidents {
		if status != "" && i.Status != status {
			continue
		}
		incidents = append(incidents, *copyIncident(i))
	}
	sort.Slice(incidents, func(a, b int) bool {
		return incidents[a].CreatedAt.After(incidents[b].CreatedAt)
	})
	if limit > 0 && len(incidents) > limit {
		incidents = incidents[:limit]
	}
	return incidents, nil
}

func (r *IncidentRepo) Create(_ context.Context, incident *domain.Incident) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if incident.ID == 0 {
		incident.ID = r.s.allocID()
	}
	r.s.incidents[incident.ID] = copyIncident(incident)
	return nil
}

func (r *IncidentRepo) UpdateStatus(_ context.Context, incidentID int64, status domain.IncidentStatus, resolvedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.incidents[incidentID]
	if !ok {
		return domain.ErrNotFound
	}
	i.Status = status
	if resolvedAt != nil {
		i.ResolvedAt = resolvedAt
	}
	return nil
}

func (r *IncidentRepo) UpdatePeopleAvailable(_ context.Context, incidentID int64, available int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.incidents[incidentID]
	if !ok {
		return domain.ErrNotFound
	}
	i.PeopleAvailable = available
	return nil
}

func (r *IncidentRepo) Assign(_ context.Context, incidentID, attendeeID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.incidents[incidentID]
	if !ok {
		return domain.ErrNotFound
	}
	if i.Assigned(attendeeID) {
		return nil
	}
	i.AssignedTo = append(i.AssignedTo, attendeeID)
	return nil
}

func (r *IncidentRepo) Unassign(_ context.Context, incidentID, attendeeID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.incidents[incidentID]
	if !ok {
		return domain.ErrNotFound
	}
	for idx, id := range i.AssignedTo {
		if id == attendeeID {
			i.AssignedTo = append(i.AssignedTo[:idx], i.AssignedTo[idx+1:]...)
			return nil
		}
	}
	return nil
}

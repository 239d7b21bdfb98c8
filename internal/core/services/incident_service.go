package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
	"github.com/bbarni2020/Event-Pyramide/internal/core/ports"
)

type CreateIncidentRequest struct {
	ReportedBy   int64  `json:"reported_by"`
	IncidentType string `json:"incident_type"`
	Description  string `json:"description"`
	PeopleNeeded int    `json:"people_needed"`
}

// IncidentService tracks floor incidents and their responder set. Responder
// assignment is a plain membership set: adding twice or removing an absent
// responder is a no-op.
type IncidentService struct {
	attendeeRepo ports.AttendeeRepository
	incidentRepo ports.IncidentRepository
}

func NewIncidentService(attendeeRepo ports.AttendeeRepository, incidentRepo ports.IncidentRepository) *IncidentService {
	return &IncidentService{attendeeRepo: attendeeRepo, incidentRepo: incidentRepo}
}

func (s *IncidentService) CreateIncident(ctx context.Context, req CreateIncidentRequest) (*domain.Incident, error) {
	if req.IncidentType == "" {
		return nil, fmt.Errorf("%w: incident_type is required", domain.ErrValidation)
	}
	if req.PeopleNeeded <= 0 {
		req.PeopleNeeded = 1
	}

	incident := &domain.Incident{
		ReportedBy:   req.ReportedBy,
		IncidentType: req.IncidentType,
		Description:  req.Description,
		PeopleNeeded: req.PeopleNeeded,
		Status:       domain.IncidentOpen,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.incidentRepo.Create(ctx, incident); err != nil {
		return nil, fmt.Errorf("create incident: %w", err)
	}

	return incident, nil
}

func (s *IncidentService) ListIncidents(ctx context.Context, status domain.IncidentStatus, limit int) ([]domain.Incident, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.incidentRepo.List(ctx, status, limit)
}

func (s *IncidentService) GetIncident(ctx context.Context, incidentID int64) (*domain.Incident, error) {
	return s.incidentRepo.GetByID(ctx, incidentID)
}

func (s *IncidentService) Assign(ctx context.Context, incidentID int64, attendeeIDs []int64) (*domain.Incident, error) {
	if _, err := s.incidentRepo.GetByID(ctx, incidentID); err != nil {
		return nil, fmt.Errorf("get incident: %w", err)
	}

	for _, id := range attendeeIDs {
		if _, err := s.attendeeRepo.GetByID(ctx, id); err != nil {
			return nil, fmt.Errorf("get responder %d: %w", id, err)
		}
		if err := s.incidentRepo.Assign(ctx, incidentID, id); err != nil {
			return nil, fmt.Errorf("assign responder %d: %w", id, err)
		}
	}

	return s.incidentRepo.GetByID(ctx, incidentID)
}

func (s *IncidentService) Unassign(ctx context.Context, incidentID, attendeeID int64) (*domain.Incident, error) {
	if _, err := s.incidentRepo.GetByID(ctx, incidentID); err != nil {
		return nil, fmt.Errorf("get incident: %w", err)
	}

	if err := s.incidentRepo.Unassign(ctx, incidentID, attendeeID); err != nil {
		return nil, fmt.Errorf("unassign responder: %w", err)
	}

	return s.incidentRepo.GetByID(ctx, incidentID)
}

func (s *IncidentService) UpdateStatus(ctx context.Context, incidentID int64, status domain.IncidentStatus) (*domain.Incident, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, status)
	}

	var resolvedAt *time.Time
	if status == domain.IncidentResolved {
		now := time.Now().UTC()
		resolvedAt = &now
	}

	if err := s.incidentRepo.UpdateStatus(ctx, incidentID, status, resolvedAt); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	return s.incidentRepo.GetByID(ctx, incidentID)
}

func (s *IncidentService) UpdatePeopleAvailable(ctx context.Context, incidentID int64, available int) (*domain.Incident, error) {
	if available < 0 {
		available = 0
	}

	if err := s.incidentRepo.UpdatePeopleAvailable(ctx, incidentID, available); err != nil {
		return nil, fmt.Errorf("update people available: %w", err)
	}

	return s.incidentRepo.GetByID(ctx, incidentID)
}

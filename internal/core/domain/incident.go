package domain

import "time"

type IncidentStatus string

const (
	IncidentOpen     IncidentStatus = "open"
	IncidentResolved IncidentStatus = "resolved"
	IncidentClosed   IncidentStatus = "closed"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentOpen, IncidentResolved, IncidentClosed:
		return true
	}
	return false
}

type Incident struct {
	ID              int64
	ReportedBy      int64
	IncidentType    string
	Description     string
	PeopleNeeded    int
	PeopleAvailable int
	Status          IncidentStatus
	AssignedTo      []int64
	CreatedAt       time.Time
	ResolvedAt      *time.Time
}

// Assigned reports whether an attendee is already in the responder set.
func (i *Incident) Assigned(attendeeID int64) bool {
	for _, id := range i.AssignedTo {
		if id == attendeeID {
			return true
		}
	}
	return false
}

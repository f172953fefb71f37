package domain

import "time"

type ApplicationStatus string

const (
	ApplicationDraft    ApplicationStatus = "draft"
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Application is one registration for a popup: the user who applied and the
// roster of attendees they registered. The roster order matters downstream,
// the main attendee always comes first.
type Application struct {
	ID        uint              `json:"id"`
	PopupID   uint              `json:"popup_id"`
	UserID    uint              `json:"user_id"`
	Status    ApplicationStatus `json:"status"`
	Group     bool              `json:"is_group"` // part of a group registration
	Attendees []Attendee        `json:"attendees"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Review transitions a pending application. Invalid transitions are ignored.
func (a *Application) Review(accept bool) {
	if a.Status != ApplicationPending {
		return
	}
	if accept {
		a.Status = ApplicationAccepted
	} else {
		a.Status = ApplicationRejected
	}
}

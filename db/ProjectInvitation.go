package db

import (
	"fmt"
	"time"
)

type ProjectInvitationStatus string

const (
	ProjectInvitationPending  ProjectInvitationStatus = "pending"
	ProjectInvitationAccepted ProjectInvitationStatus = "accepted"
	ProjectInvitationDeclined ProjectInvitationStatus = "declined"
	ProjectInvitationExpired  ProjectInvitationStatus = "expired"
)

// DefaultInvitationExpiryDays is used when the configuration does not set one.
const DefaultInvitationExpiryDays = 7

func (s ProjectInvitationStatus) IsValid() bool {
	switch s {
	case ProjectInvitationPending, ProjectInvitationAccepted, ProjectInvitationDeclined, ProjectInvitationExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s ProjectInvitationStatus) IsTerminal() bool {
	return s != ProjectInvitationPending
}

type ProjectInvitation struct {
	ID           int                     `db:"id" json:"id"`
	ProjectID    int                     `db:"project_id" json:"project_id"`
	InviterID    int                     `db:"inviter_id" json:"inviter_id"`
	InviteeID    *int                    `db:"invitee_id" json:"invitee_id,omitempty"`       // Set for user invitations
	InviteeEmail *string                 `db:"invitee_email" json:"invitee_email,omitempty"` // Set for email invitations
	Token        string                  `db:"token" json:"-"`
	Status       ProjectInvitationStatus `db:"status" json:"status"`
	Created      time.Time               `db:"created" json:"created"`
	ExpiresAt    time.Time               `db:"expires_at" json:"expires_at"`
	RespondedAt  *time.Time              `db:"responded_at" json:"responded_at,omitempty"`
}

// IsExpiredAt reports whether a pending invitation has outlived its expiry at the given instant.
func (inv *ProjectInvitation) IsExpiredAt(now time.Time) bool {
	return inv.Status == ProjectInvitationPending && !now.Before(inv.ExpiresAt)
}

// IsLive reports whether the invitation still blocks a new one for the same invitee.
func (inv *ProjectInvitation) IsLive(now time.Time) bool {
	return inv.Status == ProjectInvitationPending && !inv.IsExpiredAt(now)
}

// Target returns a human readable description of who was invited.
func (inv *ProjectInvitation) Target() string {
	if inv.InviteeEmail != nil {
		return *inv.InviteeEmail
	}
	if inv.InviteeID != nil {
		return fmt.Sprintf("User ID %d", *inv.InviteeID)
	}
	return "unknown"
}

// ProjectInvitationFilter narrows invitation lookups. Zero fields are ignored.
type ProjectInvitationFilter struct {
	ProjectID    *int
	InviteeID    *int
	InviteeEmail *string
	Status       *ProjectInvitationStatus
}

func (f ProjectInvitationFilter) Match(inv ProjectInvitation) bool {
	if f.ProjectID != nil && inv.ProjectID != *f.ProjectID {
		return false
	}
	if f.InviteeID != nil && (inv.InviteeID == nil || *inv.InviteeID != *f.InviteeID) {
		return false
	}
	if f.InviteeEmail != nil && (inv.InviteeEmail == nil || *inv.InviteeEmail != *f.InviteeEmail) {
		return false
	}
	if f.Status != nil && inv.Status != *f.Status {
		return false
	}
	return true
}

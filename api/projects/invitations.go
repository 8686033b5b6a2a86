package projects

import (
	"net/http"

	"github.com/taskflow/taskflow/api/helpers"
	"github.com/taskflow/taskflow/db"
	"github.com/taskflow/taskflow/services/server"
)

type InvitationController struct {
	InvitationService server.InvitationService
}

// GetInvitations returns all invitations of a project
func (c *InvitationController) GetInvitations(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	user := helpers.UserFromContext(r)

	invitations, err := c.InvitationService.GetProjectInvitations(project.ID, user.ID)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, invitations)
}

// CreateInvitation creates a new project invitation
func (c *InvitationController) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	user := helpers.UserFromContext(r)

	var request struct {
		UserID *int    `json:"invitee_id,omitempty"`
		Email  *string `json:"invitee_email,omitempty"`
	}

	if !helpers.Bind(w, r, &request) {
		return
	}

	res, err := c.InvitationService.CreateInvitation(server.CreateInvitationRequest{
		ProjectID:    project.ID,
		InviterID:    user.ID,
		InviteeID:    request.UserID,
		InviteeEmail: request.Email,
	})
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, res)
}

// RevokeInvitation removes a pending project invitation
func (c *InvitationController) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	user := helpers.UserFromContext(r)

	invitationID, err := helpers.GetIntParam("invitation_id", w, r)
	if err != nil {
		return
	}

	if err = c.InvitationService.RevokeInvitation(project.ID, invitationID, user.ID); err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type invitationTokenRequest struct {
	Token string `json:"token"`
}

func bindToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	var request invitationTokenRequest

	if !helpers.Bind(w, r, &request) {
		return "", false
	}

	if request.Token == "" {
		helpers.WriteErrorStatus(w, "token is required", http.StatusBadRequest)
		return "", false
	}

	return request.Token, true
}

// AcceptInvitation accepts a project invitation using token
func (c *InvitationController) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	token, ok := bindToken(w, r)
	if !ok {
		return
	}

	invitation, err := c.InvitationService.AcceptInvitation(token, helpers.UserFromContext(r).ID)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, invitation)
}

// DeclineInvitation declines a project invitation using token
func (c *InvitationController) DeclineInvitation(w http.ResponseWriter, r *http.Request) {
	token, ok := bindToken(w, r)
	if !ok {
		return
	}

	invitation, err := c.InvitationService.DeclineInvitation(token, helpers.UserFromContext(r).ID)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, invitation)
}

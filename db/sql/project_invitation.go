package sql

import (
	"github.com/Masterminds/squirrel"
	"github.com/taskflow/taskflow/db"
)

func (d *SqlDb) CreateProjectInvitation(invitation db.ProjectInvitation) (db.ProjectInvitation, error) {
	err := d.sql.Insert(&invitation)
	if isUniqueViolation(err) {
		return db.ProjectInvitation{}, &db.ValidationError{Message: "invitation token collision"}
	}
	return invitation, err
}

func (d *SqlDb) GetProjectInvitation(projectID int, invitationID int) (invitation db.ProjectInvitation, err error) {
	err = d.selectOne(&invitation, d.builder().
		Select("*").
		From(db.ProjectInvitationProps.TableName).
		Where(squirrel.Eq{"project_id": projectID, "id": invitationID}))
	return
}

func (d *SqlDb) GetProjectInvitationByToken(token string) (invitation db.ProjectInvitation, err error) {
	err = d.selectOne(&invitation, d.builder().
		Select("*").
		From(db.ProjectInvitationProps.TableName).
		Where(squirrel.Eq{"token": token}))
	return
}

func (d *SqlDb) GetProjectInvitations(filter db.ProjectInvitationFilter) (invitations []db.ProjectInvitation, err error) {
	where := squirrel.Eq{}

	if filter.ProjectID != nil {
		where["project_id"] = *filter.ProjectID
	}
	if filter.InviteeID != nil {
		where["invitee_id"] = *filter.InviteeID
	}
	if filter.InviteeEmail != nil {
		where["invitee_email"] = *filter.InviteeEmail
	}
	if filter.Status != nil {
		where["status"] = string(*filter.Status)
	}

	q := d.builder().
		Select("*").
		From(db.ProjectInvitationProps.TableName).
		OrderBy("created", "id")

	if len(where) > 0 {
		q = q.Where(where)
	}

	invitations = make([]db.ProjectInvitation, 0)
	err = d.selectAll(&invitations, q)
	return
}

func (d *SqlDb) UpdateProjectInvitation(invitation db.ProjectInvitation) error {
	res, err := d.exec(d.builder().
		Update(db.ProjectInvitationProps.TableName).
		Set("status", string(invitation.Status)).
		Set("invitee_id", invitation.InviteeID).
		Set("responded_at", invitation.RespondedAt).
		Where(squirrel.Eq{"id": invitation.ID}))
	return validateMutationResult(res, err)
}

func (d *SqlDb) DeleteProjectInvitation(projectID int, invitationID int) error {
	return d.deleteObject(db.ProjectInvitationProps, squirrel.Eq{
		"project_id": projectID,
		"id":         invitationID,
	})
}

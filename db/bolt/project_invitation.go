package bolt

import (
	"github.com/taskflow/taskflow/db"
	"go.etcd.io/bbolt"
)

// invitationTokenIndex maps an invitation token to the invitation key.
var invitationTokenIndex = []byte("project_invitation_tokens")

// storedInvitation persists the token, which the API model never serializes.
type storedInvitation struct {
	db.ProjectInvitation
	Token string `json:"token"`
}

func toStored(invitation db.ProjectInvitation) storedInvitation {
	return storedInvitation{ProjectInvitation: invitation, Token: invitation.Token}
}

func (s storedInvitation) invitation() db.ProjectInvitation {
	res := s.ProjectInvitation
	res.Token = s.Token
	return res
}

func (d *BoltDb) CreateProjectInvitation(invitation db.ProjectInvitation) (db.ProjectInvitation, error) {
	err := d.db.Update(func(tx *bbolt.Tx) error {
		index, err := tx.CreateBucketIfNotExists(invitationTokenIndex)
		if err != nil {
			return err
		}

		if index.Get([]byte(invitation.Token)) != nil {
			return &db.ValidationError{Message: "invitation token collision"}
		}

		id, err := createObjectTx(tx, db.ProjectInvitationProps, func(id int) any {
			invitation.ID = id
			return toStored(invitation)
		})
		if err != nil {
			return err
		}

		return index.Put([]byte(invitation.Token), intObjectID(id).ToBytes())
	})

	if err != nil {
		return db.ProjectInvitation{}, err
	}

	return invitation, nil
}

func getInvitationTx(tx *bbolt.Tx, id objectID) (db.ProjectInvitation, error) {
	stored, err := getObjectTx[storedInvitation](tx, db.ProjectInvitationProps, id)
	if err != nil {
		return db.ProjectInvitation{}, err
	}
	return stored.invitation(), nil
}

func (d *BoltDb) GetProjectInvitation(projectID int, invitationID int) (invitation db.ProjectInvitation, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		invitation, err = getInvitationTx(tx, intObjectID(invitationID))
		if err != nil {
			return err
		}

		if invitation.ProjectID != projectID {
			return db.ErrNotFound
		}

		return nil
	})
	return
}

func (d *BoltDb) GetProjectInvitationByToken(token string) (invitation db.ProjectInvitation, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		index := tx.Bucket(invitationTokenIndex)
		if index == nil {
			return db.ErrNotFound
		}

		key := index.Get([]byte(token))
		if key == nil {
			return db.ErrNotFound
		}

		invitation, err = getInvitationTx(tx, strObjectID(key))
		return err
	})
	return
}

func (d *BoltDb) GetProjectInvitations(filter db.ProjectInvitationFilter) ([]db.ProjectInvitation, error) {
	stored, err := getObjects(d, db.ProjectInvitationProps, func(s storedInvitation) bool {
		return filter.Match(s.ProjectInvitation)
	})
	if err != nil {
		return nil, err
	}

	invitations := make([]db.ProjectInvitation, 0, len(stored))
	for _, s := range stored {
		invitations = append(invitations, s.invitation())
	}

	return invitations, nil
}

func (d *BoltDb) UpdateProjectInvitation(invitation db.ProjectInvitation) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		existing, err := getInvitationTx(tx, intObjectID(invitation.ID))
		if err != nil {
			return err
		}

		existing.Status = invitation.Status
		existing.InviteeID = invitation.InviteeID
		existing.RespondedAt = invitation.RespondedAt

		return updateObjectTx(tx, db.ProjectInvitationProps, intObjectID(invitation.ID), toStored(existing))
	})
}

func (d *BoltDb) DeleteProjectInvitation(projectID int, invitationID int) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		invitation, err := getInvitationTx(tx, intObjectID(invitationID))
		if err != nil {
			return err
		}

		if invitation.ProjectID != projectID {
			return db.ErrNotFound
		}

		if index := tx.Bucket(invitationTokenIndex); index != nil {
			if err = index.Delete([]byte(invitation.Token)); err != nil {
				return err
			}
		}

		return deleteObjectTx(tx, db.ProjectInvitationProps, intObjectID(invitationID))
	})
}

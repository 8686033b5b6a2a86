package bolt

import (
	"github.com/taskflow/taskflow/db"
	"go.etcd.io/bbolt"
)

// migration_1_0_0 rebuilds the invitation token index from stored invitations.
type migration_1_0_0 struct {
	migration
}

func (d migration_1_0_0) Apply() error {
	invitations, err := d.getObjects(db.ProjectInvitationProps)
	if err != nil {
		return err
	}

	return d.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(invitationTokenIndex) != nil {
			if err := tx.DeleteBucket(invitationTokenIndex); err != nil {
				return err
			}
		}

		index, err := tx.CreateBucket(invitationTokenIndex)
		if err != nil {
			return err
		}

		for id, invitation := range invitations {
			token, ok := invitation["token"].(string)
			if !ok || token == "" {
				continue
			}
			if err = index.Put([]byte(token), []byte(id)); err != nil {
				return err
			}
		}

		return nil
	})
}

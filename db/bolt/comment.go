package bolt

import (
	"github.com/taskflow/taskflow/db"
	"go.etcd.io/bbolt"
)

func (d *BoltDb) CreateComment(comment db.Comment) (db.Comment, error) {
	comment.Replies = nil

	err := d.db.Update(func(tx *bbolt.Tx) error {
		_, err := createObjectTx(tx, db.CommentProps, func(id int) any {
			comment.ID = id
			return comment
		})
		return err
	})

	return comment, err
}

func (d *BoltDb) GetComment(commentID int) (db.Comment, error) {
	return getObject[db.Comment](d, db.CommentProps, intObjectID(commentID))
}

func (d *BoltDb) GetTaskComments(taskID int) ([]db.Comment, error) {
	return getObjects(d, db.CommentProps, func(c db.Comment) bool {
		return c.TaskID == taskID
	})
}

func (d *BoltDb) CountCommentReplies(commentID int) (int, error) {
	replies, err := getObjects(d, db.CommentProps, func(c db.Comment) bool {
		return c.ParentID != nil && *c.ParentID == commentID
	})
	return len(replies), err
}

func (d *BoltDb) UpdateComment(comment db.Comment) error {
	comment.Replies = nil

	return d.db.Update(func(tx *bbolt.Tx) error {
		return updateObjectTx(tx, db.CommentProps, intObjectID(comment.ID), comment)
	})
}

func (d *BoltDb) DeleteComment(commentID int) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		return deleteObjectTx(tx, db.CommentProps, intObjectID(commentID))
	})
}

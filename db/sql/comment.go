package sql

import (
	"github.com/Masterminds/squirrel"
	"github.com/taskflow/taskflow/db"
)

func (d *SqlDb) CreateComment(comment db.Comment) (db.Comment, error) {
	err := d.sql.Insert(&comment)
	return comment, err
}

func (d *SqlDb) GetComment(commentID int) (comment db.Comment, err error) {
	err = d.selectOne(&comment, d.builder().
		Select("*").
		From(db.CommentProps.TableName).
		Where(squirrel.Eq{"id": commentID}))
	return
}

func (d *SqlDb) GetTaskComments(taskID int) (comments []db.Comment, err error) {
	comments = make([]db.Comment, 0)
	err = d.selectAll(&comments, d.builder().
		Select("*").
		From(db.CommentProps.TableName).
		Where(squirrel.Eq{"task_id": taskID}).
		OrderBy("created", "id"))
	return
}

func (d *SqlDb) CountCommentReplies(commentID int) (int, error) {
	return d.selectInt(d.builder().
		Select("count(*)").
		From(db.CommentProps.TableName).
		Where(squirrel.Eq{"parent_id": commentID}))
}

func (d *SqlDb) UpdateComment(comment db.Comment) error {
	return validateUpdateCount(d.sql.Update(&comment))
}

func (d *SqlDb) DeleteComment(commentID int) error {
	return d.deleteObject(db.CommentProps, squirrel.Eq{"id": commentID})
}

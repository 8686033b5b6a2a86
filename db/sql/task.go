package sql

import (
	"github.com/Masterminds/squirrel"
	"github.com/taskflow/taskflow/db"
)

func (d *SqlDb) CreateTask(task db.Task) (db.Task, error) {
	if err := task.Validate(); err != nil {
		return db.Task{}, err
	}

	err := d.sql.Insert(&task)
	return task, err
}

func (d *SqlDb) GetTask(taskID int) (task db.Task, err error) {
	err = d.selectOne(&task, d.builder().
		Select("*").
		From(db.TaskProps.TableName).
		Where(squirrel.Eq{"id": taskID}))
	return
}

func (d *SqlDb) GetProjectTasks(projectID int) (tasks []db.Task, err error) {
	tasks = make([]db.Task, 0)
	err = d.selectAll(&tasks, d.builder().
		Select("*").
		From(db.TaskProps.TableName).
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("id"))
	return
}

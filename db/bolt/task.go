package bolt

import (
	"github.com/taskflow/taskflow/db"
	"go.etcd.io/bbolt"
)

func (d *BoltDb) CreateTask(task db.Task) (db.Task, error) {
	if err := task.Validate(); err != nil {
		return db.Task{}, err
	}

	err := d.db.Update(func(tx *bbolt.Tx) error {
		_, err := createObjectTx(tx, db.TaskProps, func(id int) any {
			task.ID = id
			return task
		})
		return err
	})

	return task, err
}

func (d *BoltDb) GetTask(taskID int) (db.Task, error) {
	return getObject[db.Task](d, db.TaskProps, intObjectID(taskID))
}

func (d *BoltDb) GetProjectTasks(projectID int) ([]db.Task, error) {
	return getObjects(d, db.TaskProps, func(t db.Task) bool {
		return t.ProjectID == projectID
	})
}

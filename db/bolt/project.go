package bolt

import (
	"github.com/taskflow/taskflow/db"
	"go.etcd.io/bbolt"
)

func (d *BoltDb) CreateProject(project db.Project) (db.Project, error) {
	if err := project.Validate(); err != nil {
		return db.Project{}, err
	}

	err := d.db.Update(func(tx *bbolt.Tx) error {
		_, err := createObjectTx(tx, db.ProjectProps, func(id int) any {
			project.ID = id
			return project
		})
		return err
	})

	return project, err
}

func (d *BoltDb) GetProject(projectID int) (db.Project, error) {
	return getObject[db.Project](d, db.ProjectProps, intObjectID(projectID))
}

func (d *BoltDb) GetUserProjects(userID int) (projects []db.Project, err error) {
	projects = make([]db.Project, 0)

	err = d.db.View(func(tx *bbolt.Tx) error {
		memberships, err := getObjectsTx(tx, db.ProjectUserProps, func(pu db.ProjectUser) bool {
			return pu.UserID == userID
		})
		if err != nil {
			return err
		}

		for _, pu := range memberships {
			project, err := getObjectTx[db.Project](tx, db.ProjectProps, intObjectID(pu.ProjectID))
			if err != nil {
				return err
			}
			projects = append(projects, project)
		}

		return nil
	})

	return
}

func (d *BoltDb) CreateProjectUser(projectUser db.ProjectUser) (db.ProjectUser, error) {
	if !projectUser.Role.IsValid() {
		return db.ProjectUser{}, &db.ValidationError{Message: "invalid project role"}
	}

	err := d.db.Update(func(tx *bbolt.Tx) error {
		existing, err := getObjectsTx(tx, db.ProjectUserProps, func(pu db.ProjectUser) bool {
			return pu.ProjectID == projectUser.ProjectID && pu.UserID == projectUser.UserID
		})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return &db.ValidationError{Message: "user is already a member of this project"}
		}

		_, err = createObjectTx(tx, db.ProjectUserProps, func(id int) any {
			projectUser.ID = id
			return projectUser
		})
		return err
	})

	if err != nil {
		return db.ProjectUser{}, err
	}

	return projectUser, nil
}

func (d *BoltDb) GetProjectUser(projectID int, userID int) (db.ProjectUser, error) {
	users, err := getObjects(d, db.ProjectUserProps, func(pu db.ProjectUser) bool {
		return pu.ProjectID == projectID && pu.UserID == userID
	})
	if err != nil {
		return db.ProjectUser{}, err
	}

	if len(users) == 0 {
		return db.ProjectUser{}, db.ErrNotFound
	}

	return users[0], nil
}

func (d *BoltDb) GetProjectUsers(projectID int) ([]db.ProjectUser, error) {
	return getObjects(d, db.ProjectUserProps, func(pu db.ProjectUser) bool {
		return pu.ProjectID == projectID
	})
}

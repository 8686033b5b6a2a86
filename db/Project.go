package db

import (
	"strings"
	"time"
)

type Project struct {
	ID      int       `db:"id" json:"id"`
	Name    string    `db:"name" json:"name"`
	OwnerID int       `db:"owner_id" json:"owner_id"`
	Created time.Time `db:"created" json:"created"`
}

func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{"project name can not be empty"}
	}
	return nil
}

// ProjectUser is a membership row linking a user to a project.
type ProjectUser struct {
	ID        int             `db:"id" json:"-"`
	ProjectID int             `db:"project_id" json:"project_id"`
	UserID    int             `db:"user_id" json:"user_id"`
	Role      ProjectUserRole `db:"role" json:"role"`
	Created   time.Time       `db:"created" json:"created"`
}

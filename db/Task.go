package db

import (
	"strings"
	"time"
)

type Task struct {
	ID          int       `db:"id" json:"id"`
	ProjectID   int       `db:"project_id" json:"project_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	CreatorID   int       `db:"creator_id" json:"creator_id"`
	Created     time.Time `db:"created" json:"created"`
}

func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{"task title can not be empty"}
	}
	return nil
}

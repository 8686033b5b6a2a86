package db

import (
	"sort"
	"strings"
	"time"
)

type Comment struct {
	ID        int        `db:"id" json:"id"`
	TaskID    int        `db:"task_id" json:"task_id"`
	UserID    int        `db:"user_id" json:"user_id"`
	Content   string     `db:"content" json:"content"`
	ParentID  *int       `db:"parent_id" json:"parent_id"`
	IsDeleted bool       `db:"is_deleted" json:"is_deleted"`
	Created   time.Time  `db:"created" json:"created"`
	Updated   *time.Time `db:"updated" json:"updated,omitempty"`

	Replies []Comment `db:"-" json:"replies,omitempty"`
}

func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// ValidateContent rejects blank comment bodies.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{"comment content can not be empty"}
	}
	return nil
}

// NestComments arranges a flat list of task comments into threads. Top level
// comments and every reply list are ordered by creation time, oldest first.
// Replies whose parent is absent from the list are dropped.
func NestComments(comments []Comment) []Comment {
	children := make(map[int][]Comment)
	roots := make([]Comment, 0)

	for _, c := range comments {
		if c.IsDeleted {
			c.Content = ""
		}
		if !c.IsReply() {
			roots = append(roots, c)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	var attach func(list []Comment) []Comment
	attach = func(list []Comment) []Comment {
		sortComments(list)
		for i := range list {
			if replies, ok := children[list[i].ID]; ok {
				list[i].Replies = attach(replies)
			}
		}
		return list
	}

	return attach(roots)
}

func sortComments(list []Comment) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Created.Equal(list[j].Created) {
			return list[i].ID < list[j].ID
		}
		return list[i].Created.Before(list[j].Created)
	})
}

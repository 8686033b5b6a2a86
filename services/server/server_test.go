package server

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow/db"
	"github.com/taskflow/taskflow/db/sql"
	"github.com/taskflow/taskflow/services/events"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) Publish(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		res = append(res, e.Type)
	}
	return res
}

type fixture struct {
	store    *sql.SqlDb
	recorder *eventRecorder
	clock    time.Time

	owner   db.User
	project db.Project
	task    db.Task
}

func (f *fixture) now() time.Time {
	return f.clock
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := sql.CreateTestStore()
	t.Cleanup(func() { store.Close("test") })

	f := &fixture{
		store:    store,
		recorder: &eventRecorder{},
		clock:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	projects := NewProjectService(store, store, store)
	projects.now = f.now

	var err error
	f.owner, err = projects.CreateUser(db.User{Username: "owner", Name: "Owner", Email: "owner@example.com"})
	require.NoError(t, err)

	f.project, err = projects.CreateProject(db.Project{Name: "Apollo"}, f.owner.ID)
	require.NoError(t, err)

	f.task, err = projects.CreateTask(db.Task{ProjectID: f.project.ID, Title: "Launch"}, f.owner.ID)
	require.NoError(t, err)

	return f
}

func (f *fixture) addUser(t *testing.T, username string) db.User {
	t.Helper()

	user, err := f.store.CreateUser(db.User{
		Username: username,
		Name:     username,
		Email:    username + "@example.com",
		Created:  f.clock,
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) addMember(t *testing.T, username string) db.User {
	t.Helper()

	user := f.addUser(t, username)
	_, err := f.store.CreateProjectUser(db.ProjectUser{
		ProjectID: f.project.ID,
		UserID:    user.ID,
		Role:      db.ProjectMember,
		Created:   f.clock,
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) commentService() *CommentServiceImpl {
	s := NewCommentService(f.store, f.store, f.store, f.store, f.recorder)
	s.now = f.now
	return s
}

func (f *fixture) invitationService() *InvitationServiceImpl {
	s := NewInvitationService(f.store, f.store, f.store, f.recorder, InvitationOptions{
		InviteURL: func(token string) string {
			return "http://taskflow.test/invitations/accept?token=" + token
		},
	})
	s.now = f.now
	return s
}

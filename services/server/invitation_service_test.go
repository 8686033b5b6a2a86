package server

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow/db"
	"github.com/taskflow/taskflow/services/events"
)

func strPtr(s string) *string {
	return &s
}

func TestInvitationService_CreateByEmail(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()

	res, err := s.CreateInvitation(CreateInvitationRequest{
		ProjectID:    f.project.ID,
		InviterID:    f.owner.ID,
		InviteeEmail: strPtr("  New.Person@Example.COM "),
	})
	require.NoError(t, err)

	inv := res.Invitation
	assert.NotZero(t, inv.ID)
	assert.Equal(t, db.ProjectInvitationPending, inv.Status)
	require.NotNil(t, inv.InviteeEmail)
	assert.Equal(t, "new.person@example.com", *inv.InviteeEmail)
	assert.Nil(t, inv.InviteeID)
	assert.Len(t, inv.Token, 64)
	assert.Equal(t, f.clock.AddDate(0, 0, 7), inv.ExpiresAt)
	assert.True(t, strings.HasSuffix(res.InviteURL, "token="+inv.Token))
	assert.Equal(t, []events.EventType{events.EventInvitationCreated}, f.recorder.types())
}

func TestInvitationService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()
	outsider := f.addUser(t, "outsider")
	member := f.addMember(t, "member")

	_, err := s.CreateInvitation(CreateInvitationRequest{ProjectID: f.project.ID, InviterID: f.owner.ID})
	assert.True(t, db.IsValidationError(err), "neither target")

	_, err = s.CreateInvitation(CreateInvitationRequest{
		ProjectID:    f.project.ID,
		InviterID:    f.owner.ID,
		InviteeID:    &outsider.ID,
		InviteeEmail: strPtr("x@example.com"),
	})
	assert.True(t, db.IsValidationError(err), "both targets")

	_, err = s.CreateInvitation(CreateInvitationRequest{
		ProjectID:    f.project.ID,
		InviterID:    f.owner.ID,
		InviteeEmail: strPtr("not-an-email"),
	})
	assert.True(t, db.IsValidationError(err), "bad email")

	_, err = s.CreateInvitation(CreateInvitationRequest{
		ProjectID:    f.project.ID + 100,
		InviterID:    f.owner.ID,
		InviteeEmail: strPtr("x@example.com"),
	})
	assert.ErrorIs(t, err, db.ErrNotFound)

	missing := outsider.ID + 100
	_, err = s.CreateInvitation(CreateInvitationRequest{
		ProjectID: f.project.ID,
		InviterID: f.owner.ID,
		InviteeID: &missing,
	})
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = s.CreateInvitation(CreateInvitationRequest{
		ProjectID:    f.project.ID,
		InviterID:    outsider.ID,
		InviteeEmail: strPtr("x@example.com"),
	})
	assert.ErrorIs(t, err, db.ErrForbidden)

	_, err = s.CreateInvitation(CreateInvitationRequest{
		ProjectID: f.project.ID,
		InviterID: f.owner.ID,
		InviteeID: &member.ID,
	})
	assert.True(t, db.IsValidationError(err), "already a member")

	_, err = s.CreateInvitation(CreateInvitationRequest{
		ProjectID:    f.project.ID,
		InviterID:    f.owner.ID,
		InviteeEmail: strPtr(member.Email),
	})
	assert.True(t, db.IsValidationError(err), "already a member by email")
}

func TestInvitationService_DuplicatePendingInvitation(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()

	req := CreateInvitationRequest{
		ProjectID:    f.project.ID,
		InviterID:    f.owner.ID,
		InviteeEmail: strPtr("dup@example.com"),
	}

	_, err := s.CreateInvitation(req)
	require.NoError(t, err)

	req.InviteeEmail = strPtr("DUP@example.com")
	_, err = s.CreateInvitation(req)
	assert.True(t, db.IsValidationError(err))

	// once the first invitation has lapsed a new one may be sent
	f.advance(8 * 24 * time.Hour)
	_, err = s.CreateInvitation(req)
	assert.NoError(t, err)
}

func TestInvitationService_DuplicatePendingInvitationByUserID(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()
	invitee := f.addUser(t, "invitee")

	req := CreateInvitationRequest{ProjectID: f.project.ID, InviterID: f.owner.ID, InviteeID: &invitee.ID}

	_, err := s.CreateInvitation(req)
	require.NoError(t, err)

	_, err = s.CreateInvitation(req)
	assert.True(t, db.IsValidationError(err))
}

func TestInvitationService_CreateWithBothTargets(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()
	invitee := f.addUser(t, "invitee")

	_, err := s.CreateInvitation(CreateInvitationRequest{
		ProjectID:    f.project.ID,
		InviterID:    f.owner.ID,
		InviteeID:    &invitee.ID,
		InviteeEmail: strPtr(invitee.Email),
	})
	assert.True(t, db.IsValidationError(err))

	pending, err := f.store.GetProjectInvitations(db.ProjectInvitationFilter{ProjectID: &f.project.ID})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestInvitationService_DuplicateAcrossIDAndEmail(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()
	invitee := f.addUser(t, "invitee")

	_, err := s.CreateInvitation(CreateInvitationRequest{ProjectID: f.project.ID, InviterID: f.owner.ID, InviteeID: &invitee.ID})
	require.NoError(t, err)

	_, err = s.CreateInvitation(CreateInvitationRequest{
		ProjectID:    f.project.ID,
		InviterID:    f.owner.ID,
		InviteeEmail: strPtr(" INVITEE@example.com"),
	})
	assert.True(t, db.IsValidationError(err))

	invitations, err := f.store.GetProjectInvitations(db.ProjectInvitationFilter{ProjectID: &f.project.ID})
	require.NoError(t, err)
	assert.Len(t, invitations, 1)
}

func TestInvitationService_AcceptCompletesPartialAccept(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()
	invitee := f.addUser(t, "invitee")

	res, err := s.CreateInvitation(CreateInvitationRequest{ProjectID: f.project.ID, InviterID: f.owner.ID, InviteeID: &invitee.ID})
	require.NoError(t, err)

	// membership written, invitation still pending
	_, err = f.store.CreateProjectUser(db.ProjectUser{
		ProjectID: f.project.ID,
		UserID:    invitee.ID,
		Role:      db.ProjectMember,
		Created:   f.clock,
	})
	require.NoError(t, err)

	accepted, err := s.AcceptInvitation(res.Invitation.Token, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, db.ProjectInvitationAccepted, accepted.Status)

	members, err := f.store.GetProjectUsers(f.project.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestInvitationService_AcceptAddsMember(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()
	invitee := f.addUser(t, "invitee")

	res, err := s.CreateInvitation(CreateInvitationRequest{
		ProjectID:    f.project.ID,
		InviterID:    f.owner.ID,
		InviteeEmail: strPtr(invitee.Email),
	})
	require.NoError(t, err)

	f.advance(time.Hour)

	accepted, err := s.AcceptInvitation(res.Invitation.Token, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, db.ProjectInvitationAccepted, accepted.Status)
	require.NotNil(t, accepted.RespondedAt)
	assert.Equal(t, f.clock, *accepted.RespondedAt)
	require.NotNil(t, accepted.InviteeID)
	assert.Equal(t, invitee.ID, *accepted.InviteeID)

	member, err := f.store.GetProjectUser(f.project.ID, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, db.ProjectMember, member.Role)

	stored, err := f.store.GetProjectInvitationByToken(res.Invitation.Token)
	require.NoError(t, err)
	assert.Equal(t, db.ProjectInvitationAccepted, stored.Status)

	_, err = s.AcceptInvitation(res.Invitation.Token, invitee.ID)
	assert.True(t, db.IsValidationError(err), "already resolved")

	_, err = s.DeclineInvitation(res.Invitation.Token, invitee.ID)
	assert.True(t, db.IsValidationError(err), "already resolved")

	assert.Equal(t, []events.EventType{events.EventInvitationCreated, events.EventInvitationAccepted}, f.recorder.types())
}

func TestInvitationService_Decline(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()
	invitee := f.addUser(t, "invitee")

	res, err := s.CreateInvitation(CreateInvitationRequest{ProjectID: f.project.ID, InviterID: f.owner.ID, InviteeID: &invitee.ID})
	require.NoError(t, err)

	declined, err := s.DeclineInvitation(res.Invitation.Token, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, db.ProjectInvitationDeclined, declined.Status)
	assert.NotNil(t, declined.RespondedAt)

	_, err = f.store.GetProjectUser(f.project.ID, invitee.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestInvitationService_RespondErrors(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()
	invitee := f.addUser(t, "invitee")
	intruder := f.addUser(t, "intruder")

	_, err := s.AcceptInvitation("unknown", invitee.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)

	byID, err := s.CreateInvitation(CreateInvitationRequest{ProjectID: f.project.ID, InviterID: f.owner.ID, InviteeID: &invitee.ID})
	require.NoError(t, err)

	_, err = s.AcceptInvitation(byID.Invitation.Token, intruder.ID)
	assert.ErrorIs(t, err, db.ErrForbidden)

	byEmail, err := s.CreateInvitation(CreateInvitationRequest{ProjectID: f.project.ID, InviterID: f.owner.ID, InviteeEmail: strPtr("someone@example.com")})
	require.NoError(t, err)

	_, err = s.DeclineInvitation(byEmail.Invitation.Token, intruder.ID)
	assert.ErrorIs(t, err, db.ErrForbidden)

	stored, err := f.store.GetProjectInvitationByToken(byEmail.Invitation.Token)
	require.NoError(t, err)
	assert.Equal(t, db.ProjectInvitationPending, stored.Status)
}

func TestInvitationService_LazyExpiry(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()
	invitee := f.addUser(t, "invitee")

	res, err := s.CreateInvitation(CreateInvitationRequest{ProjectID: f.project.ID, InviterID: f.owner.ID, InviteeID: &invitee.ID})
	require.NoError(t, err)

	f.advance(7*24*time.Hour + time.Second)

	_, err = s.AcceptInvitation(res.Invitation.Token, invitee.ID)
	assert.True(t, db.IsValidationError(err))

	stored, err := f.store.GetProjectInvitationByToken(res.Invitation.Token)
	require.NoError(t, err)
	assert.Equal(t, db.ProjectInvitationExpired, stored.Status)

	_, err = s.DeclineInvitation(res.Invitation.Token, invitee.ID)
	assert.True(t, db.IsValidationError(err))

	assert.Contains(t, f.recorder.types(), events.EventInvitationExpired)
}

func TestInvitationService_GetProjectInvitations(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()
	outsider := f.addUser(t, "outsider")

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := s.CreateInvitation(CreateInvitationRequest{ProjectID: f.project.ID, InviterID: f.owner.ID, InviteeEmail: strPtr(email)})
		require.NoError(t, err)
		f.advance(time.Minute)
	}

	invitations, err := s.GetProjectInvitations(f.project.ID, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 2)
	assert.Equal(t, "a@example.com", *invitations[0].InviteeEmail)

	_, err = s.GetProjectInvitations(f.project.ID, outsider.ID)
	assert.ErrorIs(t, err, db.ErrForbidden)

	_, err = s.GetProjectInvitations(f.project.ID+100, f.owner.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestInvitationService_Revoke(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()
	inviter := f.addMember(t, "inviter")
	bystander := f.addMember(t, "bystander")

	res, err := s.CreateInvitation(CreateInvitationRequest{ProjectID: f.project.ID, InviterID: inviter.ID, InviteeEmail: strPtr("x@example.com")})
	require.NoError(t, err)

	err = s.RevokeInvitation(f.project.ID, res.Invitation.ID, bystander.ID)
	assert.ErrorIs(t, err, db.ErrForbidden)

	require.NoError(t, s.RevokeInvitation(f.project.ID, res.Invitation.ID, inviter.ID))

	_, err = f.store.GetProjectInvitation(f.project.ID, res.Invitation.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)

	second, err := s.CreateInvitation(CreateInvitationRequest{ProjectID: f.project.ID, InviterID: inviter.ID, InviteeEmail: strPtr("y@example.com")})
	require.NoError(t, err)

	require.NoError(t, s.RevokeInvitation(f.project.ID, second.Invitation.ID, f.owner.ID), "owner may revoke")

	err = s.RevokeInvitation(f.project.ID, second.Invitation.ID, f.owner.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)

	assert.Contains(t, f.recorder.types(), events.EventInvitationRevoked)
}

func TestInvitationService_RevokeResolvedInvitation(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()
	invitee := f.addUser(t, "invitee")

	res, err := s.CreateInvitation(CreateInvitationRequest{ProjectID: f.project.ID, InviterID: f.owner.ID, InviteeID: &invitee.ID})
	require.NoError(t, err)

	_, err = s.DeclineInvitation(res.Invitation.Token, invitee.ID)
	require.NoError(t, err)

	err = s.RevokeInvitation(f.project.ID, res.Invitation.ID, f.owner.ID)
	assert.True(t, db.IsValidationError(err))
}

func TestInvitationService_ExpireStaleInvitations(t *testing.T) {
	f := newFixture(t)
	s := f.invitationService()

	stale, err := s.CreateInvitation(CreateInvitationRequest{ProjectID: f.project.ID, InviterID: f.owner.ID, InviteeEmail: strPtr("old@example.com")})
	require.NoError(t, err)

	f.advance(5 * 24 * time.Hour)

	fresh, err := s.CreateInvitation(CreateInvitationRequest{ProjectID: f.project.ID, InviterID: f.owner.ID, InviteeEmail: strPtr("new@example.com")})
	require.NoError(t, err)

	f.advance(3 * 24 * time.Hour)

	count, err := s.ExpireStaleInvitations()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := f.store.GetProjectInvitationByToken(stale.Invitation.Token)
	require.NoError(t, err)
	assert.Equal(t, db.ProjectInvitationExpired, stored.Status)

	stored, err = f.store.GetProjectInvitationByToken(fresh.Invitation.Token)
	require.NoError(t, err)
	assert.Equal(t, db.ProjectInvitationPending, stored.Status)

	count, err = s.ExpireStaleInvitations()
	require.NoError(t, err)
	assert.Zero(t, count)
}

package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/mail"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/taskflow/taskflow/db"
	"github.com/taskflow/taskflow/services/events"
)

const invitationTokenBytes = 32

// CreateInvitationRequest identifies the invitee by exactly one of InviteeID and InviteeEmail.
type CreateInvitationRequest struct {
	ProjectID    int
	InviterID    int
	InviteeID    *int
	InviteeEmail *string
}

type InvitationResult struct {
	Invitation db.ProjectInvitation `json:"invitation"`
	InviteURL  string               `json:"invite_url"`
}

type InvitationService interface {
	CreateInvitation(req CreateInvitationRequest) (InvitationResult, error)
	AcceptInvitation(token string, userID int) (db.ProjectInvitation, error)
	DeclineInvitation(token string, userID int) (db.ProjectInvitation, error)
	GetProjectInvitations(projectID int, userID int) ([]db.ProjectInvitation, error)
	RevokeInvitation(projectID int, invitationID int, userID int) error
	// ExpireStaleInvitations marks pending invitations past their expiry as expired.
	ExpireStaleInvitations() (int, error)
}

type InvitationOptions struct {
	ExpiryDays int
	// InviteURL renders the link sent to the invitee.
	InviteURL func(token string) string
}

type InvitationServiceImpl struct {
	projectRepo    db.ProjectRepository
	userRepo       db.UserRepository
	invitationRepo db.InvitationRepository
	publisher      events.Publisher
	options        InvitationOptions
	now            func() time.Time
}

func NewInvitationService(
	projectRepo db.ProjectRepository,
	userRepo db.UserRepository,
	invitationRepo db.InvitationRepository,
	publisher events.Publisher,
	options InvitationOptions,
) *InvitationServiceImpl {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	if options.ExpiryDays <= 0 {
		options.ExpiryDays = db.DefaultInvitationExpiryDays
	}

	if options.InviteURL == nil {
		options.InviteURL = func(token string) string {
			return "/invitations/accept?token=" + token
		}
	}

	return &InvitationServiceImpl{
		projectRepo:    projectRepo,
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
		publisher:      publisher,
		options:        options,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func generateInvitationToken() (string, error) {
	tokenBytes := make([]byte, invitationTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate invitation token: %w", err)
	}
	return hex.EncodeToString(tokenBytes), nil
}

func normalizeInviteeEmail(email *string) (*string, error) {
	if email == nil {
		return nil, nil
	}

	normalized := db.NormalizeEmail(*email)
	if _, err := mail.ParseAddress(normalized); err != nil {
		return nil, db.NewValidationError("invalid invitee email")
	}

	return &normalized, nil
}

func (s *InvitationServiceImpl) requireMember(projectID int, userID int) (db.ProjectUser, error) {
	member, err := s.projectRepo.GetProjectUser(projectID, userID)
	if isNotFound(err) {
		return db.ProjectUser{}, forbidden("user %d is not a member of project %d", userID, projectID)
	}
	return member, err
}

func (s *InvitationServiceImpl) isMember(projectID int, userID int) (bool, error) {
	_, err := s.projectRepo.GetProjectUser(projectID, userID)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

func (s *InvitationServiceImpl) CreateInvitation(req CreateInvitationRequest) (InvitationResult, error) {
	if (req.InviteeID == nil) == (req.InviteeEmail == nil) {
		return InvitationResult{}, db.NewValidationError("either invitee_id or invitee_email must be provided, but not both")
	}

	email, err := normalizeInviteeEmail(req.InviteeEmail)
	if err != nil {
		return InvitationResult{}, err
	}

	project, err := s.projectRepo.GetProject(req.ProjectID)
	if err != nil {
		return InvitationResult{}, wrapNotFound(err, "project %d", req.ProjectID)
	}

	if _, err = s.userRepo.GetUser(req.InviterID); err != nil {
		return InvitationResult{}, wrapNotFound(err, "inviter %d", req.InviterID)
	}

	if _, err = s.requireMember(project.ID, req.InviterID); err != nil {
		return InvitationResult{}, err
	}

	pending := db.ProjectInvitationPending
	candidates := make([]int, 0, 2)
	filters := make([]db.ProjectInvitationFilter, 0, 2)

	if req.InviteeID != nil {
		invitee, err := s.userRepo.GetUser(*req.InviteeID)
		if err != nil {
			return InvitationResult{}, wrapNotFound(err, "invitee %d", *req.InviteeID)
		}

		candidates = append(candidates, invitee.ID)
		filters = append(filters, db.ProjectInvitationFilter{ProjectID: &project.ID, InviteeID: req.InviteeID, Status: &pending})
	}

	if email != nil {
		user, err := s.userRepo.GetUserByEmail(*email)
		if err == nil {
			// a registered user may already hold an invitation addressed by id
			candidates = append(candidates, user.ID)
			filters = append(filters, db.ProjectInvitationFilter{ProjectID: &project.ID, InviteeID: &user.ID, Status: &pending})
		} else if !isNotFound(err) {
			return InvitationResult{}, err
		}

		filters = append(filters, db.ProjectInvitationFilter{ProjectID: &project.ID, InviteeEmail: email, Status: &pending})
	}

	for _, userID := range candidates {
		member, err := s.isMember(project.ID, userID)
		if err != nil {
			return InvitationResult{}, err
		}
		if member {
			return InvitationResult{}, db.NewValidationError("user is already a member of this project")
		}
	}

	now := s.now()

	for _, filter := range filters {
		existing, err := s.invitationRepo.GetProjectInvitations(filter)
		if err != nil {
			return InvitationResult{}, err
		}

		for _, inv := range existing {
			if inv.IsLive(now) {
				return InvitationResult{}, db.NewValidationError("a pending invitation already exists for", inv.Target())
			}
		}
	}

	token, err := generateInvitationToken()
	if err != nil {
		return InvitationResult{}, err
	}

	invitation, err := s.invitationRepo.CreateProjectInvitation(db.ProjectInvitation{
		ProjectID:    project.ID,
		InviterID:    req.InviterID,
		InviteeID:    req.InviteeID,
		InviteeEmail: email,
		Token:        token,
		Status:       db.ProjectInvitationPending,
		Created:      now,
		ExpiresAt:    now.AddDate(0, 0, s.options.ExpiryDays),
	})
	if err != nil {
		return InvitationResult{}, err
	}

	s.publisher.Publish(events.Event{
		Type:        events.EventInvitationCreated,
		ProjectID:   project.ID,
		UserID:      req.InviterID,
		ObjectType:  "project_invitation",
		ObjectID:    invitation.ID,
		Description: fmt.Sprintf("Project invitation created for %s", invitation.Target()),
		Created:     now,
	})

	return InvitationResult{
		Invitation: invitation,
		InviteURL:  s.options.InviteURL(invitation.Token),
	}, nil
}

// resolvePending loads a pending, unexpired invitation addressed to the user.
// A pending invitation found past its expiry is persisted as expired.
func (s *InvitationServiceImpl) resolvePending(token string, userID int) (db.ProjectInvitation, db.User, error) {
	invitation, err := s.invitationRepo.GetProjectInvitationByToken(token)
	if err != nil {
		return db.ProjectInvitation{}, db.User{}, wrapNotFound(err, "invitation")
	}

	now := s.now()

	if invitation.IsExpiredAt(now) {
		if err = s.expire(invitation, now); err != nil {
			return db.ProjectInvitation{}, db.User{}, err
		}
		return db.ProjectInvitation{}, db.User{}, db.NewValidationError("invitation has expired")
	}

	if invitation.Status.IsTerminal() {
		return db.ProjectInvitation{}, db.User{}, db.NewValidationError("invitation is no longer valid")
	}

	user, err := s.userRepo.GetUser(userID)
	if err != nil {
		return db.ProjectInvitation{}, db.User{}, wrapNotFound(err, "user %d", userID)
	}

	if invitation.InviteeID != nil && *invitation.InviteeID != user.ID {
		return db.ProjectInvitation{}, db.User{}, forbidden("invitation is not for this account")
	}

	if invitation.InviteeEmail != nil && *invitation.InviteeEmail != db.NormalizeEmail(user.Email) {
		return db.ProjectInvitation{}, db.User{}, forbidden("invitation is not for this email address")
	}

	return invitation, user, nil
}

func (s *InvitationServiceImpl) expire(invitation db.ProjectInvitation, now time.Time) error {
	invitation.Status = db.ProjectInvitationExpired

	if err := s.invitationRepo.UpdateProjectInvitation(invitation); err != nil {
		return err
	}

	s.publisher.Publish(events.Event{
		Type:        events.EventInvitationExpired,
		ProjectID:   invitation.ProjectID,
		ObjectType:  "project_invitation",
		ObjectID:    invitation.ID,
		Description: fmt.Sprintf("Project invitation for %s expired", invitation.Target()),
		Created:     now,
	})

	return nil
}

func (s *InvitationServiceImpl) respond(invitation db.ProjectInvitation, user db.User, status db.ProjectInvitationStatus) (db.ProjectInvitation, error) {
	now := s.now()

	invitation.Status = status
	invitation.RespondedAt = &now
	invitation.InviteeID = &user.ID

	if err := s.invitationRepo.UpdateProjectInvitation(invitation); err != nil {
		return db.ProjectInvitation{}, err
	}

	eventType := events.EventInvitationAccepted
	if status == db.ProjectInvitationDeclined {
		eventType = events.EventInvitationDeclined
	}

	s.publisher.Publish(events.Event{
		Type:        eventType,
		ProjectID:   invitation.ProjectID,
		UserID:      user.ID,
		ObjectType:  "project_invitation",
		ObjectID:    invitation.ID,
		Description: fmt.Sprintf("Project invitation %s by %s", status, user.Username),
		Created:     now,
	})

	return invitation, nil
}

func (s *InvitationServiceImpl) AcceptInvitation(token string, userID int) (db.ProjectInvitation, error) {
	invitation, user, err := s.resolvePending(token, userID)
	if err != nil {
		return db.ProjectInvitation{}, err
	}

	member, err := s.isMember(invitation.ProjectID, user.ID)
	if err != nil {
		return db.ProjectInvitation{}, err
	}

	// A membership without an accepted invitation is left by an accept whose
	// status update failed. Finish it instead of rejecting the retry.
	if !member {
		_, err = s.projectRepo.CreateProjectUser(db.ProjectUser{
			ProjectID: invitation.ProjectID,
			UserID:    user.ID,
			Role:      db.ProjectMember,
			Created:   s.now(),
		})
		if err != nil {
			return db.ProjectInvitation{}, err
		}
	}

	return s.respond(invitation, user, db.ProjectInvitationAccepted)
}

func (s *InvitationServiceImpl) DeclineInvitation(token string, userID int) (db.ProjectInvitation, error) {
	invitation, user, err := s.resolvePending(token, userID)
	if err != nil {
		return db.ProjectInvitation{}, err
	}

	return s.respond(invitation, user, db.ProjectInvitationDeclined)
}

func (s *InvitationServiceImpl) GetProjectInvitations(projectID int, userID int) ([]db.ProjectInvitation, error) {
	if _, err := s.projectRepo.GetProject(projectID); err != nil {
		return nil, wrapNotFound(err, "project %d", projectID)
	}

	if _, err := s.requireMember(projectID, userID); err != nil {
		return nil, err
	}

	return s.invitationRepo.GetProjectInvitations(db.ProjectInvitationFilter{ProjectID: &projectID})
}

func (s *InvitationServiceImpl) RevokeInvitation(projectID int, invitationID int, userID int) error {
	member, err := s.requireMember(projectID, userID)
	if err != nil {
		return err
	}

	invitation, err := s.invitationRepo.GetProjectInvitation(projectID, invitationID)
	if err != nil {
		return wrapNotFound(err, "invitation %d", invitationID)
	}

	if invitation.InviterID != userID && !member.Role.CanRevokeInvitations() {
		return forbidden("only the inviter or the project owner can revoke invitation %d", invitationID)
	}

	if invitation.Status != db.ProjectInvitationPending {
		return db.NewValidationError("only pending invitations can be revoked")
	}

	if err = s.invitationRepo.DeleteProjectInvitation(projectID, invitationID); err != nil {
		return wrapNotFound(err, "invitation %d", invitationID)
	}

	s.publisher.Publish(events.Event{
		Type:        events.EventInvitationRevoked,
		ProjectID:   projectID,
		UserID:      userID,
		ObjectType:  "project_invitation",
		ObjectID:    invitationID,
		Description: fmt.Sprintf("Project invitation for %s revoked", invitation.Target()),
		Created:     s.now(),
	})

	return nil
}

func (s *InvitationServiceImpl) ExpireStaleInvitations() (int, error) {
	pending := db.ProjectInvitationPending

	invitations, err := s.invitationRepo.GetProjectInvitations(db.ProjectInvitationFilter{Status: &pending})
	if err != nil {
		return 0, err
	}

	now := s.now()
	expired := 0

	for _, invitation := range invitations {
		if !invitation.IsExpiredAt(now) {
			continue
		}

		if err = s.expire(invitation, now); err != nil {
			log.WithError(err).WithField("invitation_id", invitation.ID).Error("cannot expire invitation")
			continue
		}

		expired++
	}

	return expired, nil
}

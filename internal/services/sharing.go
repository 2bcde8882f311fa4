package services

import (
	"context"
	"time"

	"contenthub/internal/models"
	"contenthub/internal/pkg"
	"contenthub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SharingService manages project grants. Grants are stored on the project
// document itself; this service validates batches and delegates the array
// mutations to the repository's conditional updates.
type SharingService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	auditRepo   repository.AuditLogRepository
	access      *AccessService
	logger      *pkg.Logger
}

// NewSharingService creates a new sharing service
func NewSharingService(
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	auditRepo repository.AuditLogRepository,
	access *AccessService,
) *SharingService {
	return &SharingService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		auditRepo:   auditRepo,
		access:      access,
		logger:      pkg.NewLoggerWithPrefix(pkg.LevelInfo, "SHARING"),
	}
}

// GrantEntry is one username/permission pair in a grant batch.
type GrantEntry struct {
	Username   string                 `json:"username" validate:"required,username"`
	Permission models.SharePermission `json:"permission" validate:"required,oneof=view edit"`
}

// GrantRequest represents a grant batch request
type GrantRequest struct {
	Entries []GrantEntry `json:"entries" validate:"required,min=1,max=50,dive"`
}

// SharedProject is one entry in a user's shared-with-me listing.
type SharedProject struct {
	*models.Project
	Permission models.SharePermission `json:"permission"`
}

// Grant applies a batch of grants to a project. The batch is all-or-nothing:
// every username must name an existing user and none may be the owner, or the
// whole batch is rejected before any grant is written. When the same username
// appears twice in one batch the last entry wins. Re-granting an existing
// grantee replaces their permission in place.
func (s *SharingService) Grant(ctx context.Context, grantor string, projectID primitive.ObjectID, req *GrantRequest) ([]models.ShareGrant, error) {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return nil, pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}

	project, err := s.access.Authorize(ctx, grantor, KindProject, projectID, OpManageSharing)
	if err != nil {
		return nil, err
	}

	// Last entry wins for duplicate usernames, order preserved otherwise.
	entries := make([]GrantEntry, 0, len(req.Entries))
	index := make(map[string]int, len(req.Entries))
	for _, e := range req.Entries {
		if i, ok := index[e.Username]; ok {
			entries[i] = e
			continue
		}
		index[e.Username] = len(entries)
		entries = append(entries, e)
	}

	usernames := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Username == project.Owner {
			return nil, pkg.ErrSelfShare
		}
		usernames = append(usernames, e.Username)
	}

	existing, err := s.userRepo.ExistingUsernames(ctx, usernames)
	if err != nil {
		return nil, err
	}
	if len(existing) != len(usernames) {
		var unknown []string
		for _, u := range usernames {
			if !pkg.Slices.ContainsString(existing, u) {
				unknown = append(unknown, u)
			}
		}
		return nil, pkg.ErrUnknownUsernames.WithDetails(map[string]interface{}{
			"usernames": unknown,
		})
	}

	for _, e := range entries {
		grant := models.ShareGrant{
			Username:   e.Username,
			Permission: e.Permission,
			GrantedAt:  time.Now(),
		}
		if err := s.projectRepo.SetGrant(ctx, projectID, grant); err != nil {
			return nil, err
		}
	}

	s.logSharingEvent(ctx, grantor, models.AuditActionSharingGrant, projectID, map[string]interface{}{
		"grantees": usernames,
	})

	updated, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return updated.SharedWith, nil
}

// Revoke removes a single grant. Revoking a username that holds no grant is a
// no-op and succeeds.
func (s *SharingService) Revoke(ctx context.Context, grantor string, projectID primitive.ObjectID, username string) error {
	if _, err := s.access.Authorize(ctx, grantor, KindProject, projectID, OpManageSharing); err != nil {
		return err
	}

	if err := s.projectRepo.RemoveGrant(ctx, projectID, username); err != nil {
		return err
	}

	s.logSharingEvent(ctx, grantor, models.AuditActionSharingRevoke, projectID, map[string]interface{}{
		"grantee": username,
	})

	return nil
}

// ListGrants returns a project's grant list. Visible to anyone holding a
// grant; only mutations are owner-only.
func (s *SharingService) ListGrants(ctx context.Context, username string, projectID primitive.ObjectID) ([]models.ShareGrant, error) {
	project, err := s.access.Authorize(ctx, username, KindProject, projectID, OpRead)
	if err != nil {
		return nil, err
	}
	return project.SharedWith, nil
}

// ListForUser returns every project shared with username, each annotated with
// the caller's own permission.
func (s *SharingService) ListForUser(ctx context.Context, username string) ([]*SharedProject, error) {
	projects, err := s.projectRepo.ListSharedWith(ctx, username)
	if err != nil {
		return nil, err
	}

	shared := make([]*SharedProject, 0, len(projects))
	for _, p := range projects {
		grant, ok := p.Grant(username)
		if !ok {
			continue
		}
		shared = append(shared, &SharedProject{
			Project:    p,
			Permission: grant.Permission,
		})
	}
	return shared, nil
}

func (s *SharingService) logSharingEvent(ctx context.Context, username string, action models.AuditAction, projectID primitive.ObjectID, details map[string]interface{}) {
	entry := &models.AuditLog{
		Username:  username,
		Action:    action,
		Resource:  models.AuditResource{Kind: string(KindProject), ID: projectID},
		Success:   true,
		Severity:  models.AuditSeverityLow,
		Timestamp: time.Now(),
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to record sharing event", map[string]interface{}{
			"username": username,
			"action":   string(action),
			"error":    err.Error(),
			"details":  details,
		})
	}
}

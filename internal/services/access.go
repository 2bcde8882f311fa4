package services

import (
	"context"
	"time"

	"contenthub/internal/models"
	"contenthub/internal/pkg"
	"contenthub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResourceKind identifies what a decision is being made about.
type ResourceKind string

const (
	KindProject ResourceKind = "project"
	KindFolder  ResourceKind = "folder"
	KindContent ResourceKind = "content"
)

// Operation is the action being attempted on a resource.
type Operation string

const (
	OpRead          Operation = "read"
	OpCreate        Operation = "create"
	OpUpdate        Operation = "update"
	OpDelete        Operation = "delete"
	OpMove          Operation = "move"
	OpManageSharing Operation = "manage_sharing"
)

// Effect is the outcome of an access evaluation.
type Effect string

const (
	EffectAllowed Effect = "allowed"
	// EffectDeniedNotFound covers both a resource that does not exist and a
	// resource the caller holds no grant for; the two are indistinguishable
	// from the outside.
	EffectDeniedNotFound  Effect = "denied_not_found"
	EffectDeniedForbidden Effect = "denied_forbidden"
	EffectDeniedOwnerOnly Effect = "denied_owner_only"
)

// requirement is the minimum standing an identity needs for an operation.
type requirement int

const (
	requireView requirement = iota
	requireEdit
	requireOwner
)

// accessMatrix maps kind and operation to the required standing for
// non-owners. Owners are allowed everything before the matrix is consulted.
// Content writes are owner-only even for edit grantees; collaborators with
// edit work the folder tree, not the items inside it.
var accessMatrix = map[ResourceKind]map[Operation]requirement{
	KindProject: {
		OpRead:          requireView,
		OpUpdate:        requireEdit,
		OpDelete:        requireOwner,
		OpManageSharing: requireOwner,
	},
	KindFolder: {
		OpRead:   requireView,
		OpCreate: requireEdit,
		OpUpdate: requireEdit,
		OpDelete: requireEdit,
		OpMove:   requireEdit,
	},
	KindContent: {
		OpRead:   requireView,
		OpCreate: requireOwner,
		OpUpdate: requireOwner,
		OpDelete: requireOwner,
		OpMove:   requireOwner,
	},
}

// Decision is the full result of one evaluation. Err collapses it into the
// externally visible error; Reason keeps the uncollapsed cause for auditing.
type Decision struct {
	Effect   Effect
	Project  *models.Project
	Grant    *models.ShareGrant
	IsOwner  bool
	Reason   string
	Resource models.AuditResource
}

// Allowed reports whether the operation may proceed.
func (d *Decision) Allowed() bool {
	return d.Effect == EffectAllowed
}

// Err returns the error a caller should surface, nil when allowed.
func (d *Decision) Err() error {
	switch d.Effect {
	case EffectAllowed:
		return nil
	case EffectDeniedForbidden:
		return pkg.ErrForbidden
	case EffectDeniedOwnerOnly:
		return pkg.ErrOwnerOnly
	default:
		return pkg.ErrNotFoundOrDenied
	}
}

// AccessService evaluates every authorization decision in the system. All
// authorization flows through Evaluate; handlers and services never inspect
// SharedWith themselves.
type AccessService struct {
	projectRepo repository.ProjectRepository
	folderRepo  repository.FolderRepository
	contentRepo repository.ContentRepository
	auditRepo   repository.AuditLogRepository
	logger      *pkg.Logger
}

// NewAccessService creates a new access service
func NewAccessService(
	projectRepo repository.ProjectRepository,
	folderRepo repository.FolderRepository,
	contentRepo repository.ContentRepository,
	auditRepo repository.AuditLogRepository,
) *AccessService {
	return &AccessService{
		projectRepo: projectRepo,
		folderRepo:  folderRepo,
		contentRepo: contentRepo,
		auditRepo:   auditRepo,
		logger:      pkg.NewLoggerWithPrefix(pkg.LevelInfo, "ACCESS"),
	}
}

// Evaluate decides whether username may perform op on the resource (kind, id).
//
// Resolution order: resource -> owning project -> ownership -> grant ->
// matrix. A transient store failure is returned as an error distinct from a
// denial; only a definitive "no such resource" becomes EffectDeniedNotFound.
func (s *AccessService) Evaluate(ctx context.Context, username string, kind ResourceKind, id primitive.ObjectID, op Operation) (*Decision, error) {
	decision := &Decision{
		Resource: models.AuditResource{Kind: string(kind), ID: id},
	}

	project, err := s.resolveProject(ctx, kind, id)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok && !appErr.Transient {
			decision.Effect = EffectDeniedNotFound
			decision.Reason = "resource or owning project does not exist"
			return decision, nil
		}
		return nil, err
	}

	s.decide(decision, username, kind, project, op)
	return decision, nil
}

// EvaluateForProject decides op for username against an already resolved
// project. Creation checks use it: the folder or content item being created
// does not exist yet, so there is no resource id to resolve.
func (s *AccessService) EvaluateForProject(username string, kind ResourceKind, project *models.Project, op Operation) *Decision {
	decision := &Decision{
		Resource: models.AuditResource{Kind: string(kind), ID: project.ID},
	}
	s.decide(decision, username, kind, project, op)
	return decision
}

// decide applies ownership, grant lookup, and the matrix to a resolved
// project, filling in the decision.
func (s *AccessService) decide(decision *Decision, username string, kind ResourceKind, project *models.Project, op Operation) {
	decision.Project = project

	if project.Owner == username {
		decision.Effect = EffectAllowed
		decision.IsOwner = true
		decision.Reason = "owner"
		return
	}

	grant, ok := project.Grant(username)
	if !ok {
		decision.Effect = EffectDeniedNotFound
		decision.Reason = "no grant for identity"
		return
	}
	decision.Grant = &grant

	ops, ok := accessMatrix[kind]
	if !ok {
		decision.Effect = EffectDeniedNotFound
		decision.Reason = "unknown resource kind"
		return
	}
	req, ok := ops[op]
	if !ok {
		decision.Effect = EffectDeniedForbidden
		decision.Reason = "operation not defined for kind"
		return
	}

	switch req {
	case requireOwner:
		decision.Effect = EffectDeniedOwnerOnly
		decision.Reason = "operation restricted to owner"
	case requireEdit:
		if grant.Permission == models.SharePermissionEdit {
			decision.Effect = EffectAllowed
			decision.Reason = "edit grant"
		} else {
			decision.Effect = EffectDeniedForbidden
			decision.Reason = "view grant insufficient"
		}
	default:
		decision.Effect = EffectAllowed
		decision.Reason = "view grant"
	}
}

// Authorize evaluates and, on denial, records the uncollapsed reason in the
// audit log before returning the collapsed error. The returned project is the
// owning project of the resource.
func (s *AccessService) Authorize(ctx context.Context, username string, kind ResourceKind, id primitive.ObjectID, op Operation) (*models.Project, error) {
	decision, err := s.Evaluate(ctx, username, kind, id, op)
	if err != nil {
		return nil, err
	}

	if !decision.Allowed() {
		s.logDenial(ctx, username, op, decision)
		return nil, decision.Err()
	}

	return decision.Project, nil
}

// AuthorizeForProject is Authorize for decisions made against a pre-resolved
// project; denials are audited the same way.
func (s *AccessService) AuthorizeForProject(ctx context.Context, username string, kind ResourceKind, project *models.Project, op Operation) error {
	decision := s.EvaluateForProject(username, kind, project, op)
	if !decision.Allowed() {
		s.logDenial(ctx, username, op, decision)
		return decision.Err()
	}
	return nil
}

// resolveProject walks from the resource to the project its grants live on.
func (s *AccessService) resolveProject(ctx context.Context, kind ResourceKind, id primitive.ObjectID) (*models.Project, error) {
	switch kind {
	case KindProject:
		return s.projectRepo.GetByID(ctx, id)
	case KindFolder:
		folder, err := s.folderRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return s.projectRepo.GetByID(ctx, folder.ProjectID)
	case KindContent:
		content, err := s.contentRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return s.projectRepo.GetByID(ctx, content.ProjectID)
	default:
		return nil, pkg.ErrNotFoundOrDenied
	}
}

func (s *AccessService) logDenial(ctx context.Context, username string, op Operation, decision *Decision) {
	severity := models.AuditSeverityLow
	if decision.Effect == EffectDeniedForbidden || decision.Effect == EffectDeniedOwnerOnly {
		severity = models.AuditSeverityMedium
	}

	entry := &models.AuditLog{
		Username:  username,
		Action:    models.AuditActionAccessDenied,
		Resource:  decision.Resource,
		Success:   false,
		Reason:    string(op) + ": " + decision.Reason,
		Severity:  severity,
		Timestamp: time.Now(),
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to record access denial", map[string]interface{}{
			"username": username,
			"resource": decision.Resource.Kind,
			"error":    err.Error(),
		})
	}
}

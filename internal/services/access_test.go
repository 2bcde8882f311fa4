package services

import (
	"context"
	"errors"
	"testing"

	"contenthub/internal/models"
	"contenthub/internal/pkg"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEvaluateOwnerAllowedEverything(t *testing.T) {
	env := newTestEnv("alice")
	project := env.project("alice")
	folder := env.folder(project.ID, "alice", nil)
	content := env.content(project.ID, folder.ID, "alice")

	cases := []struct {
		kind ResourceKind
		id   primitive.ObjectID
		op   Operation
	}{
		{KindProject, project.ID, OpRead},
		{KindProject, project.ID, OpUpdate},
		{KindProject, project.ID, OpDelete},
		{KindProject, project.ID, OpManageSharing},
		{KindFolder, folder.ID, OpUpdate},
		{KindFolder, folder.ID, OpDelete},
		{KindContent, content.ID, OpCreate},
		{KindContent, content.ID, OpDelete},
	}

	for _, tc := range cases {
		decision, err := env.access.Evaluate(context.Background(), "alice", tc.kind, tc.id, tc.op)
		if err != nil {
			t.Fatalf("Evaluate(%s %s): %v", tc.kind, tc.op, err)
		}
		if !decision.Allowed() {
			t.Errorf("owner denied %s on %s: %s", tc.op, tc.kind, decision.Effect)
		}
		if !decision.IsOwner {
			t.Errorf("owner decision for %s on %s not marked IsOwner", tc.op, tc.kind)
		}
	}
}

func TestEvaluateGrantMatrix(t *testing.T) {
	env := newTestEnv("alice", "viewer", "editor")
	project := env.project("alice",
		grantOf("viewer", models.SharePermissionView),
		grantOf("editor", models.SharePermissionEdit),
	)
	folder := env.folder(project.ID, "alice", nil)
	content := env.content(project.ID, folder.ID, "alice")

	cases := []struct {
		name     string
		username string
		kind     ResourceKind
		id       primitive.ObjectID
		op       Operation
		want     Effect
	}{
		{"viewer reads project", "viewer", KindProject, project.ID, OpRead, EffectAllowed},
		{"viewer reads folder", "viewer", KindFolder, folder.ID, OpRead, EffectAllowed},
		{"viewer reads content", "viewer", KindContent, content.ID, OpRead, EffectAllowed},
		{"viewer updates project", "viewer", KindProject, project.ID, OpUpdate, EffectDeniedForbidden},
		{"viewer updates folder", "viewer", KindFolder, folder.ID, OpUpdate, EffectDeniedForbidden},
		{"editor updates project", "editor", KindProject, project.ID, OpUpdate, EffectAllowed},
		{"editor updates folder", "editor", KindFolder, folder.ID, OpUpdate, EffectAllowed},
		{"editor moves folder", "editor", KindFolder, folder.ID, OpMove, EffectAllowed},
		{"editor deletes folder", "editor", KindFolder, folder.ID, OpDelete, EffectAllowed},
		{"editor deletes project", "editor", KindProject, project.ID, OpDelete, EffectDeniedOwnerOnly},
		{"editor manages sharing", "editor", KindProject, project.ID, OpManageSharing, EffectDeniedOwnerOnly},
		{"viewer manages sharing", "viewer", KindProject, project.ID, OpManageSharing, EffectDeniedOwnerOnly},
		{"editor creates content", "editor", KindContent, content.ID, OpCreate, EffectDeniedOwnerOnly},
		{"editor updates content", "editor", KindContent, content.ID, OpUpdate, EffectDeniedOwnerOnly},
		{"editor deletes content", "editor", KindContent, content.ID, OpDelete, EffectDeniedOwnerOnly},
		{"editor moves content", "editor", KindContent, content.ID, OpMove, EffectDeniedOwnerOnly},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision, err := env.access.Evaluate(context.Background(), tc.username, tc.kind, tc.id, tc.op)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if decision.Effect != tc.want {
				t.Errorf("got %s, want %s", decision.Effect, tc.want)
			}
		})
	}
}

func TestEvaluateNoGrantCollapsesToNotFound(t *testing.T) {
	env := newTestEnv("alice", "stranger")
	project := env.project("alice")
	folder := env.folder(project.ID, "alice", nil)
	content := env.content(project.ID, folder.ID, "alice")

	for _, tc := range []struct {
		kind ResourceKind
		id   primitive.ObjectID
	}{
		{KindProject, project.ID},
		{KindFolder, folder.ID},
		{KindContent, content.ID},
	} {
		decision, err := env.access.Evaluate(context.Background(), "stranger", tc.kind, tc.id, OpRead)
		if err != nil {
			t.Fatalf("Evaluate(%s): %v", tc.kind, err)
		}
		if decision.Effect != EffectDeniedNotFound {
			t.Errorf("%s without grant: got %s, want %s", tc.kind, decision.Effect, EffectDeniedNotFound)
		}
	}
}

func TestEvaluateMissingResourceMatchesNoGrant(t *testing.T) {
	env := newTestEnv("alice", "stranger")
	project := env.project("alice")

	missing, err := env.access.Evaluate(context.Background(), "stranger", KindProject, primitive.NewObjectID(), OpRead)
	if err != nil {
		t.Fatalf("Evaluate missing: %v", err)
	}
	ungranted, err := env.access.Evaluate(context.Background(), "stranger", KindProject, project.ID, OpRead)
	if err != nil {
		t.Fatalf("Evaluate ungranted: %v", err)
	}

	// A prober must not be able to tell an existing resource from a missing
	// one by the shape of the denial.
	if missing.Effect != ungranted.Effect {
		t.Errorf("missing=%s ungranted=%s, want identical", missing.Effect, ungranted.Effect)
	}
	if !errors.Is(missing.Err(), pkg.ErrNotFoundOrDenied) {
		t.Errorf("missing.Err() = %v, want ErrNotFoundOrDenied", missing.Err())
	}
	if !errors.Is(ungranted.Err(), pkg.ErrNotFoundOrDenied) {
		t.Errorf("ungranted.Err() = %v, want ErrNotFoundOrDenied", ungranted.Err())
	}
}

func TestEvaluateTransientStoreErrorIsNotADenial(t *testing.T) {
	env := newTestEnv("alice")
	project := env.project("alice")

	env.projects.failNext = true
	_, err := env.access.Evaluate(context.Background(), "alice", KindProject, project.ID, OpRead)
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	if !pkg.IsRetryable(err) {
		t.Errorf("store failure should be retryable, got %v", err)
	}
}

func TestAuthorizeRecordsDenials(t *testing.T) {
	env := newTestEnv("alice", "editor")
	project := env.project("alice", grantOf("editor", models.SharePermissionEdit))

	_, err := env.access.Authorize(context.Background(), "editor", KindProject, project.ID, OpManageSharing)
	if !errors.Is(err, pkg.ErrOwnerOnly) {
		t.Fatalf("Authorize = %v, want ErrOwnerOnly", err)
	}

	if len(env.audit.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(env.audit.entries))
	}
	entry := env.audit.entries[0]
	if entry.Action != models.AuditActionAccessDenied {
		t.Errorf("audit action = %s", entry.Action)
	}
	if entry.Username != "editor" || entry.Success {
		t.Errorf("audit entry = %+v", entry)
	}
}

func TestEvaluateDeletedProjectDeniesGrantee(t *testing.T) {
	env := newTestEnv("alice", "viewer")
	project := env.project("alice", grantOf("viewer", models.SharePermissionView))
	project.Status = models.ProjectStatusDeleted

	decision, err := env.access.Evaluate(context.Background(), "viewer", KindProject, project.ID, OpRead)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if decision.Effect != EffectDeniedNotFound {
		t.Errorf("deleted project: got %s, want %s", decision.Effect, EffectDeniedNotFound)
	}
}

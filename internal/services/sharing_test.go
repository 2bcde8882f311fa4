package services

import (
	"context"
	"errors"
	"testing"

	"contenthub/internal/models"
	"contenthub/internal/pkg"
)

func TestGrantBatch(t *testing.T) {
	env := newTestEnv("alice", "bob", "carol")
	project := env.project("alice")

	req := &GrantRequest{Entries: []GrantEntry{
		{Username: "bob", Permission: models.SharePermissionView},
		{Username: "carol", Permission: models.SharePermissionEdit},
	}}

	grants, err := env.sharing.Grant(context.Background(), "alice", project.ID, req)
	if err != nil {
		t.Fatalf("Grant: %v", err)
	}

	if len(grants) != 2 {
		t.Fatalf("returned grants = %d, want 2", len(grants))
	}
	if len(project.SharedWith) != 2 {
		t.Fatalf("grants = %d, want 2", len(project.SharedWith))
	}
	if g, ok := project.Grant("bob"); !ok || g.Permission != models.SharePermissionView {
		t.Errorf("bob grant = %+v, ok=%v", g, ok)
	}
	if g, ok := project.Grant("carol"); !ok || g.Permission != models.SharePermissionEdit {
		t.Errorf("carol grant = %+v, ok=%v", g, ok)
	}
}

func TestGrantBatchIsAllOrNothing(t *testing.T) {
	env := newTestEnv("alice", "bob")
	project := env.project("alice")

	req := &GrantRequest{Entries: []GrantEntry{
		{Username: "bob", Permission: models.SharePermissionView},
		{Username: "nosuchuser", Permission: models.SharePermissionEdit},
	}}

	_, err := env.sharing.Grant(context.Background(), "alice", project.ID, req)
	if !errors.Is(err, pkg.ErrUnknownUsernames) {
		t.Fatalf("Grant = %v, want ErrUnknownUsernames", err)
	}

	// The valid half of the batch must not have been applied.
	if len(project.SharedWith) != 0 {
		t.Errorf("grants = %d after rejected batch, want 0", len(project.SharedWith))
	}
}

func TestGrantRejectsOwner(t *testing.T) {
	env := newTestEnv("alice", "bob")
	project := env.project("alice")

	req := &GrantRequest{Entries: []GrantEntry{
		{Username: "alice", Permission: models.SharePermissionEdit},
	}}

	if _, err := env.sharing.Grant(context.Background(), "alice", project.ID, req); !errors.Is(err, pkg.ErrSelfShare) {
		t.Fatalf("Grant = %v, want ErrSelfShare", err)
	}
}

func TestGrantLastEntryWinsForDuplicates(t *testing.T) {
	env := newTestEnv("alice", "bob")
	project := env.project("alice")

	req := &GrantRequest{Entries: []GrantEntry{
		{Username: "bob", Permission: models.SharePermissionView},
		{Username: "bob", Permission: models.SharePermissionEdit},
	}}

	if _, err := env.sharing.Grant(context.Background(), "alice", project.ID, req); err != nil {
		t.Fatalf("Grant: %v", err)
	}

	if len(project.SharedWith) != 1 {
		t.Fatalf("grants = %d, want 1", len(project.SharedWith))
	}
	if g, _ := project.Grant("bob"); g.Permission != models.SharePermissionEdit {
		t.Errorf("bob permission = %s, want edit", g.Permission)
	}
}

func TestGrantReplacesExistingPermission(t *testing.T) {
	env := newTestEnv("alice", "bob")
	project := env.project("alice", grantOf("bob", models.SharePermissionView))

	req := &GrantRequest{Entries: []GrantEntry{
		{Username: "bob", Permission: models.SharePermissionEdit},
	}}

	if _, err := env.sharing.Grant(context.Background(), "alice", project.ID, req); err != nil {
		t.Fatalf("Grant: %v", err)
	}

	if len(project.SharedWith) != 1 {
		t.Fatalf("grants = %d, want 1 (no duplicate slot)", len(project.SharedWith))
	}
	if g, _ := project.Grant("bob"); g.Permission != models.SharePermissionEdit {
		t.Errorf("bob permission = %s, want edit", g.Permission)
	}
}

func TestGrantRequiresOwner(t *testing.T) {
	env := newTestEnv("alice", "bob", "carol")
	project := env.project("alice", grantOf("bob", models.SharePermissionEdit))

	req := &GrantRequest{Entries: []GrantEntry{
		{Username: "carol", Permission: models.SharePermissionView},
	}}

	_, err := env.sharing.Grant(context.Background(), "bob", project.ID, req)
	if !errors.Is(err, pkg.ErrOwnerOnly) {
		t.Fatalf("Grant by editor = %v, want ErrOwnerOnly", err)
	}
}

func TestRevoke(t *testing.T) {
	env := newTestEnv("alice", "bob")
	project := env.project("alice", grantOf("bob", models.SharePermissionView))

	if err := env.sharing.Revoke(context.Background(), "alice", project.ID, "bob"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if len(project.SharedWith) != 0 {
		t.Errorf("grants = %d after revoke, want 0", len(project.SharedWith))
	}

	// Revoking an absent grant is a no-op, not an error.
	if err := env.sharing.Revoke(context.Background(), "alice", project.ID, "bob"); err != nil {
		t.Errorf("second Revoke = %v, want nil", err)
	}
}

func TestListForUser(t *testing.T) {
	env := newTestEnv("alice", "bob", "carol")
	shared := env.project("alice", grantOf("bob", models.SharePermissionEdit))
	env.project("alice")
	env.project("carol", grantOf("bob", models.SharePermissionView))

	projects, err := env.sharing.ListForUser(context.Background(), "bob")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("shared projects = %d, want 2", len(projects))
	}
	for _, p := range projects {
		if p.ID == shared.ID && p.Permission != models.SharePermissionEdit {
			t.Errorf("permission on %s = %s, want edit", p.Name, p.Permission)
		}
	}
}

func TestUpgradedGrantTakesEffectImmediately(t *testing.T) {
	env := newTestEnv("alice", "bob")
	project := env.project("alice", grantOf("bob", models.SharePermissionView))
	folder := env.folder(project.ID, "alice", nil)

	if _, err := env.access.Authorize(context.Background(), "bob", KindFolder, folder.ID, OpUpdate); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("viewer folder write = %v, want ErrForbidden", err)
	}

	req := &GrantRequest{Entries: []GrantEntry{
		{Username: "bob", Permission: models.SharePermissionEdit},
	}}
	if _, err := env.sharing.Grant(context.Background(), "alice", project.ID, req); err != nil {
		t.Fatalf("Grant: %v", err)
	}

	if _, err := env.access.Authorize(context.Background(), "bob", KindFolder, folder.ID, OpUpdate); err != nil {
		t.Fatalf("post-upgrade folder write = %v, want allowed", err)
	}
}

func TestRevokedUserLosesAccessImmediately(t *testing.T) {
	env := newTestEnv("alice", "bob")
	project := env.project("alice", grantOf("bob", models.SharePermissionEdit))
	folder := env.folder(project.ID, "alice", nil)

	if _, err := env.access.Authorize(context.Background(), "bob", KindFolder, folder.ID, OpUpdate); err != nil {
		t.Fatalf("pre-revoke Authorize: %v", err)
	}

	if err := env.sharing.Revoke(context.Background(), "alice", project.ID, "bob"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	_, err := env.access.Authorize(context.Background(), "bob", KindFolder, folder.ID, OpUpdate)
	if !errors.Is(err, pkg.ErrNotFoundOrDenied) {
		t.Fatalf("post-revoke Authorize = %v, want ErrNotFoundOrDenied", err)
	}
}

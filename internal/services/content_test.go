package services

import (
	"context"
	"errors"
	"testing"

	"contenthub/internal/models"
	"contenthub/internal/pkg"
)

func TestCreateContentAsOwner(t *testing.T) {
	env := newTestEnv("alice")
	project := env.project("alice")
	folder := env.folder(project.ID, "alice", nil)

	content, err := env.contentSvc.CreateContent(context.Background(), "alice", &CreateContentRequest{
		Name:     "Launch tweet",
		Type:     models.ContentTypeTweet,
		FolderID: folder.ID,
		Text:     "We are live.",
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}

	if content.Owner != "alice" {
		t.Errorf("content.Owner = %q, want %q", content.Owner, "alice")
	}
	if content.ProjectID != project.ID {
		t.Errorf("content.ProjectID = %s, want the folder's project", content.ProjectID.Hex())
	}
	if !containsID(folder.Content, content.ID) {
		t.Error("folder missing content ref")
	}
}

func TestCreateContentDeniedForEditGrantee(t *testing.T) {
	env := newTestEnv("alice", "editor")
	project := env.project("alice", grantOf("editor", models.SharePermissionEdit))
	folder := env.folder(project.ID, "alice", nil)

	_, err := env.contentSvc.CreateContent(context.Background(), "editor", &CreateContentRequest{
		Name:     "Not mine to write",
		Type:     models.ContentTypeTweet,
		FolderID: folder.ID,
	})
	if !errors.Is(err, pkg.ErrOwnerOnly) {
		t.Fatalf("CreateContent by editor = %v, want ErrOwnerOnly", err)
	}
	if len(folder.Content) != 0 {
		t.Error("content created despite denial")
	}

	// The denial went through the evaluator, so it is audited.
	found := false
	for _, e := range env.audit.entries {
		if e.Action == models.AuditActionAccessDenied && e.Username == "editor" {
			found = true
		}
	}
	if !found {
		t.Error("denied create not recorded in audit log")
	}
}

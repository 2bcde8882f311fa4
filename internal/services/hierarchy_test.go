package services

import (
	"context"
	"errors"
	"testing"

	"contenthub/internal/models"
	"contenthub/internal/pkg"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateFolderNested(t *testing.T) {
	env := newTestEnv("alice")
	project := env.project("alice")
	parent := env.folder(project.ID, "alice", nil)

	folder, err := env.hierarchy.CreateFolder(context.Background(), "alice", &CreateFolderRequest{
		Name:         "Q3 campaign",
		ProjectID:    project.ID,
		ParentFolder: &parent.ID,
	})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}

	if folder.ParentFolder == nil || *folder.ParentFolder != parent.ID {
		t.Errorf("parent not set on child")
	}
	if !containsID(parent.Subfolders, folder.ID) {
		t.Errorf("child missing from parent.Subfolders")
	}
}

func TestCreateFolderByEditGrantee(t *testing.T) {
	env := newTestEnv("alice", "bob")
	project := env.project("alice", grantOf("bob", models.SharePermissionEdit))

	folder, err := env.hierarchy.CreateFolder(context.Background(), "bob", &CreateFolderRequest{
		Name:      "Bob's drafts",
		ProjectID: project.ID,
	})
	if err != nil {
		t.Fatalf("CreateFolder by edit grantee: %v", err)
	}

	if folder.Owner != "bob" {
		t.Errorf("folder.Owner = %q, want %q", folder.Owner, "bob")
	}
	if folder.ProjectID != project.ID {
		t.Errorf("folder.ProjectID = %s, want %s", folder.ProjectID.Hex(), project.ID.Hex())
	}
}

func TestCreateFolderViewGrantForbidden(t *testing.T) {
	env := newTestEnv("alice", "carol")
	project := env.project("alice", grantOf("carol", models.SharePermissionView))

	_, err := env.hierarchy.CreateFolder(context.Background(), "carol", &CreateFolderRequest{
		Name:      "Read only",
		ProjectID: project.ID,
	})
	if !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("CreateFolder by viewer = %v, want ErrForbidden", err)
	}
}

func TestCreateFolderRejectsCrossProjectParent(t *testing.T) {
	env := newTestEnv("alice")
	project := env.project("alice")
	other := env.project("alice")
	foreignParent := env.folder(other.ID, "alice", nil)

	_, err := env.hierarchy.CreateFolder(context.Background(), "alice", &CreateFolderRequest{
		Name:         "Misplaced",
		ProjectID:    project.ID,
		ParentFolder: &foreignParent.ID,
	})
	if !errors.Is(err, pkg.ErrInvalidParent) {
		t.Fatalf("CreateFolder = %v, want ErrInvalidParent", err)
	}
}

func TestDeleteFolderDoesNotCascade(t *testing.T) {
	env := newTestEnv("alice")
	project := env.project("alice")
	parent := env.folder(project.ID, "alice", nil)
	middle := env.folder(project.ID, "alice", &parent.ID)
	child := env.folder(project.ID, "alice", &middle.ID)
	item := env.content(project.ID, middle.ID, "alice")

	if err := env.hierarchy.DeleteFolder(context.Background(), "alice", middle.ID); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}

	if _, ok := env.folders.folders[middle.ID]; ok {
		t.Error("deleted folder still present")
	}
	if containsID(parent.Subfolders, middle.ID) {
		t.Error("deleted folder still linked from parent")
	}

	// Children and content survive as orphans, still pointing at the
	// deleted folder.
	surviving, ok := env.folders.folders[child.ID]
	if !ok {
		t.Fatal("child folder was cascaded away")
	}
	if surviving.ParentFolder == nil || *surviving.ParentFolder != middle.ID {
		t.Error("orphan child lost its parent pointer")
	}
	if _, ok := env.contents.contents[item.ID]; !ok {
		t.Error("content was cascaded away")
	}
}

func TestMoveFolderRejectsCycles(t *testing.T) {
	env := newTestEnv("alice")
	project := env.project("alice")
	top := env.folder(project.ID, "alice", nil)
	mid := env.folder(project.ID, "alice", &top.ID)
	leaf := env.folder(project.ID, "alice", &mid.ID)

	// Into itself.
	if err := env.hierarchy.MoveFolder(context.Background(), "alice", top.ID, &top.ID); !errors.Is(err, pkg.ErrCycleDetected) {
		t.Errorf("move into self = %v, want ErrCycleDetected", err)
	}
	// Into its own grandchild.
	if err := env.hierarchy.MoveFolder(context.Background(), "alice", top.ID, &leaf.ID); !errors.Is(err, pkg.ErrCycleDetected) {
		t.Errorf("move under descendant = %v, want ErrCycleDetected", err)
	}
	// Legal reparent still works.
	if err := env.hierarchy.MoveFolder(context.Background(), "alice", leaf.ID, &top.ID); err != nil {
		t.Errorf("legal move = %v", err)
	}
	if !containsID(top.Subfolders, leaf.ID) {
		t.Error("moved folder missing from new parent")
	}
	if containsID(mid.Subfolders, leaf.ID) {
		t.Error("moved folder still linked from old parent")
	}
}

func TestMoveFolderToRoot(t *testing.T) {
	env := newTestEnv("alice")
	project := env.project("alice")
	top := env.folder(project.ID, "alice", nil)
	nested := env.folder(project.ID, "alice", &top.ID)

	if err := env.hierarchy.MoveFolder(context.Background(), "alice", nested.ID, nil); err != nil {
		t.Fatalf("MoveFolder to root: %v", err)
	}
	if nested.ParentFolder != nil {
		t.Error("folder still has a parent after move to root")
	}
	if containsID(top.Subfolders, nested.ID) {
		t.Error("folder still linked from old parent")
	}
}

func TestMoveFolderKeepsLinksSymmetricOnFailure(t *testing.T) {
	env := newTestEnv("alice")
	project := env.project("alice")
	oldParent := env.folder(project.ID, "alice", nil)
	newParent := env.folder(project.ID, "alice", nil)
	folder := env.folder(project.ID, "alice", &oldParent.ID)

	env.folders.failNext = true
	if err := env.hierarchy.MoveFolder(context.Background(), "alice", folder.ID, &newParent.ID); err == nil {
		t.Fatal("expected move to fail")
	}

	// The aborted move must leave the tree exactly as it was: pointer
	// untouched, no half-written Subfolders entry on the new parent.
	if folder.ParentFolder == nil || *folder.ParentFolder != oldParent.ID {
		t.Error("parent pointer rewritten despite aborted move")
	}
	if containsID(newParent.Subfolders, folder.ID) {
		t.Error("new parent links folder after aborted move")
	}
	if !containsID(oldParent.Subfolders, folder.ID) {
		t.Error("old parent lost its link")
	}
}

func TestMoveContentBatchIsPerItem(t *testing.T) {
	env := newTestEnv("alice")
	project := env.project("alice")
	other := env.project("alice")
	source := env.folder(project.ID, "alice", nil)
	target := env.folder(project.ID, "alice", nil)
	foreign := env.folder(other.ID, "alice", nil)

	good := env.content(project.ID, source.ID, "alice")
	smuggled := env.content(other.ID, foreign.ID, "alice")

	result, err := env.hierarchy.MoveContent(context.Background(), "alice", &MoveContentRequest{
		ContentIDs: []primitive.ObjectID{good.ID, smuggled.ID},
		TargetID:   target.ID,
	})
	if err != nil {
		t.Fatalf("MoveContent: %v", err)
	}

	if len(result.Moved) != 1 || result.Moved[0] != good.ID {
		t.Errorf("moved = %v, want [%s]", result.Moved, good.ID.Hex())
	}
	if len(result.Failed) != 1 || result.Failed[0].ContentID != smuggled.ID {
		t.Errorf("failed = %v, want the cross-project item", result.Failed)
	}

	if good.FolderID != target.ID {
		t.Error("moved item not in target folder")
	}
	if smuggled.FolderID != foreign.ID || smuggled.ProjectID != other.ID {
		t.Error("cross-project item was moved")
	}
	if !containsID(target.Content, good.ID) {
		t.Error("target folder missing moved content ref")
	}
	if containsID(source.Content, good.ID) {
		t.Error("source folder still holds moved content ref")
	}
}

func TestMoveContentRequiresOwner(t *testing.T) {
	env := newTestEnv("alice", "editor")
	project := env.project("alice", grantOf("editor", models.SharePermissionEdit))
	source := env.folder(project.ID, "alice", nil)
	target := env.folder(project.ID, "alice", nil)
	item := env.content(project.ID, source.ID, "alice")

	result, err := env.hierarchy.MoveContent(context.Background(), "editor", &MoveContentRequest{
		ContentIDs: []primitive.ObjectID{item.ID},
		TargetID:   target.ID,
	})
	if err != nil {
		t.Fatalf("MoveContent: %v", err)
	}
	if len(result.Moved) != 0 || len(result.Failed) != 1 {
		t.Fatalf("editor moved owner's content: %+v", result)
	}
	if item.FolderID != source.ID {
		t.Error("content moved despite denial")
	}
}

func TestAddAssetsAppendsAndDedupes(t *testing.T) {
	env := newTestEnv("alice", "editor")
	project := env.project("alice", grantOf("editor", models.SharePermissionEdit))
	folder := env.folder(project.ID, "alice", nil)
	folder.Images = []string{"https://cdn.example.com/a.png"}
	folder.Notes = []string{"existing note"}

	err := env.hierarchy.AddAssets(context.Background(), "editor", folder.ID, &AddAssetsRequest{
		Images: []string{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png"},
		Notes:  []string{"new note", "new note"},
	})
	if err != nil {
		t.Fatalf("AddAssets: %v", err)
	}

	if len(folder.Images) != 2 {
		t.Errorf("images = %v, want existing plus one new", folder.Images)
	}
	if len(folder.Notes) != 2 {
		t.Errorf("notes = %v, want existing plus one new", folder.Notes)
	}
}

func TestAddAssetsViewGrantForbidden(t *testing.T) {
	env := newTestEnv("alice", "viewer")
	project := env.project("alice", grantOf("viewer", models.SharePermissionView))
	folder := env.folder(project.ID, "alice", nil)

	err := env.hierarchy.AddAssets(context.Background(), "viewer", folder.ID, &AddAssetsRequest{
		Notes: []string{"drive-by note"},
	})
	if !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("AddAssets = %v, want ErrForbidden", err)
	}
	if len(folder.Notes) != 0 {
		t.Error("note written despite denial")
	}
}

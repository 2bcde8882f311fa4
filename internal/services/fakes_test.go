package services

import (
	"context"
	"time"

	"contenthub/internal/models"
	"contenthub/internal/pkg"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the semantics the Mongo
// implementations provide: conditional grant slot updates, existence-gated
// array mutations, and project-guarded content moves.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(usernames ...string) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range usernames {
		r.users[u] = &models.User{
			ID:       primitive.NewObjectID(),
			Username: u,
			Email:    u + "@example.com",
			Status:   models.UserStatusActive,
		}
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.Username]; ok {
		return pkg.ErrUsernameAlreadyTaken
	}
	user.ID = primitive.NewObjectID()
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pkg.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return nil, pkg.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pkg.ErrUserNotFound
}

func (r *fakeUserRepo) ExistingUsernames(ctx context.Context, usernames []string) ([]string, error) {
	var found []string
	for _, u := range usernames {
		if _, ok := r.users[u]; ok {
			found = append(found, u)
		}
	}
	return found, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

type fakeProjectRepo struct {
	projects map[primitive.ObjectID]*models.Project
	// failNext simulates one transient store failure.
	failNext bool
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[primitive.ObjectID]*models.Project)}
}

func (r *fakeProjectRepo) add(p *models.Project) *models.Project {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Status == "" {
		p.Status = models.ProjectStatusActive
	}
	r.projects[p.ID] = p
	return p
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *models.Project) error {
	r.add(project)
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	if r.failNext {
		r.failNext = false
		return nil, pkg.ErrDatabaseError
	}
	p, ok := r.projects[id]
	if !ok || p.Status == models.ProjectStatusDeleted {
		return nil, pkg.ErrNotFoundOrDenied
	}
	return p, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	p, ok := r.projects[id]
	if !ok || p.Status == models.ProjectStatusDeleted {
		return pkg.ErrNotFoundOrDenied
	}
	if name, ok := updates["name"].(string); ok {
		p.Name = name
	}
	if desc, ok := updates["description"].(string); ok {
		p.Description = desc
	}
	if status, ok := updates["status"].(models.ProjectStatus); ok {
		p.Status = status
	}
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.Update(ctx, id, map[string]interface{}{"status": models.ProjectStatusDeleted})
}

func (r *fakeProjectRepo) ListByOwner(ctx context.Context, owner string, params *pkg.PaginationParams) ([]*models.Project, int64, error) {
	var out []*models.Project
	for _, p := range r.projects {
		if p.Owner == owner && p.Status != models.ProjectStatusDeleted {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProjectRepo) ListSharedWith(ctx context.Context, username string) ([]*models.Project, error) {
	var out []*models.Project
	for _, p := range r.projects {
		if p.Status == models.ProjectStatusDeleted {
			continue
		}
		if _, ok := p.Grant(username); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) SetGrant(ctx context.Context, projectID primitive.ObjectID, grant models.ShareGrant) error {
	p, ok := r.projects[projectID]
	if !ok || p.Status == models.ProjectStatusDeleted {
		return pkg.ErrNotFoundOrDenied
	}
	for i, g := range p.SharedWith {
		if g.Username == grant.Username {
			p.SharedWith[i].Permission = grant.Permission
			return nil
		}
	}
	p.SharedWith = append(p.SharedWith, grant)
	return nil
}

func (r *fakeProjectRepo) RemoveGrant(ctx context.Context, projectID primitive.ObjectID, username string) error {
	p, ok := r.projects[projectID]
	if !ok || p.Status == models.ProjectStatusDeleted {
		return pkg.ErrNotFoundOrDenied
	}
	out := p.SharedWith[:0]
	for _, g := range p.SharedWith {
		if g.Username != username {
			out = append(out, g)
		}
	}
	p.SharedWith = out
	return nil
}

type fakeFolderRepo struct {
	folders map[primitive.ObjectID]*models.Folder
	// failNext makes the next Update fail once, simulating a transient
	// store error.
	failNext bool
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[primitive.ObjectID]*models.Folder)}
}

func (r *fakeFolderRepo) add(f *models.Folder) *models.Folder {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	r.folders[f.ID] = f
	return f
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	r.add(folder)
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Folder, error) {
	if f, ok := r.folders[id]; ok {
		return f, nil
	}
	return nil, pkg.ErrNotFoundOrDenied
}

func (r *fakeFolderRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	if r.failNext {
		r.failNext = false
		return pkg.ErrDatabaseError
	}
	f, ok := r.folders[id]
	if !ok {
		return pkg.ErrNotFoundOrDenied
	}
	if name, ok := updates["name"].(string); ok {
		f.Name = name
	}
	if desc, ok := updates["description"].(string); ok {
		f.Description = desc
	}
	if parent, ok := updates["parent_folder"]; ok {
		if parent == nil {
			f.ParentFolder = nil
		} else if pid, ok := parent.(*primitive.ObjectID); ok {
			f.ParentFolder = pid
		}
	}
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.folders[id]; !ok {
		return pkg.ErrNotFoundOrDenied
	}
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListByProject(ctx context.Context, projectID primitive.ObjectID, params *pkg.PaginationParams) ([]*models.Folder, int64, error) {
	var out []*models.Folder
	for _, f := range r.folders {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeFolderRepo) ListByParent(ctx context.Context, parentID primitive.ObjectID) ([]*models.Folder, error) {
	var out []*models.Folder
	for _, f := range r.folders {
		if f.ParentFolder != nil && *f.ParentFolder == parentID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) AddSubfolder(ctx context.Context, parentID, childID primitive.ObjectID) error {
	p, ok := r.folders[parentID]
	if !ok {
		return pkg.ErrInvalidParent
	}
	for _, id := range p.Subfolders {
		if id == childID {
			return nil
		}
	}
	p.Subfolders = append(p.Subfolders, childID)
	return nil
}

func (r *fakeFolderRepo) RemoveSubfolder(ctx context.Context, parentID, childID primitive.ObjectID) error {
	p, ok := r.folders[parentID]
	if !ok {
		return nil
	}
	out := p.Subfolders[:0]
	for _, id := range p.Subfolders {
		if id != childID {
			out = append(out, id)
		}
	}
	p.Subfolders = out
	return nil
}

func (r *fakeFolderRepo) AddContentRef(ctx context.Context, folderID, contentID primitive.ObjectID) error {
	f, ok := r.folders[folderID]
	if !ok {
		return pkg.ErrNotFoundOrDenied
	}
	for _, id := range f.Content {
		if id == contentID {
			return nil
		}
	}
	f.Content = append(f.Content, contentID)
	return nil
}

func (r *fakeFolderRepo) RemoveContentRef(ctx context.Context, folderID, contentID primitive.ObjectID) error {
	f, ok := r.folders[folderID]
	if !ok {
		return nil
	}
	out := f.Content[:0]
	for _, id := range f.Content {
		if id != contentID {
			out = append(out, id)
		}
	}
	f.Content = out
	return nil
}

func (r *fakeFolderRepo) AddAssets(ctx context.Context, folderID primitive.ObjectID, images, notes []string) error {
	f, ok := r.folders[folderID]
	if !ok {
		return pkg.ErrNotFoundOrDenied
	}
	for _, img := range images {
		if !pkg.Slices.ContainsString(f.Images, img) {
			f.Images = append(f.Images, img)
		}
	}
	for _, n := range notes {
		if !pkg.Slices.ContainsString(f.Notes, n) {
			f.Notes = append(f.Notes, n)
		}
	}
	return nil
}

type fakeContentRepo struct {
	contents map[primitive.ObjectID]*models.Content
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{contents: make(map[primitive.ObjectID]*models.Content)}
}

func (r *fakeContentRepo) add(c *models.Content) *models.Content {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	r.contents[c.ID] = c
	return c
}

func (r *fakeContentRepo) Create(ctx context.Context, content *models.Content) error {
	r.add(content)
	return nil
}

func (r *fakeContentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Content, error) {
	if c, ok := r.contents[id]; ok {
		return c, nil
	}
	return nil, pkg.ErrNotFoundOrDenied
}

func (r *fakeContentRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	c, ok := r.contents[id]
	if !ok {
		return pkg.ErrNotFoundOrDenied
	}
	if name, ok := updates["name"].(string); ok {
		c.Name = name
	}
	if text, ok := updates["data.text"].(string); ok {
		c.Data.Text = text
	}
	return nil
}

func (r *fakeContentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.contents[id]; !ok {
		return pkg.ErrNotFoundOrDenied
	}
	delete(r.contents, id)
	return nil
}

func (r *fakeContentRepo) ListByFolder(ctx context.Context, folderID primitive.ObjectID, params *pkg.PaginationParams) ([]*models.Content, int64, error) {
	var out []*models.Content
	for _, c := range r.contents {
		if c.FolderID == folderID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeContentRepo) ListByProject(ctx context.Context, projectID primitive.ObjectID, params *pkg.PaginationParams) ([]*models.Content, int64, error) {
	var out []*models.Content
	for _, c := range r.contents {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeContentRepo) SetFolder(ctx context.Context, contentID, projectID, folderID primitive.ObjectID) error {
	c, ok := r.contents[contentID]
	if !ok || c.ProjectID != projectID {
		return pkg.ErrNotFoundOrDenied
	}
	c.FolderID = folderID
	return nil
}

type fakeAuditRepo struct {
	entries []*models.AuditLog
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{}
}

func (r *fakeAuditRepo) Create(ctx context.Context, log *models.AuditLog) error {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}
	r.entries = append(r.entries, log)
	return nil
}

func (r *fakeAuditRepo) ListByUser(ctx context.Context, username string, params *pkg.PaginationParams) ([]*models.AuditLog, int64, error) {
	var out []*models.AuditLog
	for _, e := range r.entries {
		if e.Username == username {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

// testEnv bundles the fakes and services most tests need.
type testEnv struct {
	users    *fakeUserRepo
	projects *fakeProjectRepo
	folders  *fakeFolderRepo
	contents *fakeContentRepo
	audit    *fakeAuditRepo

	access     *AccessService
	sharing    *SharingService
	hierarchy  *HierarchyService
	contentSvc *ContentService
}

func newTestEnv(usernames ...string) *testEnv {
	env := &testEnv{
		users:    newFakeUserRepo(usernames...),
		projects: newFakeProjectRepo(),
		folders:  newFakeFolderRepo(),
		contents: newFakeContentRepo(),
		audit:    newFakeAuditRepo(),
	}
	env.access = NewAccessService(env.projects, env.folders, env.contents, env.audit)
	env.sharing = NewSharingService(env.users, env.projects, env.audit, env.access)
	env.hierarchy = NewHierarchyService(env.folders, env.contents, env.projects, env.audit, env.access)
	env.contentSvc = NewContentService(env.contents, env.folders, env.audit, env.access, nil)
	return env
}

func (env *testEnv) project(owner string, grants ...models.ShareGrant) *models.Project {
	return env.projects.add(&models.Project{
		Name:       "Campaign",
		Owner:      owner,
		Status:     models.ProjectStatusActive,
		SharedWith: grants,
	})
}

func (env *testEnv) folder(projectID primitive.ObjectID, owner string, parent *primitive.ObjectID) *models.Folder {
	f := env.folders.add(&models.Folder{
		Name:         "Drafts",
		Owner:        owner,
		ProjectID:    projectID,
		ParentFolder: parent,
	})
	if parent != nil {
		if p, ok := env.folders.folders[*parent]; ok {
			p.Subfolders = append(p.Subfolders, f.ID)
		}
	}
	return f
}

func (env *testEnv) content(projectID, folderID primitive.ObjectID, owner string) *models.Content {
	c := env.contents.add(&models.Content{
		Name:      "Launch tweet",
		Type:      models.ContentTypeTweet,
		Owner:     owner,
		ProjectID: projectID,
		FolderID:  folderID,
	})
	if f, ok := env.folders.folders[folderID]; ok {
		f.Content = append(f.Content, c.ID)
	}
	return c
}

func grantOf(username string, perm models.SharePermission) models.ShareGrant {
	return models.ShareGrant{Username: username, Permission: perm, GrantedAt: time.Now()}
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Folder lives inside exactly one project (ProjectID is immutable after
// creation) and may nest under another folder of the same project. Subfolders
// is maintained as the inverse of ParentFolder: it always holds exactly the
// ids of folders whose ParentFolder points here.
type Folder struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name" validate:"required,min=1,max=255"`
	Description  string               `bson:"description" json:"description" validate:"max=500"`
	Owner        string               `bson:"owner" json:"owner"`
	ProjectID    primitive.ObjectID   `bson:"project_id" json:"projectId"`
	ParentFolder *primitive.ObjectID  `bson:"parent_folder,omitempty" json:"parentFolder,omitempty"`
	Subfolders   []primitive.ObjectID `bson:"subfolders" json:"subfolders"`
	Content      []primitive.ObjectID `bson:"content" json:"content"`
	Images       []string             `bson:"images" json:"images"`
	Notes        []string             `bson:"notes" json:"notes"`
	IsPublic     bool                 `bson:"is_public" json:"isPublic"`
	CreatedAt    time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updatedAt"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is the sharing boundary. Folders and Content carry no grant lists of
// their own; non-owner access to them is always resolved through the owning
// project's SharedWith entries.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name" validate:"required,min=1,max=255"`
	Description string             `bson:"description" json:"description" validate:"max=500"`
	Owner       string             `bson:"owner" json:"owner"`
	Status      ProjectStatus      `bson:"status" json:"status"`
	SharedWith  []ShareGrant       `bson:"shared_with" json:"sharedWith"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
	DeletedAt   *time.Time         `bson:"deleted_at,omitempty" json:"deletedAt,omitempty"`
}

// ShareGrant is one (username, permission) entry in a project's SharedWith
// list. Usernames are unique within the list and the owner never appears.
type ShareGrant struct {
	Username   string          `bson:"username" json:"username"`
	Permission SharePermission `bson:"permission" json:"permission"`
	GrantedAt  time.Time       `bson:"granted_at" json:"grantedAt"`
}

type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
	ProjectStatusDeleted  ProjectStatus = "deleted"
)

type SharePermission string

const (
	SharePermissionView SharePermission = "view"
	SharePermissionEdit SharePermission = "edit"
)

// Grant returns the grant for username, if any.
func (p *Project) Grant(username string) (ShareGrant, bool) {
	for _, g := range p.SharedWith {
		if g.Username == username {
			return g, true
		}
	}
	return ShareGrant{}, false
}

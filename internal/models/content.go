package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content is one generated (or hand-edited) piece of copy. FolderID must
// reference a folder whose ProjectID equals this record's ProjectID; the two
// are validated together on every write that touches either.
type Content struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name" validate:"required,min=1,max=255"`
	Type      ContentType        `bson:"type" json:"type" validate:"required"`
	Data      ContentData        `bson:"data" json:"data"`
	Owner     string             `bson:"owner" json:"owner"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"projectId"`
	FolderID  primitive.ObjectID `bson:"folder_id" json:"folderId"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ContentData holds the prompt the text was generated from, the text itself,
// and whatever parameters the generation service was called with. The params
// payload is opaque to this system.
type ContentData struct {
	Prompt string                 `bson:"prompt" json:"prompt"`
	Text   string                 `bson:"text" json:"text"`
	Params map[string]interface{} `bson:"params,omitempty" json:"params,omitempty"`
}

type ContentType string

const (
	ContentTypeMetaTitle          ContentType = "meta_title"
	ContentTypeMetaDescription    ContentType = "meta_description"
	ContentTypeBlogPostIdeas      ContentType = "blog_post_ideas"
	ContentTypeBlogSection        ContentType = "blog_section"
	ContentTypeInstagramCaption   ContentType = "instagram_caption"
	ContentTypeFacebookPost       ContentType = "facebook_post"
	ContentTypeTweet              ContentType = "tweet"
	ContentTypeYoutubeDescription ContentType = "youtube_description"
	ContentTypeProductDescription ContentType = "product_description"
)

// ValidContentTypes lists every accepted generation category.
var ValidContentTypes = []ContentType{
	ContentTypeMetaTitle,
	ContentTypeMetaDescription,
	ContentTypeBlogPostIdeas,
	ContentTypeBlogSection,
	ContentTypeInstagramCaption,
	ContentTypeFacebookPost,
	ContentTypeTweet,
	ContentTypeYoutubeDescription,
	ContentTypeProductDescription,
}

// IsValid reports whether t is a known generation category.
func (t ContentType) IsValid() bool {
	for _, v := range ValidContentTypes {
		if t == v {
			return true
		}
	}
	return false
}

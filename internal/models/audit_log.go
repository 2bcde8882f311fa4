package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLog records access decisions and sharing mutations with full detail.
// Callers only ever see the collapsed error form; the real reason lands here.
type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Action    AuditAction        `bson:"action" json:"action"`
	Resource  AuditResource      `bson:"resource" json:"resource"`
	Success   bool               `bson:"success" json:"success"`
	Reason    string             `bson:"reason,omitempty" json:"reason,omitempty"`
	Severity  AuditSeverity      `bson:"severity" json:"severity"`
	IP        string             `bson:"ip,omitempty" json:"ip,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type AuditResource struct {
	Kind string             `bson:"kind" json:"kind"`
	ID   primitive.ObjectID `bson:"id" json:"id"`
}

type AuditAction string

const (
	AuditActionAccessDenied   AuditAction = "access_denied"
	AuditActionProjectCreate  AuditAction = "project_create"
	AuditActionProjectUpdate  AuditAction = "project_update"
	AuditActionProjectDelete  AuditAction = "project_delete"
	AuditActionFolderCreate   AuditAction = "folder_create"
	AuditActionFolderUpdate   AuditAction = "folder_update"
	AuditActionFolderDelete   AuditAction = "folder_delete"
	AuditActionFolderMove     AuditAction = "folder_move"
	AuditActionContentCreate  AuditAction = "content_create"
	AuditActionContentUpdate  AuditAction = "content_update"
	AuditActionContentDelete  AuditAction = "content_delete"
	AuditActionContentMove    AuditAction = "content_move"
	AuditActionSharingGrant   AuditAction = "sharing_grant"
	AuditActionSharingRevoke  AuditAction = "sharing_revoke"
	AuditActionUserRegister   AuditAction = "user_register"
	AuditActionUserLogin      AuditAction = "user_login"
	AuditActionLoginFailure   AuditAction = "login_failure"
)

type AuditSeverity string

const (
	AuditSeverityLow    AuditSeverity = "low"
	AuditSeverityMedium AuditSeverity = "medium"
	AuditSeverityHigh   AuditSeverity = "high"
)

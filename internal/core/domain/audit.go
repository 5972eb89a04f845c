package domain

import "time"

// Audit event types.
const (
	AuditLoginSuccess = "identity.login.success"
	AuditLoginFailure = "identity.login.failure"
	AuditLoginLocked  = "identity.login.locked"
	AuditRegistered   = "identity.registered"
	AuditRoleGranted  = "identity.role.granted"
	AuditRoleRevoked  = "identity.role.revoked"
	AuditDeleted      = "identity.deleted"
)

// AuditEvent is a security event record. Username is the subject of the
// event, not necessarily the actor performing it.
type AuditEvent struct {
	Type      string    `json:"type"`
	Username  string    `json:"username"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

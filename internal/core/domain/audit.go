package domain

import "time"

// Audit actions recorded by the services.
const (
	AuditRegister      = "account.register"
	AuditLogin         = "auth.login"
	AuditLoginFailed   = "auth.login_failed"
	AuditElementCreate = "element.create"
	AuditElementUpdate = "element.update"
	AuditElementDelete = "element.delete"
)

// AuditEvent is a best-effort record of a security-relevant action.
// Actor is the username that performed the action (or attempted to);
// Subject identifies what was acted on (a role, an element symbol).
type AuditEvent struct {
	ID         string    `json:"id"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	Subject    string    `json:"subject,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

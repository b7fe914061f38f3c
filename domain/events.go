package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	UserRegistrationEvent         AuditEventType = "USER_REGISTERED"
	UserRegistrationFailureEvent  AuditEventType = "USER_REGISTRATION_FAILED"
	UserLoginEvent                AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent         AuditEventType = "USER_LOGIN_FAILED"
	EmailVerificationRequestEvent AuditEventType = "EMAIL_VERIFICATION_REQUESTED"
	EmailVerifiedEvent            AuditEventType = "EMAIL_VERIFIED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType  AuditEventType         `json:"event_type"`
	UserID     uint                   `json:"user_id,omitempty"`
	Identifier IdentifierKind         `json:"identifier,omitempty"`
	Email      string                 `json:"email,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg   string                 `json:"error_msg,omitempty"`
	Success    bool                   `json:"success"`
}

// AuditLogger records security-relevant identity events
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent) error
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, userID uint) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError marks the event failed and records the reason
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithIdentifier records which identifier kind the request resolved through
func (e *AuditEvent) WithIdentifier(kind IdentifierKind) *AuditEvent {
	e.Identifier = kind
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}

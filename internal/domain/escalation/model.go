package escalation

import (
	"time"

	"github.com/google/uuid"

	"github.com/claracare/api/internal/domain/triage"
)

// Escalation tracks a provider follow-up on one interaction. Status moves
// pending -> texting -> phone_call/video_call -> resolved; resolved is
// terminal and stamps ResolvedAt.
type Escalation struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	InteractionID uuid.UUID  `db:"interaction_id" json:"interactionId"`
	InitiatedBy   string     `db:"initiated_by" json:"initiatedBy"`
	Status        string     `db:"status" json:"status"`
	Severity      string     `db:"severity" json:"severity"`
	Reason        *string    `db:"reason" json:"reason,omitempty"`
	ResolvedAt    *time.Time `db:"resolved_at" json:"resolvedAt,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}

// Message is one entry in an escalation thread. SenderID is a patient id for
// parent messages and a provider id for provider messages. ReadAt is set when
// a provider marks the message read.
type Message struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	EscalationID uuid.UUID  `db:"escalation_id" json:"escalationId"`
	SenderID     string     `db:"sender_id" json:"senderId"`
	SenderType   string     `db:"sender_type" json:"senderType"`
	Content      string     `db:"content" json:"content"`
	ReadAt       *time.Time `db:"read_at" json:"readAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// EscalationWithDetails attaches the full interaction view and the message
// thread (ascending by creation time).
type EscalationWithDetails struct {
	Escalation
	Interaction *triage.InteractionWithDetails `json:"interaction"`
	Messages    []*Message                     `json:"messages"`
}

// Patch carries the fields a PATCH request may change. Nil means unchanged.
type Patch struct {
	Status *string `json:"status"`
	Reason *string `json:"reason"`
}

const (
	StatusPending   = "pending"
	StatusTexting   = "texting"
	StatusPhoneCall = "phone_call"
	StatusVideoCall = "video_call"
	StatusResolved  = "resolved"
)

const (
	SenderParent   = "parent"
	SenderProvider = "provider"
)

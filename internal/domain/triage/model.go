package triage

import (
	"time"

	"github.com/google/uuid"

	"github.com/claracare/api/internal/domain/patient"
)

// Interaction is one AI triage exchange for a child. PatientID duplicates the
// child's owning patient for query convenience; the two must agree at write
// time. QueuedAt marks entry into the review queue and is distinct from
// CreatedAt; ReviewedAt is set when the first review lands.
type Interaction struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	ChildID             uuid.UUID  `db:"child_id" json:"childId"`
	PatientID           uuid.UUID  `db:"patient_id" json:"patientId"`
	ParentConcern       string     `db:"parent_concern" json:"parentConcern"`
	AIResponse          string     `db:"ai_response" json:"aiResponse"`
	ClinicalSummary     *string    `db:"clinical_summary" json:"clinicalSummary,omitempty"`
	Urgency             string     `db:"urgency" json:"urgency"`
	Recommendations     *string    `db:"recommendations" json:"recommendations,omitempty"`
	ConversationContext *string    `db:"conversation_context" json:"conversationContext,omitempty"`
	QueuedAt            time.Time  `db:"queued_at" json:"queuedAt"`
	ReviewedAt          *time.Time `db:"reviewed_at" json:"reviewedAt,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
}

// Review is one provider's verdict on an interaction. An interaction with at
// least one review counts as reviewed; a needs_escalation decision marks the
// interaction (and its patient) escalated.
type Review struct {
	ID             uuid.UUID `db:"id" json:"id"`
	InteractionID  uuid.UUID `db:"interaction_id" json:"interactionId"`
	ProviderName   string    `db:"provider_name" json:"providerName"`
	ReviewDecision string    `db:"review_decision" json:"reviewDecision"`
	ProviderNotes  *string   `db:"provider_notes" json:"providerNotes,omitempty"`
	ICD10Code      *string   `db:"icd10_code" json:"icd10Code,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// InteractionWithDetails is the read view with the child, owning patient, and
// all reviews attached.
type InteractionWithDetails struct {
	Interaction
	Child   *patient.Child   `json:"child"`
	Patient *patient.Patient `json:"patient"`
	Reviews []*Review        `json:"reviews"`
}

const (
	UrgencyRoutine  = "routine"
	UrgencyModerate = "moderate"
	UrgencyUrgent   = "urgent"
	UrgencyCritical = "critical"
)

const (
	DecisionAgree             = "agree"
	DecisionAgreeWithThoughts = "agree_with_thoughts"
	DecisionDisagree          = "disagree"
	DecisionNeedsEscalation   = "needs_escalation"
)

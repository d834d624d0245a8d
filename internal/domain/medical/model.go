package medical

import (
	"time"

	"github.com/google/uuid"
)

// Medication is a prescribed course for one child. IsActive separates current
// from historical prescriptions.
type Medication struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	ChildID   uuid.UUID  `db:"child_id" json:"childId"`
	Name      string     `db:"name" json:"name"`
	Dosage    string     `db:"dosage" json:"dosage"`
	Frequency string     `db:"frequency" json:"frequency"`
	StartDate *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"endDate,omitempty"`
	IsActive  bool       `db:"is_active" json:"isActive"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

type Allergy struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ChildID   uuid.UUID `db:"child_id" json:"childId"`
	Allergen  string    `db:"allergen" json:"allergen"`
	Reaction  string    `db:"reaction" json:"reaction"`
	Severity  *string   `db:"severity" json:"severity,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type ProblemListItem struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ChildID        uuid.UUID  `db:"child_id" json:"childId"`
	ConditionName  string     `db:"condition_name" json:"conditionName"`
	DiagnosticCode *string    `db:"diagnostic_code" json:"diagnosticCode,omitempty"`
	Status         string     `db:"status" json:"status"`
	OnsetDate      *time.Time `db:"onset_date" json:"onsetDate,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

// ChildMedicalData bundles the three record lists for one child.
type ChildMedicalData struct {
	Medications []*Medication      `json:"medications"`
	Allergies   []*Allergy         `json:"allergies"`
	ProblemList []*ProblemListItem `json:"problemList"`
}

package dashboard

import (
	"time"

	"github.com/claracare/api/internal/domain/patient"
)

// Stats is the headline dashboard counters block.
type Stats struct {
	ReviewsPending  int    `json:"reviewsPending"`
	Escalations     int    `json:"escalations"`
	ActivePatients  int    `json:"activePatients"`
	AvgResponseTime string `json:"avgResponseTime"`
	AgreesCount     int    `json:"agreesCount"`
	DisagreesCount  int    `json:"disagreesCount"`
}

// Badges feeds the navigation badge counters.
type Badges struct {
	ReviewsPending    int `json:"reviewsPending"`
	EscalationsActive int `json:"escalationsActive"`
	MessagesUnread    int `json:"messagesUnread"`
}

// PatientSummary is the enriched patient row for the dashboard list. Status
// is escalated, review_pending, or active, in that precedence order.
type PatientSummary struct {
	patient.Patient
	Children         []*patient.Child `json:"children"`
	InteractionCount int              `json:"interactionCount"`
	LastReviewDate   *time.Time       `json:"lastReviewDate,omitempty"`
	Status           string           `json:"status"`
}

// ReviewOutcome is one decision bucket for the outcome chart.
type ReviewOutcome struct {
	Decision   string  `json:"decision"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TimeMetric is one computed duration average in minutes.
type TimeMetric struct {
	Name       string  `json:"name"`
	AvgMinutes float64 `json:"avgMinutes"`
	Samples    int     `json:"samples"`
}

type Analytics struct {
	ReviewOutcomes []ReviewOutcome `json:"reviewOutcomes"`
	TimeMetrics    []TimeMetric    `json:"timeMetrics"`
	Stats          Stats           `json:"stats"`
}

const (
	PatientStatusActive        = "active"
	PatientStatusReviewPending = "review_pending"
	PatientStatusEscalated     = "escalated"
)

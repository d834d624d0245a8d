package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/claracare/api/internal/domain/escalation"
	"github.com/claracare/api/internal/domain/patient"
	"github.com/claracare/api/internal/domain/triage"
)

// The aggregates are full recomputations on every call; mutations to reviews,
// interactions, or messages are visible on the next read without any
// invalidation step. Volumes are small enough that this costs nothing.

type InteractionSource interface {
	ListWithDetails(ctx context.Context) ([]*triage.InteractionWithDetails, error)
}

type PatientSource interface {
	ListWithChildren(ctx context.Context) ([]*patient.PatientWithChildren, error)
}

type MessageSource interface {
	CountUnreadParentMessages(ctx context.Context) (int, error)
}

type EscalationSource interface {
	List(ctx context.Context) ([]*escalation.Escalation, error)
}

type Service struct {
	interactions InteractionSource
	patients     PatientSource
	messages     MessageSource
	escalations  EscalationSource
}

func NewService(interactions InteractionSource, patients PatientSource, messages MessageSource, escalations EscalationSource) *Service {
	return &Service{
		interactions: interactions,
		patients:     patients,
		messages:     messages,
		escalations:  escalations,
	}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	details, err := s.interactions.ListWithDetails(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := s.patients.ListWithChildren(ctx)
	if err != nil {
		return nil, err
	}
	st := computeStats(details)
	st.ActivePatients = len(patients)
	return st, nil
}

func (s *Service) Badges(ctx context.Context) (*Badges, error) {
	details, err := s.interactions.ListWithDetails(ctx)
	if err != nil {
		return nil, err
	}
	unread, err := s.messages.CountUnreadParentMessages(ctx)
	if err != nil {
		return nil, err
	}
	pending, escalated := 0, 0
	for _, d := range details {
		if len(d.Reviews) == 0 {
			pending++
		}
		if hasEscalationReview(d.Reviews) {
			escalated++
		}
	}
	return &Badges{
		ReviewsPending:    pending,
		EscalationsActive: escalated,
		MessagesUnread:    unread,
	}, nil
}

// ListPatients returns every patient enriched with interaction count, last
// review date, and status classification.
func (s *Service) ListPatients(ctx context.Context) ([]*PatientSummary, error) {
	patients, err := s.patients.ListWithChildren(ctx)
	if err != nil {
		return nil, err
	}
	details, err := s.interactions.ListWithDetails(ctx)
	if err != nil {
		return nil, err
	}

	byPatient := make(map[uuid.UUID][]*triage.InteractionWithDetails)
	for _, d := range details {
		byPatient[d.PatientID] = append(byPatient[d.PatientID], d)
	}

	out := make([]*PatientSummary, 0, len(patients))
	for _, p := range patients {
		interactions := byPatient[p.ID]
		summary := &PatientSummary{
			Patient:          p.Patient,
			Children:         p.Children,
			InteractionCount: len(interactions),
			Status:           classifyPatient(interactions),
		}
		for _, d := range interactions {
			for _, rv := range d.Reviews {
				if summary.LastReviewDate == nil || rv.CreatedAt.After(*summary.LastReviewDate) {
					at := rv.CreatedAt
					summary.LastReviewDate = &at
				}
			}
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *Service) Analytics(ctx context.Context) (*Analytics, error) {
	details, err := s.interactions.ListWithDetails(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := s.patients.ListWithChildren(ctx)
	if err != nil {
		return nil, err
	}
	escalations, err := s.escalations.List(ctx)
	if err != nil {
		return nil, err
	}

	st := computeStats(details)
	st.ActivePatients = len(patients)

	return &Analytics{
		ReviewOutcomes: computeOutcomes(details),
		TimeMetrics:    computeTimeMetrics(details, escalations),
		Stats:          *st,
	}, nil
}

// -- aggregate computations --

func hasEscalationReview(reviews []*triage.Review) bool {
	for _, rv := range reviews {
		if rv.ReviewDecision == triage.DecisionNeedsEscalation {
			return true
		}
	}
	return false
}

func classifyPatient(interactions []*triage.InteractionWithDetails) string {
	status := PatientStatusActive
	for _, d := range interactions {
		if hasEscalationReview(d.Reviews) {
			return PatientStatusEscalated
		}
		if len(d.Reviews) == 0 {
			status = PatientStatusReviewPending
		}
	}
	return status
}

func computeStats(details []*triage.InteractionWithDetails) *Stats {
	st := &Stats{}
	var totalMinutes float64
	reviewed := 0
	for _, d := range details {
		if len(d.Reviews) == 0 {
			st.ReviewsPending++
		} else {
			if first := earliestReview(d.Reviews); first != nil {
				totalMinutes += first.CreatedAt.Sub(d.CreatedAt).Minutes()
				reviewed++
			}
		}
		if hasEscalationReview(d.Reviews) {
			st.Escalations++
		}
		for _, rv := range d.Reviews {
			switch rv.ReviewDecision {
			case triage.DecisionAgree, triage.DecisionAgreeWithThoughts:
				st.AgreesCount++
			case triage.DecisionDisagree:
				st.DisagreesCount++
			}
		}
	}
	if reviewed == 0 {
		st.AvgResponseTime = "N/A"
	} else {
		st.AvgResponseTime = formatMinutes(totalMinutes / float64(reviewed))
	}
	return st
}

func earliestReview(reviews []*triage.Review) *triage.Review {
	var first *triage.Review
	for _, rv := range reviews {
		if first == nil || rv.CreatedAt.Before(first.CreatedAt) {
			first = rv
		}
	}
	return first
}

// formatMinutes renders a mean duration as "{n}m" under an hour, "{n}h"
// above, both rounded.
func formatMinutes(minutes float64) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", int(math.Round(minutes)))
	}
	return fmt.Sprintf("%dh", int(math.Round(minutes/60)))
}

var outcomeLabels = []struct {
	decision string
	label    string
}{
	{triage.DecisionAgree, "Agree"},
	{triage.DecisionAgreeWithThoughts, "Agree with Thoughts"},
	{triage.DecisionDisagree, "Disagree"},
	{triage.DecisionNeedsEscalation, "Needs Escalation"},
}

func computeOutcomes(details []*triage.InteractionWithDetails) []ReviewOutcome {
	counts := make(map[string]int)
	total := 0
	for _, d := range details {
		for _, rv := range d.Reviews {
			counts[rv.ReviewDecision]++
			total++
		}
	}
	out := make([]ReviewOutcome, 0, len(outcomeLabels))
	for _, o := range outcomeLabels {
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(counts[o.decision])/float64(total)*1000) / 10
		}
		out = append(out, ReviewOutcome{
			Decision:   o.decision,
			Label:      o.label,
			Count:      counts[o.decision],
			Percentage: pct,
		})
	}
	return out
}

// computeTimeMetrics derives durations from stored timestamps: queue wait
// (queuedAt to reviewedAt), first-review latency (creation to earliest
// review), and escalation resolution (creation to resolvedAt).
func computeTimeMetrics(details []*triage.InteractionWithDetails, escalations []*escalation.Escalation) []TimeMetric {
	queueWait := durationAverage()
	reviewLatency := durationAverage()
	resolution := durationAverage()

	for _, d := range details {
		if d.ReviewedAt != nil {
			queueWait.add(d.ReviewedAt.Sub(d.QueuedAt))
		}
		if first := earliestReview(d.Reviews); first != nil {
			reviewLatency.add(first.CreatedAt.Sub(d.CreatedAt))
		}
	}
	for _, e := range escalations {
		if e.ResolvedAt != nil {
			resolution.add(e.ResolvedAt.Sub(e.CreatedAt))
		}
	}

	return []TimeMetric{
		{Name: "queue_wait", AvgMinutes: queueWait.minutes(), Samples: queueWait.n},
		{Name: "first_review", AvgMinutes: reviewLatency.minutes(), Samples: reviewLatency.n},
		{Name: "escalation_resolution", AvgMinutes: resolution.minutes(), Samples: resolution.n},
	}
}

type avgAccumulator struct {
	total time.Duration
	n     int
}

func durationAverage() *avgAccumulator { return &avgAccumulator{} }

func (a *avgAccumulator) add(d time.Duration) {
	a.total += d
	a.n++
}

func (a *avgAccumulator) minutes() float64 {
	if a.n == 0 {
		return 0
	}
	mean := a.total.Minutes() / float64(a.n)
	return math.Round(mean*10) / 10
}

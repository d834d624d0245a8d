package triage

import (
	"context"

	"github.com/google/uuid"

	"github.com/claracare/api/internal/domain/patient"
	"github.com/claracare/api/internal/platform/apperr"
)

var validUrgencies = map[string]bool{
	UrgencyRoutine: true, UrgencyModerate: true, UrgencyUrgent: true, UrgencyCritical: true,
}

var validDecisions = map[string]bool{
	DecisionAgree: true, DecisionAgreeWithThoughts: true,
	DecisionDisagree: true, DecisionNeedsEscalation: true,
}

type Service struct {
	interactions InteractionRepository
	reviews      ReviewRepository
	children     patient.ChildRepository
	patients     patient.Repository
}

func NewService(
	interactions InteractionRepository,
	reviews ReviewRepository,
	children patient.ChildRepository,
	patients patient.Repository,
) *Service {
	return &Service{
		interactions: interactions,
		reviews:      reviews,
		children:     children,
		patients:     patients,
	}
}

func (s *Service) CreateInteraction(ctx context.Context, in *Interaction) error {
	if in.ChildID == uuid.Nil {
		return apperr.Validation("childId is required")
	}
	if in.PatientID == uuid.Nil {
		return apperr.Validation("patientId is required")
	}
	if in.ParentConcern == "" {
		return apperr.Validation("parentConcern is required")
	}
	if in.AIResponse == "" {
		return apperr.Validation("aiResponse is required")
	}
	if in.Urgency == "" {
		in.Urgency = UrgencyRoutine
	}
	if !validUrgencies[in.Urgency] {
		return apperr.Validation("invalid urgency: %s", in.Urgency)
	}

	child, err := s.children.GetByID(ctx, in.ChildID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return apperr.Validation("child %s does not exist", in.ChildID)
		}
		return err
	}
	if child.PatientID != in.PatientID {
		return apperr.Validation("patientId %s does not match the child's patient", in.PatientID)
	}

	return s.interactions.Create(ctx, in)
}

// GetWithDetails returns one interaction with its child, patient, and
// reviews. A dangling child or patient reference is a data fault, not a
// not-found.
func (s *Service) GetWithDetails(ctx context.Context, id uuid.UUID) (*InteractionWithDetails, error) {
	in, err := s.interactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := s.attachDetails(ctx, []*Interaction{in})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *Service) ListWithDetails(ctx context.Context) ([]*InteractionWithDetails, error) {
	interactions, err := s.interactions.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.attachDetails(ctx, interactions)
}

// ListWithDetailsByIDs resolves many interactions in one batched pass and
// keys the joined views by interaction id. Unknown ids are absent from the
// result rather than an error; callers decide what a gap means.
func (s *Service) ListWithDetailsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*InteractionWithDetails, error) {
	interactions, err := s.interactions.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	details, err := s.attachDetails(ctx, interactions)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*InteractionWithDetails, len(details))
	for _, d := range details {
		byID[d.ID] = d
	}
	return byID, nil
}

func (s *Service) ListByPatientWithDetails(ctx context.Context, patientID uuid.UUID) ([]*InteractionWithDetails, error) {
	interactions, err := s.interactions.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return s.attachDetails(ctx, interactions)
}

func (s *Service) ListRecentWithDetails(ctx context.Context, limit int) ([]*InteractionWithDetails, error) {
	interactions, err := s.interactions.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.attachDetails(ctx, interactions)
}

// attachDetails joins children, patients, and reviews onto interactions with
// one batched lookup per dependency instead of a query per row.
func (s *Service) attachDetails(ctx context.Context, interactions []*Interaction) ([]*InteractionWithDetails, error) {
	childIDs := make([]uuid.UUID, 0, len(interactions))
	patientIDs := make([]uuid.UUID, 0, len(interactions))
	interactionIDs := make([]uuid.UUID, 0, len(interactions))
	seenChild := make(map[uuid.UUID]bool)
	seenPatient := make(map[uuid.UUID]bool)
	for _, in := range interactions {
		if !seenChild[in.ChildID] {
			seenChild[in.ChildID] = true
			childIDs = append(childIDs, in.ChildID)
		}
		if !seenPatient[in.PatientID] {
			seenPatient[in.PatientID] = true
			patientIDs = append(patientIDs, in.PatientID)
		}
		interactionIDs = append(interactionIDs, in.ID)
	}

	children, err := s.children.ListByIDs(ctx, childIDs)
	if err != nil {
		return nil, err
	}
	childByID := make(map[uuid.UUID]*patient.Child, len(children))
	for _, c := range children {
		childByID[c.ID] = c
	}

	patients, err := s.patients.ListByIDs(ctx, patientIDs)
	if err != nil {
		return nil, err
	}
	patientByID := make(map[uuid.UUID]*patient.Patient, len(patients))
	for _, p := range patients {
		patientByID[p.ID] = p
	}

	reviewsByInteraction, err := s.reviews.ListByInteractions(ctx, interactionIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*InteractionWithDetails, 0, len(interactions))
	for _, in := range interactions {
		child, ok := childByID[in.ChildID]
		if !ok {
			return nil, apperr.Integrity("interaction %s references missing child %s", in.ID, in.ChildID)
		}
		p, ok := patientByID[in.PatientID]
		if !ok {
			return nil, apperr.Integrity("interaction %s references missing patient %s", in.ID, in.PatientID)
		}
		reviews := reviewsByInteraction[in.ID]
		if reviews == nil {
			reviews = make([]*Review, 0)
		}
		out = append(out, &InteractionWithDetails{
			Interaction: *in,
			Child:       child,
			Patient:     p,
			Reviews:     reviews,
		})
	}
	return out, nil
}

func (s *Service) CreateReview(ctx context.Context, rv *Review) error {
	if rv.InteractionID == uuid.Nil {
		return apperr.Validation("interactionId is required")
	}
	if rv.ProviderName == "" {
		return apperr.Validation("providerName is required")
	}
	if !validDecisions[rv.ReviewDecision] {
		return apperr.Validation("invalid reviewDecision: %s", rv.ReviewDecision)
	}
	if _, err := s.interactions.GetByID(ctx, rv.InteractionID); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return apperr.Validation("interaction %s does not exist", rv.InteractionID)
		}
		return err
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return err
	}
	return s.interactions.MarkReviewed(ctx, rv.InteractionID, rv.CreatedAt)
}

func (s *Service) ListReviews(ctx context.Context, interactionID uuid.UUID) ([]*Review, error) {
	return s.reviews.ListByInteraction(ctx, interactionID)
}

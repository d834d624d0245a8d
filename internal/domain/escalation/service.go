package escalation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/claracare/api/internal/domain/triage"
	"github.com/claracare/api/internal/platform/apperr"
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusTexting: true, StatusPhoneCall: true,
	StatusVideoCall: true, StatusResolved: true,
}

var validSeverities = map[string]bool{
	triage.UrgencyRoutine: true, triage.UrgencyModerate: true,
	triage.UrgencyUrgent: true, triage.UrgencyCritical: true,
}

var validSenderTypes = map[string]bool{
	SenderParent: true, SenderProvider: true,
}

// InteractionDetailSource provides the joined interaction view without this
// package depending on the triage service directly.
type InteractionDetailSource interface {
	GetWithDetails(ctx context.Context, id uuid.UUID) (*triage.InteractionWithDetails, error)
	ListWithDetailsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*triage.InteractionWithDetails, error)
}

type Service struct {
	escalations  Repository
	messages     MessageRepository
	interactions InteractionDetailSource
}

func NewService(escalations Repository, messages MessageRepository, interactions InteractionDetailSource) *Service {
	return &Service{escalations: escalations, messages: messages, interactions: interactions}
}

func (s *Service) CreateEscalation(ctx context.Context, e *Escalation) error {
	if e.InteractionID == uuid.Nil {
		return apperr.Validation("interactionId is required")
	}
	if e.InitiatedBy == "" {
		return apperr.Validation("initiatedBy is required")
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	if !validStatuses[e.Status] {
		return apperr.Validation("invalid status: %s", e.Status)
	}
	if !validSeverities[e.Severity] {
		return apperr.Validation("invalid severity: %s", e.Severity)
	}
	if _, err := s.interactions.GetWithDetails(ctx, e.InteractionID); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return apperr.Validation("interaction %s does not exist", e.InteractionID)
		}
		return err
	}
	return s.escalations.Create(ctx, e)
}

// List returns bare escalation rows, newest first.
func (s *Service) List(ctx context.Context) ([]*Escalation, error) {
	return s.escalations.List(ctx)
}

// ListWithDetails returns every escalation with its message thread and the
// full interaction view attached.
func (s *Service) ListWithDetails(ctx context.Context) ([]*EscalationWithDetails, error) {
	escalations, err := s.escalations.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(escalations))
	interactionIDs := make([]uuid.UUID, 0, len(escalations))
	seen := make(map[uuid.UUID]bool)
	for _, e := range escalations {
		ids = append(ids, e.ID)
		if !seen[e.InteractionID] {
			seen[e.InteractionID] = true
			interactionIDs = append(interactionIDs, e.InteractionID)
		}
	}
	messagesByEscalation, err := s.messages.ListByEscalations(ctx, ids)
	if err != nil {
		return nil, err
	}
	detailsByInteraction, err := s.interactions.ListWithDetailsByIDs(ctx, interactionIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*EscalationWithDetails, 0, len(escalations))
	for _, e := range escalations {
		detail, ok := detailsByInteraction[e.InteractionID]
		if !ok {
			return nil, apperr.Integrity("escalation %s references missing interaction %s", e.ID, e.InteractionID)
		}
		msgs := messagesByEscalation[e.ID]
		if msgs == nil {
			msgs = make([]*Message, 0)
		}
		out = append(out, &EscalationWithDetails{
			Escalation:  *e,
			Interaction: detail,
			Messages:    msgs,
		})
	}
	return out, nil
}

// UpdateEscalation applies a partial update. An empty patch is a no-op that
// returns the current row. Updates to a resolved escalation are rejected.
func (s *Service) UpdateEscalation(ctx context.Context, id uuid.UUID, patch Patch) (*Escalation, error) {
	e, err := s.escalations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Status == nil && patch.Reason == nil {
		return e, nil
	}
	if e.Status == StatusResolved {
		return nil, apperr.Validation("escalation %s is resolved", id)
	}
	if patch.Status != nil {
		if !validStatuses[*patch.Status] {
			return nil, apperr.Validation("invalid status: %s", *patch.Status)
		}
		if *patch.Status == StatusResolved && e.Status != StatusResolved {
			now := time.Now().UTC()
			e.ResolvedAt = &now
		}
		e.Status = *patch.Status
	}
	if patch.Reason != nil {
		e.Reason = patch.Reason
	}
	if err := s.escalations.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) CreateMessage(ctx context.Context, m *Message) error {
	if m.EscalationID == uuid.Nil {
		return apperr.Validation("escalationId is required")
	}
	if m.SenderID == "" {
		return apperr.Validation("senderId is required")
	}
	if !validSenderTypes[m.SenderType] {
		return apperr.Validation("invalid senderType: %s", m.SenderType)
	}
	if m.Content == "" {
		return apperr.Validation("content is required")
	}
	if _, err := s.escalations.GetByID(ctx, m.EscalationID); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return apperr.Validation("escalation %s does not exist", m.EscalationID)
		}
		return err
	}
	return s.messages.Create(ctx, m)
}

func (s *Service) MarkMessageRead(ctx context.Context, id uuid.UUID) error {
	return s.messages.MarkRead(ctx, id, time.Now().UTC())
}

func (s *Service) CountUnreadParentMessages(ctx context.Context) (int, error) {
	return s.messages.CountUnreadFromParents(ctx)
}

package triage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type InteractionRepository interface {
	Create(ctx context.Context, in *Interaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Interaction, error)
	List(ctx context.Context) ([]*Interaction, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Interaction, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Interaction, error)
	ListRecent(ctx context.Context, limit int) ([]*Interaction, error)
	MarkReviewed(ctx context.Context, id uuid.UUID, at time.Time) error
}

type ReviewRepository interface {
	Create(ctx context.Context, rv *Review) error
	ListByInteraction(ctx context.Context, interactionID uuid.UUID) ([]*Review, error)
	ListByInteractions(ctx context.Context, interactionIDs []uuid.UUID) (map[uuid.UUID][]*Review, error)
}

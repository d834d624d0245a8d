package escalation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, e *Escalation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Escalation, error)
	List(ctx context.Context) ([]*Escalation, error)
	Update(ctx context.Context, e *Escalation) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	ListByEscalation(ctx context.Context, escalationID uuid.UUID) ([]*Message, error)
	ListByEscalations(ctx context.Context, escalationIDs []uuid.UUID) (map[uuid.UUID][]*Message, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error
	CountUnreadFromParents(ctx context.Context) (int, error)
}

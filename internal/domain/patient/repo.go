package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Patient, error)
}

type ChildRepository interface {
	Create(ctx context.Context, c *Child) error
	GetByID(ctx context.Context, id uuid.UUID) (*Child, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Child, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Child, error)
	ListByPatients(ctx context.Context, patientIDs []uuid.UUID) ([]*Child, error)
}

package medical

import (
	"context"

	"github.com/google/uuid"
)

type MedicationRepository interface {
	Create(ctx context.Context, m *Medication) error
	ListByChild(ctx context.Context, childID uuid.UUID) ([]*Medication, error)
}

type AllergyRepository interface {
	Create(ctx context.Context, a *Allergy) error
	ListByChild(ctx context.Context, childID uuid.UUID) ([]*Allergy, error)
}

type ProblemRepository interface {
	Create(ctx context.Context, p *ProblemListItem) error
	ListByChild(ctx context.Context, childID uuid.UUID) ([]*ProblemListItem, error)
}

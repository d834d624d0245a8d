package medical

import (
	"context"

	"github.com/google/uuid"

	"github.com/claracare/api/internal/platform/apperr"
)

type Service struct {
	medications MedicationRepository
	allergies   AllergyRepository
	problems    ProblemRepository
}

func NewService(meds MedicationRepository, allergies AllergyRepository, problems ProblemRepository) *Service {
	return &Service{medications: meds, allergies: allergies, problems: problems}
}

var validProblemStatuses = map[string]bool{
	"active": true, "resolved": true, "chronic": true,
}

func (s *Service) CreateMedication(ctx context.Context, m *Medication) error {
	if m.ChildID == uuid.Nil {
		return apperr.Validation("childId is required")
	}
	if m.Name == "" {
		return apperr.Validation("name is required")
	}
	if m.Dosage == "" {
		return apperr.Validation("dosage is required")
	}
	if m.Frequency == "" {
		return apperr.Validation("frequency is required")
	}
	return s.medications.Create(ctx, m)
}

func (s *Service) CreateAllergy(ctx context.Context, a *Allergy) error {
	if a.ChildID == uuid.Nil {
		return apperr.Validation("childId is required")
	}
	if a.Allergen == "" {
		return apperr.Validation("allergen is required")
	}
	if a.Reaction == "" {
		return apperr.Validation("reaction is required")
	}
	return s.allergies.Create(ctx, a)
}

func (s *Service) CreateProblem(ctx context.Context, p *ProblemListItem) error {
	if p.ChildID == uuid.Nil {
		return apperr.Validation("childId is required")
	}
	if p.ConditionName == "" {
		return apperr.Validation("conditionName is required")
	}
	if p.Status == "" {
		p.Status = "active"
	}
	if !validProblemStatuses[p.Status] {
		return apperr.Validation("invalid status: %s", p.Status)
	}
	return s.problems.Create(ctx, p)
}

// GetChildMedicalData bundles the three record lists for one child. A child
// with no records yields three empty lists rather than a not-found error.
func (s *Service) GetChildMedicalData(ctx context.Context, childID uuid.UUID) (*ChildMedicalData, error) {
	meds, err := s.medications.ListByChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	allergies, err := s.allergies.ListByChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	problems, err := s.problems.ListByChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	return &ChildMedicalData{
		Medications: meds,
		Allergies:   allergies,
		ProblemList: problems,
	}, nil
}

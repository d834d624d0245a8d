package patient

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/claracare/api/internal/platform/apperr"
)

type Service struct {
	patients Repository
	children ChildRepository
}

func NewService(patients Repository, children ChildRepository) *Service {
	return &Service{patients: patients, children: children}
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return apperr.Validation("name is required")
	}
	if p.Email == "" {
		return apperr.Validation("email is required")
	}
	if !strings.Contains(p.Email, "@") {
		return apperr.Validation("invalid email: %s", p.Email)
	}
	if p.Phone == "" {
		return apperr.Validation("phone is required")
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// GetPatientWithChildren returns the patient and all their children.
func (s *Service) GetPatientWithChildren(ctx context.Context, id uuid.UUID) (*PatientWithChildren, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	children, err := s.children.ListByPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PatientWithChildren{Patient: *p, Children: children}, nil
}

// ListWithChildren returns every patient with children attached, using a
// single batched child lookup rather than one query per patient.
func (s *Service) ListWithChildren(ctx context.Context) ([]*PatientWithChildren, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(patients))
	for _, p := range patients {
		ids = append(ids, p.ID)
	}
	children, err := s.children.ListByPatients(ctx, ids)
	if err != nil {
		return nil, err
	}
	byPatient := make(map[uuid.UUID][]*Child)
	for _, c := range children {
		byPatient[c.PatientID] = append(byPatient[c.PatientID], c)
	}

	out := make([]*PatientWithChildren, 0, len(patients))
	for _, p := range patients {
		kids := byPatient[p.ID]
		if kids == nil {
			kids = make([]*Child, 0)
		}
		out = append(out, &PatientWithChildren{Patient: *p, Children: kids})
	}
	return out, nil
}

func (s *Service) CreateChild(ctx context.Context, c *Child) error {
	if c.PatientID == uuid.Nil {
		return apperr.Validation("patientId is required")
	}
	if c.Name == "" {
		return apperr.Validation("name is required")
	}
	if c.DateOfBirth.IsZero() {
		return apperr.Validation("dateOfBirth is required")
	}
	if c.MedicalRecordNumber == "" {
		return apperr.Validation("medicalRecordNumber is required")
	}
	if _, err := s.patients.GetByID(ctx, c.PatientID); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return apperr.Validation("patient %s does not exist", c.PatientID)
		}
		return err
	}
	return s.children.Create(ctx, c)
}

func (s *Service) GetChild(ctx context.Context, id uuid.UUID) (*Child, error) {
	return s.children.GetByID(ctx, id)
}

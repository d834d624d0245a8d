package medical

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claracare/api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

// =========== Medication Repository ===========

type medicationRepoPG struct{ pool *pgxpool.Pool }

func NewMedicationRepoPG(pool *pgxpool.Pool) MedicationRepository {
	return &medicationRepoPG{pool: pool}
}

const medicationCols = `id, child_id, name, dosage, frequency, start_date, end_date, is_active, created_at`

func (r *medicationRepoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO medications (id, child_id, name, dosage, frequency, start_date, end_date, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		m.ID, m.ChildID, m.Name, m.Dosage, m.Frequency, m.StartDate, m.EndDate, m.IsActive).Scan(&m.CreatedAt)
}

func (r *medicationRepoPG) ListByChild(ctx context.Context, childID uuid.UUID) ([]*Medication, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+medicationCols+` FROM medications
		WHERE child_id = $1 ORDER BY created_at DESC`, childID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*Medication, 0)
	for rows.Next() {
		var m Medication
		if err := rows.Scan(&m.ID, &m.ChildID, &m.Name, &m.Dosage, &m.Frequency,
			&m.StartDate, &m.EndDate, &m.IsActive, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}

// =========== Allergy Repository ===========

type allergyRepoPG struct{ pool *pgxpool.Pool }

func NewAllergyRepoPG(pool *pgxpool.Pool) AllergyRepository {
	return &allergyRepoPG{pool: pool}
}

const allergyCols = `id, child_id, allergen, reaction, severity, created_at`

func (r *allergyRepoPG) Create(ctx context.Context, a *Allergy) error {
	a.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO allergies (id, child_id, allergen, reaction, severity)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		a.ID, a.ChildID, a.Allergen, a.Reaction, a.Severity).Scan(&a.CreatedAt)
}

func (r *allergyRepoPG) ListByChild(ctx context.Context, childID uuid.UUID) ([]*Allergy, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+allergyCols+` FROM allergies
		WHERE child_id = $1 ORDER BY created_at DESC`, childID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*Allergy, 0)
	for rows.Next() {
		var a Allergy
		if err := rows.Scan(&a.ID, &a.ChildID, &a.Allergen, &a.Reaction, &a.Severity, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &a)
	}
	return items, rows.Err()
}

// =========== Problem List Repository ===========

type problemRepoPG struct{ pool *pgxpool.Pool }

func NewProblemRepoPG(pool *pgxpool.Pool) ProblemRepository {
	return &problemRepoPG{pool: pool}
}

const problemCols = `id, child_id, condition_name, diagnostic_code, status, onset_date, created_at`

func (r *problemRepoPG) Create(ctx context.Context, p *ProblemListItem) error {
	p.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO problem_list (id, child_id, condition_name, diagnostic_code, status, onset_date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		p.ID, p.ChildID, p.ConditionName, p.DiagnosticCode, p.Status, p.OnsetDate).Scan(&p.CreatedAt)
}

func (r *problemRepoPG) ListByChild(ctx context.Context, childID uuid.UUID) ([]*ProblemListItem, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+problemCols+` FROM problem_list
		WHERE child_id = $1 ORDER BY created_at DESC`, childID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*ProblemListItem, 0)
	for rows.Next() {
		var p ProblemListItem
		if err := rows.Scan(&p.ID, &p.ChildID, &p.ConditionName, &p.DiagnosticCode,
			&p.Status, &p.OnsetDate, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &p)
	}
	return items, rows.Err()
}

package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claracare/api/internal/platform/apperr"
	"github.com/claracare/api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `id, name, email, phone, preferred_pharmacy, created_at`

func (r *patientRepoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.PreferredPharmacy, &p.CreatedAt)
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (id, name, email, phone, preferred_pharmacy)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		p.ID, p.Name, p.Email, p.Phone, p.PreferredPharmacy).Scan(&p.CreatedAt)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("patient not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *patientRepoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientCols+` FROM patients ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *patientRepoPG) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Patient, error) {
	if len(ids) == 0 {
		return make([]*Patient, 0), nil
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientCols+` FROM patients WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *patientRepoPG) collect(rows pgx.Rows) ([]*Patient, error) {
	items := make([]*Patient, 0)
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// =========== Child Repository ===========

type childRepoPG struct{ pool *pgxpool.Pool }

func NewChildRepoPG(pool *pgxpool.Pool) ChildRepository {
	return &childRepoPG{pool: pool}
}

func (r *childRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const childCols = `id, patient_id, name, date_of_birth, medical_record_number, current_weight, created_at`

func (r *childRepoPG) scanChild(row pgx.Row) (*Child, error) {
	var c Child
	err := row.Scan(&c.ID, &c.PatientID, &c.Name, &c.DateOfBirth, &c.MedicalRecordNumber, &c.CurrentWeight, &c.CreatedAt)
	return &c, err
}

func (r *childRepoPG) Create(ctx context.Context, c *Child) error {
	c.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO children (id, patient_id, name, date_of_birth, medical_record_number, current_weight)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		c.ID, c.PatientID, c.Name, c.DateOfBirth, c.MedicalRecordNumber, c.CurrentWeight).Scan(&c.CreatedAt)
}

func (r *childRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Child, error) {
	c, err := r.scanChild(r.conn(ctx).QueryRow(ctx, `SELECT `+childCols+` FROM children WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("child not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *childRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Child, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+childCols+` FROM children WHERE patient_id = $1 ORDER BY created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *childRepoPG) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Child, error) {
	if len(ids) == 0 {
		return make([]*Child, 0), nil
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+childCols+` FROM children WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *childRepoPG) ListByPatients(ctx context.Context, patientIDs []uuid.UUID) ([]*Child, error) {
	if len(patientIDs) == 0 {
		return make([]*Child, 0), nil
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+childCols+` FROM children WHERE patient_id = ANY($1) ORDER BY created_at`, patientIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *childRepoPG) collect(rows pgx.Rows) ([]*Child, error) {
	items := make([]*Child, 0)
	for rows.Next() {
		c, err := r.scanChild(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

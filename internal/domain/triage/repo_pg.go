package triage

import (
	"context"
	"errors"
	"time"

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

// =========== Interaction Repository ===========

type interactionRepoPG struct{ pool *pgxpool.Pool }

func NewInteractionRepoPG(pool *pgxpool.Pool) InteractionRepository {
	return &interactionRepoPG{pool: pool}
}

func (r *interactionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const interactionCols = `id, child_id, patient_id, parent_concern, ai_response, clinical_summary,
	urgency, recommendations, conversation_context, queued_at, reviewed_at, created_at`

func (r *interactionRepoPG) scanInteraction(row pgx.Row) (*Interaction, error) {
	var in Interaction
	err := row.Scan(&in.ID, &in.ChildID, &in.PatientID, &in.ParentConcern, &in.AIResponse, &in.ClinicalSummary,
		&in.Urgency, &in.Recommendations, &in.ConversationContext, &in.QueuedAt, &in.ReviewedAt, &in.CreatedAt)
	return &in, err
}

func (r *interactionRepoPG) Create(ctx context.Context, in *Interaction) error {
	in.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO ai_interactions (id, child_id, patient_id, parent_concern, ai_response,
			clinical_summary, urgency, recommendations, conversation_context)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING queued_at, created_at`,
		in.ID, in.ChildID, in.PatientID, in.ParentConcern, in.AIResponse,
		in.ClinicalSummary, in.Urgency, in.Recommendations, in.ConversationContext).
		Scan(&in.QueuedAt, &in.CreatedAt)
}

func (r *interactionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Interaction, error) {
	in, err := r.scanInteraction(r.conn(ctx).QueryRow(ctx, `SELECT `+interactionCols+` FROM ai_interactions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("interaction not found")
	}
	if err != nil {
		return nil, err
	}
	return in, nil
}

func (r *interactionRepoPG) List(ctx context.Context) ([]*Interaction, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+interactionCols+` FROM ai_interactions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *interactionRepoPG) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Interaction, error) {
	if len(ids) == 0 {
		return make([]*Interaction, 0), nil
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+interactionCols+` FROM ai_interactions
		WHERE id = ANY($1) ORDER BY created_at DESC`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *interactionRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Interaction, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+interactionCols+` FROM ai_interactions
		WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *interactionRepoPG) ListRecent(ctx context.Context, limit int) ([]*Interaction, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+interactionCols+` FROM ai_interactions
		ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *interactionRepoPG) MarkReviewed(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE ai_interactions SET reviewed_at = $2
		WHERE id = $1 AND reviewed_at IS NULL`, id, at)
	return err
}

func (r *interactionRepoPG) collect(rows pgx.Rows) ([]*Interaction, error) {
	items := make([]*Interaction, 0)
	for rows.Next() {
		in, err := r.scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, in)
	}
	return items, rows.Err()
}

// =========== Review Repository ===========

type reviewRepoPG struct{ pool *pgxpool.Pool }

func NewReviewRepoPG(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepoPG{pool: pool}
}

func (r *reviewRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const reviewCols = `id, interaction_id, provider_name, review_decision, provider_notes, icd10_code, created_at`

func (r *reviewRepoPG) scanReview(row pgx.Row) (*Review, error) {
	var rv Review
	err := row.Scan(&rv.ID, &rv.InteractionID, &rv.ProviderName, &rv.ReviewDecision,
		&rv.ProviderNotes, &rv.ICD10Code, &rv.CreatedAt)
	return &rv, err
}

func (r *reviewRepoPG) Create(ctx context.Context, rv *Review) error {
	rv.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO provider_reviews (id, interaction_id, provider_name, review_decision, provider_notes, icd10_code)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		rv.ID, rv.InteractionID, rv.ProviderName, rv.ReviewDecision, rv.ProviderNotes, rv.ICD10Code).
		Scan(&rv.CreatedAt)
}

func (r *reviewRepoPG) ListByInteraction(ctx context.Context, interactionID uuid.UUID) ([]*Review, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+reviewCols+` FROM provider_reviews
		WHERE interaction_id = $1 ORDER BY created_at DESC`, interactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*Review, 0)
	for rows.Next() {
		rv, err := r.scanReview(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rv)
	}
	return items, rows.Err()
}

func (r *reviewRepoPG) ListByInteractions(ctx context.Context, interactionIDs []uuid.UUID) (map[uuid.UUID][]*Review, error) {
	out := make(map[uuid.UUID][]*Review)
	if len(interactionIDs) == 0 {
		return out, nil
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+reviewCols+` FROM provider_reviews
		WHERE interaction_id = ANY($1) ORDER BY created_at DESC`, interactionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		rv, err := r.scanReview(rows)
		if err != nil {
			return nil, err
		}
		out[rv.InteractionID] = append(out[rv.InteractionID], rv)
	}
	return out, rows.Err()
}

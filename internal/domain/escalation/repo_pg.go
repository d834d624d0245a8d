package escalation

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

// =========== Escalation Repository ===========

type escalationRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &escalationRepoPG{pool: pool}
}

func (r *escalationRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const escalationCols = `id, interaction_id, initiated_by, status, severity, reason, resolved_at, created_at`

func (r *escalationRepoPG) scanEscalation(row pgx.Row) (*Escalation, error) {
	var e Escalation
	err := row.Scan(&e.ID, &e.InteractionID, &e.InitiatedBy, &e.Status, &e.Severity,
		&e.Reason, &e.ResolvedAt, &e.CreatedAt)
	return &e, err
}

func (r *escalationRepoPG) Create(ctx context.Context, e *Escalation) error {
	e.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO escalations (id, interaction_id, initiated_by, status, severity, reason)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		e.ID, e.InteractionID, e.InitiatedBy, e.Status, e.Severity, e.Reason).Scan(&e.CreatedAt)
}

func (r *escalationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Escalation, error) {
	e, err := r.scanEscalation(r.conn(ctx).QueryRow(ctx, `SELECT `+escalationCols+` FROM escalations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("escalation not found")
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *escalationRepoPG) List(ctx context.Context) ([]*Escalation, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+escalationCols+` FROM escalations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*Escalation, 0)
	for rows.Next() {
		e, err := r.scanEscalation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *escalationRepoPG) Update(ctx context.Context, e *Escalation) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE escalations SET status = $2, reason = $3, resolved_at = $4
		WHERE id = $1`,
		e.ID, e.Status, e.Reason, e.ResolvedAt)
	return err
}

// =========== Message Repository ===========

type messageRepoPG struct{ pool *pgxpool.Pool }

func NewMessageRepoPG(pool *pgxpool.Pool) MessageRepository {
	return &messageRepoPG{pool: pool}
}

func (r *messageRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const messageCols = `id, escalation_id, sender_id, sender_type, content, read_at, created_at`

func (r *messageRepoPG) scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.EscalationID, &m.SenderID, &m.SenderType, &m.Content, &m.ReadAt, &m.CreatedAt)
	return &m, err
}

func (r *messageRepoPG) Create(ctx context.Context, m *Message) error {
	m.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO messages (id, escalation_id, sender_id, sender_type, content)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		m.ID, m.EscalationID, m.SenderID, m.SenderType, m.Content).Scan(&m.CreatedAt)
}

func (r *messageRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	m, err := r.scanMessage(r.conn(ctx).QueryRow(ctx, `SELECT `+messageCols+` FROM messages WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("message not found")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *messageRepoPG) ListByEscalation(ctx context.Context, escalationID uuid.UUID) ([]*Message, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+messageCols+` FROM messages
		WHERE escalation_id = $1 ORDER BY created_at`, escalationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*Message, 0)
	for rows.Next() {
		m, err := r.scanMessage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *messageRepoPG) ListByEscalations(ctx context.Context, escalationIDs []uuid.UUID) (map[uuid.UUID][]*Message, error) {
	out := make(map[uuid.UUID][]*Message)
	if len(escalationIDs) == 0 {
		return out, nil
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+messageCols+` FROM messages
		WHERE escalation_id = ANY($1) ORDER BY created_at`, escalationIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		m, err := r.scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out[m.EscalationID] = append(out[m.EscalationID], m)
	}
	return out, rows.Err()
}

func (r *messageRepoPG) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE messages SET read_at = $2
		WHERE id = $1 AND read_at IS NULL`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// already read or missing; distinguish for the caller
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *messageRepoPG) CountUnreadFromParents(ctx context.Context) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM messages
		WHERE sender_type = 'parent' AND read_at IS NULL`).Scan(&count)
	return count, err
}

package bodylog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/repslog/server/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrEventNotFound = errors.New("body event not found")

type EventParams struct {
	Type      *EventType
	ProfileID int
	From      *time.Time
	To        *time.Time
}

type ListParams struct {
	EventParams
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, event Event) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodylog.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("event.type", event.Type.String()))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO body_event (profile_id, type, data, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id;`,
		event.ProfileID,
		event.Type,
		event.Data,
		event.Timestamp,
	).Scan(&event.ID)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodylog.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	event := &Event{}
	err = r.db.
		QueryRow(ctx, `
			SELECT id, profile_id, type, data, timestamp
			FROM body_event
			WHERE id = $1;`, id).
		Scan(&event.ID, &event.ProfileID, &event.Type, &event.Data, &event.Timestamp)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []*Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodylog.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if params.Type != nil {
		span.SetAttributes(attribute.String("type", string(*params.Type)))
	}
	span.SetAttributes(attribute.Int("profile.id", params.ProfileID))

	events := make([]*Event, 0)
	rows, err := r.db.Query(ctx, `
		SELECT id, profile_id, type, data, timestamp
		FROM body_event
		WHERE ($1::text IS NULL OR type = $1)
		  AND ($2::int = 0 OR profile_id = $2)
		  AND ($3::timestamp IS NULL OR timestamp >= $3)
		  AND ($4::timestamp IS NULL OR timestamp <= $4)
		ORDER BY timestamp DESC
		LIMIT $5 OFFSET $6;`,
		params.Type,
		params.ProfileID,
		params.From, params.To,
		params.Size, params.Size*(params.Page-1),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for rows.Next() {
		event := &Event{}
		if err := rows.Scan(
			&event.ID, &event.ProfileID, &event.Type, &event.Data, &event.Timestamp,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

func (r *Repo) Count(ctx context.Context, params EventParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodylog.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM body_event
		WHERE ($1::text IS NULL OR type = $1)
		  AND ($2::int = 0 OR profile_id = $2)
		  AND ($3::timestamp IS NULL OR timestamp >= $3)
		  AND ($4::timestamp IS NULL OR timestamp <= $4);`,
		params.Type,
		params.ProfileID,
		params.From, params.To,
	).Scan(&count)
	if err != nil {
		return -1, err
	}
	return count, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodylog.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM body_event WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

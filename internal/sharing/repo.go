package sharing

import (
	"context"
	"errors"
	"time"

	"github.com/repslog/server/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrShareLinkNotFound = errors.New("share link not found")

type ShareLink struct {
	Token     string     `json:"token"`
	SessionID int        `json:"sessionId"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, link ShareLink) (_ *ShareLink, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sharing.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", link.SessionID))

	err = r.db.QueryRow(ctx, `
		INSERT INTO share_link (token, session_id, created_at, expires_at)
		VALUES ($1, $2, NOW(), $3)
		RETURNING created_at;`,
		link.Token, link.SessionID, link.ExpiresAt,
	).Scan(&link.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *Repo) Get(ctx context.Context, token string) (_ *ShareLink, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sharing.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var link ShareLink
	err = r.db.QueryRow(ctx, `
		SELECT token, session_id, created_at, expires_at
		FROM share_link WHERE token = $1;`,
		token,
	).Scan(&link.Token, &link.SessionID, &link.CreatedAt, &link.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShareLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *Repo) Delete(ctx context.Context, token string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sharing.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM share_link WHERE token = $1;`, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrShareLinkNotFound
	}
	return nil
}

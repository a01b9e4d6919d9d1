package profiles

import (
	"context"
	"errors"
	"time"

	"github.com/repslog/server/internal/telemetry/tracing"
	"github.com/repslog/server/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, profile Profile) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("profile.email", profile.Email))

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO profile
				(email, display_name, height_cm, weight_kg, age, gender, goal, unit_system, onboarded, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id;`,
		profile.Email, profile.DisplayName, profile.HeightCm, profile.WeightKg, profile.Age,
		profile.Gender, profile.Goal, profile.UnitSystem, profile.Onboarded,
		profile.CreatedAt, profile.UpdatedAt,
	).Scan(&profile.ID)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int("profile.id", profile.ID))

	return &profile, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("profile.id", id))

	var p Profile
	err = r.db.QueryRow(
		ctx,
		`SELECT id, email, display_name, height_cm, weight_kg, age, gender, goal, unit_system, onboarded, created_at, updated_at
			FROM profile
			WHERE id = $1;`,
		id,
	).Scan(
		&p.ID, &p.Email, &p.DisplayName, &p.HeightCm, &p.WeightKg, &p.Age,
		&p.Gender, &p.Goal, &p.UnitSystem, &p.Onboarded, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *Repo) Update(ctx context.Context, profile *Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("profile.id", profile.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE profile SET
				email = $1, display_name = $2, height_cm = $3, weight_kg = $4, age = $5,
				gender = $6, goal = $7, unit_system = $8, updated_at = $9
			WHERE id = $10;`,
		profile.Email, profile.DisplayName, profile.HeightCm, profile.WeightKg, profile.Age,
		profile.Gender, profile.Goal, profile.UnitSystem, time.Now(),
		profile.ID,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrEmailTaken
		}
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("profile.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM profile WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SetOnboarded marks the onboarding wizard as completed for the profile.
func (r *Repo) SetOnboarded(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.setOnboarded")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("profile.id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE profile SET onboarded = TRUE, updated_at = $1 WHERE id = $2;`,
		time.Now(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

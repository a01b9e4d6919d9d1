package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/repslog/server/internal/telemetry/tracing"

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

func (r *Repo) Add(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	secondaryGroupsJson, err := json.Marshal(exercise.SecondaryGroups)
	if err != nil {
		return nil, fmt.Errorf("marshal secondary groups: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO exercise
				(id, name, muscle_group, secondary_groups, equipment, instructions, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at;`,
		exercise.ID, exercise.Name, exercise.MuscleGroup, secondaryGroupsJson,
		exercise.Equipment, exercise.Instructions, exercise.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	if err := rows.Scan(&exercise.CreatedAt); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.String("exercise.id", exercise.ID))

	return &exercise, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", id))

	var exercise Exercise
	var secondaryGroupsJson []byte
	err = r.db.QueryRow(
		ctx,
		`SELECT id, name, muscle_group, secondary_groups, equipment, instructions, created_at
			FROM exercise WHERE id = $1;`,
		id,
	).Scan(
		&exercise.ID, &exercise.Name, &exercise.MuscleGroup, &secondaryGroupsJson,
		&exercise.Equipment, &exercise.Instructions, &exercise.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(secondaryGroupsJson, &exercise.SecondaryGroups); err != nil {
		return nil, fmt.Errorf("unmarshal secondary groups: %w", err)
	}

	exercise.ImageIDs, err = r.imageIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get exercise images: %w", err)
	}

	return &exercise, nil
}

func (r *Repo) Update(ctx context.Context, exercise *Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exercise.ID))

	secondaryGroupsJson, err := json.Marshal(exercise.SecondaryGroups)
	if err != nil {
		return fmt.Errorf("marshal secondary groups: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE exercise
			SET name = $1, muscle_group = $2, secondary_groups = $3, equipment = $4, instructions = $5
			WHERE id = $6;`,
		exercise.Name, exercise.MuscleGroup, secondaryGroupsJson,
		exercise.Equipment, exercise.Instructions, exercise.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}

	return nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, muscle_group, secondary_groups, equipment, instructions, created_at
			FROM exercise
			WHERE
				($1::text = '' OR muscle_group = $1) AND
				($2::text = '' OR equipment = $2) AND
				($3::text = '' OR name ILIKE '%' || $3 || '%')
			ORDER BY name;`,
		params.MuscleGroup, params.Equipment, params.Search,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		var exercise Exercise
		var secondaryGroupsJson []byte
		if err := rows.Scan(
			&exercise.ID, &exercise.Name, &exercise.MuscleGroup, &secondaryGroupsJson,
			&exercise.Equipment, &exercise.Instructions, &exercise.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal(secondaryGroupsJson, &exercise.SecondaryGroups); err != nil {
			return nil, fmt.Errorf("unmarshal secondary groups: %w", err)
		}
		exercises = append(exercises, exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))

	return exercises, nil
}

func (r *Repo) AddImage(ctx context.Context, exerciseID string, imageID int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.addImage")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO exercise_image (id, exercise_id, created_at) VALUES ($1, $2, NOW());`,
		imageID, exerciseID,
	)
	return err
}

func (r *Repo) DeleteImage(ctx context.Context, imageID int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.deleteImage")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise_image WHERE id = $1;`, imageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func (r *Repo) imageIDs(ctx context.Context, exerciseID string) ([]int64, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id FROM exercise_image WHERE exercise_id = $1 ORDER BY id;`,
		exerciseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

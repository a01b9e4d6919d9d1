package programs

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

func (r *Repo) Add(ctx context.Context, program Program) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program.title", program.Title))

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
		INSERT INTO program (title, description, level, goal, weeks_count, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at;`,
		program.Title, program.Description, program.Level, program.Goal, program.WeeksCount,
	).Scan(&program.ID, &program.CreatedAt)
	if err != nil {
		return nil, err
	}

	for i := range program.Routines {
		routine := &program.Routines[i]
		routine.ProgramID = program.ID
		exercisesJson, err := json.Marshal(routine.Exercises)
		if err != nil {
			return nil, fmt.Errorf("marshal routine exercises: %w", err)
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO routine (program_id, day_index, title, exercises)
			VALUES ($1, $2, $3, $4)
			RETURNING id;`,
			routine.ProgramID, routine.DayIndex, routine.Title, exercisesJson,
		).Scan(&routine.ID)
		if err != nil {
			return nil, err
		}
	}

	return &program, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("program.id", id))

	var program Program
	err = r.db.QueryRow(ctx, `
		SELECT id, title, description, level, goal, weeks_count, created_at
		FROM program WHERE id = $1;`, id,
	).Scan(
		&program.ID, &program.Title, &program.Description,
		&program.Level, &program.Goal, &program.WeeksCount, &program.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	program.Routines, err = r.routines(ctx, program.ID)
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, title, description, level, goal, weeks_count, created_at
		FROM program
		WHERE ($1::text = '' OR level = $1)
		  AND ($2::text = '' OR goal = $2)
		ORDER BY title;`,
		params.Level, params.Goal,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	programs := make([]Program, 0)
	for rows.Next() {
		var program Program
		if err := rows.Scan(
			&program.ID, &program.Title, &program.Description,
			&program.Level, &program.Goal, &program.WeeksCount, &program.CreatedAt,
		); err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}
	return programs, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	// routines go away with their program (FK cascade)
	tag, err := r.db.Exec(ctx, `DELETE FROM program WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}
	return nil
}

func (r *Repo) routines(ctx context.Context, programID int) (_ []Routine, err error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, program_id, day_index, title, exercises
		FROM routine
		WHERE program_id = $1
		ORDER BY day_index;`, programID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	routines := make([]Routine, 0)
	for rows.Next() {
		var routine Routine
		var exercisesJson []byte
		if err := rows.Scan(
			&routine.ID, &routine.ProgramID, &routine.DayIndex, &routine.Title, &exercisesJson,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(exercisesJson, &routine.Exercises); err != nil {
			return nil, fmt.Errorf("unmarshal routine exercises: %w", err)
		}
		routines = append(routines, routine)
	}
	return routines, nil
}

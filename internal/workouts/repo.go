package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

// Add stores the session together with its exercises and sets in one
// transaction, so a session never ends up half-written.
func (r *Repo) Add(ctx context.Context, session Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

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

	metadataJson, err := json.Marshal(session.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO workout_session (profile_id, title, note, started_at, finished_at, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`,
		session.ProfileID, session.Title, session.Note,
		session.StartedAt, session.FinishedAt, metadataJson,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := insertSessionContent(ctx, tx, session.ID, session.Exercises); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("session.id", session.ID))

	// reload to get the generated exercise and set ids
	return getSession(ctx, tx, session.ID)
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", id))

	return getSession(ctx, r.db, id)
}

// Update replaces the whole nested content of the session: the session
// row is updated and exercises with their sets are re-inserted, all in
// one transaction.
func (r *Repo) Update(ctx context.Context, session *Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", session.ID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
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

	metadataJson, err := json.Marshal(session.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE workout_session
		SET title = $1, note = $2, started_at = $3, finished_at = $4, metadata = $5
		WHERE id = $6;
	`,
		session.Title, session.Note, session.StartedAt, session.FinishedAt,
		metadataJson, session.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	// sets go away with their exercises (FK cascade)
	if _, err := tx.Exec(ctx, `DELETE FROM workout_exercise WHERE session_id = $1;`, session.ID); err != nil {
		return err
	}

	return insertSessionContent(ctx, tx, session.ID, session.Exercises)
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_session WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Finish stamps finished_at on an in-progress session.
func (r *Repo) Finish(ctx context.Context, id int, finishedAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", id))

	var alreadyFinished *time.Time
	err = r.db.QueryRow(ctx, `SELECT finished_at FROM workout_session WHERE id = $1;`, id).
		Scan(&alreadyFinished)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}
	if alreadyFinished != nil {
		return ErrSessionFinished
	}

	_, err = r.db.Exec(ctx, `UPDATE workout_session SET finished_at = $1 WHERE id = $2;`, finishedAt, id)
	return err
}

// List returns the requested PAGE of sessions, newest first, together
// with the total count for the given filters.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Session, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))
	span.SetAttributes(attribute.Int("profile.id", params.ProfileID))
	span.SetAttributes(attribute.Bool("only-prod", params.OnlyProd))
	span.SetAttributes(attribute.Bool("exclude-testing-data", params.ExcludeTestingData))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	countAll, err := r.SessionsCount(ctx, params.SessionParams)
	if err != nil {
		return nil, -1, err
	}
	limit, offset := LimitAndOffset(params.Page, params.Size, countAll)

	span.SetAttributes(attribute.Int("count_all", countAll))
	span.SetAttributes(attribute.Int("limit", limit))
	span.SetAttributes(attribute.Int("offset", offset))

	rows, err := r.db.Query(ctx, `
		SELECT id, profile_id, title, note, started_at, finished_at, metadata, created_at
		FROM workout_session
			WHERE ($1::int = 0 OR profile_id = $1)
			AND ($2::timestamp IS NULL OR started_at >= $2)
			AND ($3::timestamp IS NULL OR started_at <= $3)
			AND ($4::boolean IS FALSE OR metadata->>'env' = 'prod' OR metadata->>'env' = 'production')
			AND ($5::boolean IS FALSE OR metadata->>'testing' IS NULL OR metadata->>'testing' != 'true')
		ORDER BY started_at DESC
		LIMIT $6
		OFFSET $7;`,
		params.ProfileID, params.From, params.To,
		params.OnlyProd, params.ExcludeTestingData,
		limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	sessions, err := rows2sessions(rows)
	if err != nil {
		return nil, -1, err
	}

	if err := r.attachContent(ctx, sessions); err != nil {
		return nil, -1, err
	}

	return sessions, countAll, nil
}

func (r *Repo) SessionsCount(ctx context.Context, params SessionParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM workout_session
			WHERE ($1::int = 0 OR profile_id = $1)
			AND ($2::timestamp IS NULL OR started_at >= $2)
			AND ($3::timestamp IS NULL OR started_at <= $3)
			AND ($4::boolean IS FALSE OR metadata->>'env' = 'prod' OR metadata->>'env' = 'production')
			AND ($5::boolean IS FALSE OR metadata->>'testing' IS NULL OR metadata->>'testing' != 'true');`,
		params.ProfileID, params.From, params.To,
		params.OnlyProd, params.ExcludeTestingData,
	).Scan(&count)
	if err != nil {
		return -1, err
	}
	return count, nil
}

// ListSince returns the profile's sessions started at or after the
// given moment, nested content included. Used by the recovery analyzer.
func (r *Repo) ListSince(ctx context.Context, profileID int, since time.Time) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listSince")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("profile.id", profileID))

	rows, err := r.db.Query(ctx, `
		SELECT id, profile_id, title, note, started_at, finished_at, metadata, created_at
		FROM workout_session
		WHERE profile_id = $1 AND started_at >= $2
		ORDER BY started_at DESC;`,
		profileID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions, err := rows2sessions(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachContent(ctx, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListCreatedAfter returns up to limit sessions created strictly after
// the given moment, oldest first. Used by the incremental backup tool.
func (r *Repo) ListCreatedAfter(ctx context.Context, after time.Time, limit int) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listCreatedAfter")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, profile_id, title, note, started_at, finished_at, metadata, created_at
		FROM workout_session
		WHERE created_at > $1
		ORDER BY created_at ASC
		LIMIT $2;`,
		after, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions, err := rows2sessions(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachContent(ctx, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CountForDay counts the profile's sessions created on the given day.
func (r *Repo) CountForDay(ctx context.Context, profileID int, day time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.countForDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var count int
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM workout_session
		WHERE profile_id = $1 AND created_at >= $2 AND created_at < $3;`,
		profileID, dayStart, dayEnd,
	).Scan(&count)
	if err != nil {
		return -1, err
	}
	return count, nil
}

// LimitAndOffset clamps the requested page to the available rows, so a
// page past the end returns the last full page instead of nothing.
func LimitAndOffset(page, size, countAll int) (limit, offset int) {
	limit = size
	offset = (page - 1) * size

	if countAll <= limit {
		return countAll, 0
	}
	if countAll-offset < limit {
		offset = countAll - limit
	}
	return limit, offset
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getSession(ctx context.Context, q querier, id int) (*Session, error) {
	var session Session
	var metadataJson []byte
	err := q.QueryRow(ctx, `
		SELECT id, profile_id, title, note, started_at, finished_at, metadata, created_at
		FROM workout_session WHERE id = $1;`,
		id,
	).Scan(
		&session.ID, &session.ProfileID, &session.Title, &session.Note,
		&session.StartedAt, &session.FinishedAt, &metadataJson, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if len(metadataJson) > 0 {
		if err := json.Unmarshal(metadataJson, &session.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}

	exercises, err := sessionContent(ctx, q, []int{session.ID})
	if err != nil {
		return nil, err
	}
	session.Exercises = exercises[session.ID]
	if session.Exercises == nil {
		session.Exercises = []WorkoutExercise{}
	}

	return &session, nil
}

func insertSessionContent(ctx context.Context, tx pgx.Tx, sessionID int, exercises []WorkoutExercise) error {
	for exPos, exercise := range exercises {
		var workoutExerciseID int
		err := tx.QueryRow(ctx, `
			INSERT INTO workout_exercise (session_id, exercise_id, position, note)
			VALUES ($1, $2, $3, $4)
			RETURNING id;`,
			sessionID, exercise.ExerciseID, exPos, exercise.Note,
		).Scan(&workoutExerciseID)
		if err != nil {
			return fmt.Errorf("insert workout exercise %s: %w", exercise.ExerciseID, err)
		}

		for setPos, set := range exercise.Sets {
			if _, err := tx.Exec(ctx, `
				INSERT INTO workout_set (workout_exercise_id, position, weight_kg, reps, completed)
				VALUES ($1, $2, $3, $4, $5);`,
				workoutExerciseID, setPos, set.WeightKg, set.Reps, set.Completed,
			); err != nil {
				return fmt.Errorf("insert set %d of %s: %w", setPos, exercise.ExerciseID, err)
			}
		}
	}
	return nil
}

func sessionContent(ctx context.Context, q querier, sessionIDs []int) (map[int][]WorkoutExercise, error) {
	if len(sessionIDs) == 0 {
		return map[int][]WorkoutExercise{}, nil
	}

	rows, err := q.Query(ctx, `
		SELECT id, session_id, exercise_id, position, note
		FROM workout_exercise
		WHERE session_id = ANY($1)
		ORDER BY session_id, position;`,
		sessionIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercisesPerSession := make(map[int][]WorkoutExercise)
	exerciseIndex := make(map[int]*WorkoutExercise)
	var exerciseIDs []int
	for rows.Next() {
		var sessionID int
		var exercise WorkoutExercise
		if err := rows.Scan(&exercise.ID, &sessionID, &exercise.ExerciseID, &exercise.Position, &exercise.Note); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		exercise.Sets = []Set{}
		exercisesPerSession[sessionID] = append(exercisesPerSession[sessionID], exercise)
		exerciseIDs = append(exerciseIDs, exercise.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	// index points into the slices built above
	for sessionID := range exercisesPerSession {
		exercises := exercisesPerSession[sessionID]
		for i := range exercises {
			exerciseIndex[exercises[i].ID] = &exercises[i]
		}
	}

	if len(exerciseIDs) == 0 {
		return exercisesPerSession, nil
	}

	setRows, err := q.Query(ctx, `
		SELECT id, workout_exercise_id, position, weight_kg, reps, completed
		FROM workout_set
		WHERE workout_exercise_id = ANY($1)
		ORDER BY workout_exercise_id, position;`,
		exerciseIDs,
	)
	if err != nil {
		return nil, err
	}
	defer setRows.Close()

	for setRows.Next() {
		var workoutExerciseID int
		var set Set
		if err := setRows.Scan(&set.ID, &workoutExerciseID, &set.Position, &set.WeightKg, &set.Reps, &set.Completed); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if exercise, ok := exerciseIndex[workoutExerciseID]; ok {
			exercise.Sets = append(exercise.Sets, set)
		}
	}
	if err := setRows.Err(); err != nil {
		return nil, err
	}

	return exercisesPerSession, nil
}

func (r *Repo) attachContent(ctx context.Context, sessions []Session) error {
	sessionIDs := make([]int, 0, len(sessions))
	for i := range sessions {
		sessionIDs = append(sessionIDs, sessions[i].ID)
	}
	content, err := sessionContent(ctx, r.db, sessionIDs)
	if err != nil {
		return err
	}
	for i := range sessions {
		sessions[i].Exercises = content[sessions[i].ID]
		if sessions[i].Exercises == nil {
			sessions[i].Exercises = []WorkoutExercise{}
		}
	}
	return nil
}

func rows2sessions(rows pgx.Rows) ([]Session, error) {
	var sessions []Session
	for rows.Next() {
		var session Session
		var metadataJson []byte
		if err := rows.Scan(
			&session.ID, &session.ProfileID, &session.Title, &session.Note,
			&session.StartedAt, &session.FinishedAt, &metadataJson, &session.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if len(metadataJson) > 0 {
			if err := json.Unmarshal(metadataJson, &session.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

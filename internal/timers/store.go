package timers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/repslog/server/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
)

var ErrTimerNotFound = errors.New("rest timer not found")

const restTimerKeyPrefix = "repslog-rest-timer||"

// Store keeps one rest timer deadline per device in redis. The key
// TTL equals the timer duration, so an expired timer simply vanishes
// and reads as done.
type Store struct {
	rdb *redis.Client

	// NowFunc is here to be replaceable in tests
	NowFunc func() time.Time
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{
		rdb:     rdb,
		NowFunc: time.Now,
	}
}

type Timer struct {
	DeviceID   string    `json:"-"`
	ExerciseID string    `json:"exerciseId,omitempty"`
	Deadline   time.Time `json:"deadline"`
}

func restTimerKey(deviceID string) string {
	return fmt.Sprintf("%s%s", restTimerKeyPrefix, deviceID)
}

// Set starts (or restarts) the device's rest timer. A running timer
// for the same device gets replaced.
func (s *Store) Set(ctx context.Context, deviceID, exerciseID string, duration time.Duration) (_ *Timer, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "timersStore.set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	deadline := s.NowFunc().Add(duration)
	value := fmt.Sprintf("%d||%s", deadline.Unix(), exerciseID)
	if err := s.rdb.Set(ctx, restTimerKey(deviceID), value, duration).Err(); err != nil {
		return nil, fmt.Errorf("set rest timer: %w", err)
	}

	return &Timer{
		DeviceID:   deviceID,
		ExerciseID: exerciseID,
		Deadline:   deadline,
	}, nil
}

// Get returns the device's running timer, or ErrTimerNotFound when
// there is none (never started, expired, or cancelled).
func (s *Store) Get(ctx context.Context, deviceID string) (_ *Timer, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "timersStore.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	value, err := s.rdb.Get(ctx, restTimerKey(deviceID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTimerNotFound
		}
		return nil, fmt.Errorf("get rest timer: %w", err)
	}

	deadlineStr, exerciseID, found := strings.Cut(value, "||")
	if !found {
		return nil, fmt.Errorf("malformed rest timer value [%s]", value)
	}
	deadlineUnix, err := strconv.ParseInt(deadlineStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed rest timer value [%s]: %w", value, err)
	}

	return &Timer{
		DeviceID:   deviceID,
		ExerciseID: exerciseID,
		Deadline:   time.Unix(deadlineUnix, 0),
	}, nil
}

// Cancel removes the device's timer. Cancelling a missing timer is
// not an error.
func (s *Store) Cancel(ctx context.Context, deviceID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "timersStore.cancel")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.rdb.Del(ctx, restTimerKey(deviceID)).Err(); err != nil {
		return fmt.Errorf("delete rest timer: %w", err)
	}
	return nil
}

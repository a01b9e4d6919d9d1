package timers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/repslog/server/internal/telemetry/tracing"
	"github.com/repslog/server/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const maxRestTimerSeconds = 60 * 60 // an hour of rest is not resting anymore

type StartTimerRequest struct {
	Seconds    int    `json:"seconds"`
	ExerciseID string `json:"exerciseId,omitempty"`
}

type TimerStatusResponse struct {
	Done             bool       `json:"done"`
	RemainingSeconds int        `json:"remainingSeconds"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	ExerciseID       string     `json:"exerciseId,omitempty"`
}

type Handler struct {
	store *Store

	// NowFunc is here to be replaceable in tests
	NowFunc func() time.Time
}

func NewHandler(store *Store) *Handler {
	return &Handler{
		store:   store,
		NowFunc: time.Now,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/timers/rest", handler.HandleStart).Methods("POST", "OPTIONS").Name("start-rest-timer")
	r.HandleFunc("/timers/rest", handler.HandleStatus).Methods("GET", "OPTIONS").Name("rest-timer-status")
	r.HandleFunc("/timers/rest", handler.HandleCancel).Methods("DELETE", "OPTIONS").Name("cancel-rest-timer")
}

func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.timers.start")
	defer span.End()

	deviceID := r.Header.Get("X-Device-ID")
	if deviceID == "" {
		http.Error(w, "error, device id missing", http.StatusBadRequest)
		return
	}

	var startReq StartTimerRequest
	if err := json.NewDecoder(r.Body).Decode(&startReq); err != nil {
		log.Tracef("start rest timer, unmarshal json params: %s", err)
		http.Error(w, "start rest timer failed", http.StatusBadRequest)
		return
	}
	if startReq.Seconds < 1 || startReq.Seconds > maxRestTimerSeconds {
		http.Error(w, "invalid timer duration", http.StatusBadRequest)
		return
	}

	timer, err := handler.store.Set(ctx, deviceID, startReq.ExerciseID, time.Duration(startReq.Seconds)*time.Second)
	if err != nil {
		log.Errorf("failed to start rest timer for device %s: %s", deviceID, err)
		http.Error(w, "error, failed to start rest timer", http.StatusInternalServerError)
		return
	}

	handler.writeStatus(w, timer)
}

// HandleStatus recomputes the remaining time from the wall clock, so
// a client coming back to foreground can reconcile its local timer.
func (handler *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.timers.status")
	defer span.End()

	deviceID := r.Header.Get("X-Device-ID")
	if deviceID == "" {
		http.Error(w, "error, device id missing", http.StatusBadRequest)
		return
	}

	timer, err := handler.store.Get(ctx, deviceID)
	if err != nil {
		if errors.Is(err, ErrTimerNotFound) {
			handler.writeStatus(w, nil)
			return
		}
		log.Errorf("failed to get rest timer for device %s: %s", deviceID, err)
		http.Error(w, "error, failed to get rest timer", http.StatusInternalServerError)
		return
	}

	handler.writeStatus(w, timer)
}

func (handler *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.timers.cancel")
	defer span.End()

	deviceID := r.Header.Get("X-Device-ID")
	if deviceID == "" {
		http.Error(w, "error, device id missing", http.StatusBadRequest)
		return
	}

	if err := handler.store.Cancel(ctx, deviceID); err != nil {
		log.Errorf("failed to cancel rest timer for device %s: %s", deviceID, err)
		http.Error(w, "error, failed to cancel rest timer", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "canceled")
}

func (handler *Handler) writeStatus(w http.ResponseWriter, timer *Timer) {
	status := TimerStatusResponse{
		Done: true,
	}
	if timer != nil {
		remaining := int(timer.Deadline.Sub(handler.NowFunc()).Seconds())
		if remaining < 0 {
			remaining = 0
		}
		status.RemainingSeconds = remaining
		status.Done = remaining == 0
		status.Deadline = &timer.Deadline
		status.ExerciseID = timer.ExerciseID
	}

	statusJson, err := json.Marshal(status)
	if err != nil {
		log.Errorf("failed to marshal timer status: %s", err)
		http.Error(w, "failed to marshal timer status", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, statusJson, http.StatusOK)
}

package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/repslog/server/internal/telemetry/metrics"
	"github.com/repslog/server/internal/telemetry/tracing"
	"github.com/repslog/server/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	Add(ctx context.Context, session Session) (*Session, error)
	Get(ctx context.Context, id int) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id int) error
	Finish(ctx context.Context, id int, finishedAt time.Time) error
	List(ctx context.Context, params ListParams) ([]Session, int, error)
	CountForDay(ctx context.Context, profileID int, day time.Time) (int, error)
}

type AddWorkoutResponse struct {
	Session
	CountToday int `json:"countToday"`
}

type ListResponse struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
}

type DeleteWorkoutResponse struct {
	DeletedID int `json:"deletedId"`
}

type UpdateWorkoutResponse struct {
	UpdatedID int `json:"updatedId"`
}

type FinishWorkoutResponse struct {
	FinishedID int       `json:"finishedId"`
	FinishedAt time.Time `json:"finishedAt"`
}

type Handler struct {
	repo    workoutsRepo
	metrics *metrics.Manager
	now     func() time.Time
}

func NewHandler(repo workoutsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
		now:     time.Now,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/workouts", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/workouts/list/page/{page}/size/{size}", handler.HandleList).Methods("GET", "OPTIONS").Name("workouts")
	r.HandleFunc("/workouts/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-workout")
	r.HandleFunc("/workouts/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
	r.HandleFunc("/workouts/{id}/finish", handler.HandleFinish).Methods("POST", "OPTIONS").Name("finish-workout")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var session Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		log.Tracef("new workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	if err := session.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	addedSession, err := handler.repo.Add(ctx, session)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			http.Error(w, "error, workout references unknown exercise", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to add new workout for profile %d: %s", session.ProfileID, err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkouts.Inc()

	countToday, err := handler.repo.CountForDay(ctx, addedSession.ProfileID, handler.now())
	if err != nil {
		// not fatal for the add itself
		log.Errorf("failed to count workouts today for profile %d: %s", addedSession.ProfileID, err)
		countToday = 0
	}

	addWorkoutResponse := AddWorkoutResponse{
		Session:    *addedSession,
		CountToday: countToday,
	}

	addedJson, err := json.Marshal(addWorkoutResponse)
	if err != nil {
		log.Errorf("failed to marshal new workout: %s", err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout added: %d", addedSession.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	id, err := workoutIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get workout %d: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("failed to marshal workout: %s", err)
		http.Error(w, "failed to marshal workout", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	id, err := workoutIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var session Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		log.Errorf("update workout, unmarshal json params: %s", err)
		http.Error(w, "update workout failed", http.StatusBadRequest)
		return
	}
	session.ID = id

	if err := session.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(ctx, &session); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		if pkg.IsForeignKeyViolationError(err) {
			http.Error(w, "error, workout references unknown exercise", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to update workout %d: %s", id, err)
		http.Error(w, "error, failed to update workout", http.StatusInternalServerError)
		return
	}

	updateRespJson, err := json.Marshal(UpdateWorkoutResponse{
		UpdatedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(updateRespJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	id, err := workoutIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout %d: %s", id, err)
		http.Error(w, "workout not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteWorkoutResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func (handler *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.finish")
	defer span.End()

	id, err := workoutIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	finishedAt := handler.now()
	if err := handler.repo.Finish(ctx, id, finishedAt); err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			http.Error(w, "workout not found", http.StatusNotFound)
		case errors.Is(err, ErrSessionFinished):
			http.Error(w, "workout already finished", http.StatusConflict)
		default:
			log.Errorf("failed to finish workout %d: %s", id, err)
			http.Error(w, "error, failed to finish workout", http.StatusInternalServerError)
		}
		return
	}

	finishRespJson, err := json.Marshal(FinishWorkoutResponse{
		FinishedID: id,
		FinishedAt: finishedAt,
	})
	if err != nil {
		log.Errorf("failed to marshal finish response: %s", err)
		http.Error(w, "failed to marshal finish response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(finishRespJson))
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		log.Tracef("handle list workouts, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		log.Tracef("handle list workouts, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}
	if page < 1 {
		http.Error(w, "invalid page size (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if size < 1 {
		http.Error(w, "invalid size (has to be non-zero value)", http.StatusBadRequest)
		return
	}

	params := ListParams{
		Page: page,
		Size: size,
	}
	if profileIDStr := r.URL.Query().Get("profile_id"); profileIDStr != "" {
		profileID, err := strconv.Atoi(profileIDStr)
		if err != nil {
			http.Error(w, "parse form error, parameter <profile_id>", http.StatusBadRequest)
			return
		}
		params.ProfileID = profileID
	}
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		fromUnix, err := strconv.ParseInt(fromStr, 10, 64)
		if err != nil {
			http.Error(w, "parse form error, parameter <from>", http.StatusBadRequest)
			return
		}
		from := time.Unix(fromUnix, 0)
		params.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		toUnix, err := strconv.ParseInt(toStr, 10, 64)
		if err != nil {
			http.Error(w, "parse form error, parameter <to>", http.StatusBadRequest)
			return
		}
		to := time.Unix(toUnix, 0)
		params.To = &to
	}
	params.OnlyProd = r.URL.Query().Get("only_prod") == "true"
	params.ExcludeTestingData = r.URL.Query().Get("exclude_testing_data") == "true"

	sessions, total, err := handler.repo.List(ctx, params)
	if err != nil {
		log.Errorf("list workouts: %s", err)
		http.Error(w, "failed to list workouts", http.StatusInternalServerError)
		return
	}
	if sessions == nil {
		sessions = []Session{}
	}

	listRespJson, err := json.Marshal(ListResponse{
		Sessions: sessions,
		Total:    total,
	})
	if err != nil {
		log.Errorf("failed to marshal workouts list: %s", err)
		http.Error(w, "failed to marshal workouts list", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listRespJson, http.StatusOK)
}

func workoutIDFromRequest(r *http.Request) (int, error) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		return 0, errors.New("error, id empty")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.New("error, id NaN")
	}
	return id, nil
}

package bodylog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/repslog/server/internal/telemetry/tracing"
	"github.com/repslog/server/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=bodylog_test

type service interface {
	AddWeightReport(ctx context.Context, wr WeightReport) (int, error)
	AddSorenessReport(ctx context.Context, sr SorenessReport) (int, error)
	List(ctx context.Context, params ListParams) ([]*Event, int, error)
	Delete(ctx context.Context, id int) error
}

type ListResponse struct {
	Events []*Event `json:"events"`
	Total  int      `json:"total"`
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/bodylog/weight", handler.HandleAddWeightReport).Methods("POST", "OPTIONS").Name("add-weight-report")
	r.HandleFunc("/bodylog/soreness", handler.HandleAddSorenessReport).Methods("POST", "OPTIONS").Name("add-soreness-report")
	r.HandleFunc("/bodylog/list/page/{page}/size/{size}", handler.HandleList).Methods("GET", "OPTIONS").Name("list-body-events")
	r.HandleFunc("/bodylog/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-body-event")
}

func (handler *Handler) HandleAddWeightReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodylog.weightreport")
	defer span.End()

	var weightReport WeightReport
	if err := json.NewDecoder(r.Body).Decode(&weightReport); err != nil {
		log.Errorf("new weight report, unmarshal json params: %s", err)
		http.Error(w, "add weight report failed", http.StatusBadRequest)
		return
	}
	if weightReport.Timestamp.IsZero() {
		weightReport.Timestamp = time.Now()
	}

	if err := weightReport.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := handler.service.AddWeightReport(ctx, weightReport)
	if err != nil {
		log.Errorf("new weight report: %s", err)
		http.Error(w, "add weight report failed", http.StatusInternalServerError)
		return
	}
	weightReport.ID = id

	weightReportJson, err := json.Marshal(weightReport)
	if err != nil {
		log.Errorf("failed to marshal new weight report: %s", err)
		http.Error(w, "error, failed to add new weight report", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, weightReportJson, http.StatusCreated)
}

func (handler *Handler) HandleAddSorenessReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodylog.sorenessreport")
	defer span.End()

	var sorenessReport SorenessReport
	if err := json.NewDecoder(r.Body).Decode(&sorenessReport); err != nil {
		log.Errorf("new soreness report, unmarshal json params: %s", err)
		http.Error(w, "add soreness report failed", http.StatusBadRequest)
		return
	}
	if sorenessReport.Timestamp.IsZero() {
		sorenessReport.Timestamp = time.Now()
	}

	if err := sorenessReport.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := handler.service.AddSorenessReport(ctx, sorenessReport)
	if err != nil {
		log.Errorf("new soreness report: %s", err)
		http.Error(w, "add soreness report failed", http.StatusInternalServerError)
		return
	}
	sorenessReport.ID = id

	sorenessReportJson, err := json.Marshal(sorenessReport)
	if err != nil {
		log.Errorf("failed to marshal new soreness report: %s", err)
		http.Error(w, "error, failed to add new soreness report", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sorenessReportJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodylog.list")
	defer span.End()

	vars := mux.Vars(r)

	pageStr := vars["page"]
	if pageStr == "" {
		http.Error(w, "error, page empty", http.StatusBadRequest)
		return
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		log.Errorf("handle list body events, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	sizeStr := vars["size"]
	if sizeStr == "" {
		http.Error(w, "error, size empty", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil {
		log.Errorf("handle list body events, from <size> param: %s", err)
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

	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		eventType := EventType(typeStr)
		if !eventType.IsValid() {
			http.Error(w, "invalid event type", http.StatusBadRequest)
			return
		}
		params.Type = &eventType
	}
	if profileIDStr := r.URL.Query().Get("profile_id"); profileIDStr != "" {
		profileID, err := strconv.Atoi(profileIDStr)
		if err != nil {
			http.Error(w, "error, profile_id NaN", http.StatusBadRequest)
			return
		}
		params.ProfileID = profileID
	}
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		fromUnix, err := strconv.ParseInt(fromStr, 10, 64)
		if err != nil {
			http.Error(w, "error, from NaN", http.StatusBadRequest)
			return
		}
		from := time.Unix(fromUnix, 0)
		params.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		toUnix, err := strconv.ParseInt(toStr, 10, 64)
		if err != nil {
			http.Error(w, "error, to NaN", http.StatusBadRequest)
			return
		}
		to := time.Unix(toUnix, 0)
		params.To = &to
	}

	events, total, err := handler.service.List(ctx, params)
	if err != nil {
		log.Errorf("list body events: %s", err)
		http.Error(w, "failed to list body events", http.StatusInternalServerError)
		return
	}

	listRespJson, err := json.Marshal(ListResponse{
		Events: events,
		Total:  total,
	})
	if err != nil {
		log.Errorf("failed to marshal body events response: %s", err)
		http.Error(w, "failed to marshal body events response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listRespJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodylog.delete")
	defer span.End()

	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			http.Error(w, "body event not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete body event %d: %s", id, err)
		http.Error(w, "error, failed to delete body event", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "deleted")
}

package recovery

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/repslog/server/internal/catalog"
	"github.com/repslog/server/internal/telemetry/tracing"
	"github.com/repslog/server/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	analyzer *Analyzer
	now      func() time.Time
}

func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{
		analyzer: analyzer,
		now:      time.Now,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/recovery", handler.HandleRecovery).Methods("GET", "OPTIONS").Name("recovery")
	r.HandleFunc("/recovery/{group}", handler.HandleGroupRecovery).Methods("GET", "OPTIONS").Name("group-recovery")
}

func (handler *Handler) HandleRecovery(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recovery.all")
	defer span.End()

	profileID, at, ok := handler.recoveryParams(w, r)
	if !ok {
		return
	}

	report, err := handler.analyzer.Recovery(ctx, profileID, at)
	if err != nil {
		log.Errorf("failed to get recovery for profile %d: %s", profileID, err)
		http.Error(w, "failed to get recovery", http.StatusInternalServerError)
		return
	}

	reportJson, err := json.Marshal(report)
	if err != nil {
		log.Errorf("failed to marshal recovery report: %s", err)
		http.Error(w, "failed to marshal recovery report", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, reportJson, http.StatusOK)
}

func (handler *Handler) HandleGroupRecovery(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recovery.group")
	defer span.End()

	group := mux.Vars(r)["group"]
	if !catalog.IsValidMuscleGroup(group) {
		http.Error(w, "invalid muscle group", http.StatusBadRequest)
		return
	}

	profileID, at, ok := handler.recoveryParams(w, r)
	if !ok {
		return
	}

	groupRecovery, err := handler.analyzer.GroupRecovery(ctx, profileID, group, at)
	if err != nil {
		log.Errorf("failed to get %s recovery for profile %d: %s", group, profileID, err)
		http.Error(w, "failed to get recovery", http.StatusInternalServerError)
		return
	}

	groupRecoveryJson, err := json.Marshal(groupRecovery)
	if err != nil {
		log.Errorf("failed to marshal group recovery: %s", err)
		http.Error(w, "failed to marshal group recovery", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, groupRecoveryJson, http.StatusOK)
}

// recoveryParams reads profile_id (required) and at (optional unix
// seconds, for deterministic evaluation) from the query.
func (handler *Handler) recoveryParams(w http.ResponseWriter, r *http.Request) (profileID int, at time.Time, ok bool) {
	profileIDStr := r.URL.Query().Get("profile_id")
	if profileIDStr == "" {
		http.Error(w, "error, profile_id empty", http.StatusBadRequest)
		return 0, time.Time{}, false
	}
	profileID, err := strconv.Atoi(profileIDStr)
	if err != nil {
		http.Error(w, "error, profile_id NaN", http.StatusBadRequest)
		return 0, time.Time{}, false
	}

	at = handler.now()
	if atStr := r.URL.Query().Get("at"); atStr != "" {
		atUnix, err := strconv.ParseInt(atStr, 10, 64)
		if err != nil {
			http.Error(w, "parse form error, parameter <at>", http.StatusBadRequest)
			return 0, time.Time{}, false
		}
		at = time.Unix(atUnix, 0)
	}
	return profileID, at, true
}

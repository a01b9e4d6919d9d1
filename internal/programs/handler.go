package programs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/repslog/server/internal/telemetry/tracing"
	"github.com/repslog/server/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=programs_mocks_test.go -package=programs_test

type programsRepo interface {
	Add(ctx context.Context, program Program) (*Program, error)
	Get(ctx context.Context, id int) (*Program, error)
	List(ctx context.Context, params ListParams) ([]Program, error)
	Delete(ctx context.Context, id int) error
}

type Handler struct {
	repo programsRepo
}

func NewHandler(repo programsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/programs", handler.HandleList).Methods("GET", "OPTIONS").Name("list-programs")
	r.HandleFunc("/programs", handler.HandleAdd).Methods("POST", "OPTIONS").Name("add-program")
	r.HandleFunc("/programs/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-program")
	r.HandleFunc("/programs/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-program")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.list")
	defer span.End()

	params := ListParams{
		Level: r.URL.Query().Get("level"),
		Goal:  r.URL.Query().Get("goal"),
	}
	if params.Level != "" && !IsValidLevel(params.Level) {
		http.Error(w, "invalid level", http.StatusBadRequest)
		return
	}

	programs, err := handler.repo.List(ctx, params)
	if err != nil {
		log.Errorf("list programs: %s", err)
		http.Error(w, "failed to list programs", http.StatusInternalServerError)
		return
	}

	programsJson, err := json.Marshal(programs)
	if err != nil {
		log.Errorf("failed to marshal programs: %s", err)
		http.Error(w, "failed to marshal programs", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, programsJson, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.add")
	defer span.End()

	var program Program
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		log.Errorf("add program, unmarshal json params: %s", err)
		http.Error(w, "add program failed", http.StatusBadRequest)
		return
	}

	if err := program.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	addedProgram, err := handler.repo.Add(ctx, program)
	if err != nil {
		log.Errorf("add program: %s", err)
		http.Error(w, "error, failed to add program", http.StatusInternalServerError)
		return
	}

	programJson, err := json.Marshal(addedProgram)
	if err != nil {
		log.Errorf("failed to marshal added program: %s", err)
		http.Error(w, "error, failed to add program", http.StatusInternalServerError)
		return
	}

	log.Debugf("program added: %d [%s]", addedProgram.ID, addedProgram.Title)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, programJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.get")
	defer span.End()

	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	program, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("get program %d: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	programJson, err := json.Marshal(program)
	if err != nil {
		log.Errorf("failed to marshal program: %s", err)
		http.Error(w, "failed to marshal program", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, programJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.delete")
	defer span.End()

	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete program %d: %s", id, err)
		http.Error(w, "error, failed to delete program", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "deleted")
}

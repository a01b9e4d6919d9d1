package profiles

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

//go:generate mockgen -source=$GOFILE -destination=profiles_mocks_test.go -package=profiles_test

type profilesRepo interface {
	Add(ctx context.Context, profile Profile) (*Profile, error)
	Get(ctx context.Context, id int) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
	Delete(ctx context.Context, id int) error
	SetOnboarded(ctx context.Context, id int) error
}

type DeleteProfileResponse struct {
	DeletedID int `json:"deletedId"`
}

type UpdateProfileResponse struct {
	UpdatedID int `json:"updatedId"`
}

type Handler struct {
	repo profilesRepo
}

func NewHandler(repo profilesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/profiles", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-profile")
	r.HandleFunc("/profiles/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profiles/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-profile")
	r.HandleFunc("/profiles/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-profile")
	r.HandleFunc("/profiles/{id}/onboarded", handler.HandleSetOnboarded).Methods("POST", "OPTIONS").Name("profile-onboarded")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var profile Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		log.Tracef("new profile, unmarshal json params: %s", err)
		http.Error(w, "add profile failed", http.StatusBadRequest)
		return
	}

	if err := profile.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	addedProfile, err := handler.repo.Add(ctx, profile)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			http.Error(w, "email already taken", http.StatusConflict)
			return
		}
		log.Errorf("failed to add new profile [%s]: %s", profile.Email, err)
		http.Error(w, "error, failed to add new profile", http.StatusInternalServerError)
		return
	}

	addedProfileJson, err := json.Marshal(addedProfile)
	if err != nil {
		log.Errorf("failed to marshal new profile: %s", err)
		http.Error(w, "error, failed to add new profile", http.StatusInternalServerError)
		return
	}

	log.Debugf("new profile added: %d", addedProfile.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedProfileJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.get")
	defer span.End()

	id, err := profileIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get profile %d: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	profileJson, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("failed to marshal profile: %s", err)
		http.Error(w, "failed to marshal profile", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, profileJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	id, err := profileIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var profile Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		log.Errorf("update profile, unmarshal json params: %s", err)
		http.Error(w, "update profile failed", http.StatusBadRequest)
		return
	}
	profile.ID = id

	if err := profile.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(ctx, &profile); err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			http.Error(w, "profile not found", http.StatusNotFound)
		case errors.Is(err, ErrEmailTaken):
			http.Error(w, "email already taken", http.StatusConflict)
		default:
			log.Errorf("failed to update profile %d: %s", id, err)
			http.Error(w, "error, failed to update profile", http.StatusInternalServerError)
		}
		return
	}

	updateRespJson, err := json.Marshal(UpdateProfileResponse{
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
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.delete")
	defer span.End()

	id, err := profileIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete profile %d: %s", id, err)
		http.Error(w, "profile not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteProfileResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func (handler *Handler) HandleSetOnboarded(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.onboarded")
	defer span.End()

	id, err := profileIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.SetOnboarded(ctx, id); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to mark profile %d onboarded: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "onboarded")
}

func profileIDFromRequest(r *http.Request) (int, error) {
	vars := mux.Vars(r)
	idStr := vars["id"]
	if idStr == "" {
		return 0, errors.New("error, id empty")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.New("error, id NaN")
	}
	return id, nil
}

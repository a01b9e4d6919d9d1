package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/repslog/server/internal/images"
	"github.com/repslog/server/internal/telemetry/tracing"
	"github.com/repslog/server/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=catalog_test

type imagesStore interface {
	Save(ctx context.Context, params images.SaveParams) (int64, error)
	Get(ctx context.Context, id int64) (*images.Image, error)
	Delete(ctx context.Context, id int64) error
}

type DeleteExerciseResponse struct {
	DeletedID string `json:"deletedId"`
}

type UploadImageResponse struct {
	ImageID int64 `json:"imageId"`
}

type Handler struct {
	service *Service
	images  imagesStore
}

func NewHandler(service *Service, images imagesStore) *Handler {
	return &Handler{
		service: service,
		images:  images,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/exercises", handler.HandleList).Methods("GET", "OPTIONS").Name("exercises")
	r.HandleFunc("/exercises", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-exercise")
	// image routes have to come before /exercises/{id}, mux matches in order
	r.HandleFunc("/exercises/image/{id}", handler.HandleGetImage).Methods("GET", "OPTIONS").Name("exercise-image")
	r.HandleFunc("/exercises/image/{id}", handler.HandleDeleteImage).Methods("DELETE", "OPTIONS").Name("delete-exercise-image")
	r.HandleFunc("/exercises/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("exercise")
	r.HandleFunc("/exercises/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-exercise")
	r.HandleFunc("/exercises/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-exercise")
	r.HandleFunc("/exercises/{id}/image", handler.HandleUploadImage).Methods("POST", "OPTIONS").Name("upload-exercise-image")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	params := ListParams{
		MuscleGroup: r.URL.Query().Get("group"),
		Equipment:   r.URL.Query().Get("equipment"),
		Search:      r.URL.Query().Get("search"),
	}
	if params.MuscleGroup != "" && !IsValidMuscleGroup(params.MuscleGroup) {
		http.Error(w, "invalid muscle group", http.StatusBadRequest)
		return
	}
	if params.Equipment != "" && !IsValidEquipment(params.Equipment) {
		http.Error(w, "invalid equipment", http.StatusBadRequest)
		return
	}

	exercises, err := handler.service.List(ctx, params)
	if err != nil {
		log.Errorf("list exercises: %s", err)
		http.Error(w, "failed to list exercises", http.StatusInternalServerError)
		return
	}
	if exercises == nil {
		exercises = []Exercise{}
	}

	exercisesJson, err := json.Marshal(exercises)
	if err != nil {
		log.Errorf("failed to marshal exercises: %s", err)
		http.Error(w, "failed to marshal exercises", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, exercisesJson, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var exercise Exercise
	if err := json.NewDecoder(r.Body).Decode(&exercise); err != nil {
		log.Tracef("new exercise, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed", http.StatusBadRequest)
		return
	}

	if err := exercise.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	addedExercise, err := handler.service.Add(ctx, exercise)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			http.Error(w, "exercise already exists", http.StatusConflict)
			return
		}
		log.Errorf("failed to add new exercise [%s]: %s", exercise.ID, err)
		http.Error(w, "error, failed to add new exercise", http.StatusInternalServerError)
		return
	}

	addedExerciseJson, err := json.Marshal(addedExercise)
	if err != nil {
		log.Errorf("failed to marshal new exercise: %s", err)
		http.Error(w, "error, failed to add new exercise", http.StatusInternalServerError)
		return
	}

	log.Debugf("new exercise added to catalog: %s", addedExercise.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedExerciseJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	exercise, err := handler.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get exercise %s: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	exerciseJson, err := json.Marshal(exercise)
	if err != nil {
		log.Errorf("failed to marshal exercise: %s", err)
		http.Error(w, "failed to marshal exercise", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, exerciseJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	var exercise Exercise
	if err := json.NewDecoder(r.Body).Decode(&exercise); err != nil {
		log.Errorf("update exercise, unmarshal json params: %s", err)
		http.Error(w, "update exercise failed", http.StatusBadRequest)
		return
	}
	exercise.ID = id

	if err := exercise.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.service.Update(ctx, &exercise); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update exercise %s: %s", id, err)
		http.Error(w, "error, failed to update exercise", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("updated:%s", id))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		if pkg.IsForeignKeyViolationError(err) {
			http.Error(w, "exercise is referenced by workouts", http.StatusConflict)
			return
		}
		log.Errorf("failed to delete exercise %s: %s", id, err)
		http.Error(w, "exercise not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteExerciseResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func (handler *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.uploadImage")
	defer span.End()

	exerciseID := mux.Vars(r)["id"]
	if exerciseID == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	// exercise must exist before an image gets attached to it
	if _, err := handler.service.Get(ctx, exerciseID); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("upload image, get exercise %s: %s", exerciseID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		log.Errorf("upload exercise image, get form file: %s", err)
		http.Error(w, "error, image file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageID, err := handler.images.Save(ctx, images.SaveParams{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		FileType: fileHeader.Header.Get("Content-Type"),
		File:     file,
	})
	if err != nil {
		log.Errorf("failed to save exercise image: %s", err)
		http.Error(w, "error, failed to save image", http.StatusInternalServerError)
		return
	}

	if err := handler.service.AddImage(ctx, exerciseID, imageID); err != nil {
		log.Errorf("failed to link image %d to exercise %s: %s", imageID, exerciseID, err)
		http.Error(w, "error, failed to save image", http.StatusInternalServerError)
		return
	}

	uploadRespJson, err := json.Marshal(UploadImageResponse{
		ImageID: imageID,
	})
	if err != nil {
		log.Errorf("failed to marshal upload response: %s", err)
		http.Error(w, "failed to marshal upload response", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, uploadRespJson, http.StatusCreated)
}

func (handler *Handler) HandleGetImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.getImage")
	defer span.End()

	imageID, err := imageIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	image, err := handler.images.Get(ctx, imageID)
	if err != nil {
		if errors.Is(err, images.ErrImageNotFound) {
			http.Error(w, "image not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get image %d: %s", imageID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if image.Type != "" {
		w.Header().Set("Content-Type", image.Type)
	}
	http.ServeFile(w, r, image.Path)
}

func (handler *Handler) HandleDeleteImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.deleteImage")
	defer span.End()

	imageID, err := imageIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.images.Delete(ctx, imageID); err != nil {
		if errors.Is(err, images.ErrImageNotFound) {
			http.Error(w, "image not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete image %d: %s", imageID, err)
		http.Error(w, "image not deleted", http.StatusInternalServerError)
		return
	}

	if err := handler.service.DeleteImage(ctx, imageID); err != nil {
		log.Errorf("failed to unlink image %d: %s", imageID, err)
		http.Error(w, "image not deleted", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", imageID))
}

func imageIDFromRequest(r *http.Request) (int64, error) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		return 0, errors.New("error, id empty")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, errors.New("error, id NaN")
	}
	return id, nil
}

package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/repslog/server/internal/catalog"
	"github.com/repslog/server/internal/images"
	"github.com/repslog/server/internal/middleware"
	"github.com/repslog/server/internal/telemetry/metrics"
	"github.com/repslog/server/internal/telemetry/tracing"
	"github.com/repslog/server/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=transcriber_mocks_test.go -package=transcriber_test

type visionService interface {
	Transcribe(ctx context.Context, filename string, image io.Reader) (string, error)
	Labels(ctx context.Context, filename string, image io.Reader) ([]string, error)
}

type imagesStore interface {
	Save(ctx context.Context, params images.SaveParams) (int64, error)
}

type exercisesCatalog interface {
	List(ctx context.Context, params catalog.ListParams) ([]catalog.Exercise, error)
}

type TranscriptionResponse struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Workout     ParsedWorkout `json:"workout"`
	Exercises   []string      `json:"exercises"`
	ScanImageID int64         `json:"scanImageId"`
}

type EquipmentRecognitionResponse struct {
	Equipment []string `json:"equipment"`
	Labels    []string `json:"labels"`
}

type Handler struct {
	vision  visionService
	images  imagesStore
	catalog exercisesCatalog
	metrics *metrics.Manager
}

func NewHandler(
	vision visionService,
	imagesStore imagesStore,
	exercisesCatalog exercisesCatalog,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		vision:  vision,
		images:  imagesStore,
		catalog: exercisesCatalog,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	r *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	// vision calls are expensive, keep scan endpoints behind a rate limit
	limit := middleware.RateLimit(rateLimiter, "transcriptions", allowedPerMin, handler.metrics)
	r.Handle("/transcriptions", limit(http.HandlerFunc(handler.HandleTranscription))).Methods("POST", "OPTIONS").Name("new-transcription")
	r.Handle("/equipment/recognition", limit(http.HandlerFunc(handler.HandleEquipmentRecognition))).Methods("POST", "OPTIONS").Name("equipment-recognition")
}

func (handler *Handler) HandleTranscription(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.transcriber.new")
	defer span.End()

	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		log.Errorf("new transcription, get form file: %s", err)
		http.Error(w, "error, image file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		log.Errorf("new transcription, read image: %s", err)
		http.Error(w, "error, failed to read image", http.StatusBadRequest)
		return
	}

	// keep the original scan around, the client links back to it
	scanImageID, err := handler.images.Save(ctx, images.SaveParams{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		FileType: fileHeader.Header.Get("Content-Type"),
		File:     bytes.NewReader(imageBytes),
	})
	if err != nil {
		log.Errorf("failed to save workout scan: %s", err)
		http.Error(w, "error, failed to save scan", http.StatusInternalServerError)
		return
	}

	text, err := handler.vision.Transcribe(ctx, fileHeader.Filename, bytes.NewReader(imageBytes))
	if err != nil {
		log.Errorf("vision service transcribe: %s", err)
		http.Error(w, "error, transcription failed", http.StatusBadGateway)
		return
	}

	parsed := Parse(text)

	matchedExercises, err := handler.matchCatalogExercises(ctx, parsed)
	if err != nil {
		// matching is best effort, the parsed workout is still usable
		log.Errorf("failed to match transcribed exercises to catalog: %s", err)
		matchedExercises = []string{}
	}

	handler.metrics.CounterTranscriptions.Inc()

	transcriptionRespJson, err := json.Marshal(TranscriptionResponse{
		Title:       parsed.Title,
		Description: parsed.Description,
		Workout:     *parsed,
		Exercises:   matchedExercises,
		ScanImageID: scanImageID,
	})
	if err != nil {
		log.Errorf("failed to marshal transcription response: %s", err)
		http.Error(w, "failed to marshal transcription response", http.StatusInternalServerError)
		return
	}

	log.Debugf("workout scan %d transcribed, %d exercises", scanImageID, len(parsed.Exercises))
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, transcriptionRespJson, http.StatusOK)
}

func (handler *Handler) HandleEquipmentRecognition(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.transcriber.equipment")
	defer span.End()

	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		log.Errorf("equipment recognition, get form file: %s", err)
		http.Error(w, "error, image file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	labels, err := handler.vision.Labels(ctx, fileHeader.Filename, file)
	if err != nil {
		log.Errorf("vision service labels: %s", err)
		http.Error(w, "error, equipment recognition failed", http.StatusBadGateway)
		return
	}

	equipment := NormalizeEquipment(labels)
	if equipment == nil {
		equipment = []string{}
	}
	if labels == nil {
		labels = []string{}
	}

	recognitionRespJson, err := json.Marshal(EquipmentRecognitionResponse{
		Equipment: equipment,
		Labels:    labels,
	})
	if err != nil {
		log.Errorf("failed to marshal recognition response: %s", err)
		http.Error(w, "failed to marshal recognition response", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recognitionRespJson, http.StatusOK)
}

// matchCatalogExercises resolves parsed exercise names against the
// catalog by case-insensitive name match.
func (handler *Handler) matchCatalogExercises(ctx context.Context, parsed *ParsedWorkout) ([]string, error) {
	if len(parsed.Exercises) == 0 {
		return []string{}, nil
	}

	catalogExercises, err := handler.catalog.List(ctx, catalog.ListParams{})
	if err != nil {
		return nil, err
	}

	matched := []string{}
	for _, parsedExercise := range parsed.Exercises {
		parsedName := strings.ToLower(parsedExercise.Name)
		if parsedName == "" {
			continue
		}
		for _, catalogExercise := range catalogExercises {
			catalogName := strings.ToLower(catalogExercise.Name)
			if parsedName == catalogName || strings.Contains(parsedName, catalogName) {
				matched = append(matched, catalogExercise.Name)
				break
			}
		}
	}
	return matched, nil
}

package sharing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/repslog/server/internal/telemetry/tracing"
	"github.com/repslog/server/internal/workouts"
	"github.com/repslog/server/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=sharing_mocks_test.go -package=sharing_test

const shareTokenLength = 32

type shareLinksRepo interface {
	Add(ctx context.Context, link ShareLink) (*ShareLink, error)
	Get(ctx context.Context, token string) (*ShareLink, error)
	Delete(ctx context.Context, token string) error
}

type sessionsRepo interface {
	Get(ctx context.Context, id int) (*workouts.Session, error)
}

type ShareWorkoutRequest struct {
	ExpiresInHours int `json:"expiresInHours,omitempty"`
}

type ShareWorkoutResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type SharedWorkoutResponse struct {
	SharedAt time.Time        `json:"sharedAt"`
	Workout  workouts.Session `json:"workout"`
}

type Handler struct {
	repo     shareLinksRepo
	sessions sessionsRepo
	baseURL  string

	// RandStringFunc is here to be replaceable in tests
	RandStringFunc func(s int) (string, error)
	// NowFunc is here to be replaceable in tests
	NowFunc func() time.Time
}

func NewHandler(repo shareLinksRepo, sessions sessionsRepo, baseURL string) *Handler {
	return &Handler{
		repo:           repo,
		sessions:       sessions,
		baseURL:        baseURL,
		RandStringFunc: pkg.GenerateRandomString,
		NowFunc:        time.Now,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/workouts/{id}/share", handler.HandleShare).Methods("POST", "OPTIONS").Name("share-workout")
	r.HandleFunc("/share/{token}", handler.HandleGetShared).Methods("GET", "OPTIONS").Name("shared-workout")
	r.HandleFunc("/share/{token}", handler.HandleRevoke).Methods("DELETE", "OPTIONS").Name("revoke-share")
}

func (handler *Handler) HandleShare(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sharing.share")
	defer span.End()

	idStr := mux.Vars(r)["id"]
	sessionID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	var shareReq ShareWorkoutRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&shareReq); err != nil {
			log.Tracef("share workout, unmarshal json params: %s", err)
			http.Error(w, "share workout failed", http.StatusBadRequest)
			return
		}
	}
	if shareReq.ExpiresInHours < 0 {
		http.Error(w, "invalid expiry", http.StatusBadRequest)
		return
	}

	if _, err := handler.sessions.Get(ctx, sessionID); err != nil {
		if errors.Is(err, workouts.ErrSessionNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("share workout, get session %d: %s", sessionID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	token, err := handler.RandStringFunc(shareTokenLength)
	if err != nil {
		log.Errorf("failed to generate share token: %s", err)
		http.Error(w, "error, failed to share workout", http.StatusInternalServerError)
		return
	}

	link := ShareLink{
		Token:     token,
		SessionID: sessionID,
	}
	if shareReq.ExpiresInHours > 0 {
		expiresAt := handler.NowFunc().Add(time.Duration(shareReq.ExpiresInHours) * time.Hour)
		link.ExpiresAt = &expiresAt
	}

	addedLink, err := handler.repo.Add(ctx, link)
	if err != nil {
		log.Errorf("failed to store share link for session %d: %s", sessionID, err)
		http.Error(w, "error, failed to share workout", http.StatusInternalServerError)
		return
	}

	shareRespJson, err := json.Marshal(ShareWorkoutResponse{
		Token: addedLink.Token,
		URL:   fmt.Sprintf("%s/share/%s", handler.baseURL, addedLink.Token),
	})
	if err != nil {
		log.Errorf("failed to marshal share response: %s", err)
		http.Error(w, "failed to marshal share response", http.StatusInternalServerError)
		return
	}

	log.Debugf("workout %d shared: %s", sessionID, addedLink.Token)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, shareRespJson, http.StatusCreated)
}

// HandleGetShared serves the shared workout. No auth: the token is
// the capability. Unknown and expired tokens look the same.
func (handler *Handler) HandleGetShared(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sharing.get")
	defer span.End()

	token := mux.Vars(r)["token"]

	link, err := handler.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrShareLinkNotFound) {
			http.Error(w, "shared workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get share link: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if link.ExpiresAt != nil && link.ExpiresAt.Before(handler.NowFunc()) {
		http.Error(w, "shared workout not found", http.StatusNotFound)
		return
	}

	session, err := handler.sessions.Get(ctx, link.SessionID)
	if err != nil {
		if errors.Is(err, workouts.ErrSessionNotFound) {
			http.Error(w, "shared workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get shared session %d: %s", link.SessionID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	sharedRespJson, err := json.Marshal(SharedWorkoutResponse{
		SharedAt: link.CreatedAt,
		Workout:  *session,
	})
	if err != nil {
		log.Errorf("failed to marshal shared workout: %s", err)
		http.Error(w, "failed to marshal shared workout", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sharedRespJson, http.StatusOK)
}

func (handler *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sharing.revoke")
	defer span.End()

	token := mux.Vars(r)["token"]

	if err := handler.repo.Delete(ctx, token); err != nil {
		if errors.Is(err, ErrShareLinkNotFound) {
			http.Error(w, "share link not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to revoke share link: %s", err)
		http.Error(w, "error, failed to revoke share link", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "revoked")
}

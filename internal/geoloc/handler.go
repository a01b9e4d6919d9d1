package geoloc

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/repslog/server/internal/profiles"
	"github.com/repslog/server/internal/telemetry/tracing"
	"github.com/repslog/server/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=geoloc_test

type countryResolver interface {
	Country(ctx context.Context, userIP string) (string, error)
}

type OnboardingDefaultsResponse struct {
	Country    string `json:"country,omitempty"`
	UnitSystem string `json:"unitSystem"`
}

type Handler struct {
	resolver countryResolver
}

func NewHandler(resolver countryResolver) *Handler {
	return &Handler{
		resolver: resolver,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/onboarding/defaults", handler.HandleOnboardingDefaults).Methods("GET", "OPTIONS").Name("onboarding-defaults")
}

// HandleOnboardingDefaults suggests locale defaults for the onboarding
// wizard. Lookup failures are not the client's problem, it just gets
// the metric fallback.
func (handler *Handler) HandleOnboardingDefaults(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.geoloc.onboardingdefaults")
	defer span.End()

	metricFallback := OnboardingDefaultsResponse{
		UnitSystem: profiles.UnitSystemMetric,
	}

	userIP, err := pkg.ReadUserIP(r)
	if err != nil || userIP == "localhost" {
		handler.writeDefaults(w, metricFallback)
		return
	}

	country, err := handler.resolver.Country(ctx, userIP)
	if err != nil {
		log.Errorf("onboarding defaults, resolve country for %s: %s", userIP, err)
		handler.writeDefaults(w, metricFallback)
		return
	}

	handler.writeDefaults(w, OnboardingDefaultsResponse{
		Country:    country,
		UnitSystem: UnitSystemForCountry(country),
	})
}

func (handler *Handler) writeDefaults(w http.ResponseWriter, defaults OnboardingDefaultsResponse) {
	defaultsJson, err := json.Marshal(defaults)
	if err != nil {
		log.Errorf("failed to marshal onboarding defaults: %s", err)
		http.Error(w, "failed to marshal onboarding defaults", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, defaultsJson, http.StatusOK)
}

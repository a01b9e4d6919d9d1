package geoloc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/repslog/server/internal/profiles"
	"github.com/repslog/server/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"github.com/ipinfo/go/v2/ipinfo"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=geoloc_mocks_test.go -package=geoloc_test

// countryCacheExpiration: country-per-IP barely ever changes, but the
// ipinfo free plan is metered, so cache lookups for a while.
const countryCacheExpiration = 6 * time.Hour

// imperialCountries: the three countries that never metricated.
var imperialCountries = map[string]struct{}{
	"US": {},
	"LR": {},
	"MM": {},
}

// UnitSystemForCountry maps an ISO 3166-1 alpha-2 country code to the
// measurement unit system the onboarding wizard should preselect.
func UnitSystemForCountry(country string) string {
	if _, ok := imperialCountries[country]; ok {
		return profiles.UnitSystemImperial
	}
	return profiles.UnitSystemMetric
}

type ipInfoClient interface {
	GetIPInfo(ip net.IP) (*ipinfo.Core, error)
}

type Service struct {
	ipInfo      ipInfoClient
	redisClient *redis.Client
}

func NewService(ipInfo ipInfoClient, redisClient *redis.Client) *Service {
	return &Service{
		ipInfo:      ipInfo,
		redisClient: redisClient,
	}
}

// Country resolves the ISO country code for the given IP, going
// through the redis cache first.
func (s *Service) Country(ctx context.Context, userIP string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geoloc.country")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.ip", userIP))

	ip := net.ParseIP(userIP)
	if ip == nil {
		return "", fmt.Errorf("ip addr %s is invalid", userIP)
	}

	countryKey := fmt.Sprintf("geoloc::%s", userIP)
	cmd := s.redisClient.Get(ctx, countryKey)
	if country := cmd.Val(); country != "" {
		span.SetAttributes(attribute.Bool("country.from-cache", true))
		log.Tracef("found country for [%s] in redis cache", userIP)
		return country, nil
	}
	span.SetAttributes(attribute.Bool("country.from-cache", false))

	info, err := s.ipInfo.GetIPInfo(ip)
	if err != nil {
		return "", fmt.Errorf("get ip info: %w", err)
	}

	if cmdSet := s.redisClient.Set(ctx, countryKey, info.Country, countryCacheExpiration); cmdSet.Err() != nil {
		log.Errorf("failed to cache country in redis for %s: %s", userIP, cmdSet.Err())
	}

	return info.Country, nil
}

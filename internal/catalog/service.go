package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/repslog/server/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=catalog_mocks_test.go -package=catalog_test

type exercisesRepo interface {
	Add(ctx context.Context, exercise Exercise) (*Exercise, error)
	Get(ctx context.Context, id string) (*Exercise, error)
	Update(ctx context.Context, exercise *Exercise) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListParams) ([]Exercise, error)
	AddImage(ctx context.Context, exerciseID string, imageID int64) error
	DeleteImage(ctx context.Context, imageID int64) error
}

const (
	oneMinute         = 60
	listCacheExpire   = 5 * oneMinute // seconds
	listCacheSizeMegs = 10
)

// Service fronts the exercises repo with a short-lived list cache.
// The catalog changes rarely (admin edits only), so every mutation
// simply clears the whole cache instead of tracking keys.
type Service struct {
	repo  exercisesRepo
	cache *freecache.Cache
}

func NewService(repo exercisesRepo) *Service {
	megabyte := 1024 * 1024
	return &Service{
		repo:  repo,
		cache: freecache.NewCache(listCacheSizeMegs * megabyte),
	}
}

func (s *Service) Add(ctx context.Context, exercise Exercise) (*Exercise, error) {
	added, err := s.repo.Add(ctx, exercise)
	if err != nil {
		return nil, err
	}
	s.InvalidateCache()
	return added, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Exercise, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, exercise *Exercise) error {
	if err := s.repo.Update(ctx, exercise); err != nil {
		return err
	}
	s.InvalidateCache()
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.InvalidateCache()
	return nil
}

func (s *Service) List(ctx context.Context, params ListParams) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalogService.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cacheKey := []byte(fmt.Sprintf("list::%s::%s::%s", params.MuscleGroup, params.Equipment, params.Search))
	if cachedBytes, err := s.cache.Get(cacheKey); err == nil {
		var exercises []Exercise
		if err := json.Unmarshal(cachedBytes, &exercises); err == nil {
			log.Tracef("exercises list served from cache: %s", cacheKey)
			return exercises, nil
		}
		log.Errorf("failed to unmarshal cached exercises list: %s", err)
	}

	exercises, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	exercisesJson, err := json.Marshal(exercises)
	if err != nil {
		log.Errorf("failed to marshal exercises list for cache: %s", err)
		return exercises, nil
	}
	if err := s.cache.Set(cacheKey, exercisesJson, listCacheExpire); err != nil {
		log.Errorf("failed to set exercises list cache: %s", err)
	}

	return exercises, nil
}

func (s *Service) AddImage(ctx context.Context, exerciseID string, imageID int64) error {
	return s.repo.AddImage(ctx, exerciseID, imageID)
}

func (s *Service) DeleteImage(ctx context.Context, imageID int64) error {
	return s.repo.DeleteImage(ctx, imageID)
}

func (s *Service) InvalidateCache() {
	s.cache.Clear()
}

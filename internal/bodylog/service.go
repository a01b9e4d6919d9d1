package bodylog

import (
	"context"
	"fmt"

	"github.com/repslog/server/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=bodylog_mocks_test.go -package=bodylog_test

type eventsRepo interface {
	Add(ctx context.Context, event Event) (*Event, error)
	Get(ctx context.Context, id int) (*Event, error)
	List(ctx context.Context, params ListParams) ([]*Event, error)
	Count(ctx context.Context, params EventParams) (int, error)
	Delete(ctx context.Context, id int) error
}

type Service struct {
	repo eventsRepo
}

func NewService(repo eventsRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) AddWeightReport(ctx context.Context, wr WeightReport) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.bodylog.add.weightreport")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	wrEvent := NewWeightReportEvent(wr)
	event, err := s.repo.Add(ctx, wrEvent)
	if err != nil {
		return 0, fmt.Errorf("add weight report event: %w", err)
	}
	return event.ID, nil
}

func (s *Service) AddSorenessReport(ctx context.Context, sr SorenessReport) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.bodylog.add.sorenessreport")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	srEvent := NewSorenessReportEvent(sr)
	event, err := s.repo.Add(ctx, srEvent)
	if err != nil {
		return 0, fmt.Errorf("add soreness report event: %w", err)
	}
	return event.ID, nil
}

func (s *Service) List(ctx context.Context, params ListParams) (_ []*Event, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.bodylog.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	total, err = s.repo.Count(ctx, params.EventParams)
	if err != nil {
		return nil, 0, fmt.Errorf("count body events: %w", err)
	}

	events, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list body events: %w", err)
	}
	return events, total, nil
}

func (s *Service) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.bodylog.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.repo.Delete(ctx, id)
}

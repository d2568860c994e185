package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/midgardbridge/dealreport/internal/logger"
	"github.com/midgardbridge/dealreport/internal/repos"
	"github.com/midgardbridge/dealreport/internal/types"
)

// reportListWindow bounds how far back the producer-facing listing reaches.
const reportListWindow = 30 * 24 * time.Hour

// ResolutionUpdate carries the reviewer's verdict on a report: a new status,
// optionally a corrected expected range and/or an alternative bid.
type ResolutionUpdate struct {
	Status         string
	NewExpectedMin *int
	NewExpectedMax *int
	AlternativeBid string
}

type ReportService interface {
	// SaveReport persists one violation unless its dedup tuple already
	// exists or required fields are missing; both cases return (nil, nil).
	SaveReport(ctx context.Context, tx *gorm.DB, report *types.Report) (*types.Report, error)
	ListReports(ctx context.Context, status string) ([]*types.Report, error)
	UpdateResolution(ctx context.Context, id uuid.UUID, update ResolutionUpdate) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type reportService struct {
	db         *gorm.DB
	log        *logger.Logger
	reportRepo repos.ReportRepo
}

func NewReportService(db *gorm.DB, log *logger.Logger, reportRepo repos.ReportRepo) ReportService {
	return &reportService{
		db:         db,
		log:        log.With("service", "ReportService"),
		reportRepo: reportRepo,
	}
}

func (s *reportService) SaveReport(ctx context.Context, tx *gorm.DB, report *types.Report) (*types.Report, error) {
	// Required fields first, then the duplicate query, then the insert.
	if report == nil || report.Distribution == "" || report.Bids == "" || report.Parameter == "" {
		s.log.Warn("Invalid report data, skipping save", "report", report)
		return nil, nil
	}

	exists, err := s.reportRepo.Exists(ctx, tx, repos.DedupKey{
		Distribution:           report.Distribution,
		Bids:                   report.Bids,
		ConventionsBids:        report.ConventionsBids,
		ConventionsProfileBids: report.ConventionsProfileBids,
		Parameter:              report.Parameter,
	})
	if err != nil {
		return nil, err
	}
	if exists {
		s.log.Info("Report skipped: identical sequence already recorded for the same conventions system",
			"distribution", report.Distribution, "parameter", report.Parameter)
		return nil, nil
	}

	return s.reportRepo.Create(ctx, tx, report)
}

func (s *reportService) ListReports(ctx context.Context, status string) ([]*types.Report, error) {
	cutoff := time.Now().Add(-reportListWindow)
	return s.reportRepo.ListSince(ctx, nil, status, cutoff)
}

func (s *reportService) UpdateResolution(ctx context.Context, id uuid.UUID, update ResolutionUpdate) error {
	if _, err := s.reportRepo.GetByID(ctx, nil, id); err != nil {
		return err
	}
	return s.reportRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
		"status":           update.Status,
		"new_expected_min": update.NewExpectedMin,
		"new_expected_max": update.NewExpectedMax,
		"alternative_bid":  update.AlternativeBid,
	})
}

func (s *reportService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if _, err := s.reportRepo.GetByID(ctx, nil, id); err != nil {
		return err
	}
	return s.reportRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
		"status": status,
	})
}

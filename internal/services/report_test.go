package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/midgardbridge/dealreport/internal/logger"
	"github.com/midgardbridge/dealreport/internal/repos"
	"github.com/midgardbridge/dealreport/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A pooled second connection to :memory: would see an empty database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&types.GenerationRequest{}, &types.Report{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func newReportService(t *testing.T) (ReportService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	return NewReportService(db, log, repos.NewReportRepo(db, log)), db
}

func violationReport() *types.Report {
	return &types.Report{
		Dealer:                 "S",
		Vulnerability:          "EW",
		Distribution:           "N:AQ95.632.KJ4.T82 E:KJT.AQJ95.32.Q93 S:87632.T4.AT96.54 W:4.K87.Q875.AKJ76",
		Bids:                   "1S",
		ProblematicBidIdx:      1,
		ConventionsBids:        "SEF",
		ConventionsProfileBids: "SEF_PROFILE",
		Parameter:              types.ParameterSpade,
		ExpectedMin:            5,
		ExpectedMax:            7,
		Tolerance:              2,
		ActualValue:            2,
		Gap:                    1,
	}
}

func countReports(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&types.Report{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return count
}

func TestSaveReportIdempotent(t *testing.T) {
	svc, db := newReportService(t)
	ctx := context.Background()

	first, err := svc.SaveReport(ctx, nil, violationReport())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first == nil {
		t.Fatalf("first save returned nil, want stored report")
	}

	second, err := svc.SaveReport(ctx, nil, violationReport())
	if err != nil {
		t.Fatalf("duplicate save: %v", err)
	}
	if second != nil {
		t.Fatalf("duplicate save returned %+v, want nil skip", second)
	}
	if got := countReports(t, db); got != 1 {
		t.Fatalf("table holds %d reports, want exactly 1", got)
	}
}

func TestSaveReportSkipsInvalidData(t *testing.T) {
	svc, db := newReportService(t)
	ctx := context.Background()

	for _, mutate := range []func(*types.Report){
		func(r *types.Report) { r.Distribution = "" },
		func(r *types.Report) { r.Bids = "" },
		func(r *types.Report) { r.Parameter = "" },
	} {
		report := violationReport()
		mutate(report)
		stored, err := svc.SaveReport(ctx, nil, report)
		if err != nil {
			t.Fatalf("invalid report save errored: %v", err)
		}
		if stored != nil {
			t.Fatalf("invalid report was stored: %+v", stored)
		}
	}
	if got := countReports(t, db); got != 0 {
		t.Fatalf("table holds %d reports, want 0", got)
	}
}

func TestUpdateResolutionNotFound(t *testing.T) {
	svc, _ := newReportService(t)

	err := svc.UpdateResolution(context.Background(), uuid.New(), ResolutionUpdate{Status: types.ReportStatusConfirmed})
	if err != repos.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	err = svc.UpdateStatus(context.Background(), uuid.New(), types.ReportStatusRejected)
	if err != repos.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateResolutionPersistsVerdict(t *testing.T) {
	svc, db := newReportService(t)
	ctx := context.Background()

	stored, err := svc.SaveReport(ctx, nil, violationReport())
	if err != nil || stored == nil {
		t.Fatalf("save: %v %v", stored, err)
	}

	newMin, newMax := 4, 6
	err = svc.UpdateResolution(ctx, stored.ID, ResolutionUpdate{
		Status:         types.ReportStatusFixed,
		NewExpectedMin: &newMin,
		NewExpectedMax: &newMax,
		AlternativeBid: "P",
	})
	if err != nil {
		t.Fatalf("update resolution: %v", err)
	}

	var got types.Report
	if err := db.First(&got, "id = ?", stored.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != types.ReportStatusFixed || got.NewExpectedMin == nil || *got.NewExpectedMin != 4 || got.AlternativeBid != "P" {
		t.Fatalf("resolution not persisted: %+v", got)
	}
}

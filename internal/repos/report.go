package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/midgardbridge/dealreport/internal/logger"
	"github.com/midgardbridge/dealreport/internal/types"
)

// DedupKey identifies a report up to the values that make it a duplicate:
// same distribution, same bid sequence through the offending bid, same
// convention pair, same parameter.
type DedupKey struct {
	Distribution           string
	Bids                   string
	ConventionsBids        string
	ConventionsProfileBids string
	Parameter              string
}

type ReportRepo interface {
	Create(ctx context.Context, tx *gorm.DB, report *types.Report) (*types.Report, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Report, error)
	Exists(ctx context.Context, tx *gorm.DB, key DedupKey) (bool, error)
	ListSince(ctx context.Context, tx *gorm.DB, status string, cutoff time.Time) ([]*types.Report, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type reportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) ReportRepo {
	return &reportRepo{
		db:  db,
		log: baseLog.With("repo", "ReportRepo"),
	}
}

func (r *reportRepo) Create(ctx context.Context, tx *gorm.DB, report *types.Report) (*types.Report, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.Status == "" {
		report.Status = types.ReportStatusNew
	}
	if err := transaction.WithContext(ctx).Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func (r *reportRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Report, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var report types.Report
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) Exists(ctx context.Context, tx *gorm.DB, key DedupKey) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Report{}).
		Where("distribution = ? AND bids = ? AND conventions_bids = ? AND conventions_profile_bids = ? AND parameter = ?",
			key.Distribution, key.Bids, key.ConventionsBids, key.ConventionsProfileBids, key.Parameter).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reportRepo) ListSince(ctx context.Context, tx *gorm.DB, status string, cutoff time.Time) ([]*types.Report, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.Report{}).
		Where("created_at >= ?", cutoff)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []*types.Report
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reportRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return transaction.WithContext(ctx).
		Model(&types.Report{}).
		Where("id = ?", id).
		Updates(updates).Error
}

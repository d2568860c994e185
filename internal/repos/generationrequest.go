package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/midgardbridge/dealreport/internal/logger"
	"github.com/midgardbridge/dealreport/internal/types"
)

type GenerationRequestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, req *types.GenerationRequest) (*types.GenerationRequest, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GenerationRequest, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.GenerationRequest, error)
	CountRunning(ctx context.Context, tx *gorm.DB) (int64, error)
	// ClaimOldestPending atomically transitions the oldest PENDING request to
	// RUNNING and returns it, or returns nil when nothing is pending.
	ClaimOldestPending(ctx context.Context, tx *gorm.DB) (*types.GenerationRequest, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, summary datatypes.JSON) error
	MarkError(ctx context.Context, tx *gorm.DB, id uuid.UUID, cause string) error
}

type generationRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationRequestRepo(db *gorm.DB, baseLog *logger.Logger) GenerationRequestRepo {
	return &generationRequestRepo{
		db:  db,
		log: baseLog.With("repo", "GenerationRequestRepo"),
	}
}

func (r *generationRequestRepo) Create(ctx context.Context, tx *gorm.DB, req *types.GenerationRequest) (*types.GenerationRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = types.RequestStatusPending
	}
	if err := transaction.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (r *generationRequestRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GenerationRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var req types.GenerationRequest
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *generationRequestRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.GenerationRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.GenerationRequest
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *generationRequestRepo) CountRunning(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.GenerationRequest{}).
		Where("status = ?", types.RequestStatusRunning).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *generationRequestRepo) ClaimOldestPending(ctx context.Context, tx *gorm.DB) (*types.GenerationRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var claimed *types.GenerationRequest
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		var req types.GenerationRequest
		q := txx.Where("status = ?", types.RequestStatusPending).
			Order("created_at ASC")
		// SKIP LOCKED keeps a second runner instance from claiming the same
		// row; sqlite (tests) has no row locks.
		if txx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		qErr := q.First(&req).Error
		if errors.Is(qErr, gorm.ErrRecordNotFound) {
			return nil
		}
		if qErr != nil {
			return qErr
		}
		uErr := txx.Model(&types.GenerationRequest{}).
			Where("id = ?", req.ID).
			Updates(map[string]interface{}{
				"status":     types.RequestStatusRunning,
				"updated_at": time.Now(),
			}).Error
		if uErr != nil {
			return uErr
		}
		req.Status = types.RequestStatusRunning
		claimed = &req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *generationRequestRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.GenerationRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *generationRequestRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, summary datatypes.JSON) error {
	updates := map[string]interface{}{
		"status": types.RequestStatusCompleted,
	}
	if summary != nil {
		updates["summary"] = summary
	}
	return r.UpdateFields(ctx, tx, id, updates)
}

func (r *generationRequestRepo) MarkError(ctx context.Context, tx *gorm.DB, id uuid.UUID, cause string) error {
	return r.UpdateFields(ctx, tx, id, map[string]interface{}{
		"status": types.RequestStatusError,
		"error":  cause,
	})
}

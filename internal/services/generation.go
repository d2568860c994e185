package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/midgardbridge/dealreport/internal/logger"
	"github.com/midgardbridge/dealreport/internal/repos"
	"github.com/midgardbridge/dealreport/internal/types"
)

// CreateRequestParams mirrors the producer's create-generation payload.
type CreateRequestParams struct {
	DealCount              int
	ConventionsBids        string
	ConventionsProfileBids string
	SuitTolerance          int
	HCPTolerance           int
	BidIndexMin            int
	BidIndexMax            int
}

type GenerationService interface {
	CreateRequest(ctx context.Context, params CreateRequestParams) (*types.GenerationRequest, error)
	ListRequests(ctx context.Context) ([]*types.GenerationRequest, error)
}

type generationService struct {
	db          *gorm.DB
	log         *logger.Logger
	requestRepo repos.GenerationRequestRepo
}

func NewGenerationService(db *gorm.DB, log *logger.Logger, requestRepo repos.GenerationRequestRepo) GenerationService {
	return &generationService{
		db:          db,
		log:         log.With("service", "GenerationService"),
		requestRepo: requestRepo,
	}
}

func validateCreateRequest(params CreateRequestParams) error {
	if params.DealCount <= 0 {
		return fmt.Errorf("dealNb must be positive, got %d", params.DealCount)
	}
	if params.SuitTolerance < 0 || params.HCPTolerance < 0 {
		return fmt.Errorf("tolerances must be non-negative")
	}
	if params.BidIndexMin < -1 || params.BidIndexMax < -1 {
		return fmt.Errorf("bid index bounds must be >= -1")
	}
	if params.BidIndexMin != -1 && params.BidIndexMax != -1 && params.BidIndexMin > params.BidIndexMax {
		return fmt.Errorf("bid index min %d exceeds max %d", params.BidIndexMin, params.BidIndexMax)
	}
	return nil
}

func (s *generationService) CreateRequest(ctx context.Context, params CreateRequestParams) (*types.GenerationRequest, error) {
	if err := validateCreateRequest(params); err != nil {
		return nil, err
	}
	req := &types.GenerationRequest{
		DealCount:              params.DealCount,
		ConventionsBids:        params.ConventionsBids,
		ConventionsProfileBids: params.ConventionsProfileBids,
		SuitTolerance:          params.SuitTolerance,
		HCPTolerance:           params.HCPTolerance,
		BidIndexMin:            params.BidIndexMin,
		BidIndexMax:            params.BidIndexMax,
		Status:                 types.RequestStatusPending,
	}
	stored, err := s.requestRepo.Create(ctx, nil, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("Generation request queued", "request_id", stored.ID, "deal_nb", stored.DealCount)
	return stored, nil
}

func (s *generationService) ListRequests(ctx context.Context) ([]*types.GenerationRequest, error) {
	return s.requestRepo.List(ctx, nil)
}

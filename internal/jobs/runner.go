package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/midgardbridge/dealreport/internal/bridge"
	"github.com/midgardbridge/dealreport/internal/logger"
	"github.com/midgardbridge/dealreport/internal/repos"
	"github.com/midgardbridge/dealreport/internal/services"
	"github.com/midgardbridge/dealreport/internal/types"
)

// Config holds the scheduler knobs. ConcurrencyLimit is the admission
// ceiling on RUNNING requests; the whole dedup design assumes it stays 1.
type Config struct {
	Interval         time.Duration
	ConcurrencyLimit int64
}

// Runner claims pending generation requests one per tick and drives the full
// batch of deal simulations for each. Ticks never overlap: a trigger that
// fires while the previous tick is still executing is skipped, not queued.
type Runner struct {
	db          *gorm.DB
	log         *logger.Logger
	requestRepo repos.GenerationRequestRepo
	simulator   *services.Simulator
	reports     services.ReportService
	cfg         Config

	inFlight atomic.Bool
	newDeal  func() *bridge.Deal
}

func NewRunner(db *gorm.DB, baseLog *logger.Logger, requestRepo repos.GenerationRequestRepo, simulator *services.Simulator, reports services.ReportService, cfg Config) *Runner {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.ConcurrencyLimit <= 0 {
		cfg.ConcurrencyLimit = 1
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Runner{
		db:          db,
		log:         baseLog.With("component", "GenerationRunner"),
		requestRepo: requestRepo,
		simulator:   simulator,
		reports:     reports,
		cfg:         cfg,
		newDeal:     func() *bridge.Deal { return bridge.RandomDeal(rng) },
	}
}

func (r *Runner) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				go r.tick(ctx)
			}
		}
	}()
}

// tick is the prevent-overrun gate around one scheduling pass.
func (r *Runner) tick(ctx context.Context) {
	if !r.inFlight.CompareAndSwap(false, true) {
		r.log.Debug("Previous tick still executing, skipping trigger")
		return
	}
	defer r.inFlight.Store(false)
	r.runOnce(ctx)
}

// runOnce performs a single scheduling pass: admission check, claim, batch.
func (r *Runner) runOnce(ctx context.Context) {
	running, err := r.requestRepo.CountRunning(ctx, nil)
	if err != nil {
		r.log.Warn("CountRunning failed", "error", err)
		return
	}
	if running >= r.cfg.ConcurrencyLimit {
		return
	}

	req, err := r.requestRepo.ClaimOldestPending(ctx, nil)
	if err != nil {
		r.log.Warn("ClaimOldestPending failed", "error", err)
		return
	}
	if req == nil {
		return
	}

	r.log.Info("Running report generation", "request_id", req.ID, "deal_nb", req.DealCount)
	if err := r.generateReports(ctx, req); err != nil {
		r.log.Error("Report generation failed", "request_id", req.ID, "error", err)
		if markErr := r.requestRepo.MarkError(ctx, nil, req.ID, err.Error()); markErr != nil {
			// The request stays RUNNING until an operator requeues it.
			r.log.Error("Failed to mark request as ERROR", "request_id", req.ID, "error", markErr)
		}
	}
}

type batchSummary struct {
	Deals               int `json:"deals"`
	DealsFailed         int `json:"dealsFailed"`
	DealsWithViolations int `json:"dealsWithViolations"`
	ReportsWritten      int `json:"reportsWritten"`
}

// generateReports runs the request's deals sequentially, in index order.
// A failure inside one deal abandons only that deal; an error returned here
// is request-fatal and the caller marks the request ERROR.
func (r *Runner) generateReports(ctx context.Context, req *types.GenerationRequest) error {
	params := services.SimulationParams{
		ConventionsBids:        req.ConventionsBids,
		ConventionsProfileBids: req.ConventionsProfileBids,
		SuitTolerance:          req.SuitTolerance,
		HCPTolerance:           req.HCPTolerance,
		BidIndexMin:            req.BidIndexMin,
		BidIndexMax:            req.BidIndexMax,
	}

	summary := batchSummary{}
	for i := 0; i < req.DealCount; i++ {
		deal := r.newDeal()
		outcome := r.simulator.Run(ctx, deal, params)
		summary.Deals++
		if outcome.Err != nil {
			r.log.Error("Error processing deal", "request_id", req.ID, "deal", i+1, "error", outcome.Err)
			summary.DealsFailed++
			continue
		}
		if len(outcome.Violations) == 0 {
			continue
		}

		summary.DealsWithViolations++
		dealFailed := false
		for _, v := range outcome.Violations {
			stored, err := r.reports.SaveReport(ctx, nil, &types.Report{
				Dealer:                 deal.Dealer.Name(),
				Vulnerability:          deal.Vulnerability,
				Distribution:           deal.DistributionString(),
				Bids:                   outcome.Bids,
				ProblematicBidIdx:      outcome.OffendingBidIdx,
				ConventionsBids:        req.ConventionsBids,
				ConventionsProfileBids: req.ConventionsProfileBids,
				Parameter:              v.Parameter,
				ExpectedMin:            v.Expected.Min,
				ExpectedMax:            v.Expected.Max,
				Tolerance:              v.Tolerance,
				ActualValue:            v.ActualValue,
				Gap:                    v.Gap,
			})
			if err != nil {
				r.log.Error("Error saving report", "request_id", req.ID, "deal", i+1, "error", err)
				summary.DealsFailed++
				dealFailed = true
				break
			}
			if stored != nil {
				summary.ReportsWritten++
			}
		}
		if !dealFailed {
			r.log.Info("Report generated for deal", "request_id", req.ID, "distribution", deal.DistributionString())
		}
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal batch summary: %w", err)
	}
	if err := r.requestRepo.MarkCompleted(ctx, nil, req.ID, summaryJSON); err != nil {
		return fmt.Errorf("mark request completed: %w", err)
	}
	r.log.Info("Report generation completed", "request_id", req.ID,
		"deals", summary.Deals, "deals_failed", summary.DealsFailed, "reports_written", summary.ReportsWritten)
	return nil
}

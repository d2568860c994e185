package services

import (
	"context"

	"github.com/midgardbridge/dealreport/internal/bridge"
	"github.com/midgardbridge/dealreport/internal/logger"
	"github.com/midgardbridge/dealreport/internal/types"
)

// SimulationParams are the per-request knobs a deal is simulated under.
// BidIndexMin/Max bound the evaluated window, -1 meaning unbounded on that
// side; bids outside the window still advance the auction.
type SimulationParams struct {
	ConventionsBids        string
	ConventionsProfileBids string
	SuitTolerance          int
	HCPTolerance           int
	BidIndexMin            int
	BidIndexMax            int
}

// DealOutcome is the result of simulating one deal. Exactly one of the two
// shapes occurs: Err set (transient oracle failure, the deal is abandoned),
// or Err nil with zero or more violations all coming from the single
// offending bid at which the simulation stopped.
type DealOutcome struct {
	Violations      []types.Violation
	OffendingBidIdx int    // 1-based position of the offending bid
	Bids            string // sequence truncated exactly at the offending bid
	Err             error
}

type Simulator struct {
	log    *logger.Logger
	oracle ArgineClient
}

func NewSimulator(log *logger.Logger, oracle ArgineClient) *Simulator {
	return &Simulator{
		log:    log.With("service", "Simulator"),
		oracle: oracle,
	}
}

// Run drives one deal forward bid by bid through the oracle. It stops when
// the auction naturally concludes, when the upper bound of the bid-index
// window is passed, or at the first bid that yields any violation: later
// bids of a compromised deal would only cascade the same mismatch.
func (s *Simulator) Run(ctx context.Context, deal *bridge.Deal, params SimulationParams) DealOutcome {
	for !deal.AuctionFinished() {
		idx := len(deal.Bids) // 0-based index of the bid about to be made
		if params.BidIndexMax != -1 && idx > params.BidIndexMax {
			break
		}

		next, err := s.oracle.GetNextBidWithInfo(ctx, ArgineQuery{
			Dealer:                 deal.Dealer.Name(),
			Vulnerability:          deal.Vulnerability,
			Distribution:           deal.DistributionString(),
			Bids:                   deal.BidsString(),
			ConventionsBids:        params.ConventionsBids,
			ConventionsProfileBids: params.ConventionsProfileBids,
		})
		if err != nil {
			return DealOutcome{Err: err}
		}

		if params.BidIndexMin == -1 || idx >= params.BidIndexMin {
			violations := CompareBidInfoToHand(next.BidInfo, deal.CurrentHand(), params.SuitTolerance, params.HCPTolerance)
			if len(violations) > 0 {
				return DealOutcome{
					Violations:      violations,
					OffendingBidIdx: idx + 1,
					Bids:            deal.BidsString() + next.Bid,
				}
			}
		}

		deal.AddBid(next.Bid)
	}
	return DealOutcome{}
}
